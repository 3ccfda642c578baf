package directive

import (
	"fmt"

	"github.com/expr-lang/expr/ast"
	"github.com/expr-lang/expr/parser"
)

// CheckExpr verifies that a directive expression payload is syntactically
// well-formed. Expressions are never evaluated during synthesis; decode-time
// evaluation belongs to the emitter.
func CheckExpr(src string) error {
	if _, err := parser.Parse(src); err != nil {
		return fmt.Errorf("invalid expression %q: %w", src, err)
	}

	return nil
}

// Idents parses an expression and returns the identifiers it references, in
// first-appearance order. Identifiers that appear as call targets (function
// names) are excluded: a count expression like min(a, b) references the
// fields a and b, not a decoder named min.
func Idents(src string) ([]string, error) {
	tree, err := parser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("invalid expression %q: %w", src, err)
	}

	// First pass: mark identifiers that are call callees.
	cv := &calleeVisitor{callees: make(map[*ast.IdentifierNode]bool)}
	ast.Walk(&tree.Node, cv)

	// Second pass: collect the remaining identifiers.
	iv := &identVisitor{callees: cv.callees, seen: make(map[string]bool)}
	ast.Walk(&tree.Node, iv)

	return iv.idents, nil
}

// calleeVisitor records identifier nodes used as function call targets.
type calleeVisitor struct {
	callees map[*ast.IdentifierNode]bool
}

func (v *calleeVisitor) Visit(node *ast.Node) {
	call, ok := (*node).(*ast.CallNode)
	if !ok {
		return
	}

	if ident, ok := call.Callee.(*ast.IdentifierNode); ok {
		v.callees[ident] = true
	}
}

// identVisitor collects identifier names, skipping callees and duplicates.
type identVisitor struct {
	callees map[*ast.IdentifierNode]bool
	seen    map[string]bool
	idents  []string
}

func (v *identVisitor) Visit(node *ast.Node) {
	ident, ok := (*node).(*ast.IdentifierNode)
	if !ok || v.callees[ident] {
		return
	}

	if v.seen[ident.Value] {
		return
	}

	v.seen[ident.Value] = true
	v.idents = append(v.idents, ident.Value)
}
