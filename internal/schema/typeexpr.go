package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"parsegen/internal/common"
)

// TypeKind enumerates the closed set of declared field types.
type TypeKind int

const (
	TypeUnknown TypeKind = iota
	TypePrimitive
	TypeOptional
	TypeSequence
	TypeNamed
)

// String returns a human-readable kind name.
func (k TypeKind) String() string {
	switch k {
	case TypePrimitive:
		return "primitive"
	case TypeOptional:
		return "optional"
	case TypeSequence:
		return "sequence"
	case TypeNamed:
		return "named"
	default:
		return common.UnknownStr
	}
}

// TypeExpr is a declared field type: a fixed-width integer, an optional or
// repeated wrapper around an inner type, or a reference to another schema.
type TypeExpr struct {
	Kind TypeKind

	// Width and Signed describe a primitive (Kind == TypePrimitive).
	Width  int
	Signed bool

	// Elem is the wrapped type for optionals and sequences.
	Elem *TypeExpr

	// Name is the referenced type identifier for named types.
	Name string
}

// primitiveNames maps recognized integer type names to width and signedness.
// Both Go-style and short-style names are accepted.
var primitiveNames = map[string]struct {
	width  int
	signed bool
}{
	"uint8":  {8, false},
	"uint16": {16, false},
	"uint32": {32, false},
	"uint64": {64, false},
	"int8":   {8, true},
	"int16":  {16, true},
	"int32":  {32, true},
	"int64":  {64, true},
	"u8":     {8, false},
	"u16":    {16, false},
	"u32":    {32, false},
	"u64":    {64, false},
	"i8":     {8, true},
	"i16":    {16, true},
	"i32":    {32, true},
	"i64":    {64, true},
}

// PrimitiveByName resolves a recognized fixed-width integer type name.
func PrimitiveByName(name string) (width int, signed bool, ok bool) {
	p, ok := primitiveNames[name]
	if !ok {
		return 0, false, false
	}

	return p.width, p.signed, true
}

// ParseTypeExpr parses a Go-flavored type expression string:
//
//	uint16      fixed-width primitive
//	*uint32     optional inner type
//	[]Item      sequence of inner type
//	Item        reference to another schema
func ParseTypeExpr(s string) (*TypeExpr, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty type expression")
	}

	switch {
	case strings.HasPrefix(s, "*"):
		inner, err := ParseTypeExpr(s[1:])
		if err != nil {
			return nil, err
		}

		return &TypeExpr{Kind: TypeOptional, Elem: inner}, nil

	case strings.HasPrefix(s, "[]"):
		inner, err := ParseTypeExpr(s[2:])
		if err != nil {
			return nil, err
		}

		return &TypeExpr{Kind: TypeSequence, Elem: inner}, nil
	}

	if width, signed, ok := PrimitiveByName(s); ok {
		return &TypeExpr{Kind: TypePrimitive, Width: width, Signed: signed}, nil
	}

	if !isIdent(s) {
		return nil, fmt.Errorf("invalid type expression %q", s)
	}

	return &TypeExpr{Kind: TypeNamed, Name: s}, nil
}

// isIdent reports whether s is a plain type identifier.
func isIdent(s string) bool {
	for i, r := range s {
		switch {
		case r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}

	return len(s) > 0
}

// String renders the type expression back to its textual form.
func (t *TypeExpr) String() string {
	switch t.Kind {
	case TypePrimitive:
		sign := "u"
		if t.Signed {
			sign = ""
		}

		return fmt.Sprintf("%sint%d", sign, t.Width)
	case TypeOptional:
		return "*" + t.Elem.String()
	case TypeSequence:
		return "[]" + t.Elem.String()
	case TypeNamed:
		return t.Name
	default:
		return common.UnknownStr
	}
}

// UnmarshalYAML parses a scalar type expression string.
func (t *TypeExpr) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("expected type expression string, got %v", node.Kind)
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := ParseTypeExpr(s)
	if err != nil {
		return err
	}

	*t = *parsed

	return nil
}

// MarshalYAML emits the textual form.
func (t *TypeExpr) MarshalYAML() (any, error) {
	return t.String(), nil
}
