// Package directive resolves the raw attribute list attached to a field,
// variant, or union into a strongly typed directive set, and provides syntax
// helpers for directive expression payloads.
package directive

import (
	"fmt"

	"parsegen/internal/common"
	"parsegen/internal/schema"
)

// Kind enumerates the recognized directive kinds.
type Kind int

const (
	KindParse Kind = iota
	KindVerify
	KindCond
	KindCount
	KindSelector
	KindRepr
)

// String returns the directive keyword.
func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindVerify:
		return "verify"
	case KindCond:
		return "cond"
	case KindCount:
		return "count"
	case KindSelector:
		return "selector"
	case KindRepr:
		return "repr"
	default:
		return common.UnknownStr
	}
}

// kindByName maps attribute names to directive kinds.
var kindByName = map[string]Kind{
	"parse":    KindParse,
	"verify":   KindVerify,
	"cond":     KindCond,
	"count":    KindCount,
	"selector": KindSelector,
	"repr":     KindRepr,
}

// Resolution error codes.
const (
	CodeDuplicateDirective = "duplicate_directive"
	CodeUnsupportedLiteral = "unsupported_literal"
)

// Error is a directive resolution failure.
type Error struct {
	// Code is the configuration error code.
	Code string
	// Directive is the offending directive keyword.
	Directive string
	// Msg is the human-readable description.
	Msg string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] directive %q: %s", e.Code, e.Directive, e.Msg)
}

// Set is the resolved directive set for one field, variant, or union.
// At most one directive of each kind may be present.
type Set struct {
	// Parse is the explicit decoder expression.
	Parse string
	// Verify is the post-decode verification predicate.
	Verify string
	// Cond is the conditional-presence guard expression.
	Cond string
	// Count is the sequence repetition count expression.
	Count string
	// Selector is the variant match pattern, or the declared discriminant
	// type when attached to the union itself.
	Selector string
	// ReprWidth and ReprSigned describe the representation width hint.
	ReprWidth  int
	ReprSigned bool

	present map[Kind]bool
}

// Has reports whether a directive of the given kind was attached.
func (s *Set) Has(k Kind) bool {
	return s.present[k]
}

// Resolve builds a directive Set from a raw attribute list. Attribute order
// does not affect the result. Attribute names that are not recognized
// directives are returned in unknown for the caller to report; they are not
// errors (declarations may carry annotations for other tools).
func Resolve(attrs schema.AttrList) (set *Set, unknown []string, err error) {
	set = &Set{present: make(map[Kind]bool)}

	for _, a := range attrs {
		kind, ok := kindByName[a.Name]
		if !ok {
			unknown = append(unknown, a.Name)
			continue
		}

		if set.present[kind] {
			return nil, unknown, &Error{
				Code:      CodeDuplicateDirective,
				Directive: kind.String(),
				Msg:       "directive given more than once",
			}
		}

		set.present[kind] = true

		if err := set.assign(kind, a.Value); err != nil {
			return nil, unknown, err
		}
	}

	return set, unknown, nil
}

// assign stores one directive payload, validating its literal form.
func (s *Set) assign(kind Kind, value string) error {
	if value == "" {
		return &Error{
			Code:      CodeUnsupportedLiteral,
			Directive: kind.String(),
			Msg:       "directive requires a non-empty value",
		}
	}

	switch kind {
	case KindParse:
		s.Parse = value
	case KindVerify:
		s.Verify = value
	case KindCond:
		s.Cond = value
	case KindCount:
		s.Count = value
	case KindSelector:
		s.Selector = value
	case KindRepr:
		width, signed, ok := schema.PrimitiveByName(value)
		if !ok {
			return &Error{
				Code:      CodeUnsupportedLiteral,
				Directive: kind.String(),
				Msg:       fmt.Sprintf("%q is not a fixed-width integer type", value),
			}
		}

		s.ReprWidth = width
		s.ReprSigned = signed
	}

	return nil
}
