package schema

import (
	"fmt"

	"parsegen/internal/common"
)

// Schema describes the shape of one decodable type: a record of fields or a
// tagged union of variants. Schemas are the input to plan synthesis and are
// never mutated after loading.
type Schema struct {
	// Name is the type identifier used for Named references.
	Name string `yaml:"name"`

	// Kind distinguishes record and union schemas. Derived from which of
	// Record/Union is set; not read from the document directly.
	Kind Kind `yaml:"-"`

	// Record is the record shape (Kind == KindRecord).
	Record *Record `yaml:"record,omitempty"`

	// Union is the union shape (Kind == KindUnion).
	Union *Union `yaml:"union,omitempty"`
}

// Kind represents the shape of a schema.
type Kind int

const (
	KindUnknown Kind = iota
	KindRecord
	KindUnion
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindRecord:
		return "record"
	case KindUnion:
		return "union"
	default:
		return common.UnknownStr
	}
}

// Record is an ordered product of fields.
type Record struct {
	// Positional marks records constructed by field position rather than name.
	Positional bool `yaml:"positional,omitempty"`

	// Fields in declaration order. Decode order follows this order.
	Fields []Field `yaml:"fields"`
}

// Field is one record member: a name (empty for positional fields), a
// declared type, and the raw directives attached to it.
type Field struct {
	Name  string    `yaml:"name,omitempty"`
	Type  *TypeExpr `yaml:"type"`
	Attrs AttrList  `yaml:"directives,omitempty"`

	// Index is the declaration position, assigned during normalization.
	Index int `yaml:"-"`
}

// Ident returns the field's identity for diagnostics: its name, or its
// declaration index for positional fields.
func (f *Field) Ident() string {
	if f.Name != "" {
		return f.Name
	}

	return fmt.Sprintf("#%d", f.Index)
}

// Union is an ordered set of variants selected by a discriminant value.
type Union struct {
	// Attrs holds union-level directives: the declared discriminant type
	// ("selector") and the representation width hint ("repr").
	Attrs AttrList `yaml:"-"`

	// Variants in declaration order.
	Variants []Variant `yaml:"variants"`
}

// Variant is one union alternative. Its fields form a nested record; a
// fieldless variant may carry an explicit discriminant value.
type Variant struct {
	Name  string   `yaml:"name"`
	Attrs AttrList `yaml:"-"`

	// Discriminant is the explicit fieldless-enum value, if declared.
	Discriminant *int64 `yaml:"value,omitempty"`

	Record Record `yaml:",inline"`
}

// Attr is one raw attribute attached to a field, variant, or union, before
// directive resolution. Name is the directive keyword, Value its payload.
type Attr struct {
	Name  string
	Value string
}

// AttrList is an ordered list of raw attributes.
type AttrList []Attr

// Get returns the value of the first attribute with the given name.
func (l AttrList) Get(name string) (string, bool) {
	for _, a := range l {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

// normalize derives Kind, assigns field indexes, and rejects malformed
// shapes (both or neither of record/union set).
func (s *Schema) normalize() error {
	if s.Name == "" {
		return fmt.Errorf("schema without a name")
	}

	switch {
	case s.Record != nil && s.Union != nil:
		return fmt.Errorf("schema %q declares both record and union shapes", s.Name)
	case s.Record != nil:
		s.Kind = KindRecord
		s.Record.assignIndexes()
	case s.Union != nil:
		s.Kind = KindUnion
		for i := range s.Union.Variants {
			s.Union.Variants[i].Record.assignIndexes()
		}
	default:
		return fmt.Errorf("schema %q declares neither record nor union shape", s.Name)
	}

	return nil
}

func (r *Record) assignIndexes() {
	for i := range r.Fields {
		r.Fields[i].Index = i
	}
}
