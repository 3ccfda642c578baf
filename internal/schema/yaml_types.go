package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"parsegen/internal/common"
)

// Union-level attribute names recognized as document keys.
const (
	attrSelector = "selector"
	attrRepr     = "repr"
)

// --- AttrList YAML methods ---

// UnmarshalYAML implements custom YAML unmarshaling for AttrList.
// Accepts a sequence of single-key maps:
//
//	directives:
//	  - cond: "a == 1"
//	  - verify: "b < 10"
func (l *AttrList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("expected directive list, got %v", node.Kind)
	}

	var attrs []Attr

	for _, item := range node.Content {
		attr, err := parseAttrFromMap(item)
		if err != nil {
			return err
		}

		attrs = append(attrs, attr)
	}

	*l = attrs

	return nil
}

// parseAttrFromMap parses a YAML mapping node like {cond: "a == 1"} into an Attr.
func parseAttrFromMap(node *yaml.Node) (Attr, error) {
	if node.Kind != yaml.MappingNode || len(node.Content) != 2 {
		return Attr{}, fmt.Errorf("expected single key-value map like {verify: expr}")
	}

	var name string
	if err := node.Content[0].Decode(&name); err != nil {
		return Attr{}, fmt.Errorf("invalid directive name: %w", err)
	}

	value := node.Content[1]
	if value.Kind != yaml.ScalarNode {
		return Attr{}, fmt.Errorf("directive %q: expected scalar value, got %v", name, value.Kind)
	}

	// Take the raw scalar text so numeric selector patterns like 0 survive
	// as strings.
	return Attr{Name: name, Value: value.Value}, nil
}

// MarshalYAML emits the sequence-of-single-key-maps form.
func (l AttrList) MarshalYAML() (any, error) {
	if common.IsEmpty(l) {
		return nil, nil
	}

	out := make([]any, len(l))
	for i, a := range l {
		out[i] = map[string]string{a.Name: a.Value}
	}

	return out, nil
}

// --- Field YAML methods ---

type fieldDoc struct {
	Name       string    `yaml:"name,omitempty"`
	Type       *TypeExpr `yaml:"type"`
	Directives AttrList  `yaml:"directives,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for Field.
// Accepts either a bare type expression (positional field shorthand) or a
// full mapping with name, type, and directives.
func (f *Field) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		t := &TypeExpr{}
		if err := t.UnmarshalYAML(node); err != nil {
			return err
		}

		*f = Field{Type: t}

		return nil

	case yaml.MappingNode:
		var doc fieldDoc
		if err := node.Decode(&doc); err != nil {
			return err
		}

		if doc.Type == nil {
			return fmt.Errorf("field %q has no type", doc.Name)
		}

		*f = Field{Name: doc.Name, Type: doc.Type, Attrs: doc.Directives}

		return nil

	default:
		return fmt.Errorf("expected type string or field map, got %v", node.Kind)
	}
}

// MarshalYAML emits the shorthand form for bare positional fields and the
// full map otherwise.
func (f Field) MarshalYAML() (any, error) {
	if f.Name == "" && common.IsEmpty(f.Attrs) {
		return f.Type.String(), nil
	}

	return fieldDoc{Name: f.Name, Type: f.Type, Directives: f.Attrs}, nil
}

// --- Union YAML methods ---

type unionDoc struct {
	Selector   *string   `yaml:"selector,omitempty"`
	Repr       *string   `yaml:"repr,omitempty"`
	Directives AttrList  `yaml:"directives,omitempty"`
	Variants   []Variant `yaml:"variants"`
}

// UnmarshalYAML implements custom YAML unmarshaling for Union. The selector
// and repr keys are convenience forms folded into the raw attribute list; the
// directive resolver treats them like any other attribute.
func (u *Union) UnmarshalYAML(node *yaml.Node) error {
	var doc unionDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}

	attrs := doc.Directives
	if doc.Selector != nil {
		attrs = append(attrs, Attr{Name: attrSelector, Value: *doc.Selector})
	}

	if doc.Repr != nil {
		attrs = append(attrs, Attr{Name: attrRepr, Value: *doc.Repr})
	}

	*u = Union{Attrs: attrs, Variants: doc.Variants}

	return nil
}

// MarshalYAML reconstructs the convenience keys from the attribute list.
func (u Union) MarshalYAML() (any, error) {
	doc := unionDoc{Variants: u.Variants}

	for _, a := range u.Attrs {
		switch a.Name {
		case attrSelector:
			v := a.Value
			doc.Selector = &v
		case attrRepr:
			v := a.Value
			doc.Repr = &v
		default:
			doc.Directives = append(doc.Directives, a)
		}
	}

	return doc, nil
}

// --- Variant YAML methods ---

type variantDoc struct {
	Name       string   `yaml:"name"`
	Selector   *string  `yaml:"selector,omitempty"`
	Value      *int64   `yaml:"value,omitempty"`
	Directives AttrList `yaml:"directives,omitempty"`
	Positional bool     `yaml:"positional,omitempty"`
	Fields     []Field  `yaml:"fields,omitempty"`
}

// UnmarshalYAML implements custom YAML unmarshaling for Variant. The selector
// key is a convenience form folded into the raw attribute list.
func (v *Variant) UnmarshalYAML(node *yaml.Node) error {
	var doc variantDoc
	if err := node.Decode(&doc); err != nil {
		return err
	}

	if doc.Name == "" {
		return fmt.Errorf("variant without a name")
	}

	attrs := doc.Directives
	if doc.Selector != nil {
		attrs = append(attrs, Attr{Name: attrSelector, Value: *doc.Selector})
	}

	*v = Variant{
		Name:         doc.Name,
		Attrs:        attrs,
		Discriminant: doc.Value,
		Record: Record{
			Positional: doc.Positional,
			Fields:     doc.Fields,
		},
	}

	return nil
}

// MarshalYAML reconstructs the convenience selector key.
func (v Variant) MarshalYAML() (any, error) {
	doc := variantDoc{
		Name:       v.Name,
		Value:      v.Discriminant,
		Positional: v.Record.Positional,
		Fields:     v.Record.Fields,
	}

	for _, a := range v.Attrs {
		if a.Name == attrSelector {
			val := a.Value
			doc.Selector = &val

			continue
		}

		doc.Directives = append(doc.Directives, a)
	}

	return doc, nil
}
