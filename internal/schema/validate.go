package schema

import (
	"fmt"

	"parsegen/internal/common"
	"parsegen/internal/diagnostic"
)

// Validate runs structural validation of a document against a populated
// registry. This is a pre-synthesis pass: it checks shape-level consistency
// (duplicate names, dangling Named references) and leaves directive semantics
// to the plan builder.
func Validate(doc *Document, reg *Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if doc == nil {
		res.AddError("document_is_nil", "schema document is nil", "", "")
		return res
	}

	if reg == nil {
		res.AddError("registry_is_nil", "type registry is nil", "", "")
		return res
	}

	for _, s := range doc.Schemas {
		validateSchema(res, reg, s)
	}

	return res
}

func validateSchema(res *diagnostic.Diagnostics, reg *Registry, s *Schema) {
	switch s.Kind {
	case KindRecord:
		validateRecord(res, reg, s.Name, s.Record, "")
		if common.IsEmpty(s.Record.Fields) {
			res.AddWarning("empty_record", "record has no fields", s.Name, "")
		}

	case KindUnion:
		if common.IsEmpty(s.Union.Variants) {
			res.AddError("empty_union", "union has no variants", s.Name, "")
			return
		}

		seen := map[string]bool{}

		for i := range s.Union.Variants {
			v := &s.Union.Variants[i]
			if seen[v.Name] {
				res.AddError("duplicate_variant",
					fmt.Sprintf("variant %q declared more than once", v.Name), s.Name, v.Name)
			}

			seen[v.Name] = true

			validateRecord(res, reg, s.Name, &v.Record, v.Name)
		}

	default:
		res.AddError("unknown_schema_kind", "schema has no recognized shape", s.Name, "")
	}
}

func validateRecord(res *diagnostic.Diagnostics, reg *Registry, schemaName string, rec *Record, variant string) {
	seen := map[string]bool{}

	for i := range rec.Fields {
		f := &rec.Fields[i]

		ident := f.Ident()
		if variant != "" {
			ident = variant + "." + ident
		}

		if f.Name != "" && seen[f.Name] {
			res.AddError("duplicate_field",
				fmt.Sprintf("field %q declared more than once", f.Name), schemaName, ident)
		}

		seen[f.Name] = true

		if !rec.Positional && f.Name == "" {
			res.AddError("unnamed_field", "named record has a field without a name", schemaName, ident)
		}

		if f.Type == nil {
			res.AddError("missing_type", "field has no declared type", schemaName, ident)
			continue
		}

		validateTypeRefs(res, reg, schemaName, ident, f.Type)
	}
}

// validateTypeRefs checks that every Named reference inside a type expression
// resolves against the registry.
func validateTypeRefs(res *diagnostic.Diagnostics, reg *Registry, schemaName, ident string, t *TypeExpr) {
	switch t.Kind {
	case TypeNamed:
		if reg.Lookup(t.Name) == nil {
			res.AddError("unresolved_named_type",
				fmt.Sprintf("named type %q is not registered", t.Name), schemaName, ident)
		}

	case TypeOptional, TypeSequence:
		validateTypeRefs(res, reg, schemaName, ident, t.Elem)
	}
}
