package plan

import (
	"errors"
	"fmt"

	"parsegen/internal/diagnostic"
	"parsegen/internal/directive"
	"parsegen/internal/schema"
)

// Builder synthesizes decode plans from schemas. Synthesis is a pure
// function of the schema and the sealed registry: building the same schema
// twice yields structurally identical plans, and independent builders may
// run concurrently over the same registry.
type Builder struct {
	registry *schema.Registry
}

// NewBuilder creates a Builder over a sealed registry.
func NewBuilder(reg *schema.Registry) *Builder {
	return &Builder{registry: reg}
}

// Build synthesizes the decode plan for one schema. All failures are
// configuration errors raised here, never at decode time; decode-time
// failure modes are encoded into the plan itself.
func (b *Builder) Build(s *schema.Schema) (*Plan, error) {
	if !b.registry.Sealed() {
		return nil, errors.New("registry must be sealed before building plans")
	}

	p := &Plan{Diagnostics: diagnostic.Diagnostics{}}

	switch s.Kind {
	case schema.KindRecord:
		rp, err := b.buildRecord(s.Name, s.Record, "", &p.Diagnostics)
		if err != nil {
			return nil, err
		}

		p.Record = rp

	case schema.KindUnion:
		up, err := b.buildUnion(s, &p.Diagnostics)
		if err != nil {
			return nil, err
		}

		p.Union = up

	default:
		return nil, fmt.Errorf("schema %q has no recognized shape", s.Name)
	}

	return p, nil
}

// buildRecord runs the field plan builder over every field in declaration
// order, threading forward the set of already-bound field names so that
// Cond/Count expressions can only reference earlier fields. The variant
// argument qualifies field identities when the record belongs to a union
// variant.
func (b *Builder) buildRecord(
	schemaName string,
	rec *schema.Record,
	variant string,
	diags *diagnostic.Diagnostics,
) (*RecordPlan, error) {
	typeName := schemaName
	if variant != "" {
		typeName = schemaName + "." + variant
	}

	rp := &RecordPlan{
		TypeName:   typeName,
		Positional: rec.Positional,
		Fields:     make([]FieldStep, 0, len(rec.Fields)),
	}

	bound := make(map[string]bool)

	for i := range rec.Fields {
		f := &rec.Fields[i]

		ident := f.Ident()
		if variant != "" {
			ident = variant + "." + ident
		}

		step, err := b.buildField(schemaName, ident, f, bound, diags)
		if err != nil {
			return nil, err
		}

		rp.Fields = append(rp.Fields, FieldStep{Name: f.Name, Index: f.Index, Step: step})

		if f.Name != "" {
			bound[f.Name] = true
		}
	}

	return rp, nil
}

// buildField combines directive resolution and type inference for one field.
// Precedence, highest first: explicit decoder, count-bounded sequence,
// default inference. Cond/Verify wrapping applies regardless of which source
// produced the step.
func (b *Builder) buildField(
	schemaName, ident string,
	f *schema.Field,
	bound map[string]bool,
	diags *diagnostic.Diagnostics,
) (*Step, error) {
	set, unknown, err := directive.Resolve(f.Attrs)
	if err != nil {
		return nil, wrapDirectiveErr(err, schemaName, ident)
	}

	for _, name := range unknown {
		diags.AddWarning("unknown_attribute",
			fmt.Sprintf("attribute %q is not a recognized directive", name), schemaName, ident)
	}

	for _, k := range []directive.Kind{directive.KindSelector, directive.KindRepr} {
		if set.Has(k) {
			diags.AddWarning("misplaced_directive",
				fmt.Sprintf("directive %q has no meaning on a field", k), schemaName, ident)
		}
	}

	if f.Type == nil {
		return nil, configErr(CodeUnsupportedLiteral, schemaName, ident, "field has no declared type")
	}

	var step *Step

	switch {
	case set.Has(directive.KindParse):
		// The author takes full responsibility for type agreement; type
		// inference is skipped entirely.
		if err := directive.CheckExpr(set.Parse); err != nil {
			return nil, configErr(CodeUnsupportedLiteral, schemaName, ident, "%v", err)
		}

		step = &Step{Kind: StepExplicit, Expr: set.Parse}

	case f.Type.Kind == schema.TypeSequence && set.Has(directive.KindCount):
		inner, err := b.infer(f.Type.Elem, schemaName, ident)
		if err != nil {
			return nil, err
		}

		if err := b.checkExprRefs(set.Count, schemaName, ident, bound); err != nil {
			return nil, err
		}

		step = &Step{
			Kind:      StepSequence,
			Inner:     inner,
			Count:     CountExact,
			CountExpr: set.Count,
		}

	default:
		if set.Has(directive.KindCount) {
			diags.AddWarning("count_on_non_sequence",
				"count directive ignored on non-sequence field", schemaName, ident)
		}

		inferred, err := b.infer(f.Type, schemaName, ident)
		if err != nil {
			return nil, err
		}

		step = inferred
	}

	if set.Has(directive.KindCond) {
		if f.Type.Kind != schema.TypeOptional {
			return nil, configErr(CodeCondOnNonOptional, schemaName, ident,
				"cond directive requires an optional field type, got %s", f.Type)
		}

		if err := b.checkExprRefs(set.Cond, schemaName, ident, bound); err != nil {
			return nil, err
		}

		step.Cond = set.Cond
	}

	if set.Has(directive.KindVerify) {
		// The predicate may reference the field's own decoded value in
		// addition to earlier fields.
		verifyBound := bound
		if f.Name != "" {
			verifyBound = make(map[string]bool, len(bound)+1)
			for name := range bound {
				verifyBound[name] = true
			}

			verifyBound[f.Name] = true
		}

		if err := b.checkExprRefs(set.Verify, schemaName, ident, verifyBound); err != nil {
			return nil, err
		}

		step.Verify = set.Verify
	}

	return step, nil
}

// checkExprRefs parses a directive expression and checks that every field it
// references is already bound. This is a configuration-time check; the
// expression itself is evaluated by the emitted decoder.
func (b *Builder) checkExprRefs(src, schemaName, ident string, bound map[string]bool) error {
	ids, err := directive.Idents(src)
	if err != nil {
		return configErr(CodeUnsupportedLiteral, schemaName, ident, "%v", err)
	}

	for _, id := range ids {
		if !bound[id] {
			return configErr(CodeUnboundFieldRef, schemaName, ident,
				"expression %q references %q, which is not decoded yet", src, id)
		}
	}

	return nil
}
