package plan

import (
	"parsegen/internal/schema"
)

// infer derives the default decode step for a declared type, used whenever no
// explicit decoder directive overrides it:
//
//   - fixed-width integers decode as big-endian primitives of the declared
//     width and signedness
//   - optionals wrap the inner step with try-and-recover semantics
//   - sequences wrap the inner step with unbounded repetition
//   - named types defer to that type's own plan, resolved by the emitter
//
// Byte order is part of the primitive default; only an explicit decoder
// directive can change it.
func (b *Builder) infer(t *schema.TypeExpr, schemaName, field string) (*Step, error) {
	switch t.Kind {
	case schema.TypePrimitive:
		return &Step{Kind: StepPrimitive, Width: t.Width, Signed: t.Signed}, nil

	case schema.TypeOptional:
		inner, err := b.infer(t.Elem, schemaName, field)
		if err != nil {
			return nil, err
		}

		return &Step{Kind: StepOptional, Inner: inner}, nil

	case schema.TypeSequence:
		inner, err := b.infer(t.Elem, schemaName, field)
		if err != nil {
			return nil, err
		}

		return &Step{Kind: StepSequence, Inner: inner, Count: CountUnbounded}, nil

	case schema.TypeNamed:
		if b.registry.Lookup(t.Name) == nil {
			return nil, configErr(CodeUnresolvedNamedType, schemaName, field,
				"named type %q is not registered", t.Name)
		}

		return &Step{Kind: StepNested, TypeName: t.Name}, nil

	default:
		return nil, configErr(CodeUnsupportedLiteral, schemaName, field,
			"unrecognized declared type")
	}
}
