package plan

import (
	"parsegen/internal/common"
	"parsegen/internal/diagnostic"
)

// Plan is the synthesized decode plan for one schema. Exactly one of Record
// and Union is set. Plans are trees of decode steps: Named references stay
// symbolic and are resolved by the emitter, so plans never cycle.
type Plan struct {
	// Record is the record plan (record schemas).
	Record *RecordPlan
	// Union is the union plan (union schemas).
	Union *UnionPlan
	// Diagnostics contains non-fatal findings from synthesis.
	Diagnostics diagnostic.Diagnostics
}

// TypeName returns the name of the type this plan decodes.
func (p *Plan) TypeName() string {
	if p.Record != nil {
		return p.Record.TypeName
	}

	if p.Union != nil {
		return p.Union.TypeName
	}

	return ""
}

// StepKind enumerates the decode step node kinds.
type StepKind int

const (
	// StepPrimitive decodes a big-endian fixed-width integer.
	StepPrimitive StepKind = iota
	// StepOptional tries the inner step; on failure it yields an absent
	// value and consumes no input.
	StepOptional
	// StepSequence repeats the inner step per its count policy.
	StepSequence
	// StepNested defers to another type's plan, addressed by name.
	StepNested
	// StepExplicit is a verbatim decoder expression supplied by the author.
	StepExplicit
)

// String returns a human-readable step kind name.
func (k StepKind) String() string {
	switch k {
	case StepPrimitive:
		return "primitive"
	case StepOptional:
		return "optional"
	case StepSequence:
		return "sequence"
	case StepNested:
		return "nested"
	case StepExplicit:
		return "explicit"
	default:
		return common.UnknownStr
	}
}

// CountPolicy describes how a sequence step decides when to stop.
type CountPolicy int

const (
	// CountUnbounded repeats until the inner decoder first fails; the
	// failing attempt consumes no input and is discarded.
	CountUnbounded CountPolicy = iota
	// CountExact repeats exactly the number of times the count expression
	// evaluates to at decode time.
	CountExact
)

// String returns a human-readable policy name.
func (c CountPolicy) String() string {
	switch c {
	case CountUnbounded:
		return "unbounded"
	case CountExact:
		return "exact"
	default:
		return common.UnknownStr
	}
}

// Step is one node of a decode plan.
type Step struct {
	Kind StepKind

	// Width and Signed describe a primitive decode (StepPrimitive).
	Width  int
	Signed bool

	// Inner is the wrapped step for optionals and sequences.
	Inner *Step

	// Count and CountExpr describe a sequence's repetition policy.
	Count     CountPolicy
	CountExpr string

	// TypeName is the referenced type for nested decodes.
	TypeName string

	// Expr is the verbatim decoder expression for explicit decodes.
	Expr string

	// Cond, when non-empty, wraps the step with a conditional-presence
	// guard: if the guard evaluates false at decode time, the field is
	// absent and the inner step never runs.
	Cond string

	// Verify, when non-empty, wraps the step with a post-decode predicate:
	// if the predicate evaluates false, the whole record decode fails.
	Verify string
}

// FieldStep is one record member's decode step.
type FieldStep struct {
	// Name of the field ("" for positional fields).
	Name string
	// Index is the declaration position.
	Index int
	// Step decodes the field value.
	Step *Step
}

// RecordPlan is an ordered sequence of field steps plus a construction
// descriptor. Field order always matches declaration order: later steps may
// reference earlier decoded values by name.
type RecordPlan struct {
	// TypeName of the record (or "Union.Variant" for variant records).
	TypeName string
	// Positional selects positional construction over named construction.
	Positional bool
	// Fields in declaration order.
	Fields []FieldStep
}

// ArmKind enumerates union dispatch arm kinds.
type ArmKind int

const (
	// ArmPattern matches a concrete selector pattern or discriminant value.
	ArmPattern ArmKind = iota
	// ArmWildcard is the catch-all arm, always in final position.
	ArmWildcard
	// ArmNoMatch is the synthesized terminal arm of a selector-mode union
	// without a wildcard: reaching it is an unmatched-selector decode
	// failure.
	ArmNoMatch
)

// String returns a human-readable arm kind name.
func (k ArmKind) String() string {
	switch k {
	case ArmPattern:
		return "pattern"
	case ArmWildcard:
		return "wildcard"
	case ArmNoMatch:
		return "no_match"
	default:
		return common.UnknownStr
	}
}

// Arm is one union dispatch alternative.
type Arm struct {
	Kind ArmKind

	// Pattern is the selector match expression (selector mode) or the
	// decimal discriminant value (fieldless mode).
	Pattern string

	// Value is the resolved discriminant value in fieldless mode.
	Value int64

	// Variant is the matched variant's name ("" for the no-match arm).
	Variant string

	// Record decodes the variant's fields. Nil for fieldless variants and
	// the no-match arm.
	Record *RecordPlan
}

// UnionPlan is a discriminant dispatch table. In selector mode the
// discriminant is an externally supplied value matched against arm patterns;
// in fieldless mode it is decoded from the input as a big-endian primitive
// and matched against resolved variant values.
type UnionPlan struct {
	// TypeName of the union.
	TypeName string

	// Fieldless marks integer-discriminant enum dispatch.
	Fieldless bool

	// SelectorType is the declared discriminant type in selector mode
	// (may be empty: the emitter then infers it from the call site).
	SelectorType string

	// Width and Signed describe the fieldless discriminant primitive.
	Width  int
	Signed bool

	// Arms in dispatch order. A wildcard arm, if present, is always last;
	// a selector-mode plan without one ends in an ArmNoMatch arm. A
	// fieldless plan has exactly one arm per declared variant.
	Arms []Arm
}
