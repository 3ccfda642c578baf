package plan

import (
	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Export converts built plans into the serializable document handed to the
// downstream code emitter. The document encodes every decode-time semantic
// the emitter needs: step kinds, wrapper expressions, count policies, and
// dispatch arm order.
func Export(plans []*Plan) *Document {
	doc := &Document{Version: "1"}

	for _, p := range plans {
		doc.Plans = append(doc.Plans, exportPlan(p))
	}

	return doc
}

// ExportYAML serializes plans as a YAML document.
func ExportYAML(plans []*Plan) ([]byte, error) {
	return yaml.Marshal(Export(plans))
}

// ExportJSON serializes plans as an indented JSON document.
func ExportJSON(plans []*Plan) ([]byte, error) {
	return json.MarshalIndent(Export(plans), "", "  ")
}

// Document is the root of an exported plan file.
type Document struct {
	Version string    `yaml:"version" json:"version"`
	Plans   []PlanDoc `yaml:"plans" json:"plans"`
}

// PlanDoc is one exported plan.
type PlanDoc struct {
	Name   string     `yaml:"name" json:"name"`
	Kind   string     `yaml:"kind" json:"kind"`
	Record *RecordDoc `yaml:"record,omitempty" json:"record,omitempty"`
	Union  *UnionDoc  `yaml:"union,omitempty" json:"union,omitempty"`
}

// RecordDoc is an exported record plan.
type RecordDoc struct {
	Construct string     `yaml:"construct" json:"construct"`
	Fields    []FieldDoc `yaml:"fields" json:"fields"`
}

// FieldDoc is one exported field step.
type FieldDoc struct {
	Name  string  `yaml:"name,omitempty" json:"name,omitempty"`
	Index int     `yaml:"index" json:"index"`
	Step  StepDoc `yaml:"step" json:"step"`
}

// StepDoc is one exported decode step node.
type StepDoc struct {
	Op        string   `yaml:"op" json:"op"`
	Width     int      `yaml:"width,omitempty" json:"width,omitempty"`
	Signed    bool     `yaml:"signed,omitempty" json:"signed,omitempty"`
	Inner     *StepDoc `yaml:"inner,omitempty" json:"inner,omitempty"`
	Count     string   `yaml:"count,omitempty" json:"count,omitempty"`
	CountExpr string   `yaml:"countExpr,omitempty" json:"countExpr,omitempty"`
	Type      string   `yaml:"type,omitempty" json:"type,omitempty"`
	Expr      string   `yaml:"expr,omitempty" json:"expr,omitempty"`
	Cond      string   `yaml:"cond,omitempty" json:"cond,omitempty"`
	Verify    string   `yaml:"verify,omitempty" json:"verify,omitempty"`
}

// UnionDoc is an exported union plan.
type UnionDoc struct {
	Selector  string   `yaml:"selector,omitempty" json:"selector,omitempty"`
	Fieldless bool     `yaml:"fieldless,omitempty" json:"fieldless,omitempty"`
	Width     int      `yaml:"width,omitempty" json:"width,omitempty"`
	Signed    bool     `yaml:"signed,omitempty" json:"signed,omitempty"`
	Arms      []ArmDoc `yaml:"arms" json:"arms"`
}

// ArmDoc is one exported dispatch arm.
type ArmDoc struct {
	Kind    string     `yaml:"kind" json:"kind"`
	Pattern string     `yaml:"pattern,omitempty" json:"pattern,omitempty"`
	Value   *int64     `yaml:"value,omitempty" json:"value,omitempty"`
	Variant string     `yaml:"variant,omitempty" json:"variant,omitempty"`
	Record  *RecordDoc `yaml:"record,omitempty" json:"record,omitempty"`
}

func exportPlan(p *Plan) PlanDoc {
	doc := PlanDoc{Name: p.TypeName()}

	switch {
	case p.Record != nil:
		doc.Kind = "record"
		doc.Record = exportRecord(p.Record)
	case p.Union != nil:
		doc.Kind = "union"
		doc.Union = exportUnion(p.Union)
	}

	return doc
}

func exportRecord(rp *RecordPlan) *RecordDoc {
	construct := "named"
	if rp.Positional {
		construct = "positional"
	}

	doc := &RecordDoc{Construct: construct, Fields: []FieldDoc{}}

	for _, fs := range rp.Fields {
		doc.Fields = append(doc.Fields, FieldDoc{
			Name:  fs.Name,
			Index: fs.Index,
			Step:  exportStep(fs.Step),
		})
	}

	return doc
}

func exportStep(s *Step) StepDoc {
	doc := StepDoc{
		Op:     s.Kind.String(),
		Width:  s.Width,
		Signed: s.Signed,
		Type:   s.TypeName,
		Expr:   s.Expr,
		Cond:   s.Cond,
		Verify: s.Verify,
	}

	if s.Inner != nil {
		inner := exportStep(s.Inner)
		doc.Inner = &inner
	}

	if s.Kind == StepSequence {
		doc.Count = s.Count.String()
		doc.CountExpr = s.CountExpr
	}

	return doc
}

func exportUnion(up *UnionPlan) *UnionDoc {
	doc := &UnionDoc{
		Selector:  up.SelectorType,
		Fieldless: up.Fieldless,
		Width:     up.Width,
		Signed:    up.Signed,
		Arms:      []ArmDoc{},
	}

	for _, arm := range up.Arms {
		armDoc := ArmDoc{
			Kind:    arm.Kind.String(),
			Pattern: arm.Pattern,
			Variant: arm.Variant,
		}

		if up.Fieldless {
			v := arm.Value
			armDoc.Value = &v
		}

		if arm.Record != nil {
			armDoc.Record = exportRecord(arm.Record)
		}

		doc.Arms = append(doc.Arms, armDoc)
	}

	return doc
}
