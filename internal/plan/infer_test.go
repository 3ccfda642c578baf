package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsegen/internal/schema"
)

func sealedRegistry(t *testing.T, src string) *schema.Registry {
	t.Helper()

	doc, err := schema.Parse([]byte(src))
	require.NoError(t, err)

	reg := schema.NewRegistry()
	require.NoError(t, reg.RegisterAll(doc))
	reg.Seal()

	return reg
}

func buildOne(t *testing.T, src, name string) (*Plan, error) {
	t.Helper()

	reg := sealedRegistry(t, src)

	s := reg.Lookup(name)
	require.NotNil(t, s, "schema %q not in document", name)

	return NewBuilder(reg).Build(s)
}

func mustBuild(t *testing.T, src, name string) *Plan {
	t.Helper()

	p, err := buildOne(t, src, name)
	require.NoError(t, err)

	return p
}

func TestInfer_Primitives(t *testing.T) {
	p := mustBuild(t, `
schemas:
  - name: Widths
    record:
      fields:
        - name: a
          type: uint8
        - name: b
          type: uint16
        - name: c
          type: int32
        - name: d
          type: int64
`, "Widths")

	require.Len(t, p.Record.Fields, 4)

	expected := []struct {
		width  int
		signed bool
	}{
		{8, false}, {16, false}, {32, true}, {64, true},
	}

	for i, want := range expected {
		step := p.Record.Fields[i].Step
		assert.Equal(t, StepPrimitive, step.Kind)
		assert.Equal(t, want.width, step.Width)
		assert.Equal(t, want.signed, step.Signed)
	}
}

func TestInfer_OptionalWrapsInner(t *testing.T) {
	p := mustBuild(t, `
schemas:
  - name: R
    record:
      fields:
        - name: x
          type: "*uint32"
`, "R")

	step := p.Record.Fields[0].Step
	require.Equal(t, StepOptional, step.Kind)
	require.NotNil(t, step.Inner)
	assert.Equal(t, StepPrimitive, step.Inner.Kind)
	assert.Equal(t, 32, step.Inner.Width)
}

func TestInfer_SequenceDefaultsUnbounded(t *testing.T) {
	p := mustBuild(t, `
schemas:
  - name: R
    record:
      fields:
        - name: xs
          type: "[]uint8"
`, "R")

	step := p.Record.Fields[0].Step
	require.Equal(t, StepSequence, step.Kind)
	assert.Equal(t, CountUnbounded, step.Count)
	assert.Empty(t, step.CountExpr)
	assert.Equal(t, StepPrimitive, step.Inner.Kind)
}

func TestInfer_NestedStaysSymbolic(t *testing.T) {
	p := mustBuild(t, `
schemas:
  - name: Inner
    record:
      fields:
        - name: v
          type: uint8
  - name: Outer
    record:
      fields:
        - name: body
          type: Inner
`, "Outer")

	step := p.Record.Fields[0].Step
	require.Equal(t, StepNested, step.Kind)
	assert.Equal(t, "Inner", step.TypeName)
}

func TestInfer_DeepNesting(t *testing.T) {
	p := mustBuild(t, `
schemas:
  - name: R
    record:
      fields:
        - name: x
          type: "[]*uint16"
`, "R")

	step := p.Record.Fields[0].Step
	require.Equal(t, StepSequence, step.Kind)
	require.Equal(t, StepOptional, step.Inner.Kind)
	assert.Equal(t, 16, step.Inner.Inner.Width)
}

func TestInfer_UnresolvedNamedType(t *testing.T) {
	_, err := buildOne(t, `
schemas:
  - name: R
    record:
      fields:
        - name: x
          type: Missing
`, "R")

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, CodeUnresolvedNamedType, cfgErr.Code)
	assert.Equal(t, "R", cfgErr.Schema)
	assert.Equal(t, "x", cfgErr.Field)
}
