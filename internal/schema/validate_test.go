package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsegen/internal/diagnostic"
)

func validateDoc(t *testing.T, src string) *diagnostic.Diagnostics {
	t.Helper()

	doc, err := Parse([]byte(src))
	require.NoError(t, err)

	reg := NewRegistry()
	require.NoError(t, reg.RegisterAll(doc))
	reg.Seal()

	return Validate(doc, reg)
}

func errorCodes(d *diagnostic.Diagnostics) []string {
	var codes []string
	for _, e := range d.Errors {
		codes = append(codes, e.Code)
	}

	return codes
}

func TestValidate_CleanDocument(t *testing.T) {
	res := validateDoc(t, `
schemas:
  - name: Item
    record:
      fields:
        - name: tag
          type: uint8
  - name: Packet
    record:
      fields:
        - name: items
          type: "[]Item"
`)

	assert.True(t, res.IsValid())
	assert.Empty(t, res.Warnings)
}

func TestValidate_EmptyRecordWarns(t *testing.T) {
	res := validateDoc(t, `
schemas:
  - name: Nothing
    record:
      fields: []
`)

	assert.True(t, res.IsValid())
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "empty_record", res.Warnings[0].Code)
}

func TestValidate_EmptyUnion(t *testing.T) {
	res := validateDoc(t, `
schemas:
  - name: Empty
    union:
      variants: []
`)

	assert.Contains(t, errorCodes(res), "empty_union")
}

func TestValidate_DuplicateVariant(t *testing.T) {
	res := validateDoc(t, `
schemas:
  - name: M
    union:
      variants:
        - name: A
        - name: A
`)

	assert.Contains(t, errorCodes(res), "duplicate_variant")
}

func TestValidate_DuplicateField(t *testing.T) {
	res := validateDoc(t, `
schemas:
  - name: R
    record:
      fields:
        - name: x
          type: uint8
        - name: x
          type: uint8
`)

	assert.Contains(t, errorCodes(res), "duplicate_field")
}

func TestValidate_UnnamedFieldInNamedRecord(t *testing.T) {
	res := validateDoc(t, `
schemas:
  - name: R
    record:
      fields:
        - uint8
`)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "unnamed_field", res.Errors[0].Code)
	assert.Equal(t, "#0", res.Errors[0].Field)
}

func TestValidate_UnresolvedNamedType(t *testing.T) {
	res := validateDoc(t, `
schemas:
  - name: R
    record:
      fields:
        - name: inner
          type: "*Missing"
`)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "unresolved_named_type", res.Errors[0].Code)
	assert.Equal(t, "inner", res.Errors[0].Field)
}

func TestValidate_VariantFieldPath(t *testing.T) {
	res := validateDoc(t, `
schemas:
  - name: M
    union:
      selector: "uint8"
      variants:
        - name: V
          selector: "0"
          fields:
            - name: body
              type: Missing
`)

	require.Len(t, res.Errors, 1)
	assert.Equal(t, "unresolved_named_type", res.Errors[0].Code)
	assert.Equal(t, "V.body", res.Errors[0].Field)
}

func TestValidate_NilInputs(t *testing.T) {
	res := Validate(nil, NewRegistry())
	assert.False(t, res.IsValid())

	res = Validate(&Document{}, nil)
	assert.False(t, res.IsValid())
}
