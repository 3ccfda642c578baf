package plan

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func exportFixture(t *testing.T) []*Plan {
	t.Helper()

	src := `
schemas:
  - name: Header
    record:
      fields:
        - name: version
          type: uint8
          directives:
            - verify: "version == 1"
        - name: count
          type: uint16
        - name: items
          type: "[]uint8"
          directives:
            - count: "count"
  - name: Status
    union:
      repr: uint8
      variants:
        - name: Ok
        - name: Failed
          value: 2
`

	return []*Plan{
		mustBuild(t, src, "Header"),
		mustBuild(t, src, "Status"),
	}
}

func TestExport_Document(t *testing.T) {
	doc := Export(exportFixture(t))

	assert.Equal(t, "1", doc.Version)
	require.Len(t, doc.Plans, 2)

	header := doc.Plans[0]
	assert.Equal(t, "Header", header.Name)
	assert.Equal(t, "record", header.Kind)
	require.NotNil(t, header.Record)
	assert.Equal(t, "named", header.Record.Construct)
	require.Len(t, header.Record.Fields, 3)

	version := header.Record.Fields[0]
	assert.Equal(t, "primitive", version.Step.Op)
	assert.Equal(t, 8, version.Step.Width)
	assert.Equal(t, "version == 1", version.Step.Verify)

	items := header.Record.Fields[2]
	assert.Equal(t, "sequence", items.Step.Op)
	assert.Equal(t, "exact", items.Step.Count)
	assert.Equal(t, "count", items.Step.CountExpr)
	require.NotNil(t, items.Step.Inner)
	assert.Equal(t, "primitive", items.Step.Inner.Op)

	status := doc.Plans[1]
	assert.Equal(t, "union", status.Kind)
	require.NotNil(t, status.Union)
	assert.True(t, status.Union.Fieldless)
	require.Len(t, status.Union.Arms, 2)

	failed := status.Union.Arms[1]
	assert.Equal(t, "pattern", failed.Kind)
	assert.Equal(t, "Failed", failed.Variant)
	require.NotNil(t, failed.Value)
	assert.Equal(t, int64(2), *failed.Value)
}

func TestExport_SelectorArmsOmitValue(t *testing.T) {
	p := mustBuild(t, `
schemas:
  - name: M
    union:
      selector: "uint8"
      variants:
        - name: A
          selector: "0"
          fields:
            - name: v
              type: uint8
`, "M")

	doc := Export([]*Plan{p})

	u := doc.Plans[0].Union
	require.NotNil(t, u)
	assert.Equal(t, "uint8", u.Selector)
	require.Len(t, u.Arms, 2)
	assert.Nil(t, u.Arms[0].Value)
	assert.Equal(t, "no_match", u.Arms[1].Kind)
}

func TestExportYAML_RoundTrip(t *testing.T) {
	data, err := ExportYAML(exportFixture(t))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, yaml.Unmarshal(data, &doc))

	require.Len(t, doc.Plans, 2)
	assert.Equal(t, "Header", doc.Plans[0].Name)
	assert.Equal(t, "exact", doc.Plans[0].Record.Fields[2].Step.Count)
}

func TestExportJSON_RoundTrip(t *testing.T) {
	data, err := ExportJSON(exportFixture(t))
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))

	require.Len(t, doc.Plans, 2)
	assert.Equal(t, "Status", doc.Plans[1].Name)
	assert.True(t, doc.Plans[1].Union.Fieldless)
}
