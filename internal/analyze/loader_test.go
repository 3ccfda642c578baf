package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parsegen/internal/schema"
)

func loadNetproto(t *testing.T) map[string]*schema.Schema {
	t.Helper()

	schemas, err := NewAnalyzer().LoadPackages("parsegen/examples/netproto")
	require.NoError(t, err)

	byName := make(map[string]*schema.Schema, len(schemas))
	for _, s := range schemas {
		byName[s.Name] = s
	}

	return byName
}

func TestLoadPackages_Netproto(t *testing.T) {
	byName := loadNetproto(t)

	require.Len(t, byName, 4)
	for _, name := range []string{"Header", "TLV", "Heartbeat", "Message"} {
		require.Contains(t, byName, name)
		assert.Equal(t, schema.KindRecord, byName[name].Kind)
	}
}

func TestLoadPackages_Header(t *testing.T) {
	header := loadNetproto(t)["Header"]
	require.NotNil(t, header)

	fields := header.Record.Fields
	require.Len(t, fields, 3)

	version := fields[0]
	assert.Equal(t, "Version", version.Name)
	assert.Equal(t, 0, version.Index)
	assert.Equal(t, schema.TypePrimitive, version.Type.Kind)
	assert.Equal(t, 8, version.Type.Width)
	assert.False(t, version.Type.Signed)

	verify, ok := version.Attrs.Get("verify")
	require.True(t, ok)
	assert.Equal(t, "Version == 1", verify)

	length := fields[2]
	assert.Equal(t, 16, length.Type.Width)
	assert.Empty(t, length.Attrs)
}

func TestLoadPackages_CountTag(t *testing.T) {
	tlv := loadNetproto(t)["TLV"]
	require.NotNil(t, tlv)

	value := tlv.Record.Fields[2]
	assert.Equal(t, "Value", value.Name)
	assert.Equal(t, schema.TypeSequence, value.Type.Kind)
	assert.Equal(t, 8, value.Type.Elem.Width)

	count, ok := value.Attrs.Get("count")
	require.True(t, ok)
	assert.Equal(t, "Length", count)
}

func TestLoadPackages_PointerBecomesOptional(t *testing.T) {
	hb := loadNetproto(t)["Heartbeat"]
	require.NotNil(t, hb)

	echo := hb.Record.Fields[1]
	require.Equal(t, schema.TypeOptional, echo.Type.Kind)
	assert.Equal(t, 32, echo.Type.Elem.Width)

	cond, ok := echo.Attrs.Get("cond")
	require.True(t, ok)
	assert.Equal(t, "Seq > 0", cond)
}

func TestLoadPackages_NamedReferences(t *testing.T) {
	msg := loadNetproto(t)["Message"]
	require.NotNil(t, msg)

	fields := msg.Record.Fields
	require.Len(t, fields, 2)

	require.Equal(t, schema.TypeNamed, fields[0].Type.Kind)
	assert.Equal(t, "Header", fields[0].Type.Name)

	require.Equal(t, schema.TypeSequence, fields[1].Type.Kind)
	require.Equal(t, schema.TypeNamed, fields[1].Type.Elem.Kind)
	assert.Equal(t, "TLV", fields[1].Type.Elem.Name)
}

func TestLoadPackages_FeedsPlanSynthesis(t *testing.T) {
	schemas, err := NewAnalyzer().LoadPackages("parsegen/examples/netproto")
	require.NoError(t, err)

	reg := schema.NewRegistry()
	for _, s := range schemas {
		require.NoError(t, reg.Register(s))
	}

	reg.Seal()

	doc := &schema.Document{Schemas: schemas}
	res := schema.Validate(doc, reg)
	assert.True(t, res.IsValid(), "diagnostics: %v", res.Errors)
}
