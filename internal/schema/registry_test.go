package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_TwoPhase(t *testing.T) {
	reg := NewRegistry()
	require.False(t, reg.Sealed())

	err := reg.Register(&Schema{Name: "Header", Kind: KindRecord, Record: &Record{}})
	require.NoError(t, err)

	reg.Seal()
	require.True(t, reg.Sealed())

	err = reg.Register(&Schema{Name: "Late", Kind: KindRecord, Record: &Record{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sealed")

	assert.NotNil(t, reg.Lookup("Header"))
	assert.Nil(t, reg.Lookup("Late"))
}

func TestRegistry_Duplicate(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register(&Schema{Name: "A", Kind: KindRecord, Record: &Record{}}))

	err := reg.Register(&Schema{Name: "A", Kind: KindRecord, Record: &Record{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_Unnamed(t *testing.T) {
	reg := NewRegistry()

	err := reg.Register(&Schema{Kind: KindRecord, Record: &Record{}})
	require.Error(t, err)
}

func TestRegistry_RegisterAllAndNames(t *testing.T) {
	doc, err := Parse([]byte(`
schemas:
  - name: Zeta
    record:
      fields: []
  - name: Alpha
    record:
      fields: []
`))
	require.NoError(t, err)

	reg := NewRegistry()
	require.NoError(t, reg.RegisterAll(doc))

	assert.Equal(t, []string{"Alpha", "Zeta"}, reg.Names())
}
