package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deriveql/deriveql/query"
)

func TestMemory_SourceData(t *testing.T) {
	m := NewMemory()
	m.Add("people", []query.Row{
		{"name": "Ann", "age": float64(34)},
		{"name": "Bob", "age": float64(28)},
	})

	rows, err := m.SourceData("people")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "Ann", rows[0]["name"])
}

func TestMemory_UnknownSource(t *testing.T) {
	m := NewMemory()

	_, err := m.SourceData("nowhere")
	require.Error(t, err)

	var unknown *query.UnknownSourceError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "nowhere", unknown.Source)
}

func TestMemory_AddReplaces(t *testing.T) {
	m := NewMemory()
	m.Add("t", []query.Row{{"v": float64(1)}})
	m.Add("t", []query.Row{{"v": float64(2)}, {"v": float64(3)}})

	rows, err := m.SourceData("t")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestMemory_SourceSchema(t *testing.T) {
	m := NewMemory()
	m.Add("t", []query.Row{
		{"name": "Ann", "age": float64(34), "vip": nil, "active": true},
		{"name": "Bob", "age": float64(28), "vip": "gold", "active": false},
	})

	fields, err := m.SourceSchema("t")
	require.NoError(t, err)
	assert.Equal(t, []Field{
		{Name: "active", Kind: "bool"},
		{Name: "age", Kind: "number"},
		{Name: "name", Kind: "string"},
		{Name: "vip", Kind: "string"},
	}, fields)
}

func TestInferSchema_Empty(t *testing.T) {
	assert.Nil(t, InferSchema(nil))
}

func TestInferSchema_AllNullField(t *testing.T) {
	fields := InferSchema([]query.Row{{"v": nil}, {"v": nil}})
	assert.Equal(t, []Field{{Name: "v", Kind: "null"}}, fields)
}
