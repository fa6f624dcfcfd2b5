package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deriveql/deriveql/query"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestFiles_CSV(t *testing.T) {
	path := writeFile(t, "people.csv",
		"name,age,active,note\nAnn,34,true,\nBob,28,false,null\nCara,41.5,true,hi\n")

	f, err := NewFiles(path)
	require.NoError(t, err)

	rows, err := f.SourceData("people")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, query.Row{"name": "Ann", "age": float64(34), "active": true, "note": nil}, rows[0])
	assert.Nil(t, rows[1]["note"])
	assert.Equal(t, 41.5, rows[2]["age"])
}

func TestFiles_CSVShortRecordPadsNull(t *testing.T) {
	path := writeFile(t, "t.csv", "a,b,c\n1,2\n")

	f, err := NewFiles(path)
	require.NoError(t, err)

	rows, err := f.SourceData("t")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, query.Row{"a": float64(1), "b": float64(2), "c": nil}, rows[0])
}

func TestFiles_JSON(t *testing.T) {
	path := writeFile(t, "orders.json",
		`[{"id": 1, "customer": "Acme", "tags": ["a", "b"], "meta": {"k": 1}}]`)

	f, err := NewFiles(path)
	require.NoError(t, err)

	rows, err := f.SourceData("orders")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.Equal(t, float64(1), rows[0]["id"])
	// Nested values are stringified, not dropped.
	assert.Equal(t, `["a","b"]`, rows[0]["tags"])
	assert.Equal(t, `{"k":1}`, rows[0]["meta"])
}

func TestFiles_JSONL(t *testing.T) {
	path := writeFile(t, "events.jsonl",
		"{\"kind\": \"click\"}\n\n{\"kind\": \"view\"}\n")

	f, err := NewFiles(path)
	require.NoError(t, err)

	rows, err := f.SourceData("events")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFiles_UnknownSource(t *testing.T) {
	f, err := NewFiles()
	require.NoError(t, err)

	_, err = f.SourceData("ghost")
	var unknown *query.UnknownSourceError
	require.ErrorAs(t, err, &unknown)
}

func TestFiles_AmbiguousBaseName(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "people.csv")
	b := filepath.Join(dir, "people.json")
	require.NoError(t, os.WriteFile(a, []byte("name\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("[]"), 0o644))

	_, err := NewFiles(a, b)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ambiguous")
}

func TestFiles_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, "data.xml", "<rows/>")

	f, err := NewFiles(path)
	require.NoError(t, err)

	_, err = f.SourceData("data")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file format")
}

func TestFiles_Register(t *testing.T) {
	path := writeFile(t, "raw.csv", "v\n1\n")

	f, err := NewFiles()
	require.NoError(t, err)
	f.Register("numbers", path)

	rows, err := f.SourceData("numbers")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.ElementsMatch(t, []string{"numbers"}, f.Sources())
}

func TestFiles_CachesDecodedRows(t *testing.T) {
	path := writeFile(t, "t.csv", "v\n1\n")

	f, err := NewFiles(path)
	require.NoError(t, err)

	first, err := f.SourceData("t")
	require.NoError(t, err)

	// Deleting the file does not invalidate already decoded rows.
	require.NoError(t, os.Remove(path))
	second, err := f.SourceData("t")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFiles_SourceSchema(t *testing.T) {
	path := writeFile(t, "t.csv", "name,age\nAnn,34\n")

	f, err := NewFiles(path)
	require.NoError(t, err)

	fields, err := f.SourceSchema("t")
	require.NoError(t, err)
	assert.Equal(t, []Field{
		{Name: "age", Kind: "number"},
		{Name: "name", Kind: "string"},
	}, fields)
}

func TestFiles_ServesQueryEngine(t *testing.T) {
	path := writeFile(t, "people.csv", "name,age\nAnn,34\nBob,28\nCara,41\n")

	f, err := NewFiles(path)
	require.NoError(t, err)

	parsed, err := query.Parse("SELECT name FROM people WHERE age > 30 ORDER BY age")
	require.NoError(t, err)

	result, err := query.Execute(parsed.Pipeline, f)
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Ann", result.Rows[0]["name"])
	assert.Equal(t, "Cara", result.Rows[1]["name"])
}
