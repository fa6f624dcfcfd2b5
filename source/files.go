package source

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/deriveql/deriveql/query"
)

// Files maps source ids to data files and decodes them on first access.
// Supported extensions: .parquet, .avro, .csv, .json, .jsonl.
type Files struct {
	paths map[string]string
	cache map[string][]query.Row
}

var _ query.DataProvider = (*Files)(nil)
var _ SchemaProvider = (*Files)(nil)

// NewFiles creates a provider serving the given files, each registered
// under its base name without extension (people.csv becomes source
// "people"). Registering two files with the same base name is an error.
func NewFiles(paths ...string) (*Files, error) {
	f := &Files{
		paths: make(map[string]string, len(paths)),
		cache: make(map[string][]query.Row),
	}
	for _, path := range paths {
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		if existing, ok := f.paths[id]; ok {
			return nil, fmt.Errorf("source %q is ambiguous: %s and %s", id, existing, path)
		}
		f.paths[id] = path
	}
	return f, nil
}

// Register maps an explicit source id to a file path.
func (f *Files) Register(id, path string) {
	f.paths[id] = path
}

// Sources returns the registered source ids.
func (f *Files) Sources() []string {
	ids := make([]string, 0, len(f.paths))
	for id := range f.paths {
		ids = append(ids, id)
	}
	return ids
}

// SourceData loads (and caches) the rows behind a source id. Unknown ids
// return an UnknownSourceError; decoding failures propagate.
func (f *Files) SourceData(id string) ([]query.Row, error) {
	if rows, ok := f.cache[id]; ok {
		return rows, nil
	}

	path, ok := f.paths[id]
	if !ok {
		return nil, &query.UnknownSourceError{Source: id}
	}

	rows, err := loadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load source %q: %w", id, err)
	}
	f.cache[id] = rows
	return rows, nil
}

// SourceSchema reports the schema of a file-backed source. Parquet files
// carry a declared schema, which is read directly; other formats infer the
// schema from decoded rows.
func (f *Files) SourceSchema(id string) ([]Field, error) {
	if path, ok := f.paths[id]; ok {
		if strings.ToLower(filepath.Ext(path)) == ".parquet" {
			return parquetSchema(path)
		}
	}
	rows, err := f.SourceData(id)
	if err != nil {
		return nil, err
	}
	return InferSchema(rows), nil
}

// loadFile decodes a data file by extension.
func loadFile(path string) ([]query.Row, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".parquet":
		return readParquet(path)
	case ".avro":
		return readAvro(path)
	case ".csv":
		return readCSV(path)
	case ".json":
		return readJSON(path)
	case ".jsonl":
		return readJSONL(path)
	default:
		return nil, fmt.Errorf("unsupported file format %q (supported: .parquet, .avro, .csv, .json, .jsonl)", filepath.Ext(path))
	}
}
