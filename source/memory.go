package source

import "github.com/deriveql/deriveql/query"

// Memory serves row sets registered directly in memory.
type Memory struct {
	sources map[string][]query.Row
}

var _ query.DataProvider = (*Memory)(nil)
var _ SchemaProvider = (*Memory)(nil)

// NewMemory creates an empty in-memory provider.
func NewMemory() *Memory {
	return &Memory{sources: make(map[string][]query.Row)}
}

// Add registers a source's rows under the given id, replacing any previous
// registration.
func (m *Memory) Add(id string, rows []query.Row) {
	m.sources[id] = rows
}

// SourceData returns the registered rows for id, or an UnknownSourceError.
func (m *Memory) SourceData(id string) ([]query.Row, error) {
	rows, ok := m.sources[id]
	if !ok {
		return nil, &query.UnknownSourceError{Source: id}
	}
	return rows, nil
}

// SourceSchema infers the schema of a registered source.
func (m *Memory) SourceSchema(id string) ([]Field, error) {
	rows, err := m.SourceData(id)
	if err != nil {
		return nil, err
	}
	return InferSchema(rows), nil
}
