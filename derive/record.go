// Package derive packages query results into derivation records: the
// provenance artifact recording which query, over which sources, produced a
// materialized table. Persistence and event emission belong to
// collaborating subsystems; this package only builds the record.
package derive

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/deriveql/deriveql/query"
)

// Record describes one derivation: the query text, the sources it read in
// appearance order, and the shape and statistics of the materialized
// result.
type Record struct {
	ID        string      `json:"id"`
	Query     string      `json:"query"`
	Sources   []string    `json:"sources"`
	Columns   []string    `json:"columns"`
	RowCount  int         `json:"rowCount"`
	Stats     query.Stats `json:"stats"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Build assembles a derivation record from a parsed query and its executed
// result. The clock parameter stamps CreatedAt; pass query.SystemClock()
// outside of tests.
func Build(parsed *query.Parsed, result *query.Result, queryText string, clock query.Clock) Record {
	return Record{
		ID:        uuid.NewString(),
		Query:     queryText,
		Sources:   parsed.SourceRefs,
		Columns:   result.Columns,
		RowCount:  result.Stats.OutputRows,
		Stats:     result.Stats,
		CreatedAt: clock.Now(),
	}
}

// Marshal renders the record as indented JSON for persistence.
func (r Record) Marshal() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
