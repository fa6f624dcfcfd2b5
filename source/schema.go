package source

import (
	"sort"

	"github.com/deriveql/deriveql/query"
)

// InferSchema derives ordered field descriptors from a row set. Fields
// come from the first row's keys in sorted order, matching the executor's
// column inference; the kind is taken from the first non-null value seen
// for each field.
func InferSchema(rows []query.Row) []Field {
	if len(rows) == 0 {
		return nil
	}

	names := make([]string, 0, len(rows[0]))
	for name := range rows[0] {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Field, len(names))
	for i, name := range names {
		fields[i] = Field{Name: name, Kind: fieldKind(rows, name)}
	}
	return fields
}

// fieldKind scans rows for the first non-null value of a field.
func fieldKind(rows []query.Row, name string) string {
	for _, row := range rows {
		switch row[name].(type) {
		case nil:
			continue
		case string:
			return "string"
		case bool:
			return "bool"
		case float32, float64, int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
			return "number"
		default:
			return "string"
		}
	}
	return "null"
}
