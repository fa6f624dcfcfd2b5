// Package source provides data providers for the query executor: named,
// pre-existing tabular datasets held in memory or loaded from files.
//
// The Files provider decodes parquet, avro, csv, json and jsonl files into
// row maps, registering each file under its base name. The Memory provider
// serves rows handed to it directly and is the natural choice for tests and
// embedding hosts.
package source

// Field describes one column of a source, for host tooling that wants a
// schema without executing a query.
type Field struct {
	Name string `json:"name"`
	Kind string `json:"kind"`
}

// SchemaProvider is optionally implemented by providers that can describe
// source schemas. The executor never requires it; it infers columns from
// row keys.
type SchemaProvider interface {
	SourceSchema(id string) ([]Field, error)
}
