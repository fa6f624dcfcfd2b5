package source

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/deriveql/deriveql/query"
)

// readParquet loads all rows of a parquet file into memory.
func readParquet(path string) ([]query.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	reader := parquet.NewReader(pqFile)
	defer func() { _ = reader.Close() }()

	rows := make([]query.Row, 0)
	for {
		row := make(query.Row)
		err := reader.Read(&row)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parquetSchema reads the declared schema of a parquet file, so schema
// reporting does not require decoding any rows. Nested groups flatten to
// leaf fields in dot notation.
func parquetSchema(path string) ([]Field, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	stat, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pqFile, err := parquet.OpenFile(file, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}

	var fields []Field
	for _, f := range pqFile.Schema().Fields() {
		fields = append(fields, parquetLeafFields(f, "")...)
	}
	return fields, nil
}

func parquetLeafFields(field parquet.Field, prefix string) []Field {
	name := field.Name()
	if prefix != "" {
		name = prefix + "." + name
	}

	children := field.Fields()
	if len(children) > 0 {
		var out []Field
		for _, child := range children {
			out = append(out, parquetLeafFields(child, name)...)
		}
		return out
	}
	return []Field{{Name: name, Kind: parquetKind(field)}}
}

// parquetKind maps a parquet leaf type to a schema field kind.
func parquetKind(field parquet.Field) string {
	t := field.Type()
	if t == nil {
		return "null"
	}
	if lt := t.LogicalType(); lt != nil {
		switch lt.String() {
		case "STRING", "UTF8", "ENUM", "UUID", "JSON":
			return "string"
		}
	}
	switch t.Kind() {
	case parquet.Boolean:
		return "bool"
	case parquet.Int32, parquet.Int64, parquet.Int96, parquet.Float, parquet.Double:
		return "number"
	default:
		return "string"
	}
}
