package source

import (
	"fmt"
	"os"

	goavro "github.com/linkedin/goavro/v2"

	"github.com/deriveql/deriveql/query"
)

// readAvro loads all records of an Avro object container file.
func readAvro(path string) ([]query.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	ocfr, err := goavro.NewOCFReader(file)
	if err != nil {
		return nil, fmt.Errorf("cannot read Avro OCF from %s: %w", path, err)
	}

	var rows []query.Row
	for ocfr.Scan() {
		datum, err := ocfr.Read()
		if err != nil {
			return nil, fmt.Errorf("error reading Avro record: %w", err)
		}
		record, ok := datum.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("Avro record is %T, expected a record type", datum)
		}

		row := make(query.Row, len(record))
		for name, value := range record {
			row[name] = unwrapAvroUnion(value)
		}
		rows = append(rows, row)
	}
	if err := ocfr.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	return rows, nil
}

// unwrapAvroUnion flattens goavro's union encoding, which wraps the value
// in a single-key map like {"string": "x"}.
func unwrapAvroUnion(value interface{}) interface{} {
	if m, ok := value.(map[string]interface{}); ok && len(m) == 1 {
		for _, inner := range m {
			return inner
		}
	}
	return value
}
