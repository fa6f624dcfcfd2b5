package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/deriveql/deriveql/query"
)

// readCSV loads a CSV file with a header row. Cell values are coerced:
// numbers parse to float64, true/false to bool, empty cells and the word
// null to nil; everything else stays a string.
func readCSV(path string) ([]query.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true
	// Ragged records are tolerated; short rows pad with nulls.
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read CSV header from %s: %w", path, err)
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(h)
	}

	var rows []query.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV row: %w", err)
		}

		row := make(query.Row, len(columns))
		for i, col := range columns {
			if i < len(record) {
				row[col] = parseScalar(strings.TrimSpace(record[i]))
			} else {
				row[col] = nil
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// parseScalar infers the type of a CSV cell value.
func parseScalar(s string) interface{} {
	if s == "" || strings.EqualFold(s, "null") {
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return n
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}
