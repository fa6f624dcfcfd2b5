package source

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/deriveql/deriveql/query"
)

// readJSON loads a file holding a JSON array of objects.
func readJSON(path string) ([]query.Row, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var records []map[string]interface{}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("cannot parse JSON from %s: %w (expected array of objects)", path, err)
	}

	rows := make([]query.Row, len(records))
	for i, record := range records {
		rows[i] = flattenJSON(record)
	}
	return rows, nil
}

// readJSONL loads a file with one JSON object per line. Blank lines are
// skipped.
func readJSONL(path string) ([]query.Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	var rows []query.Row
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var record map[string]interface{}
		if err := json.Unmarshal([]byte(line), &record); err != nil {
			return nil, fmt.Errorf("invalid JSON on line %d: %w", lineNum, err)
		}
		rows = append(rows, flattenJSON(record))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}

	return rows, nil
}

// flattenJSON keeps scalar values and stringifies nested objects and
// arrays, which the row model does not represent.
func flattenJSON(record map[string]interface{}) query.Row {
	row := make(query.Row, len(record))
	for name, value := range record {
		switch value.(type) {
		case nil, string, bool, float64:
			row[name] = value
		default:
			encoded, _ := json.Marshal(value)
			row[name] = string(encoded)
		}
	}
	return row
}
