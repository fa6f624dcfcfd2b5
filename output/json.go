package output

import (
	"encoding/json"
	"io"

	"github.com/deriveql/deriveql/query"
)

// JSONFormatter outputs result rows as JSON Lines.
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON Lines formatter.
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// SetOutput sets the output writer.
func (j *JSONFormatter) SetOutput(w io.Writer) {
	j.writer = w
}

// Format writes one JSON object per row. Fields a row does not carry are
// emitted as explicit nulls so every line has the full column set.
func (j *JSONFormatter) Format(result *query.Result) error {
	encoder := json.NewEncoder(j.writer)
	for _, row := range result.Rows {
		obj := make(map[string]interface{}, len(result.Columns))
		for _, col := range result.Columns {
			obj[col] = row[col]
		}
		if err := encoder.Encode(obj); err != nil {
			return err
		}
	}
	return nil
}
