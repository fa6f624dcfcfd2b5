// Package output provides formatters for rendering query results.
//
// Supported formats:
//   - JSON Lines: one JSON object per line
//   - CSV: comma-separated values with a header row
//   - Table: aligned text table for terminal preview
//
// All formatters emit columns in the result's column order.
package output

import (
	"fmt"
	"io"
	"strconv"

	"github.com/deriveql/deriveql/query"
)

// Formatter renders a materialized result to a writer.
type Formatter interface {
	// Format writes the result in the formatter's specific format
	Format(result *query.Result) error

	// SetOutput changes the output writer
	SetOutput(w io.Writer)
}

// formatValue converts a scalar to its textual form. Nulls render empty.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}
