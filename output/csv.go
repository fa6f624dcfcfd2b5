package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/deriveql/deriveql/query"
)

// CSVFormatter outputs result rows as CSV.
type CSVFormatter struct {
	writer io.Writer
}

// NewCSVFormatter creates a new CSV formatter.
func NewCSVFormatter(w io.Writer) *CSVFormatter {
	return &CSVFormatter{writer: w}
}

// SetOutput sets the output writer.
func (c *CSVFormatter) SetOutput(w io.Writer) {
	c.writer = w
}

// Format writes a header row with the result's columns followed by one
// record per row. Null and missing values render as empty cells.
func (c *CSVFormatter) Format(result *query.Result) error {
	csvWriter := csv.NewWriter(c.writer)

	if len(result.Columns) > 0 {
		if err := csvWriter.Write(result.Columns); err != nil {
			return err
		}
	}

	for _, row := range result.Rows {
		record := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			record[i] = formatValue(row[col])
		}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV writer: %w", err)
	}
	return nil
}
