package output

import (
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/deriveql/deriveql/query"
)

// TableFormatter renders results as an aligned text table, meant for
// human-facing previews in a terminal.
type TableFormatter struct {
	writer io.Writer
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer) *TableFormatter {
	return &TableFormatter{writer: w}
}

// SetOutput sets the output writer.
func (t *TableFormatter) SetOutput(w io.Writer) {
	t.writer = w
}

// Format renders the result with the column list as the header.
func (t *TableFormatter) Format(result *query.Result) error {
	table := tablewriter.NewWriter(t.writer)
	table.SetHeader(result.Columns)
	table.SetAutoFormatHeaders(false)

	for _, row := range result.Rows {
		record := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			record[i] = formatValue(row[col])
		}
		table.Append(record)
	}

	table.Render()
	return nil
}
