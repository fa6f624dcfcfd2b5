package query

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// DataProvider supplies the complete in-memory row set of a named source.
// Implementations must return an error for ids they cannot resolve, never
// an empty row set.
type DataProvider interface {
	SourceData(id string) ([]Row, error)
}

// OperationStat records one executed operator with its before/after row
// counts and elapsed time.
type OperationStat struct {
	Op         string        `json:"op"`
	InputRows  int           `json:"inputRows"`
	OutputRows int           `json:"outputRows"`
	Duration   time.Duration `json:"duration"`
}

// Stats summarizes a pipeline execution. InputRows is the row count fetched
// by the leading SOURCE operator; OutputRows is the final materialized
// count, which Preview keeps intact even when it truncates rows.
type Stats struct {
	InputRows     int             `json:"inputRows"`
	OutputRows    int             `json:"outputRows"`
	Operations    []OperationStat `json:"operationsExecuted"`
	ExecutionTime time.Duration   `json:"executionTime"`
}

// Result is a materialized result set: rows, the ordered column list, and
// execution statistics. Warnings carry non-fatal notices such as skipped
// unknown operators.
type Result struct {
	Rows     []Row
	Columns  []string
	Stats    Stats
	Warnings []string
}

// Option configures an execution.
type Option func(*executor)

// WithClock replaces the wall clock used for statistics timing.
func WithClock(c Clock) Option {
	return func(e *executor) { e.clock = c }
}

// executor threads (rows, columns) through the pipeline. Grouping state
// lives here, not inside rows, so bookkeeping never collides with real
// column names.
type executor struct {
	provider DataProvider
	clock    Clock
	collator *collate.Collator

	rows    []Row
	columns []string
	// groups holds the member rows of each group bucket, aligned with
	// rows while a GROUP is pending. Any operator other than AGGREGATE
	// discards it.
	groups   [][]Row
	stats    Stats
	warnings []string
}

// Execute interprets a pipeline against the data provider, applying
// operators left to right. Execution is synchronous and single-threaded;
// every operator produces a new row collection, leaving its input intact.
// Nested UNION pipelines execute recursively on the host call stack, so
// deeply nested unions inherit its recursion limits.
func Execute(pipeline Pipeline, provider DataProvider, opts ...Option) (*Result, error) {
	if len(pipeline) == 0 {
		return nil, fmt.Errorf("empty pipeline")
	}
	if _, ok := pipeline[0].(Source); !ok {
		return nil, fmt.Errorf("pipeline must begin with a SOURCE operator, got %s", pipeline[0].Op())
	}

	e := &executor{
		provider: provider,
		clock:    SystemClock(),
		collator: collate.New(language.Und),
	}
	for _, opt := range opts {
		opt(e)
	}

	started := e.clock.Now()
	for i, op := range pipeline {
		opStarted := e.clock.Now()
		before := len(e.rows)
		if err := e.step(i, op); err != nil {
			return nil, err
		}
		e.stats.Operations = append(e.stats.Operations, OperationStat{
			Op:         op.Op(),
			InputRows:  before,
			OutputRows: len(e.rows),
			Duration:   e.clock.Now().Sub(opStarted),
		})
	}

	e.stats.OutputRows = len(e.rows)
	e.stats.ExecutionTime = e.clock.Now().Sub(started)

	return &Result{
		Rows:     e.rows,
		Columns:  e.columns,
		Stats:    e.stats,
		Warnings: e.warnings,
	}, nil
}

// step applies a single operator.
func (e *executor) step(index int, op Operator) error {
	// A pending GROUP survives only into AGGREGATE operators.
	switch op.(type) {
	case Group, Aggregate:
	default:
		e.groups = nil
	}

	switch op := op.(type) {
	case Source:
		if index != 0 {
			return fmt.Errorf("SOURCE operator must be first in the pipeline")
		}
		rows, err := e.provider.SourceData(op.Name)
		if err != nil {
			return fmt.Errorf("fetch source %q: %w", op.Name, err)
		}
		e.rows = append([]Row{}, rows...)
		e.columns = inferColumns(rows)
		e.stats.InputRows = len(rows)

	case Filter:
		kept := make([]Row, 0, len(e.rows))
		for _, row := range e.rows {
			if evaluate(row, op.Cond) {
				kept = append(kept, row)
			}
		}
		e.rows = kept

	case Sort:
		e.applySort(op)

	case Limit:
		e.applyLimit(op)

	case Select:
		e.applySelect(op)

	case Group:
		e.applyGroup(op)

	case Aggregate:
		e.applyAggregate(op)

	case Join:
		if err := e.applyJoin(op); err != nil {
			return err
		}

	case Union:
		if err := e.applyUnion(op); err != nil {
			return err
		}

	default:
		// Forward-compatibility: an unrecognized operator is a warning,
		// and data passes through unchanged.
		e.warnings = append(e.warnings, fmt.Sprintf("unknown operator %q skipped", op.Op()))
	}

	return nil
}

// applySort stable-sorts rows by one field. Both sides numeric compares
// numerically, otherwise collated string comparison applies. Pipelines
// carry one SORT per ORDER BY field in listed order, so the last SORT
// becomes the primary key.
func (e *executor) applySort(op Sort) {
	sorted := append([]Row{}, e.rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		cmp := e.compareValues(sorted[i][op.Field], sorted[j][op.Field])
		if op.Desc {
			return cmp > 0
		}
		return cmp < 0
	})
	e.rows = sorted
}

// compareValues orders two scalars: numerically when both coerce, by
// locale-aware string collation otherwise. Nulls order first.
func (e *executor) compareValues(a, b interface{}) int {
	aNum, aOK := toNumber(a)
	bNum, bOK := toNumber(b)
	if aOK && bOK {
		switch {
		case aNum < bNum:
			return -1
		case aNum > bNum:
			return 1
		default:
			return 0
		}
	}
	return e.collator.CompareString(displayString(a), displayString(b))
}

// applyLimit slices rows to [offset, offset+count).
func (e *executor) applyLimit(op Limit) {
	start := op.Offset
	if start > len(e.rows) {
		start = len(e.rows)
	}
	end := start + op.Count
	if end > len(e.rows) {
		end = len(e.rows)
	}
	e.rows = append([]Row{}, e.rows[start:end]...)
}

// applySelect projects rows to the requested fields in order. Fields
// missing from a row are left absent rather than failing; the column still
// appears in the column list. A "*" entry expands to the current columns.
func (e *executor) applySelect(op Select) {
	if len(op.Fields) == 1 && op.Fields[0] == "*" {
		return
	}

	var columns []string
	for _, field := range op.Fields {
		if field == "*" {
			for _, col := range e.columns {
				columns = appendColumn(columns, col)
			}
			continue
		}
		columns = appendColumn(columns, field)
	}

	projected := make([]Row, len(e.rows))
	for i, row := range e.rows {
		newRow := make(Row, len(columns))
		for _, col := range columns {
			if value, ok := row[col]; ok {
				newRow[col] = value
			}
		}
		projected[i] = newRow
	}

	e.rows = projected
	e.columns = columns
}

// applyGroup partitions rows into buckets keyed by the tuple of group field
// values, null values rendering as the literal "(null)". Output rows carry
// the key fields; member rows live in executor state for the AGGREGATE
// operators that follow.
func (e *executor) applyGroup(op Group) {
	type bucket struct {
		keyRow  Row
		members []Row
	}

	index := make(map[string]*bucket)
	var order []string

	for _, row := range e.rows {
		parts := make([]string, len(op.Fields))
		keyRow := make(Row, len(op.Fields))
		for i, field := range op.Fields {
			value, ok := row[field]
			if isNullValue(value, ok) {
				parts[i] = "(null)"
			} else {
				parts[i] = displayString(value)
			}
			keyRow[field] = value
		}
		key := strings.Join(parts, "\x00")

		b, ok := index[key]
		if !ok {
			b = &bucket{keyRow: keyRow}
			index[key] = b
			order = append(order, key)
		}
		b.members = append(b.members, row)
	}

	rows := make([]Row, len(order))
	groups := make([][]Row, len(order))
	for i, key := range order {
		rows[i] = index[key].keyRow
		groups[i] = index[key].members
	}

	e.rows = rows
	e.groups = groups
	e.columns = append([]string{}, op.Fields...)
}

// applyAggregate computes one aggregate per group bucket and stores it
// under the alias. Without a pending GROUP the whole row set forms a single
// bucket.
func (e *executor) applyAggregate(op Aggregate) {
	if e.groups == nil {
		e.groups = [][]Row{e.rows}
		e.rows = []Row{{}}
		e.columns = nil
	}

	for i, row := range e.rows {
		row[op.Alias] = aggregateValue(op.Fn, op.Field, e.groups[i])
	}
	e.columns = appendColumn(e.columns, op.Alias)
}

// aggregateValue computes a single aggregate over a bucket's member rows.
// SUM, AVG, MIN and MAX consider only values that coerce to numbers and
// yield null for an empty set.
func aggregateValue(fn AggFunc, field string, members []Row) interface{} {
	switch fn {
	case AggCount:
		if field == "*" {
			return float64(len(members))
		}
		count := 0
		for _, row := range members {
			value, ok := row[field]
			if !isNullValue(value, ok) {
				count++
			}
		}
		return float64(count)

	case AggSum, AggAvg:
		sum := 0.0
		count := 0
		for _, row := range members {
			if n, ok := toNumber(row[field]); ok {
				sum += n
				count++
			}
		}
		if count == 0 {
			return nil
		}
		if fn == AggAvg {
			return sum / float64(count)
		}
		return sum

	case AggMin, AggMax:
		var best *float64
		for _, row := range members {
			n, ok := toNumber(row[field])
			if !ok {
				continue
			}
			if best == nil || (fn == AggMin && n < *best) || (fn == AggMax && n > *best) {
				v := n
				best = &v
			}
		}
		if best == nil {
			return nil
		}
		return *best
	}
	return nil
}

// applyJoin hash-indexes the freshly fetched right source on its key and
// matches the accumulated rows against it. Keys compare case-insensitively;
// rows with a null key never match. INNER (and, as a documented gap, RIGHT)
// emits matches only; LEFT also emits unmatched left rows padded with null
// right columns.
func (e *executor) applyJoin(op Join) error {
	rightRows, err := e.provider.SourceData(op.Source)
	if err != nil {
		return fmt.Errorf("fetch join source %q: %w", op.Source, err)
	}
	rightColumns := inferColumns(rightRows)

	index := make(map[string][]Row)
	for _, row := range rightRows {
		value, ok := row[op.RightKey]
		if isNullValue(value, ok) {
			continue
		}
		key := foldString(value)
		index[key] = append(index[key], row)
	}

	var joined []Row
	for _, left := range e.rows {
		value, ok := left[op.LeftKey]
		var matches []Row
		if !isNullValue(value, ok) {
			matches = index[foldString(value)]
		}

		if len(matches) == 0 {
			if op.Kind == JoinLeft {
				joined = append(joined, mergeRows(left, nullRow(rightColumns)))
			}
			continue
		}
		for _, right := range matches {
			joined = append(joined, mergeRows(left, right))
		}
	}

	e.rows = joined
	for _, col := range rightColumns {
		e.columns = appendColumn(e.columns, col)
	}
	return nil
}

// applyUnion executes the right-hand pipeline recursively and concatenates
// its rows. Without ALL, rows deduplicate by structural equality, first
// occurrence winning.
func (e *executor) applyUnion(op Union) error {
	right, err := Execute(op.Right, e.provider, WithClock(e.clock))
	if err != nil {
		return fmt.Errorf("union: %w", err)
	}

	combined := append(append([]Row{}, e.rows...), right.Rows...)
	if !op.All {
		seen := make(map[string]bool, len(combined))
		deduped := make([]Row, 0, len(combined))
		for _, row := range combined {
			key := rowKey(row)
			if !seen[key] {
				seen[key] = true
				deduped = append(deduped, row)
			}
		}
		combined = deduped
	}

	e.rows = combined
	for _, col := range right.Columns {
		e.columns = appendColumn(e.columns, col)
	}
	e.warnings = append(e.warnings, right.Warnings...)
	return nil
}

// mergeRows copies the left row and lays the right row's fields over it.
func mergeRows(left, right Row) Row {
	merged := make(Row, len(left)+len(right))
	for k, v := range left {
		merged[k] = v
	}
	for k, v := range right {
		merged[k] = v
	}
	return merged
}

// nullRow builds an all-null row over the given columns.
func nullRow(columns []string) Row {
	row := make(Row, len(columns))
	for _, col := range columns {
		row[col] = nil
	}
	return row
}

// inferColumns derives the column list from the first row's keys, sorted
// so inference is deterministic regardless of map iteration order.
func inferColumns(rows []Row) []string {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]string, 0, len(rows[0]))
	for col := range rows[0] {
		columns = append(columns, col)
	}
	sort.Strings(columns)
	return columns
}

// appendColumn appends a column name unless already present.
func appendColumn(columns []string, col string) []string {
	for _, existing := range columns {
		if existing == col {
			return columns
		}
	}
	return append(columns, col)
}
