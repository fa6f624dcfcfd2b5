package query

// Operator is one node of the operator pipeline produced by the parser.
// The executor dispatches on the concrete type; the Op method names the
// operator kind in execution statistics. Operator kinds the executor does
// not recognize pass data through unchanged with a warning.
type Operator interface {
	// Op returns the operator kind name (SOURCE, FILTER, ...).
	Op() string
}

// Pipeline is an ordered list of operators. Order is execution order: the
// first operator of every pipeline (including nested UNION sub-pipelines)
// is a Source.
type Pipeline []Operator

// Source fetches a named source's complete row set from the data provider.
type Source struct {
	Name string
}

// Filter keeps rows matching a single condition. PostGroup marks HAVING
// conditions, which apply to aggregated rows.
type Filter struct {
	Cond      Condition
	PostGroup bool
}

// Sort orders rows by one field. A stable sort is required; consecutive
// Sort operators are applied in pipeline order, so the last one becomes the
// primary sort key.
type Sort struct {
	Field string
	Desc  bool
}

// Limit slices rows to [Offset, Offset+Count).
type Limit struct {
	Count  int
	Offset int
}

// Select projects rows to the named fields in the requested order. A
// single "*" field passes rows through unchanged.
type Select struct {
	Fields []string
}

// Group partitions rows into buckets keyed by the listed field values.
type Group struct {
	Fields []string
}

// Aggregate computes one aggregate per group bucket and stores the result
// under Alias. Without a preceding Group the whole row set forms a single
// bucket.
type Aggregate struct {
	Fn    AggFunc
	Field string
	Alias string
}

// JoinKind selects the join algorithm.
type JoinKind int

const (
	JoinInner JoinKind = iota
	JoinLeft
	JoinRight
)

func (k JoinKind) String() string {
	switch k {
	case JoinLeft:
		return "LEFT"
	case JoinRight:
		return "RIGHT"
	default:
		return "INNER"
	}
}

// Join matches the accumulated row set (left side) against a freshly
// fetched source (right side) on an equality key pair.
//
// Only INNER and LEFT semantics are guaranteed. RIGHT parses and executes
// with inner-join behavior; unmatched right rows are not emitted.
type Join struct {
	Kind     JoinKind
	Source   string
	LeftKey  string
	RightKey string
}

// Union concatenates the accumulated rows with the result of a second,
// recursively executed pipeline. Without All, duplicate rows are removed by
// structural equality.
type Union struct {
	All   bool
	Right Pipeline
}

func (Source) Op() string    { return "SOURCE" }
func (Filter) Op() string    { return "FILTER" }
func (Sort) Op() string      { return "SORT" }
func (Limit) Op() string     { return "LIMIT" }
func (Select) Op() string    { return "SELECT" }
func (Group) Op() string     { return "GROUP" }
func (Aggregate) Op() string { return "AGGREGATE" }
func (Join) Op() string      { return "JOIN" }
func (Union) Op() string     { return "UNION" }
