// Package query implements a small SQL dialect for deriving computed tables
// from in-memory tabular data.
//
// The package contains a lexer for tokenization, a recursive-descent parser
// that emits an ordered operator pipeline, and an executor that interprets
// the pipeline against a pluggable data provider. The executor materializes
// a result set together with per-operator execution statistics.
//
// Example usage:
//
//	parsed, err := query.Parse("SELECT name, age FROM people WHERE age > 30")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result, err := query.Execute(parsed.Pipeline, provider)
package query

import "fmt"

// Row is an open string-keyed record of scalar values. Rows loaded from
// different sources may have disjoint key sets, especially after joins and
// unions.
type Row = map[string]interface{}

// TokenKind classifies a lexical token.
type TokenKind int

const (
	TokenString TokenKind = iota
	TokenNumber
	TokenIdent
	TokenKeyword
	TokenOperator
	TokenPunct
	TokenEOF
)

// String returns a human-readable name for the token kind, used in parse
// error messages.
func (k TokenKind) String() string {
	switch k {
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenIdent:
		return "identifier"
	case TokenKeyword:
		return "keyword"
	case TokenOperator:
		return "operator"
	case TokenPunct:
		return "punctuation"
	case TokenEOF:
		return "end of query"
	default:
		return "unknown"
	}
}

// Token is a single lexical token. Keyword tokens carry their value
// normalized to upper case.
type Token struct {
	Kind  TokenKind
	Value string
}

// Predicate names a comparison kind used by filter conditions.
type Predicate string

const (
	PredEq       Predicate = "eq"
	PredNeq      Predicate = "neq"
	PredGt       Predicate = "gt"
	PredLt       Predicate = "lt"
	PredGte      Predicate = "gte"
	PredLte      Predicate = "lte"
	PredContains Predicate = "contains"
	PredStarts   Predicate = "starts"
	PredEnds     Predicate = "ends"
	PredIn       Predicate = "in"
	PredNull     Predicate = "null"
	PredNotNull  Predicate = "notnull"
	PredBetween  Predicate = "between"
)

// Condition is a single field comparison evaluated by FILTER operators.
// Value holds the comparison operand for scalar predicates. List holds the
// candidate set for the "in" predicate, and the lower/upper pair for
// "between". The "null" and "notnull" predicates use neither.
type Condition struct {
	Field string
	Pred  Predicate
	Value interface{}
	List  []interface{}
}

// AggFunc names an aggregate function.
type AggFunc string

const (
	AggCount AggFunc = "COUNT"
	AggSum   AggFunc = "SUM"
	AggAvg   AggFunc = "AVG"
	AggMin   AggFunc = "MIN"
	AggMax   AggFunc = "MAX"
)

// AggregateSpec describes one aggregate collected from the SELECT list.
// Field is "*" for COUNT(*). Alias is the output column name.
type AggregateSpec struct {
	Fn    AggFunc
	Field string
	Alias string
}

// Parsed is the parser's output: the operator pipeline, the source ids
// referenced by FROM and JOIN clauses in appearance order, the requested
// output field list, and the aggregates collected from the SELECT list.
type Parsed struct {
	Pipeline     Pipeline
	SourceRefs   []string
	SelectFields []string
	Aggregates   []AggregateSpec
}

// ParseError reports an unexpected token during parsing. No partial pipeline
// is returned alongside a ParseError.
type ParseError struct {
	Expected string
	Got      Token
}

func (e *ParseError) Error() string {
	if e.Got.Kind == TokenEOF {
		return fmt.Sprintf("expected %s, got end of query", e.Expected)
	}
	return fmt.Sprintf("expected %s, got %s %q", e.Expected, e.Got.Kind, e.Got.Value)
}

// UnknownSourceError reports a SOURCE or JOIN operator referencing a source
// id the data provider cannot resolve. Providers must return it (or an
// equivalent error) rather than silently yielding empty data.
type UnknownSourceError struct {
	Source string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source %q", e.Source)
}
