package query

import (
	"strconv"
	"strings"
)

// comparisonPredicates maps comparison operator tokens to predicates.
var comparisonPredicates = map[string]Predicate{
	"=":  PredEq,
	"!=": PredNeq,
	"<>": PredNeq,
	">":  PredGt,
	"<":  PredLt,
	">=": PredGte,
	"<=": PredLte,
}

// Parser turns a token stream into an operator pipeline. It keeps a single
// forward cursor with one-token lookahead and never backtracks.
type Parser struct {
	tokens []Token
	pos    int
}

// NewParser creates a new parser.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens}
}

// current returns the current token.
func (p *Parser) current() Token {
	if p.pos >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos]
}

// peek returns the next token without advancing.
func (p *Parser) peek() Token {
	if p.pos+1 >= len(p.tokens) {
		return Token{Kind: TokenEOF}
	}
	return p.tokens[p.pos+1]
}

// advance moves to the next token.
func (p *Parser) advance() {
	p.pos++
}

// atKeyword reports whether the current token is the given keyword.
func (p *Parser) atKeyword(kw string) bool {
	t := p.current()
	return t.Kind == TokenKeyword && t.Value == kw
}

// expectKeyword consumes the given keyword or fails.
func (p *Parser) expectKeyword(kw string) error {
	if !p.atKeyword(kw) {
		return &ParseError{Expected: kw, Got: p.current()}
	}
	p.advance()
	return nil
}

// expectPunct consumes the given punctuation character or fails.
func (p *Parser) expectPunct(v string) error {
	t := p.current()
	if t.Kind != TokenPunct || t.Value != v {
		return &ParseError{Expected: strconv.Quote(v), Got: t}
	}
	p.advance()
	return nil
}

// expectIdent consumes and returns an identifier or fails.
func (p *Parser) expectIdent(what string) (string, error) {
	t := p.current()
	if t.Kind != TokenIdent {
		return "", &ParseError{Expected: what, Got: t}
	}
	p.advance()
	return t.Value, nil
}

// Parse parses a full statement (including any trailing UNION) and returns
// the operator pipeline together with referenced source ids, the requested
// field list, and collected aggregate specs. On failure no partial pipeline
// is returned.
func Parse(queryText string) (*Parsed, error) {
	parser := NewParser(Tokenize(queryText))

	parsed, err := parser.parseStatement()
	if err != nil {
		return nil, err
	}

	if parser.current().Kind != TokenEOF {
		return nil, &ParseError{Expected: "end of query", Got: parser.current()}
	}

	return parsed, nil
}

// parseStatement parses one SELECT statement and emits operators in the
// required order: SOURCE, JOINs, FILTERs, GROUP, AGGREGATEs, post-group
// FILTERs, SORTs, LIMIT, trailing projection SELECT, UNION.
func (p *Parser) parseStatement() (*Parsed, error) {
	out := &Parsed{}

	if err := p.expectKeyword("SELECT"); err != nil {
		return nil, err
	}

	// DISTINCT parses but emits no standalone operator.
	if p.atKeyword("DISTINCT") {
		p.advance()
	}

	if err := p.parseSelectList(out); err != nil {
		return nil, err
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}

	sourceName, err := p.parseSourceName()
	if err != nil {
		return nil, err
	}
	out.Pipeline = append(out.Pipeline, Source{Name: sourceName})
	out.SourceRefs = append(out.SourceRefs, sourceName)
	p.skipAlias()

	// JOIN clauses, one JOIN operator per clause.
	for {
		join, ok, err := p.parseJoin()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out.Pipeline = append(out.Pipeline, *join)
		out.SourceRefs = append(out.SourceRefs, join.Source)
	}

	// WHERE: one FILTER per AND-joined condition.
	if p.atKeyword("WHERE") {
		p.advance()
		for {
			cond, err := p.parseCondition()
			if err != nil {
				return nil, err
			}
			out.Pipeline = append(out.Pipeline, Filter{Cond: cond})
			if !p.atKeyword("AND") {
				break
			}
			p.advance()
		}
	}

	// GROUP BY, then one AGGREGATE per collected aggregate. Aggregates
	// without GROUP BY still emit, and aggregate the whole row set.
	if p.atKeyword("GROUP") {
		p.advance()
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		fields, err := p.parseFieldList()
		if err != nil {
			return nil, err
		}
		out.Pipeline = append(out.Pipeline, Group{Fields: fields})
	}
	for _, agg := range out.Aggregates {
		out.Pipeline = append(out.Pipeline, Aggregate{Fn: agg.Fn, Field: agg.Field, Alias: agg.Alias})
	}

	// HAVING: post-group FILTER operators.
	if p.atKeyword("HAVING") {
		p.advance()
		for {
			cond, err := p.parseCondition()
			if err != nil {
				return nil, err
			}
			out.Pipeline = append(out.Pipeline, Filter{Cond: cond, PostGroup: true})
			if !p.atKeyword("AND") {
				break
			}
			p.advance()
		}
	}

	// ORDER BY: one SORT per field in listed order.
	if p.atKeyword("ORDER") {
		p.advance()
		if err := p.expectKeyword("BY"); err != nil {
			return nil, err
		}
		for {
			field, err := p.expectIdent("sort field")
			if err != nil {
				return nil, err
			}
			sortOp := Sort{Field: field}
			if p.atKeyword("ASC") {
				p.advance()
			} else if p.atKeyword("DESC") {
				sortOp.Desc = true
				p.advance()
			}
			out.Pipeline = append(out.Pipeline, sortOp)
			if p.current().Kind != TokenPunct || p.current().Value != "," {
				break
			}
			p.advance()
		}
	}

	// LIMIT n [OFFSET m].
	if p.atKeyword("LIMIT") {
		p.advance()
		count, err := p.parseInt("limit count")
		if err != nil {
			return nil, err
		}
		limitOp := Limit{Count: count}
		if p.atKeyword("OFFSET") {
			p.advance()
			offset, err := p.parseInt("offset count")
			if err != nil {
				return nil, err
			}
			limitOp.Offset = offset
		}
		out.Pipeline = append(out.Pipeline, limitOp)
	}

	// Trailing projection, unless the column list was a bare *.
	if !(len(out.SelectFields) == 1 && out.SelectFields[0] == "*") {
		out.Pipeline = append(out.Pipeline, Select{Fields: out.SelectFields})
	}

	// UNION [ALL] <select statement>, parsed recursively.
	if p.atKeyword("UNION") {
		p.advance()
		all := false
		if p.atKeyword("ALL") {
			all = true
			p.advance()
		}
		right, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		out.Pipeline = append(out.Pipeline, Union{All: all, Right: right.Pipeline})
		out.SourceRefs = append(out.SourceRefs, right.SourceRefs...)
	}

	return out, nil
}

// parseSelectList parses the column list: *, aggregate calls, or field
// names, each with an optional AS alias. Collected aggregates land in
// out.Aggregates; every entry contributes its output name to
// out.SelectFields.
func (p *Parser) parseSelectList(out *Parsed) error {
	for {
		t := p.current()
		switch {
		case t.Kind == TokenPunct && t.Value == "*":
			p.advance()
			out.SelectFields = append(out.SelectFields, "*")

		case t.Kind == TokenKeyword && isAggFunc(t.Value):
			agg, err := p.parseAggregate(AggFunc(t.Value))
			if err != nil {
				return err
			}
			out.Aggregates = append(out.Aggregates, *agg)
			out.SelectFields = append(out.SelectFields, agg.Alias)

		case t.Kind == TokenIdent:
			p.advance()
			name := t.Value
			if alias, ok, err := p.parseAlias(); err != nil {
				return err
			} else if ok {
				name = alias
			}
			out.SelectFields = append(out.SelectFields, name)

		default:
			return &ParseError{Expected: "column name, aggregate, or *", Got: t}
		}

		if p.current().Kind == TokenPunct && p.current().Value == "," {
			p.advance()
			continue
		}
		return nil
	}
}

// parseAggregate parses fn(field|*) [AS alias]. The cursor is on the
// function keyword. Without an alias the lower-cased function name is used.
func (p *Parser) parseAggregate(fn AggFunc) (*AggregateSpec, error) {
	p.advance()
	if err := p.expectPunct("("); err != nil {
		return nil, err
	}

	var field string
	t := p.current()
	switch {
	case t.Kind == TokenPunct && t.Value == "*":
		field = "*"
		p.advance()
	case t.Kind == TokenIdent:
		field = t.Value
		p.advance()
	default:
		return nil, &ParseError{Expected: "aggregate field or *", Got: t}
	}

	if err := p.expectPunct(")"); err != nil {
		return nil, err
	}

	alias := strings.ToLower(string(fn))
	if a, ok, err := p.parseAlias(); err != nil {
		return nil, err
	} else if ok {
		alias = a
	}

	return &AggregateSpec{Fn: fn, Field: field, Alias: alias}, nil
}

// parseAlias consumes an optional AS alias clause.
func (p *Parser) parseAlias() (string, bool, error) {
	if !p.atKeyword("AS") {
		return "", false, nil
	}
	p.advance()
	alias, err := p.expectIdent("alias")
	if err != nil {
		return "", false, err
	}
	return alias, true, nil
}

// parseSourceName accepts an identifier or quoted string as a source id.
func (p *Parser) parseSourceName() (string, error) {
	t := p.current()
	if t.Kind != TokenIdent && t.Kind != TokenString {
		return "", &ParseError{Expected: "source name", Got: t}
	}
	p.advance()
	return t.Value, nil
}

// skipAlias consumes an optional AS alias after a source name. The dialect
// has no qualified column resolution, so the alias itself is discarded.
func (p *Parser) skipAlias() {
	if p.atKeyword("AS") {
		p.advance()
		if p.current().Kind == TokenIdent {
			p.advance()
		}
	}
}

// parseJoin parses [INNER|LEFT|RIGHT] JOIN source ON left = right. Returns
// ok=false when the cursor is not at a join clause.
func (p *Parser) parseJoin() (*Join, bool, error) {
	kind := JoinInner
	switch {
	case p.atKeyword("JOIN"):
		p.advance()
	case p.atKeyword("INNER") && p.peek().Kind == TokenKeyword && p.peek().Value == "JOIN":
		p.advance()
		p.advance()
	case p.atKeyword("LEFT") && p.peek().Kind == TokenKeyword && p.peek().Value == "JOIN":
		kind = JoinLeft
		p.advance()
		p.advance()
	case p.atKeyword("RIGHT") && p.peek().Kind == TokenKeyword && p.peek().Value == "JOIN":
		kind = JoinRight
		p.advance()
		p.advance()
	default:
		return nil, false, nil
	}

	source, err := p.parseSourceName()
	if err != nil {
		return nil, false, err
	}
	p.skipAlias()

	if err := p.expectKeyword("ON"); err != nil {
		return nil, false, err
	}

	leftKey, err := p.expectIdent("join key")
	if err != nil {
		return nil, false, err
	}
	t := p.current()
	if t.Kind != TokenOperator || t.Value != "=" {
		return nil, false, &ParseError{Expected: "= (only equality joins are supported)", Got: t}
	}
	p.advance()
	rightKey, err := p.expectIdent("join key")
	if err != nil {
		return nil, false, err
	}

	// Join keys may be written qualified (a.id = b.aid); rows carry bare
	// field names, so the qualifier is dropped.
	return &Join{
		Kind:     kind,
		Source:   source,
		LeftKey:  unqualify(leftKey),
		RightKey: unqualify(rightKey),
	}, true, nil
}

// parseCondition parses one WHERE/HAVING condition: a field followed by a
// comparison operator and value, IS [NOT] NULL, IN (...), LIKE, or
// BETWEEN a AND b.
func (p *Parser) parseCondition() (Condition, error) {
	field, err := p.expectIdent("field name")
	if err != nil {
		return Condition{}, err
	}
	cond := Condition{Field: field}

	t := p.current()
	switch {
	case t.Kind == TokenOperator:
		pred, ok := comparisonPredicates[t.Value]
		if !ok {
			return Condition{}, &ParseError{Expected: "comparison operator", Got: t}
		}
		p.advance()
		value, err := p.parseValue()
		if err != nil {
			return Condition{}, err
		}
		cond.Pred = pred
		cond.Value = value

	case t.Kind == TokenKeyword && t.Value == "IS":
		p.advance()
		cond.Pred = PredNull
		if p.atKeyword("NOT") {
			p.advance()
			cond.Pred = PredNotNull
		}
		if err := p.expectKeyword("NULL"); err != nil {
			return Condition{}, err
		}

	case t.Kind == TokenKeyword && t.Value == "IN":
		p.advance()
		if err := p.expectPunct("("); err != nil {
			return Condition{}, err
		}
		cond.Pred = PredIn
		for {
			value, err := p.parseValue()
			if err != nil {
				return Condition{}, err
			}
			cond.List = append(cond.List, value)
			if p.current().Kind == TokenPunct && p.current().Value == "," {
				p.advance()
				continue
			}
			break
		}
		if err := p.expectPunct(")"); err != nil {
			return Condition{}, err
		}

	case t.Kind == TokenKeyword && t.Value == "LIKE":
		p.advance()
		pat := p.current()
		if pat.Kind != TokenString {
			return Condition{}, &ParseError{Expected: "pattern string", Got: pat}
		}
		p.advance()
		cond.Pred, cond.Value = translateLike(pat.Value)

	case t.Kind == TokenKeyword && t.Value == "BETWEEN":
		p.advance()
		low, err := p.parseValue()
		if err != nil {
			return Condition{}, err
		}
		if err := p.expectKeyword("AND"); err != nil {
			return Condition{}, err
		}
		high, err := p.parseValue()
		if err != nil {
			return Condition{}, err
		}
		cond.Pred = PredBetween
		cond.List = []interface{}{low, high}

	default:
		return Condition{}, &ParseError{Expected: "comparison operator", Got: t}
	}

	return cond, nil
}

// translateLike maps a LIKE pattern to a predicate: wildcards on both ends
// mean contains, a trailing wildcard means starts, a leading one means
// ends. A pattern without % wildcards degrades to an equality check;
// interior wildcards are not translated.
func translateLike(pattern string) (Predicate, string) {
	leading := strings.HasPrefix(pattern, "%")
	trailing := strings.HasSuffix(pattern, "%") && pattern != "%"
	trimmed := strings.TrimSuffix(strings.TrimPrefix(pattern, "%"), "%")

	switch {
	case leading && trailing:
		return PredContains, trimmed
	case trailing:
		return PredStarts, trimmed
	case leading:
		return PredEnds, trimmed
	default:
		return PredEq, trimmed
	}
}

// parseValue parses a literal condition value. Numbers become float64,
// quoted strings and bare words become strings.
func (p *Parser) parseValue() (interface{}, error) {
	t := p.current()
	switch t.Kind {
	case TokenString, TokenIdent:
		p.advance()
		return t.Value, nil
	case TokenNumber:
		p.advance()
		n, err := strconv.ParseFloat(t.Value, 64)
		if err != nil {
			return nil, &ParseError{Expected: "numeric literal", Got: t}
		}
		return n, nil
	default:
		return nil, &ParseError{Expected: "value", Got: t}
	}
}

// parseFieldList parses a comma-separated identifier list.
func (p *Parser) parseFieldList() ([]string, error) {
	var fields []string
	for {
		field, err := p.expectIdent("field name")
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
		if p.current().Kind == TokenPunct && p.current().Value == "," {
			p.advance()
			continue
		}
		return fields, nil
	}
}

// parseInt parses a non-negative integer literal.
func (p *Parser) parseInt(what string) (int, error) {
	t := p.current()
	if t.Kind != TokenNumber {
		return 0, &ParseError{Expected: what, Got: t}
	}
	n, err := strconv.Atoi(t.Value)
	if err != nil || n < 0 {
		return 0, &ParseError{Expected: what, Got: t}
	}
	p.advance()
	return n, nil
}

// isAggFunc reports whether a keyword names an aggregate function.
func isAggFunc(kw string) bool {
	switch AggFunc(kw) {
	case AggCount, AggSum, AggAvg, AggMin, AggMax:
		return true
	}
	return false
}

// unqualify strips a table qualifier from a field reference (a.id -> id).
func unqualify(field string) string {
	if i := strings.LastIndex(field, "."); i >= 0 {
		return field[i+1:]
	}
	return field
}
