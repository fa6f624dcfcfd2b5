package query

// DefaultPreviewLimit caps preview result sets when callers pass a
// non-positive limit.
const DefaultPreviewLimit = 100

// Preview parses and executes a query, truncating the materialized rows to
// at most limit while Stats.OutputRows keeps the true total. Parse and
// execution errors propagate unchanged.
func Preview(queryText string, provider DataProvider, limit int, opts ...Option) (*Result, error) {
	if limit <= 0 {
		limit = DefaultPreviewLimit
	}

	parsed, err := Parse(queryText)
	if err != nil {
		return nil, err
	}

	result, err := Execute(parsed.Pipeline, provider, opts...)
	if err != nil {
		return nil, err
	}

	if len(result.Rows) > limit {
		result.Rows = result.Rows[:limit]
	}
	return result, nil
}
