package query

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// evaluate applies a condition to one row. Ordering predicates coerce both
// sides numerically; equality and substring predicates compare
// case-insensitive display strings; null predicates treat missing keys,
// nils and empty strings as null. Values that fail coercion simply do not
// match.
func evaluate(row Row, cond Condition) bool {
	value, exists := row[cond.Field]

	switch cond.Pred {
	case PredNull:
		return isNullValue(value, exists)
	case PredNotNull:
		return !isNullValue(value, exists)

	case PredEq:
		return strings.EqualFold(displayString(value), displayString(cond.Value))
	case PredNeq:
		return !strings.EqualFold(displayString(value), displayString(cond.Value))

	case PredContains:
		return strings.Contains(foldString(value), foldString(cond.Value))
	case PredStarts:
		return strings.HasPrefix(foldString(value), foldString(cond.Value))
	case PredEnds:
		return strings.HasSuffix(foldString(value), foldString(cond.Value))

	case PredIn:
		needle := foldString(value)
		for _, candidate := range cond.List {
			if foldString(candidate) == needle {
				return true
			}
		}
		return false

	case PredGt, PredLt, PredGte, PredLte:
		left, okL := toNumber(value)
		right, okR := toNumber(cond.Value)
		if !okL || !okR {
			return false
		}
		switch cond.Pred {
		case PredGt:
			return left > right
		case PredLt:
			return left < right
		case PredGte:
			return left >= right
		default:
			return left <= right
		}

	case PredBetween:
		if len(cond.List) != 2 {
			return false
		}
		v, okV := toNumber(value)
		low, okL := toNumber(cond.List[0])
		high, okH := toNumber(cond.List[1])
		return okV && okL && okH && v >= low && v <= high
	}

	return false
}

// isNullValue reports whether a row value counts as null: a missing key,
// nil, or an empty string.
func isNullValue(value interface{}, exists bool) bool {
	if !exists || value == nil {
		return true
	}
	s, ok := value.(string)
	return ok && s == ""
}

// toNumber coerces a value to float64. Numeric strings parse; everything
// else fails.
func toNumber(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		return n, err == nil
	default:
		return 0, false
	}
}

// displayString renders a scalar the way it compares and prints. Floats
// with no fractional part render without a decimal point so 40 and 40.0
// compare equal.
func displayString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// foldString is displayString lower-cased, for case-insensitive matching.
func foldString(v interface{}) string {
	return strings.ToLower(displayString(v))
}

// rowKey builds a structural identity key for a row, used by UNION
// deduplication. Columns are visited in sorted order so key generation does
// not depend on map iteration.
func rowKey(row Row) string {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	var key strings.Builder
	for i, col := range columns {
		if i > 0 {
			key.WriteString("\x00|\x00")
		}
		key.WriteString(col)
		key.WriteString("\x00:\x00")
		key.WriteString(fmt.Sprintf("%#v", row[col]))
	}
	return key.String()
}
