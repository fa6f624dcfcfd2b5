package query

import "testing"

func TestEvaluate(t *testing.T) {
	row := Row{
		"name":   "Ann Smith",
		"age":    float64(34),
		"score":  "85.5",
		"status": "Active",
		"email":  "",
		"vip":    nil,
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{
			name: "eq is case-insensitive",
			cond: Condition{Field: "status", Pred: PredEq, Value: "ACTIVE"},
			want: true,
		},
		{
			name: "eq compares numbers by display string",
			cond: Condition{Field: "age", Pred: PredEq, Value: float64(34)},
			want: true,
		},
		{
			name: "neq",
			cond: Condition{Field: "status", Pred: PredNeq, Value: "inactive"},
			want: true,
		},
		{
			name: "gt coerces numeric strings",
			cond: Condition{Field: "score", Pred: PredGt, Value: float64(80)},
			want: true,
		},
		{
			name: "gt against non-numeric fails closed",
			cond: Condition{Field: "name", Pred: PredGt, Value: float64(1)},
			want: false,
		},
		{
			name: "lte",
			cond: Condition{Field: "age", Pred: PredLte, Value: float64(34)},
			want: true,
		},
		{
			name: "contains ignores case",
			cond: Condition{Field: "name", Pred: PredContains, Value: "SMITH"},
			want: true,
		},
		{
			name: "starts",
			cond: Condition{Field: "name", Pred: PredStarts, Value: "ann"},
			want: true,
		},
		{
			name: "ends",
			cond: Condition{Field: "name", Pred: PredEnds, Value: "smith"},
			want: true,
		},
		{
			name: "in matches case-insensitively",
			cond: Condition{Field: "status", Pred: PredIn, List: []interface{}{"dormant", "ACTIVE"}},
			want: true,
		},
		{
			name: "in misses",
			cond: Condition{Field: "status", Pred: PredIn, List: []interface{}{"dormant"}},
			want: false,
		},
		{
			name: "between inclusive bounds",
			cond: Condition{Field: "age", Pred: PredBetween, List: []interface{}{float64(34), float64(40)}},
			want: true,
		},
		{
			name: "between outside",
			cond: Condition{Field: "age", Pred: PredBetween, List: []interface{}{float64(40), float64(50)}},
			want: false,
		},
		{
			name: "null matches empty string",
			cond: Condition{Field: "email", Pred: PredNull},
			want: true,
		},
		{
			name: "null matches nil",
			cond: Condition{Field: "vip", Pred: PredNull},
			want: true,
		},
		{
			name: "null matches missing field",
			cond: Condition{Field: "nope", Pred: PredNull},
			want: true,
		},
		{
			name: "notnull",
			cond: Condition{Field: "name", Pred: PredNotNull},
			want: true,
		},
		{
			name: "notnull rejects empty string",
			cond: Condition{Field: "email", Pred: PredNotNull},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluate(row, tt.cond); got != tt.want {
				t.Errorf("evaluate(%+v) = %v, want %v", tt.cond, got, tt.want)
			}
		})
	}
}

func TestDisplayString(t *testing.T) {
	tests := []struct {
		in   interface{}
		want string
	}{
		{in: nil, want: ""},
		{in: "abc", want: "abc"},
		{in: float64(40), want: "40"},
		{in: float64(40.5), want: "40.5"},
		{in: true, want: "true"},
	}
	for _, tt := range tests {
		if got := displayString(tt.in); got != tt.want {
			t.Errorf("displayString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   interface{}
		want float64
		ok   bool
	}{
		{in: float64(1.5), want: 1.5, ok: true},
		{in: int(7), want: 7, ok: true},
		{in: int64(-3), want: -3, ok: true},
		{in: "42", want: 42, ok: true},
		{in: " 42 ", want: 42, ok: true},
		{in: "forty", ok: false},
		{in: nil, ok: false},
		{in: true, ok: false},
	}
	for _, tt := range tests {
		got, ok := toNumber(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Errorf("toNumber(%v) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRowKey(t *testing.T) {
	a := Row{"x": "1", "y": float64(2)}
	b := Row{"y": float64(2), "x": "1"}
	c := Row{"x": "1", "y": float64(3)}

	if rowKey(a) != rowKey(b) {
		t.Errorf("key must not depend on construction order")
	}
	if rowKey(a) == rowKey(c) {
		t.Errorf("different rows must not collide")
	}
}
