package query

import "testing"

func TestPreview_TruncatesRowsKeepsTotals(t *testing.T) {
	result, err := Preview("SELECT * FROM people ORDER BY age", peopleProvider(), 2)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(result.Rows) != 2 {
		t.Errorf("rows = %d, want 2", len(result.Rows))
	}
	if result.Stats.OutputRows != 5 {
		t.Errorf("stats output rows = %d, want the untruncated 5", result.Stats.OutputRows)
	}
}

func TestPreview_DefaultLimit(t *testing.T) {
	result, err := Preview("SELECT * FROM people", peopleProvider(), 0)
	if err != nil {
		t.Fatalf("Preview() error = %v", err)
	}
	if len(result.Rows) != 5 {
		t.Errorf("rows = %d, want all 5 under the default limit", len(result.Rows))
	}
}

func TestPreview_PropagatesErrors(t *testing.T) {
	if _, err := Preview("SELECT FROM", peopleProvider(), 10); err == nil {
		t.Error("parse errors must propagate")
	}
	if _, err := Preview("SELECT * FROM missing", peopleProvider(), 10); err == nil {
		t.Error("execution errors must propagate")
	}
}
