package output

import (
	"bytes"
	"testing"

	"github.com/deriveql/deriveql/query"
)

func sampleResult() *query.Result {
	return &query.Result{
		Rows: []query.Row{
			{"name": "Ann", "age": float64(34), "active": true},
			{"name": "Bob", "age": float64(28.5), "active": false},
			{"name": "Cara", "age": nil},
		},
		Columns: []string{"name", "age", "active"},
	}
}

func TestCSVFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewCSVFormatter(&buf)

	if err := f.Format(sampleResult()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	expected := "name,age,active\n" +
		"Ann,34,true\n" +
		"Bob,28.5,false\n" +
		"Cara,,\n"
	if buf.String() != expected {
		t.Errorf("output:\n%s\nwant:\n%s", buf.String(), expected)
	}
}

func TestCSVFormatter_EmptyResult(t *testing.T) {
	var buf bytes.Buffer
	f := NewCSVFormatter(&buf)

	if err := f.Format(&query.Result{}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("empty result must produce no output, got %q", buf.String())
	}
}

func TestCSVFormatter_SetOutput(t *testing.T) {
	var first, second bytes.Buffer
	f := NewCSVFormatter(&first)
	f.SetOutput(&second)

	if err := f.Format(sampleResult()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if first.Len() != 0 {
		t.Errorf("original writer received output after SetOutput")
	}
	if second.Len() == 0 {
		t.Errorf("replacement writer received no output")
	}
}
