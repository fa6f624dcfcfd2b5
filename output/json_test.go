package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)

	if err := f.Format(sampleResult()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), buf.String())
	}

	var first map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("line 1 is not valid JSON: %v", err)
	}
	if first["name"] != "Ann" || first["age"] != float64(34) || first["active"] != true {
		t.Errorf("line 1 = %v", first)
	}
}

func TestJSONFormatter_MissingFieldsEmitNull(t *testing.T) {
	var buf bytes.Buffer
	f := NewJSONFormatter(&buf)

	if err := f.Format(sampleResult()); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	// The last row carries neither "age" value nor "active"; every line must
	// still spell out the full column set, nulls included.
	scanner := bufio.NewScanner(&buf)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		var obj map[string]interface{}
		if err := json.Unmarshal(scanner.Bytes(), &obj); err != nil {
			t.Fatalf("invalid JSON on line %d: %v", lineNum, err)
		}
		for _, col := range []string{"name", "age", "active"} {
			if _, ok := obj[col]; !ok {
				t.Errorf("line %d missing column %q: %s", lineNum, col, scanner.Text())
			}
		}
	}
	if lineNum != 3 {
		t.Errorf("lines = %d, want 3", lineNum)
	}
}
