package review

import (
	"reflect"
	"testing"
)

var mapping = FieldMapping{Name: "name", Identifier: "phone", Reason: "risk_text"}

func TestPendingKeepsNonBlankReasons(t *testing.T) {
	t.Parallel()
	records := []RawRecord{
		{"name": "a", "risk_text": "needs review"},
		{"name": "b", "risk_text": "   "},
		{"name": "c"},
		{"name": "d", "risk_text": nil},
		{"name": "e", "risk_text": "\n flagged \t"},
	}

	got := Pending(records, mapping)
	if len(got) != 2 {
		t.Fatalf("expected 2 pending, got %d", len(got))
	}
	if Text(got[0], "name") != "a" || Text(got[1], "name") != "e" {
		t.Fatalf("order not preserved: %v", got)
	}
}

func TestPendingIsIdempotent(t *testing.T) {
	t.Parallel()
	records := []RawRecord{
		{"name": "a", "risk_text": "x"},
		{"name": "b", "risk_text": ""},
		{"name": "c", "risk_text": "y"},
	}

	once := Pending(records, mapping)
	twice := Pending(once, mapping)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("filter not idempotent: %v vs %v", once, twice)
	}
}

func TestPendingDoesNotMutateInput(t *testing.T) {
	t.Parallel()
	r := RawRecord{"name": "a", "risk_text": " padded "}
	records := []RawRecord{r}
	_ = Pending(records, mapping)
	if r["risk_text"] != " padded " {
		t.Fatalf("input record mutated: %v", r)
	}
}

func TestTextCoercion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		rec  RawRecord
		col  string
		want string
	}{
		{name: "string", rec: RawRecord{"x": " hi "}, col: "x", want: "hi"},
		{name: "missing", rec: RawRecord{}, col: "x", want: ""},
		{name: "nil", rec: RawRecord{"x": nil}, col: "x", want: ""},
		{name: "number", rec: RawRecord{"x": 12.0}, col: "x", want: "12"},
		{name: "bool", rec: RawRecord{"x": true}, col: "x", want: "true"},
		{name: "object", rec: RawRecord{"x": map[string]any{"k": "v"}}, col: "x", want: `{"k":"v"}`},
		{name: "array", rec: RawRecord{"x": []any{"a", "b"}}, col: "x", want: `["a","b"]`},
		{name: "empty column name", rec: RawRecord{"x": "hi"}, col: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := Text(tt.rec, tt.col); got != tt.want {
				t.Fatalf("Text = %q, want %q", got, tt.want)
			}
		})
	}
}
