package summary

import (
	"strings"
	"testing"
	"time"

	"riskwatch/internal/review"
)

var mapping = review.FieldMapping{Name: "name", Identifier: "phone", Reason: "risk_text"}

func record(name, phone, reason string) review.RawRecord {
	r := review.RawRecord{}
	if name != "" {
		r["name"] = name
	}
	if phone != "" {
		r["phone"] = phone
	}
	if reason != "" {
		r["risk_text"] = reason
	}
	return r
}

func TestPreviewRowBound(t *testing.T) {
	t.Parallel()
	var pending []review.RawRecord
	for i := 0; i < 50; i++ {
		pending = append(pending, record("n", "p", "reason"))
	}

	out := Preview(pending, mapping, "risk_reviews", Limits{Rows: 3})
	lines := strings.Split(out, "\n")
	// header + 3 items
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], "50 pending") {
		t.Fatalf("header missing total: %q", lines[0])
	}
}

func TestPreviewMessageBudgetIndependentOfInput(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("x", 10_000)
	var pending []review.RawRecord
	for i := 0; i < 200; i++ {
		pending = append(pending, record(long, long, long))
	}

	out := Preview(pending, mapping, "risk_reviews", Limits{})
	if n := len([]rune(out)); n > DefaultMessageBudget {
		t.Fatalf("message budget exceeded: %d runes", n)
	}
	if !strings.HasSuffix(out, "…") {
		t.Fatalf("truncated message missing ellipsis: %q", out[len(out)-10:])
	}
}

func TestPreviewReasonTruncation(t *testing.T) {
	t.Parallel()
	reason := strings.Repeat("r", 500)
	out := Preview([]review.RawRecord{record("a", "1", reason)}, mapping, "t", Limits{ReasonBudget: 20, MessageBudget: 10_000})

	line := strings.Split(out, "\n")[1]
	parts := strings.Split(line, " | ")
	if len(parts) != 3 {
		t.Fatalf("unexpected line shape: %q", line)
	}
	if n := len([]rune(parts[2])); n != 20 {
		t.Fatalf("reason budget = 20, got %d runes: %q", n, parts[2])
	}
	if !strings.HasSuffix(parts[2], "…") {
		t.Fatalf("truncated reason missing ellipsis: %q", parts[2])
	}
}

func TestPreviewFlattensNewlines(t *testing.T) {
	t.Parallel()
	out := Preview([]review.RawRecord{record("a", "1", "line1\nline2\r\nline3")}, mapping, "t", Limits{})
	line := strings.Split(out, "\n")[1]
	if strings.Contains(line, "line1\n") {
		t.Fatalf("newline survived flattening: %q", line)
	}
	if !strings.Contains(line, "line1 line2 line3") {
		t.Fatalf("unexpected flattened reason: %q", line)
	}
}

func TestPreviewPlaceholders(t *testing.T) {
	t.Parallel()
	out := Preview([]review.RawRecord{record("", "", "why")}, mapping, "t", Limits{})
	line := strings.Split(out, "\n")[1]
	if line != "- - | - | why" {
		t.Fatalf("unexpected placeholder line: %q", line)
	}
}

func TestBodyListsNonEmptyFieldsInOrder(t *testing.T) {
	t.Parallel()
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	pending := []review.RawRecord{
		record("alice", "123", "flagged"),
		record("", "456", "review me"),
	}

	out := Body(pending, mapping, "risk_reviews", now)

	if !strings.Contains(out, "Generated: 2026-08-29T10:00:00Z") {
		t.Fatalf("timestamp header missing:\n%s", out)
	}
	if !strings.Contains(out, "Total: 2") {
		t.Fatalf("total missing:\n%s", out)
	}
	first := strings.Index(out, "#1")
	second := strings.Index(out, "#2")
	if first < 0 || second < 0 || second < first {
		t.Fatalf("blocks out of order:\n%s", out)
	}
	block2 := out[second:]
	if strings.Contains(block2, "name:") {
		t.Fatalf("empty field rendered in block 2:\n%s", block2)
	}
	if !strings.Contains(block2, "phone: 456") || !strings.Contains(block2, "risk_text: review me") {
		t.Fatalf("block 2 incomplete:\n%s", block2)
	}
}

func TestTitleHasCount(t *testing.T) {
	t.Parallel()
	if got := Title(7); !strings.Contains(got, "7") {
		t.Fatalf("count missing from title: %q", got)
	}
}

func TestTruncateBudgets(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		in     string
		budget int
		want   string
	}{
		{name: "under budget", in: "short", budget: 10, want: "short"},
		{name: "exactly budget", in: "12345", budget: 5, want: "12345"},
		{name: "over budget", in: "123456", budget: 5, want: "1234…"},
		{name: "multibyte safe", in: "אבגדהו", budget: 4, want: "אבג…"},
		{name: "zero keeps all", in: "abc", budget: 0, want: "abc"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if got := truncate(tt.in, tt.budget); got != tt.want {
				t.Fatalf("truncate(%q, %d) = %q, want %q", tt.in, tt.budget, got, tt.want)
			}
		})
	}
}
