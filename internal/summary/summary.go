// Package summary renders the pending set into the two notification bodies:
// a short bounded preview for push channels and a full-detail text body for
// email.
package summary

import (
	"fmt"
	"strings"
	"time"

	"riskwatch/internal/review"
)

const (
	DefaultPreviewRows   = 5
	DefaultReasonBudget  = 120
	DefaultMessageBudget = 950

	ellipsis    = "…"
	placeholder = "-"
)

// Limits bounds the preview output. Zero fields fall back to defaults so a
// zero Limits is usable.
type Limits struct {
	Rows          int
	ReasonBudget  int
	MessageBudget int
}

func (l Limits) withDefaults() Limits {
	if l.Rows <= 0 {
		l.Rows = DefaultPreviewRows
	}
	if l.ReasonBudget <= 0 {
		l.ReasonBudget = DefaultReasonBudget
	}
	if l.MessageBudget <= 0 {
		l.MessageBudget = DefaultMessageBudget
	}
	return l
}

// Title renders the push notification title.
func Title(count int) string {
	return fmt.Sprintf("🔴 %d pending risk reviews", count)
}

// Preview renders at most lim.Rows one-line items plus a count header. The
// whole message is hard-capped at lim.MessageBudget runes; the cap is
// best-effort and may cut mid-line.
func Preview(pending []review.RawRecord, m review.FieldMapping, table string, lim Limits) string {
	lim = lim.withDefaults()

	var b strings.Builder
	fmt.Fprintf(&b, "%d pending review records in %s\n", len(pending), table)

	n := len(pending)
	if n > lim.Rows {
		n = lim.Rows
	}
	for _, r := range pending[:n] {
		b.WriteString("- ")
		b.WriteString(previewLine(r, m, lim.ReasonBudget))
		b.WriteString("\n")
	}

	msg := strings.TrimRight(b.String(), "\n")
	return truncate(msg, lim.MessageBudget)
}

func previewLine(r review.RawRecord, m review.FieldMapping, reasonBudget int) string {
	name := review.Text(r, m.Name)
	if name == "" {
		name = placeholder
	}
	ident := review.Text(r, m.Identifier)
	if ident == "" {
		ident = placeholder
	}
	reason := flatten(review.Text(r, m.Reason))
	return name + " | " + ident + " | " + truncate(reason, reasonBudget)
}

// Body renders the full-detail email body: a timestamp header, the total
// count, then one block per record listing only its non-empty mapped fields.
func Body(pending []review.RawRecord, m review.FieldMapping, table string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Pending review report for %s\n", table)
	fmt.Fprintf(&b, "Generated: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Total: %d\n", len(pending))

	for i, r := range pending {
		fmt.Fprintf(&b, "\n#%d\n", i+1)
		writeField(&b, m.Name, review.Text(r, m.Name))
		writeField(&b, m.Identifier, review.Text(r, m.Identifier))
		writeField(&b, m.Reason, review.Text(r, m.Reason))
	}
	return b.String()
}

func writeField(b *strings.Builder, column, value string) {
	if column == "" || value == "" {
		return
	}
	fmt.Fprintf(b, "%s: %s\n", column, value)
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most budget runes, spending the last one on the
// ellipsis marker when a cut happens.
func truncate(s string, budget int) string {
	if budget <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	if budget == 1 {
		return ellipsis
	}
	return string(runes[:budget-1]) + ellipsis
}
