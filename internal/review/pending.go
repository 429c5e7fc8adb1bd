package review

// Pending returns the subset of records whose reason column is present and
// non-blank after trimming. The input is never mutated and source order is
// preserved, so filtering an already-filtered slice is a no-op.
func Pending(records []RawRecord, m FieldMapping) []RawRecord {
	out := make([]RawRecord, 0, len(records))
	for _, r := range records {
		if Text(r, m.Reason) == "" {
			continue
		}
		out = append(out, r)
	}
	return out
}
