package store

import "fmt"

// Mismatch classifies a backend rejection that the resolver can recover from.
type Mismatch int

const (
	// MismatchNone means the error body does not look like a schema problem.
	MismatchNone Mismatch = iota
	// MismatchFilter means the status predicate named a column the current
	// schema does not have. The resolver drops Filtered mode for the rest of
	// the run.
	MismatchFilter
	// MismatchFields means one of the selected columns does not exist. The
	// resolver abandons the current field tuple.
	MismatchFields
)

func (m Mismatch) String() string {
	switch m {
	case MismatchFilter:
		return "filter"
	case MismatchFields:
		return "fields"
	default:
		return "none"
	}
}

// SchemaError is a rejection attributable to a missing column or predicate.
// It is recoverable by the resolver's fallback traversal.
type SchemaError struct {
	Kind   Mismatch
	Status int
	Detail string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema mismatch (%s, http %d): %s", e.Kind, e.Status, e.Detail)
}

// FatalError is any failure that is not a schema mismatch: network errors,
// auth failures, 5xx, malformed payloads. It aborts resolution immediately.
type FatalError struct {
	Status int // 0 when the request never got an HTTP response
	Detail string
}

func (e *FatalError) Error() string {
	if e.Status == 0 {
		return "fetch failed: " + e.Detail
	}
	return fmt.Sprintf("fetch failed (http %d): %s", e.Status, e.Detail)
}
