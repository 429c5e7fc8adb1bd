package store

import "strings"

// schemaMarkers are the error-text fragments PostgREST-style backends emit
// when a request names a column the schema does not have. The backend's error
// format is not contractually specified, so this match is best-effort; a body
// that matches no marker is treated as fatal, never silently retried.
var schemaMarkers = []string{
	"does not exist",
	"unknown column",
	"could not find the column",
}

// ClassifySchemaError inspects an HTTP error body and decides whether it is a
// schema mismatch, and if so which part of the request caused it.
//
// Attribution rule: when the failed request carried the status predicate and
// the body mentions the status column, the predicate is to blame; any other
// marker hit is blamed on the selected columns.
func ClassifySchemaError(body string, filtered bool, statusColumn string) Mismatch {
	low := strings.ToLower(body)

	hit := false
	for _, marker := range schemaMarkers {
		if strings.Contains(low, marker) {
			hit = true
			break
		}
	}
	if !hit {
		return MismatchNone
	}

	if filtered && statusColumn != "" && strings.Contains(low, strings.ToLower(statusColumn)) {
		return MismatchFilter
	}
	return MismatchFields
}
