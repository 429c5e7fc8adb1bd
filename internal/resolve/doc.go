// Package resolve discovers which column names and filter predicates the
// backend currently accepts.
//
// The backing table's schema drifts over time (renames, casing changes, the
// status column coming and going). Rather than redeploy for every drift, the
// resolver tries a small ordered catalog of column-name conventions, relaxing
// the server-side filter when the backend rejects it, and settles on the
// first combination that completes a full scan.
package resolve
