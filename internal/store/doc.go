// Package store fetches rows from a PostgREST-style read endpoint.
//
// The client is deliberately dumb: it issues exactly one shaped request per
// page and classifies failures into schema mismatches (recoverable by the
// resolver) and fatal errors (everything else). Deciding which column names
// to try lives in internal/resolve, not here.
package store
