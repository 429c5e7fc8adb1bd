// Package review holds the record model shared across the fetch, resolve and
// summary stages: raw rows from the store, the resolved column mapping, and
// the client-side pending filter.
package review
