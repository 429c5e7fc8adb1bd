package resolve

import (
	"context"
	"errors"
	"fmt"

	"riskwatch/internal/review"
	"riskwatch/internal/store"
	"riskwatch/pkg/logx"
)

// Fetcher is the slice of the store client the resolver needs. The store's
// *Client satisfies it; tests substitute scripted fakes.
type Fetcher interface {
	FetchAll(ctx context.Context, q store.Query) ([]review.RawRecord, error)
}

// Params fixes everything about a resolution attempt except the field tuple
// and filter mode, which the resolver itself varies.
type Params struct {
	Table         string
	PageSize      int
	StatusColumn  string
	ReviewedValue string
	Catalog       []review.FieldMapping
}

// Resolution is the terminal success state: the mapping and filter mode the
// backend accepted, plus every record of the winning scan. An empty record
// set is a legitimate resolution.
type Resolution struct {
	Mapping  review.FieldMapping
	Filtered bool
	Records  []review.RawRecord
}

// Resolve walks the catalog x filter-mode cross product in priority order and
// returns the first combination the backend accepts in full.
//
// Rules:
//   - Filtered is tried before Unfiltered for each tuple.
//   - A filter mismatch disables Filtered for the rest of the run and retries
//     the same tuple unfiltered.
//   - A field mismatch abandons the tuple entirely.
//   - A fatal error aborts resolution; it is never retried across variants.
//
// The traversal is deterministic: identical backend responses always yield
// the same resolution.
func Resolve(ctx context.Context, f Fetcher, p Params, log logx.Logger) (Resolution, error) {
	if len(p.Catalog) == 0 {
		return Resolution{}, errors.New("resolve: empty field catalog")
	}

	filterAllowed := true
	var lastErr error

	for _, mapping := range p.Catalog {
		modes := []bool{false}
		if filterAllowed {
			modes = []bool{true, false}
		}

	modeLoop:
		for _, filtered := range modes {
			q := store.Query{
				Table:         p.Table,
				Fields:        mapping,
				Filtered:      filtered,
				StatusColumn:  p.StatusColumn,
				ReviewedValue: p.ReviewedValue,
				PageSize:      p.PageSize,
			}

			records, err := f.FetchAll(ctx, q)
			if err == nil {
				log.Debug("schema resolved",
					logx.String("fields", mapping.String()),
					logx.Bool("filtered", filtered),
					logx.Int("records", len(records)))
				return Resolution{Mapping: mapping, Filtered: filtered, Records: records}, nil
			}

			var se *store.SchemaError
			if !errors.As(err, &se) {
				// Fatal: network, auth, 5xx, malformed payload.
				return Resolution{}, err
			}

			lastErr = err
			log.Debug("schema mismatch, falling back",
				logx.String("fields", mapping.String()),
				logx.Bool("filtered", filtered),
				logx.String("kind", se.Kind.String()))

			switch se.Kind {
			case store.MismatchFilter:
				// The status predicate is broken independent of the tuple.
				filterAllowed = false
				continue
			default:
				// A selected column is missing: no filter mode can save this
				// tuple.
				break modeLoop
			}
		}
	}

	return Resolution{}, fmt.Errorf("resolve: field catalog exhausted: %w", lastErr)
}
