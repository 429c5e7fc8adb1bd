package resolve

import "riskwatch/internal/review"

// defaultCatalog is the fixed fallback order of column-name conventions tried
// when the backend rejects a tuple. Order encodes priority.
var defaultCatalog = []review.FieldMapping{
	{Name: "name", Identifier: "phone", Reason: "risk_text"},
	{Name: "patient_name", Identifier: "patient_phone", Reason: "snippet_text"},
	{Name: "Name", Identifier: "Phone", Reason: "RiskText"},
}

// Catalog builds the ordered field-variant list for a run. A configured
// override (any of the three columns set) becomes the highest-priority tuple,
// with unset columns filled from the first convention so a partial override
// still produces a complete select list.
func Catalog(override review.FieldMapping) []review.FieldMapping {
	out := make([]review.FieldMapping, 0, len(defaultCatalog)+1)
	if !override.IsZero() {
		first := override
		if first.Name == "" {
			first.Name = defaultCatalog[0].Name
		}
		if first.Identifier == "" {
			first.Identifier = defaultCatalog[0].Identifier
		}
		if first.Reason == "" {
			first.Reason = defaultCatalog[0].Reason
		}
		out = append(out, first)
	}
	for _, m := range defaultCatalog {
		if len(out) > 0 && m == out[0] {
			continue
		}
		out = append(out, m)
	}
	return out
}
