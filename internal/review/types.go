package review

import (
	"encoding/json"
	"fmt"
	"strings"
)

// RawRecord is one row exactly as the store returned it. Values are opaque
// except for the columns named by the active FieldMapping.
type RawRecord map[string]any

// FieldMapping names the three logical columns a run operates on. It is
// resolved once per run and never changes afterwards.
type FieldMapping struct {
	Name       string `json:"name_field"`
	Identifier string `json:"identifier_field"`
	Reason     string `json:"reason_field"`
}

// Columns returns the mapped column names in select order.
func (m FieldMapping) Columns() []string {
	return []string{m.Name, m.Identifier, m.Reason}
}

func (m FieldMapping) IsZero() bool {
	return m.Name == "" && m.Identifier == "" && m.Reason == ""
}

func (m FieldMapping) String() string {
	return m.Name + "," + m.Identifier + "," + m.Reason
}

// Text reads one column off a record and coerces it to trimmed text.
// Structured values (objects, arrays) are rendered as compact JSON so a
// jsonb reason column still produces a usable preview line.
func Text(r RawRecord, column string) string {
	if column == "" {
		return ""
	}
	v, ok := r[column]
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return strings.TrimSpace(x)
	case map[string]any, []any:
		b, err := json.Marshal(x)
		if err != nil {
			return ""
		}
		return strings.TrimSpace(string(b))
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
