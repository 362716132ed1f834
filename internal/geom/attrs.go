package geom

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Attributes collects properties across all features and unions the keys.
// Columns keep first-seen order; keys within one feature are sorted.
func Attributes(doc Document) ([]string, [][]string) {
	features := doc.Features()
	if len(features) == 0 {
		return []string{}, [][]string{}
	}
	order := []string{}
	seen := map[string]bool{}
	propsList := make([]map[string]any, 0, len(features))
	for _, f := range features {
		pm, _ := f["properties"].(map[string]any)
		if pm == nil {
			pm = map[string]any{}
		}
		propsList = append(propsList, pm)
		keys := make([]string, 0, len(pm))
		for k := range pm {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}
	rows := make([][]string, 0, len(propsList))
	for _, pm := range propsList {
		vals := make([]string, 0, len(order))
		for _, k := range order {
			vals = append(vals, formatValue(pm[k]))
		}
		rows = append(rows, vals)
	}
	return order, rows
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}
