package parse

import "strings"

// Format renders one "Label: value" line per present field in display order.
func Format(x ExtractedFields) string {
	lines := make([]string, 0, len(Fields))
	for _, f := range Fields {
		if v, ok := x.Get(f); ok {
			lines = append(lines, f.Label()+": "+v)
		}
	}
	return strings.Join(lines, "\n")
}
