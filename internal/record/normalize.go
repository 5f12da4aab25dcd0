package record

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeID trims surrounding whitespace and applies Unicode NFC
// normalization, so the same identifier typed with composed or decomposed
// characters maps to one key.
func NormalizeID(id string) string {
	return norm.NFC.String(strings.TrimSpace(id))
}

// fitParams pads values with empty strings or truncates them to n entries.
// Reports whether any non-empty value was dropped.
func fitParams(values []string, n int) ([]string, bool) {
	out := make([]string, n)
	copy(out, values)
	dropped := false
	for _, v := range values[min(len(values), n):] {
		if v != "" {
			dropped = true
			break
		}
	}
	return out, dropped
}
