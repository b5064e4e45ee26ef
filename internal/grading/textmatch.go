package grading

import (
	"strings"

	"golang.org/x/text/cases"
)

// Normalize trims surrounding whitespace and case-folds s. Accepted texts and
// submitted values go through the same function so they compare equal.
func Normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// NormalizeAll normalizes every entry and drops duplicates, keeping first-seen order.
func NormalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		n := Normalize(s)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
