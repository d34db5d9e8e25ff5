package match

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Similarity returns the Ratcliff/Obershelp ratio 2*M/T of a and b, where M
// is the number of characters in matching blocks and T the combined length,
// computed on the lowercased, trimmed strings. Either input being empty
// yields 0.
//
// Block discovery can break ties differently depending on argument order,
// so the ratio is taken in both directions and the larger one returned.
func Similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	ra := runes(strings.TrimSpace(lower(a)))
	rb := runes(strings.TrimSpace(lower(b)))

	forward := difflib.NewMatcher(ra, rb).Ratio()
	backward := difflib.NewMatcher(rb, ra).Ratio()
	return max(forward, backward)
}

// runes splits s into one element per code point, the unit the ratio is
// measured in.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}
