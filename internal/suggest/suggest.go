// Package suggest picks did-you-mean candidates for near-miss input.
package suggest

import "strings"

// Closest returns the candidate nearest to input by edit distance, or
// "" when nothing is close enough to be a plausible typo. Comparison
// is case-insensitive; ties go to the earlier candidate.
func Closest(input string, candidates []string) string {
	in := strings.ToLower(input)

	best := ""
	bestDist := -1

	for _, c := range candidates {
		d := Levenshtein(in, strings.ToLower(c))
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}

	if bestDist < 0 {
		return ""
	}

	// A fix needing more edits than this is a guess, not a typo.
	limit := max(2, len(in)/3)
	if bestDist > limit {
		return ""
	}

	return best
}
