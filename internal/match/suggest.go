package match

import "strings"

// ClosestThreshold is the minimum normalized similarity for a candidate to
// count as a plausible misspelling of the probed name.
const ClosestThreshold = 0.5

// NormalizeIdent folds an identifier for comparison: lowercased with the
// common separators (_, -, space) stripped, so "power-plant" and
// "PowerPlant" compare equal.
func NormalizeIdent(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range strings.ToLower(s) {
		if r == '_' || r == '-' || r == ' ' {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

// Closest returns the candidate most similar to name along with its score,
// or ("", 0) when no candidate reaches ClosestThreshold.
// Ties break toward the earliest candidate, keeping suggestions
// deterministic across runs.
func Closest(name string, candidates []string) (string, float64) {
	norm := NormalizeIdent(name)

	best, bestScore := "", 0.0
	for _, cand := range candidates {
		score := LevenshteinNormalized(norm, NormalizeIdent(cand))
		if score > bestScore {
			best, bestScore = cand, score
		}
	}

	if bestScore < ClosestThreshold {
		return "", 0
	}

	return best, bestScore
}
