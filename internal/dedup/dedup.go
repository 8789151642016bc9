// Package dedup suppresses near-duplicate trend candidates using token
// Jaccard similarity. Duplicate detection is intentionally fuzzy: two
// titles describing the same story rarely match byte-for-byte across
// sources.
package dedup

import (
	"strings"
	"unicode"

	"frameworks/api_lookout/pkg/models"
)

// tokenize lowercases, strips non-alphanumerics, splits on whitespace
// and drops tokens of length <= 2.
func tokenize(s string) map[string]struct{} {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(b.String()) {
		if len(word) > 2 {
			tokens[word] = struct{}{}
		}
	}
	return tokens
}

// Similarity returns the Jaccard similarity of the qualifying token
// sets of a and b. It is symmetric, lies in [0,1], and is 0 when either
// side has no qualifying tokens.
func Similarity(a, b string) float64 {
	setA := tokenize(a)
	setB := tokenize(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for word := range setA {
		if _, ok := setB[word]; ok {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// IsDuplicate reports whether title exceeds the similarity threshold
// (strictly) against at least one existing title.
func IsDuplicate(title string, existingTitles []string, threshold float64) bool {
	for _, existing := range existingTitles {
		if Similarity(title, existing) > threshold {
			return true
		}
	}
	return false
}

// FilterRanked walks score-descending candidates and drops any whose
// title duplicates either the seed titles (recently persisted trends)
// or a title already accepted earlier in the same batch. Accepted
// titles extend the comparison set incrementally, so within-batch
// near-duplicates resolve in favor of the higher-scored copy.
func FilterRanked(ranked []models.ScoredCandidate, seedTitles []string, threshold float64) []models.ScoredCandidate {
	existing := make([]string, len(seedTitles), len(seedTitles)+len(ranked))
	copy(existing, seedTitles)

	kept := make([]models.ScoredCandidate, 0, len(ranked))
	for _, c := range ranked {
		if IsDuplicate(c.Title, existing, threshold) {
			continue
		}
		existing = append(existing, c.Title)
		kept = append(kept, c)
	}
	return kept
}

// FilterTrends applies the same incremental policy to summarized trend
// titles before they are persisted.
func FilterTrends(trends []models.Trend, seedTitles []string, threshold float64) []models.Trend {
	existing := make([]string, len(seedTitles), len(seedTitles)+len(trends))
	copy(existing, seedTitles)

	kept := make([]models.Trend, 0, len(trends))
	for _, trend := range trends {
		if IsDuplicate(trend.Title, existing, threshold) {
			continue
		}
		existing = append(existing, trend.Title)
		kept = append(kept, trend)
	}
	return kept
}
