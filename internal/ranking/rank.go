package ranking

import (
	"sort"

	"frameworks/api_lookout/pkg/models"
)

// Rank scores every candidate and sorts the result descending by final
// score. The sort is stable: equal scores keep their original relative
// order, so output is deterministic for identical inputs.
func Rank(candidates []models.Candidate, cfg Config, opts Options) []models.ScoredCandidate {
	scored := make([]models.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		scored = append(scored, Score(c, cfg, opts))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})

	return scored
}

// Top caps a ranked slice to at most n entries, bounding downstream
// summarization cost.
func Top(ranked []models.ScoredCandidate, n int) []models.ScoredCandidate {
	if n <= 0 || len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}
