package ranking

import (
	"math"
	"strings"
	"time"

	"frameworks/api_lookout/pkg/models"
)

// Score computes the deterministic weighted score for one candidate.
// All multipliers are evaluated independently and combined
// multiplicatively, so a strong signal on any single axis can dominate
// without needing the others to agree.
func Score(c models.Candidate, cfg Config, opts Options) models.ScoredCandidate {
	return scoreAt(c, cfg, opts, time.Now())
}

// scoreAt is Score with an injectable clock for the velocity windows.
func scoreAt(c models.Candidate, cfg Config, opts Options, now time.Time) models.ScoredCandidate {
	breakdown := models.ScoreBreakdown{
		BaseEngagement:          c.Engagement + 0.5*c.Comments,
		SourceTierMultiplier:    tierMultiplier(c.Source, cfg),
		AuthorBoost:             authorBoost(c.Author, cfg, opts.TrustedAuthors),
		VelocityMultiplier:      velocityMultiplier(c.Engagement, c.Timestamp, cfg, now),
		CrossPlatformMultiplier: crossPlatformMultiplier(len(c.Platforms), cfg),
		KeywordBoost:            keywordBoost(c.Title, cfg),
		TopicBoost:              topicBoost(c.Title, opts.Topics, cfg),
	}

	final := breakdown.BaseEngagement *
		breakdown.SourceTierMultiplier *
		breakdown.AuthorBoost *
		breakdown.VelocityMultiplier *
		breakdown.CrossPlatformMultiplier *
		breakdown.KeywordBoost *
		breakdown.TopicBoost

	return models.ScoredCandidate{
		Candidate:  c,
		FinalScore: int(math.Round(final)),
		Breakdown:  breakdown,
	}
}

// tierMultiplier resolves the source credibility weight. Tiers are
// ordered; the first tier containing a fragment of the source name wins
// and unmatched sources fall through to the baseline.
func tierMultiplier(source string, cfg Config) float64 {
	normalized := strings.ToLower(source)
	for _, tier := range cfg.Tiers {
		for _, s := range tier.Sources {
			if strings.Contains(normalized, strings.ToLower(s)) {
				return tier.Multiplier
			}
		}
	}
	return cfg.DefaultTier
}

// authorBoost checks the caller's personal trusted authors first, then
// the global table. Handles are compared case-insensitively with any
// leading @ stripped.
func authorBoost(author string, cfg Config, personal []string) float64 {
	if author == "" {
		return 1.0
	}

	normalized := strings.TrimPrefix(strings.ToLower(author), "@")

	for _, a := range personal {
		if strings.ToLower(a) == normalized {
			return cfg.PersonalBoost
		}
	}

	if boost, ok := cfg.TrustedAuthors[normalized]; ok {
		return boost
	}
	return 1.0
}

// velocityMultiplier rewards content gaining traction fast. A missing
// timestamp always yields the baseline.
func velocityMultiplier(engagement float64, ts time.Time, cfg Config, now time.Time) float64 {
	if ts.IsZero() {
		return 1.0
	}

	age := now.Sub(ts)
	for _, w := range cfg.VelocityWindows {
		if age <= w.MaxAge && engagement >= w.MinEngagement {
			return w.Multiplier
		}
	}
	return 1.0
}

func crossPlatformMultiplier(platformCount int, cfg Config) float64 {
	switch {
	case platformCount >= cfg.CrossPlatformStrong:
		return cfg.CrossPlatformStrongMul
	case platformCount >= cfg.CrossPlatformWeak:
		return cfg.CrossPlatformWeakMul
	default:
		return 1.0
	}
}

// keywordBoost takes the maximum multiplier among all configured
// keywords contained in the title, not their product.
func keywordBoost(title string, cfg Config) float64 {
	normalized := strings.ToLower(title)
	boost := 1.0
	for keyword, multiplier := range cfg.KeywordBoosts {
		if strings.Contains(normalized, strings.ToLower(keyword)) {
			boost = math.Max(boost, multiplier)
		}
	}
	return boost
}

func topicBoost(title string, topics []string, cfg Config) float64 {
	if len(topics) == 0 {
		return 1.0
	}
	normalized := strings.ToLower(title)
	for _, topic := range topics {
		if topic != "" && strings.Contains(normalized, strings.ToLower(topic)) {
			return cfg.TopicBoost
		}
	}
	return 1.0
}
