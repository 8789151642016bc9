package ranking

import "time"

// Tier maps a set of source-name fragments to a credibility multiplier.
// Matching is a case-insensitive substring test against the candidate's
// source name; tiers are checked in order and the first match wins.
type Tier struct {
	Multiplier float64
	Sources    []string
}

// VelocityWindow is a time-since-post bracket with a minimum-engagement
// threshold. Windows are checked hot -> warm -> recent; the first whose
// age and threshold both hold supplies the multiplier.
type VelocityWindow struct {
	MaxAge        time.Duration
	MinEngagement float64
	Multiplier    float64
}

// Config holds every scoring table. It is built once at startup and
// passed explicitly into the scoring functions; nothing mutates it.
type Config struct {
	Tiers           []Tier
	DefaultTier     float64
	TrustedAuthors  map[string]float64
	PersonalBoost   float64 // boost for authors on the caller's personal list
	VelocityWindows []VelocityWindow
	KeywordBoosts   map[string]float64
	TopicBoost      float64

	// Cross-platform confirmation multipliers, keyed by the minimum
	// number of distinct platforms mentioning the same key term.
	CrossPlatformStrong    int
	CrossPlatformStrongMul float64
	CrossPlatformWeak      int
	CrossPlatformWeakMul   float64

	// KeyTerms is the fixed vocabulary scanned for cross-platform mentions.
	KeyTerms []string

	// Selection and dedup knobs.
	TopN           int
	DedupThreshold float64
	DedupLookback  time.Duration
}

// DefaultConfig returns the stock ranking tables.
func DefaultConfig() Config {
	return Config{
		Tiers: []Tier{
			// Official vendor blogs, highest credibility
			{Multiplier: 3.0, Sources: []string{
				"Anthropic Blog", "OpenAI Blog", "Google AI Blog", "DeepMind Blog", "Meta AI Blog",
			}},
			// Curated tech communities
			{Multiplier: 2.0, Sources: []string{
				"HackerNews", "r/MachineLearning", "r/LocalLLaMA", "arXiv",
			}},
			// General tech communities
			{Multiplier: 1.5, Sources: []string{
				"r/artificial", "r/ClaudeAI", "r/ChatGPT", "r/OpenAI", "TechCrunch", "The Verge",
			}},
			// Social media, baseline
			{Multiplier: 1.0, Sources: []string{
				"Bluesky", "Twitter/X", "YouTube", "Other",
			}},
		},
		DefaultTier: 1.0,

		TrustedAuthors: map[string]float64{
			// Researchers and lab leadership
			"karpathy":      2.0,
			"ylecun":        2.0,
			"sama":          2.0,
			"demaboris":     2.0,
			"ilyasut":       2.0,
			"drjimfan":      2.0,
			"alexandr_wang": 2.0,
			// Prominent practitioners
			"emollick":  1.75,
			"svpino":    1.75,
			"minimaxir": 1.75,
			"goodside":  1.75,
			"simonw":    1.75,
			// Content creators
			"mattshumer_":     1.5,
			"rowancheung":     1.5,
			"theaievangelist": 1.5,
		},
		PersonalBoost: 2.0,

		VelocityWindows: []VelocityWindow{
			{MaxAge: 2 * time.Hour, MinEngagement: 50, Multiplier: 2.0},
			{MaxAge: 6 * time.Hour, MinEngagement: 100, Multiplier: 1.5},
			{MaxAge: 24 * time.Hour, MinEngagement: 200, Multiplier: 1.2},
		},

		KeywordBoosts: map[string]float64{
			"breaking":       1.3,
			"just announced": 1.3,
			"released":       1.2,
			"launched":       1.2,
			"gpt-5":          1.5,
			"gpt-4":          1.2,
			"claude":         1.3,
			"gemini 2":       1.3,
			"llama 4":        1.3,
			"agi":            1.3,
			"open source":    1.2,
			"benchmark":      1.2,
			"beats":          1.2,
			"outperforms":    1.2,
			"free":           1.1,
		},
		TopicBoost: 1.5,

		CrossPlatformStrong:    3,
		CrossPlatformStrongMul: 2.0,
		CrossPlatformWeak:      2,
		CrossPlatformWeakMul:   1.5,

		KeyTerms: []string{
			"gpt-5", "gpt-4", "gpt-4o", "claude", "gemini", "llama", "mistral",
			"openai", "anthropic", "google", "meta", "cursor", "copilot", "chatgpt",
			"deepmind", "hugging face", "stability ai", "midjourney",
		},

		TopN:           30,
		DedupThreshold: 0.8,
		DedupLookback:  48 * time.Hour,
	}
}

// Options carries the per-run caller preferences that influence scoring.
type Options struct {
	TrustedAuthors []string
	Topics         []string
}
