package models

import "time"

// Category classifies a trend for downstream content planning.
type Category string

const (
	CategoryModels    Category = "models"
	CategoryTools     Category = "tools"
	CategoryResearch  Category = "research"
	CategoryDrama     Category = "drama"
	CategoryTutorials Category = "tutorials"
)

// Categories lists every valid trend category.
var Categories = []Category{
	CategoryModels,
	CategoryTools,
	CategoryResearch,
	CategoryDrama,
	CategoryTutorials,
}

// IsValid reports whether c is one of the closed category set.
func (c Category) IsValid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Candidate is a single raw item surfaced by a source adapter. It is
// ephemeral: created per fetch, scored, then discarded.
type Candidate struct {
	Title      string
	Source     string
	Author     string
	Engagement float64
	Comments   float64
	URL        string
	Timestamp  time.Time // zero value means the source exposed no publish time
	Platforms  []string  // distinct source tags that mentioned the same key term, assigned post-hoc
}

// ScoreBreakdown records each multiplier applied to a candidate so the
// final score can be audited (and surfaced to the summarization model).
type ScoreBreakdown struct {
	BaseEngagement          float64
	SourceTierMultiplier    float64
	AuthorBoost             float64
	VelocityMultiplier      float64
	CrossPlatformMultiplier float64
	KeywordBoost            float64
	TopicBoost              float64
}

// ScoredCandidate is a Candidate plus its deterministic final score.
type ScoredCandidate struct {
	Candidate
	FinalScore int
	Breakdown  ScoreBreakdown
}

// TrendSource is one upstream reference backing a trend.
type TrendSource struct {
	URL      string `json:"url"`
	Platform string `json:"platform"`
	Title    string `json:"title"`
}

// Trend is one structured trend analysis produced by the summarization
// step and owned by the external record store.
type Trend struct {
	ID              string        `json:"id,omitempty"`
	Title           string        `json:"title"`
	Category        Category      `json:"category"`
	Summary         string        `json:"summary"`
	WhyItMatters    string        `json:"why_it_matters"`
	ContentAngle    string        `json:"content_angle"`
	Script          string        `json:"script"`
	Sources         []TrendSource `json:"sources"`
	EngagementScore int           `json:"engagement_score"`
	Date            string        `json:"date,omitempty"` // calendar date bucket, YYYY-MM-DD
}

// SourceBreakdown counts how many candidates each adapter contributed.
type SourceBreakdown struct {
	PerSource map[string]int `json:"per_source"`
	Total     int            `json:"total"`
}

// ScanResult is the outcome of one pipeline invocation.
type ScanResult struct {
	Trends    []Trend         `json:"trends"`
	Breakdown SourceBreakdown `json:"source_breakdown"`
}

// ContentStyle selects the script format the summarization prompt asks for.
type ContentStyle string

const (
	StyleTikTok     ContentStyle = "tiktok"
	StyleYouTube    ContentStyle = "youtube"
	StyleLinkedIn   ContentStyle = "linkedin"
	StyleTwitter    ContentStyle = "twitter"
	StyleNewsletter ContentStyle = "newsletter"
)

// ScanOptions carries per-run caller preferences into the pipeline.
type ScanOptions struct {
	Subreddits     []string     // overrides the default subreddit list when non-empty
	Topics         []string     // focus topics; title matches earn a topic boost
	TrustedAuthors []string     // caller's personal trusted-author handles
	ContentStyle   ContentStyle // script style for the summarization prompt
	RecentTitles   []string     // dedup seed: titles persisted within the lookback window
}
