package sources

import (
	"context"
	"fmt"
	"time"

	"frameworks/api_lookout/pkg/models"
)

const watchlistMaxHandles = 5

// Watchlist synthesizes candidates for X/Twitter, which has no public
// API worth paying for. The entries are curated pointers into the
// platform rather than fetched content; they seed the summarization
// prompt so the model knows those conversations exist.
type Watchlist struct {
	Handles []string
	Now     func() time.Time
}

func NewWatchlist(handles []string) *Watchlist {
	return &Watchlist{Handles: handles, Now: time.Now}
}

func (w *Watchlist) Name() string { return "Twitter/X" }

func (w *Watchlist) Fetch(_ context.Context, _ models.ScanOptions) ([]models.Candidate, error) {
	now := w.Now().UTC()
	candidates := []models.Candidate{
		{
			Title:      "[X/Twitter] Recent AI discussions from @karpathy, @ylecun, @sama and other AI leaders",
			Source:     "Twitter/X",
			Author:     "multiple",
			Engagement: 500,
			URL:        "https://x.com/search?q=AI%20OR%20LLM%20OR%20GPT&f=live",
			Timestamp:  now,
		},
		{
			Title:      "[X/Twitter] Trending: AI announcements and releases",
			Source:     "Twitter/X",
			Author:     "trending",
			Engagement: 400,
			URL:        "https://x.com/search?q=AI%20announcement%20OR%20AI%20release&f=live",
			Timestamp:  now,
		},
	}

	handles := w.Handles
	if len(handles) > watchlistMaxHandles {
		handles = handles[:watchlistMaxHandles]
	}
	for _, handle := range handles {
		candidates = append(candidates, models.Candidate{
			Title:      fmt.Sprintf("[X/Twitter] Recent posts from @%s about AI", handle),
			Source:     "Twitter/X",
			Author:     handle,
			Engagement: 300,
			URL:        "https://x.com/" + handle,
			Timestamp:  now,
		})
	}
	return candidates, nil
}
