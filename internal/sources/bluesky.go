package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

const (
	bskyDefaultBaseURL = "https://public.api.bsky.app"
	bskySearchLimit    = 30
	bskyPerTermCap     = 8
	bskyMaxTerms       = 4
	bskyTitleMaxLen    = 250
)

// bskySearchTerms is the query rotation; only the first bskyMaxTerms
// run per scan to stay inside the public API's rate limits.
var bskySearchTerms = []string{
	"artificial intelligence",
	"ChatGPT",
	"Claude AI",
	"GPT-4",
	"LLM",
	"machine learning",
	"OpenAI",
	"Anthropic",
}

type bskySearchResponse struct {
	Posts []bskyPost `json:"posts"`
}

type bskyPost struct {
	URI    string `json:"uri"`
	Author struct {
		Handle string `json:"handle"`
	} `json:"author"`
	Record struct {
		Text      string `json:"text"`
		CreatedAt string `json:"createdAt"`
	} `json:"record"`
	LikeCount   float64 `json:"likeCount"`
	RepostCount float64 `json:"repostCount"`
	ReplyCount  float64 `json:"replyCount"`
}

// Bluesky searches the public AppView for high-engagement AI posts.
type Bluesky struct {
	BaseURL string
	Client  *http.Client
	Logger  logging.Logger
}

func NewBluesky(client *http.Client, logger logging.Logger) *Bluesky {
	return &Bluesky{BaseURL: bskyDefaultBaseURL, Client: client, Logger: logger}
}

func (b *Bluesky) Name() string { return "Bluesky" }

func (b *Bluesky) Fetch(ctx context.Context, _ models.ScanOptions) ([]models.Candidate, error) {
	var candidates []models.Candidate
	seen := make(map[string]struct{})

	terms := bskySearchTerms
	if len(terms) > bskyMaxTerms {
		terms = terms[:bskyMaxTerms]
	}
	for _, term := range terms {
		searchURL := fmt.Sprintf("%s/xrpc/app.bsky.feed.searchPosts?q=%s&limit=%d&sort=top",
			b.BaseURL, url.QueryEscape(term), bskySearchLimit)

		var resp bskySearchResponse
		if err := fetchJSON(ctx, b.Client, searchURL, &resp); err != nil {
			logFetchFailure(b.Logger, "Bluesky:"+term, err)
			continue
		}

		kept := 0
		for _, post := range resp.Posts {
			if kept >= bskyPerTermCap {
				break
			}
			if post.LikeCount < 5 && post.RepostCount < 2 {
				continue
			}

			postURL := bskyPostURL(post.Author.Handle, post.URI)
			if _, ok := seen[postURL]; ok {
				continue
			}
			seen[postURL] = struct{}{}
			kept++

			var ts time.Time
			if parsed, err := time.Parse(time.RFC3339, post.Record.CreatedAt); err == nil {
				ts = parsed.UTC()
			}

			candidates = append(candidates, models.Candidate{
				Title:      truncate(post.Record.Text, bskyTitleMaxLen),
				Source:     "Bluesky",
				Author:     post.Author.Handle,
				Engagement: post.LikeCount + post.RepostCount*2 + post.ReplyCount,
				URL:        postURL,
				Timestamp:  ts,
			})
		}
	}
	return candidates, nil
}

// bskyPostURL converts an AT URI into the public web URL for the post.
func bskyPostURL(handle, uri string) string {
	parts := strings.Split(uri, "/")
	rkey := parts[len(parts)-1]
	return fmt.Sprintf("https://bsky.app/profile/%s/post/%s", handle, rkey)
}
