package sources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

const (
	redditDefaultBaseURL  = "https://www.reddit.com"
	redditScoreFloor      = 30
	redditPerSubredditCap = 15
)

// defaultSubreddits is the community list scanned when the caller does
// not supply their own.
var defaultSubreddits = []string{
	"LocalLLaMA", "MachineLearning", "artificial", "ClaudeAI",
	"ChatGPT", "OpenAI", "StableDiffusion", "singularity",
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	Title       string  `json:"title"`
	Score       float64 `json:"score"`
	NumComments float64 `json:"num_comments"`
	Permalink   string  `json:"permalink"`
	CreatedUTC  float64 `json:"created_utc"`
	Author      string  `json:"author"`
}

// Reddit pulls hot and daily-top posts from a set of AI subreddits.
type Reddit struct {
	BaseURL string
	Client  *http.Client
	Logger  logging.Logger
}

func NewReddit(client *http.Client, logger logging.Logger) *Reddit {
	return &Reddit{BaseURL: redditDefaultBaseURL, Client: client, Logger: logger}
}

func (r *Reddit) Name() string { return "Reddit" }

func (r *Reddit) Fetch(ctx context.Context, opts models.ScanOptions) ([]models.Candidate, error) {
	subreddits := defaultSubreddits
	if len(opts.Subreddits) > 0 {
		subreddits = opts.Subreddits
	}

	var candidates []models.Candidate
	for _, subreddit := range subreddits {
		posts, err := r.fetchSubreddit(ctx, subreddit)
		if err != nil {
			// One broken community must not starve the rest of the list.
			logFetchFailure(r.Logger, "r/"+subreddit, err)
			continue
		}
		candidates = append(candidates, posts...)
	}
	return candidates, nil
}

func (r *Reddit) fetchSubreddit(ctx context.Context, subreddit string) ([]models.Candidate, error) {
	var hot, top redditListing

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		url := fmt.Sprintf("%s/r/%s/hot.json?limit=20", r.BaseURL, subreddit)
		return fetchJSON(groupCtx, r.Client, url, &hot)
	})
	group.Go(func() error {
		url := fmt.Sprintf("%s/r/%s/top.json?t=day&limit=10", r.BaseURL, subreddit)
		return fetchJSON(groupCtx, r.Client, url, &top)
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	// Hot and daily-top overlap heavily; dedupe by permalink with hot
	// posts taking precedence, then drop low-engagement posts.
	seen := make(map[string]struct{})
	var posts []redditPost
	for _, listing := range []redditListing{hot, top} {
		for _, child := range listing.Data.Children {
			post := child.Data
			if _, ok := seen[post.Permalink]; ok {
				continue
			}
			seen[post.Permalink] = struct{}{}
			if post.Score <= redditScoreFloor {
				continue
			}
			posts = append(posts, post)
		}
	}
	if len(posts) > redditPerSubredditCap {
		posts = posts[:redditPerSubredditCap]
	}

	candidates := make([]models.Candidate, 0, len(posts))
	for _, post := range posts {
		candidates = append(candidates, models.Candidate{
			Title:      post.Title,
			Source:     "r/" + subreddit,
			Author:     post.Author,
			Engagement: post.Score,
			Comments:   post.NumComments,
			URL:        "https://reddit.com" + post.Permalink,
			Timestamp:  time.Unix(int64(post.CreatedUTC), 0).UTC(),
		})
	}
	return candidates, nil
}
