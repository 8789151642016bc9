package sources

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

const (
	hnDefaultBaseURL = "https://hacker-news.firebaseio.com/v0"
	hnTopStoryCount  = 50
	hnNewStoryCount  = 30
	hnMaxStoryFetch  = 70
	hnFetchWorkers   = 10
)

type hnItem struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Score       float64 `json:"score"`
	Descendants float64 `json:"descendants"`
	Time        int64   `json:"time"`
	By          string  `json:"by"`
}

// HackerNews pulls the top and new story lists and keeps AI-related
// items.
type HackerNews struct {
	BaseURL string
	Client  *http.Client
	Logger  logging.Logger
}

func NewHackerNews(client *http.Client, logger logging.Logger) *HackerNews {
	return &HackerNews{BaseURL: hnDefaultBaseURL, Client: client, Logger: logger}
}

func (h *HackerNews) Name() string { return "HackerNews" }

func (h *HackerNews) Fetch(ctx context.Context, _ models.ScanOptions) ([]models.Candidate, error) {
	var topIDs, newIDs []int

	listGroup, listCtx := errgroup.WithContext(ctx)
	listGroup.Go(func() error {
		return fetchJSON(listCtx, h.Client, h.BaseURL+"/topstories.json", &topIDs)
	})
	listGroup.Go(func() error {
		return fetchJSON(listCtx, h.Client, h.BaseURL+"/newstories.json", &newIDs)
	})
	if err := listGroup.Wait(); err != nil {
		return nil, fmt.Errorf("fetch story lists: %w", err)
	}

	// Union of the top slice and new slice, top stories first.
	if len(topIDs) > hnTopStoryCount {
		topIDs = topIDs[:hnTopStoryCount]
	}
	if len(newIDs) > hnNewStoryCount {
		newIDs = newIDs[:hnNewStoryCount]
	}
	seen := make(map[int]struct{}, len(topIDs)+len(newIDs))
	ids := make([]int, 0, len(topIDs)+len(newIDs))
	for _, id := range append(append([]int{}, topIDs...), newIDs...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	if len(ids) > hnMaxStoryFetch {
		ids = ids[:hnMaxStoryFetch]
	}

	items := make([]hnItem, len(ids))
	itemGroup, itemCtx := errgroup.WithContext(ctx)
	itemGroup.SetLimit(hnFetchWorkers)
	var mu sync.Mutex
	failures := 0
	for i, id := range ids {
		i, id := i, id
		itemGroup.Go(func() error {
			var item hnItem
			url := fmt.Sprintf("%s/item/%d.json", h.BaseURL, id)
			if err := fetchJSON(itemCtx, h.Client, url, &item); err != nil {
				// A missing or deleted item should not sink the batch.
				mu.Lock()
				failures++
				mu.Unlock()
				return nil
			}
			items[i] = item
			return nil
		})
	}
	if err := itemGroup.Wait(); err != nil {
		return nil, err
	}
	if failures > 0 {
		h.Logger.WithField("failures", failures).Debug("Some HackerNews items could not be fetched")
	}

	candidates := make([]models.Candidate, 0, len(items))
	for _, item := range items {
		if item.Title == "" || !matchesAIKeyword(item.Title) {
			continue
		}
		candidates = append(candidates, models.Candidate{
			Title:      item.Title,
			Source:     "HackerNews",
			Author:     item.By,
			Engagement: item.Score,
			Comments:   item.Descendants,
			URL:        item.URL,
			Timestamp:  time.Unix(item.Time, 0).UTC(),
		})
	}
	return candidates, nil
}
