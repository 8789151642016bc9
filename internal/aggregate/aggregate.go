// Package aggregate fans out to every source adapter concurrently and
// merges their candidates into one batch for ranking.
package aggregate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"frameworks/api_lookout/internal/sources"
	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

// DefaultAdapterTimeout caps one adapter's whole fetch, item requests
// included. A stuck upstream costs at most this much of the scan.
const DefaultAdapterTimeout = 30 * time.Second

// Aggregator runs a fixed set of adapters and merges their output.
// KeyTerms is the cross-platform vocabulary from the ranking config.
type Aggregator struct {
	Adapters       []sources.Adapter
	AdapterTimeout time.Duration
	KeyTerms       []string
	Logger         logging.Logger
}

func New(adapters []sources.Adapter, keyTerms []string, logger logging.Logger) *Aggregator {
	return &Aggregator{
		Adapters:       adapters,
		AdapterTimeout: DefaultAdapterTimeout,
		KeyTerms:       keyTerms,
		Logger:         logger,
	}
}

// Collect fetches from all adapters in parallel. Adapter failures and
// panics are contained: the failing adapter contributes zero
// candidates and the scan proceeds with whatever the rest returned.
func (a *Aggregator) Collect(ctx context.Context, opts models.ScanOptions) ([]models.Candidate, models.SourceBreakdown) {
	type fetchResult struct {
		name       string
		candidates []models.Candidate
	}

	results := make([]fetchResult, len(a.Adapters))
	var wg sync.WaitGroup
	for i, adapter := range a.Adapters {
		i, adapter := i, adapter
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					a.Logger.WithFields(logging.Fields{
						"source": adapter.Name(),
						"panic":  fmt.Sprintf("%v", r),
					}).Error("Source adapter panicked")
					results[i] = fetchResult{name: adapter.Name()}
				}
			}()

			fetchCtx, cancel := context.WithTimeout(ctx, a.AdapterTimeout)
			defer cancel()

			candidates, err := adapter.Fetch(fetchCtx, opts)
			if err != nil {
				a.Logger.WithError(err).WithField("source", adapter.Name()).Warn("Source adapter failed")
				candidates = nil
			}
			results[i] = fetchResult{name: adapter.Name(), candidates: candidates}
		}()
	}
	wg.Wait()

	breakdown := models.SourceBreakdown{PerSource: make(map[string]int, len(a.Adapters))}
	var merged []models.Candidate
	for _, res := range results {
		breakdown.PerSource[res.name] = len(res.candidates)
		breakdown.Total += len(res.candidates)
		merged = append(merged, res.candidates...)
	}

	TagCrossPlatform(merged, a.KeyTerms)
	return merged, breakdown
}

// TagCrossPlatform assigns Platforms to every candidate whose title
// mentions a key term seen in two or more distinct source tags. The
// candidate's own source counts as one of the mentions.
func TagCrossPlatform(candidates []models.Candidate, keyTerms []string) {
	mentions := make(map[string][]string)
	for _, c := range candidates {
		title := strings.ToLower(c.Title)
		for _, term := range keyTerms {
			if !strings.Contains(title, term) {
				continue
			}
			if !containsString(mentions[term], c.Source) {
				mentions[term] = append(mentions[term], c.Source)
			}
		}
	}

	for i := range candidates {
		title := strings.ToLower(candidates[i].Title)
		for _, term := range keyTerms {
			platforms := mentions[term]
			if len(platforms) > 1 && strings.Contains(title, term) {
				candidates[i].Platforms = platforms
			}
		}
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
