// Package pipeline wires aggregation, ranking, dedup and summarization
// into the single scan operation the service exposes.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"frameworks/api_lookout/internal/dedup"
	"frameworks/api_lookout/internal/metrics"
	"frameworks/api_lookout/internal/ranking"
	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

// Collector fans out to the source adapters.
type Collector interface {
	Collect(ctx context.Context, opts models.ScanOptions) ([]models.Candidate, models.SourceBreakdown)
}

// Summarizer turns ranked candidates into structured trends.
type Summarizer interface {
	Summarize(ctx context.Context, ranked []models.ScoredCandidate, opts models.ScanOptions) ([]models.Trend, error)
}

// Scanner runs one end-to-end scan: collect, rank, dedup, cap,
// summarize.
type Scanner struct {
	Collector  Collector
	Summarizer Summarizer
	Config     ranking.Config
	Logger     logging.Logger
	Metrics    *metrics.Metrics // optional
}

func NewScanner(collector Collector, summarizer Summarizer, cfg ranking.Config, logger logging.Logger) *Scanner {
	return &Scanner{Collector: collector, Summarizer: summarizer, Config: cfg, Logger: logger}
}

// Scan executes the pipeline. A scan that finds zero candidates is not
// an error: it returns an empty result without touching the
// summarization API.
func (s *Scanner) Scan(ctx context.Context, opts models.ScanOptions) (models.ScanResult, error) {
	started := time.Now()
	candidates, breakdown := s.Collector.Collect(ctx, opts)
	s.logBreakdown(breakdown)
	for source, count := range breakdown.PerSource {
		s.Metrics.AddCandidates(source, count)
	}

	if len(candidates) == 0 {
		s.Logger.Warn("No candidates collected, skipping summarization")
		s.Metrics.ObserveScan("empty", time.Since(started))
		return models.ScanResult{Trends: []models.Trend{}, Breakdown: breakdown}, nil
	}

	ranked := ranking.Rank(candidates, s.Config, ranking.Options{
		TrustedAuthors: opts.TrustedAuthors,
		Topics:         opts.Topics,
	})
	ranked = dedup.FilterRanked(ranked, opts.RecentTitles, s.Config.DedupThreshold)
	ranked = ranking.Top(ranked, s.Config.TopN)

	for _, t := range topOf(ranked, 5) {
		s.Logger.WithFields(logging.Fields{
			"score":  t.FinalScore,
			"source": t.Source,
		}).Debug(t.Title)
	}

	trends, err := s.Summarizer.Summarize(ctx, ranked, opts)
	if err != nil {
		s.Metrics.ObserveScan("error", time.Since(started))
		return models.ScanResult{}, fmt.Errorf("scan: %w", err)
	}

	s.Logger.WithField("trends", len(trends)).Info("Scan complete")
	s.Metrics.ObserveScan("ok", time.Since(started))
	return models.ScanResult{Trends: trends, Breakdown: breakdown}, nil
}

func (s *Scanner) logBreakdown(breakdown models.SourceBreakdown) {
	fields := logging.Fields{"total": breakdown.Total}
	for source, count := range breakdown.PerSource {
		fields[source] = count
	}
	s.Logger.WithFields(fields).Info("Source breakdown")
}

func topOf(ranked []models.ScoredCandidate, n int) []models.ScoredCandidate {
	if len(ranked) > n {
		return ranked[:n]
	}
	return ranked
}
