// Package handlers exposes the HTTP surface: triggering scans and
// reading stored trends.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"frameworks/api_lookout/internal/dedup"
	"frameworks/api_lookout/internal/metrics"
	"frameworks/api_lookout/internal/ranking"
	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/middleware"
	"frameworks/api_lookout/pkg/models"
)

// ScanDeadline bounds one full scan, summarization included.
const ScanDeadline = 2 * time.Minute

const trendsPageLimit = 15

// ScanRunner executes the scan pipeline.
type ScanRunner interface {
	Scan(ctx context.Context, opts models.ScanOptions) (models.ScanResult, error)
}

// TrendStore is the persistence surface the handlers need.
type TrendStore interface {
	RecentTitles(ctx context.Context, sinceDate string) ([]string, error)
	ReplaceForDate(ctx context.Context, date string, trends []models.Trend) error
	ListRange(ctx context.Context, dates []string, limit int) ([]models.Trend, error)
}

// Handlers carries the dependencies for the HTTP endpoints.
type Handlers struct {
	Scanner    ScanRunner
	Store      TrendStore
	Config     ranking.Config
	CronSecret string
	Logger     logging.Logger
	Now        func() time.Time
	Metrics    *metrics.Metrics // optional
}

func New(scanner ScanRunner, store TrendStore, cfg ranking.Config, cronSecret string, logger logging.Logger) *Handlers {
	return &Handlers{
		Scanner:    scanner,
		Store:      store,
		Config:     cfg,
		CronSecret: cronSecret,
		Logger:     logger,
		Now:        time.Now,
	}
}

type scanRequest struct {
	Subreddits     []string            `json:"subreddits"`
	Topics         []string            `json:"topics"`
	TrustedAuthors []string            `json:"trusted_authors"`
	ContentStyle   models.ContentStyle `json:"content_style"`
}

// Scan runs the pipeline and replaces today's trend bucket. Scheduled
// invocations carry the cron header and must present the shared
// secret; manual triggers are allowed through unauthenticated.
func (h *Handlers) Scan(c *gin.Context) {
	log := middleware.GetContextLogger(c, h.Logger)

	if c.GetHeader("X-Cron-Trigger") == "1" && h.CronSecret != "" {
		if c.GetHeader("Authorization") != "Bearer "+h.CronSecret {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
	}

	var req scanRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ScanDeadline)
	defer cancel()

	now := h.Now().UTC()
	today := now.Format("2006-01-02")
	since := now.Add(-h.Config.DedupLookback).Format("2006-01-02")

	recentTitles, err := h.Store.RecentTitles(ctx, since)
	if err != nil {
		// Dedup seed is an optimization; scan anyway.
		log.WithError(err).Warn("Could not load recent titles for dedup")
	}

	result, err := h.Scanner.Scan(ctx, models.ScanOptions{
		Subreddits:     req.Subreddits,
		Topics:         req.Topics,
		TrustedAuthors: req.TrustedAuthors,
		ContentStyle:   req.ContentStyle,
		RecentTitles:   recentTitles,
	})
	if err != nil {
		log.WithError(err).Error("Scan failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scan failed", "details": err.Error()})
		return
	}

	if len(result.Trends) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":          "No trends found",
			"count":            0,
			"source_breakdown": result.Breakdown,
		})
		return
	}

	// The summarizer can re-merge stories the candidate filter kept
	// apart, so titles are deduplicated once more before persisting.
	unique := dedup.FilterTrends(result.Trends, recentTitles, h.Config.DedupThreshold)
	skipped := len(result.Trends) - len(unique)
	if skipped > 0 {
		log.WithField("skipped", skipped).Info("Filtered duplicate trends")
	}

	if len(unique) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"message":            "No new unique trends found",
			"count":              0,
			"duplicates_skipped": skipped,
			"source_breakdown":   result.Breakdown,
		})
		return
	}

	if err := h.Store.ReplaceForDate(ctx, today, unique); err != nil {
		log.WithError(err).Error("Failed to save trends")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save trends"})
		return
	}

	h.Metrics.AddTrendsStored(len(unique))

	titles := make([]string, 0, len(unique))
	for _, t := range unique {
		titles = append(titles, t.Title)
	}
	c.JSON(http.StatusOK, gin.H{
		"message":            "Scan complete",
		"count":              len(unique),
		"duplicates_skipped": skipped,
		"source_breakdown":   result.Breakdown,
		"trends":             titles,
	})
}

// Trends returns the stored trends for the last 24 hours, newest and
// highest-engagement first.
func (h *Handlers) Trends(c *gin.Context) {
	now := h.Now().UTC()
	today := now.Format("2006-01-02")
	yesterday := now.Add(-24 * time.Hour).Format("2006-01-02")

	trends, err := h.Store.ListRange(c.Request.Context(), []string{today, yesterday}, trendsPageLimit)
	if err != nil {
		middleware.GetContextLogger(c, h.Logger).WithError(err).Error("Failed to fetch trends")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch trends"})
		return
	}

	latestDate := today
	if len(trends) > 0 && trends[0].Date != "" {
		latestDate = trends[0].Date
	}
	c.JSON(http.StatusOK, gin.H{
		"date":   latestDate,
		"trends": trends,
		"count":  len(trends),
	})
}
