package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frameworks/api_lookout/internal/ranking"
	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

type fakeScanner struct {
	gotOpts models.ScanOptions
	result  models.ScanResult
	err     error
}

func (f *fakeScanner) Scan(_ context.Context, opts models.ScanOptions) (models.ScanResult, error) {
	f.gotOpts = opts
	return f.result, f.err
}

type fakeStore struct {
	recentTitles []string
	recentErr    error
	replacedDate string
	replaced     []models.Trend
	replaceErr   error
	listed       []models.Trend
	listErr      error
	gotSince     string
	gotListDates []string
	gotListLimit int
}

func (f *fakeStore) RecentTitles(_ context.Context, since string) ([]string, error) {
	f.gotSince = since
	return f.recentTitles, f.recentErr
}

func (f *fakeStore) ReplaceForDate(_ context.Context, date string, trends []models.Trend) error {
	f.replacedDate = date
	f.replaced = trends
	return f.replaceErr
}

func (f *fakeStore) ListRange(_ context.Context, dates []string, limit int) ([]models.Trend, error) {
	f.gotListDates = dates
	f.gotListLimit = limit
	return f.listed, f.listErr
}

func setup(scanner ScanRunner, store TrendStore, cronSecret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := New(scanner, store, ranking.DefaultConfig(), cronSecret, logging.NewLogger())
	h.Now = func() time.Time { return time.Date(2026, 8, 27, 9, 0, 0, 0, time.UTC) }

	router := gin.New()
	router.POST("/scan", h.Scan)
	router.GET("/trends", h.Trends)
	return router
}

func TestScan_CronAuth(t *testing.T) {
	scanner := &fakeScanner{result: models.ScanResult{Trends: []models.Trend{}}}
	router := setup(scanner, &fakeStore{}, "s3cret")

	t.Run("cron without secret is rejected", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/scan", nil)
		req.Header.Set("X-Cron-Trigger", "1")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("cron with secret passes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/scan", nil)
		req.Header.Set("X-Cron-Trigger", "1")
		req.Header.Set("Authorization", "Bearer s3cret")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("manual trigger needs no auth", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/scan", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestScan_PersistsUniqueTrends(t *testing.T) {
	scanner := &fakeScanner{result: models.ScanResult{
		Trends: []models.Trend{
			{Title: "Fresh agent framework released"},
			{Title: "Story already covered yesterday"},
		},
		Breakdown: models.SourceBreakdown{Total: 12},
	}}
	store := &fakeStore{recentTitles: []string{"Story already covered yesterday"}}
	router := setup(scanner, store, "")

	w := httptest.NewRecorder()
	body := strings.NewReader(`{"topics":["agents"],"content_style":"newsletter"}`)
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	// Options forwarded into the pipeline, seed included.
	assert.Equal(t, []string{"agents"}, scanner.gotOpts.Topics)
	assert.Equal(t, models.StyleNewsletter, scanner.gotOpts.ContentStyle)
	assert.Equal(t, []string{"Story already covered yesterday"}, scanner.gotOpts.RecentTitles)

	// Lookback seed starts 48h before the fixed clock.
	assert.Equal(t, "2026-08-25", store.gotSince)

	// Only the unique trend is persisted, into today's bucket.
	assert.Equal(t, "2026-08-27", store.replacedDate)
	require.Len(t, store.replaced, 1)
	assert.Equal(t, "Fresh agent framework released", store.replaced[0].Title)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
	assert.Equal(t, float64(1), resp["duplicates_skipped"])
}

func TestScan_NoTrendsShortCircuits(t *testing.T) {
	scanner := &fakeScanner{result: models.ScanResult{Trends: []models.Trend{}}}
	store := &fakeStore{}
	router := setup(scanner, store, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scan", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.replacedDate)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "No trends found", resp["message"])
}

func TestScan_PipelineFailure(t *testing.T) {
	scanner := &fakeScanner{err: errors.New("summarization exhausted")}
	router := setup(scanner, &fakeStore{}, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scan", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestScan_SaveFailure(t *testing.T) {
	scanner := &fakeScanner{result: models.ScanResult{Trends: []models.Trend{{Title: "Something new"}}}}
	store := &fakeStore{replaceErr: errors.New("db down")}
	router := setup(scanner, store, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/scan", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestTrends_ReturnsLastTwoDays(t *testing.T) {
	store := &fakeStore{listed: []models.Trend{
		{Title: "Top trend", Date: "2026-08-27", EngagementScore: 90},
		{Title: "Runner up", Date: "2026-08-26", EngagementScore: 70},
	}}
	router := setup(&fakeScanner{}, store, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trends", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"2026-08-27", "2026-08-26"}, store.gotListDates)
	assert.Equal(t, 15, store.gotListLimit)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-08-27", resp["date"])
	assert.Equal(t, float64(2), resp["count"])
}

func TestTrends_EmptyDayFallsBackToToday(t *testing.T) {
	router := setup(&fakeScanner{}, &fakeStore{}, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/trends", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "2026-08-27", resp["date"])
	assert.Equal(t, float64(0), resp["count"])
}
