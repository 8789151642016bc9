package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"frameworks/api_lookout/internal/notify"
	"frameworks/api_lookout/pkg/clients"
	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

// Retry shape for the messages API. Four attempts total with a
// deterministic doubling backoff, plus a flat pre-request delay that
// keeps bursty schedules under the rate limit in the first place.
const (
	maxRetries      = 3
	baseRetryDelay  = time.Second
	maxRetryDelay   = 30 * time.Second
	preRequestDelay = 500 * time.Millisecond
)

// Completer is the slice of Client the analyzer needs.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// IsRetryable classifies an API failure. Only rate limiting (429) and
// upstream overload (529) are worth retrying; everything else fails
// the same way on the next attempt.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == 429 || apiErr.Status == 529 {
			return true
		}
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "529") ||
		strings.Contains(strings.ToLower(msg), "rate limit") ||
		strings.Contains(msg, "overloaded")
}

// Analyzer drives the summarization call with retry and failure
// alerting.
type Analyzer struct {
	Client  Completer
	Alerter notify.Alerter
	Logger  logging.Logger

	// Delay knobs live on the struct so tests can collapse the waits.
	baseDelay time.Duration
	maxDelay  time.Duration
	preDelay  time.Duration
}

func NewAnalyzer(client Completer, alerter notify.Alerter, logger logging.Logger) *Analyzer {
	return &Analyzer{
		Client:    client,
		Alerter:   alerter,
		Logger:    logger,
		baseDelay: baseRetryDelay,
		maxDelay:  maxRetryDelay,
		preDelay:  preRequestDelay,
	}
}

// Summarize formats ranked candidates into a digest, sends it through
// the model with retries, and parses the structured trends out of the
// response. An alert is dispatched only when the failure lands on the
// final allowed attempt; earlier non-retryable failures raise an error
// without waking anyone up.
func (a *Analyzer) Summarize(ctx context.Context, ranked []models.ScoredCandidate, opts models.ScanOptions) ([]models.Trend, error) {
	digest := FormatDigest(ranked)
	prompt := BuildPrompt(digest, opts)

	select {
	case <-time.After(a.preDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var attempts atomic.Int32
	policy := clients.NewRetryPolicy[string](clients.RetryConfig{
		MaxRetries: maxRetries,
		BaseDelay:  a.baseDelay,
		MaxDelay:   a.maxDelay,
		HandleIf:   IsRetryable,
		OnRetryScheduled: func(attempt int, delay time.Duration, err error) {
			a.Logger.WithFields(logging.Fields{
				"attempt": attempt,
				"delay":   delay.String(),
			}).WithError(err).Warn("Summarization attempt failed, retrying")
		},
	})

	text, err := clients.Execute(ctx, policy, func() (string, error) {
		attempts.Add(1)
		return a.Client.Complete(ctx, prompt)
	})
	if err != nil {
		made := int(attempts.Load())
		a.Logger.WithError(err).WithField("attempts", made).Error("Summarization failed")
		if made >= maxRetries+1 {
			a.Alerter.Alert(
				"Trend Analysis Failed",
				fmt.Sprintf("The trend analysis operation failed after %d attempts.", maxRetries+1),
				err.Error(),
			)
		}
		return nil, fmt.Errorf("summarize trends: %w", err)
	}

	trends, err := ExtractTrends(text)
	if err != nil {
		a.Logger.WithField("response_prefix", truncateForLog(text)).Error("Could not parse trends from model response")
		return nil, err
	}
	return trends, nil
}

func truncateForLog(s string) string {
	if len(s) > 500 {
		return s[:500]
	}
	return s
}
