package analysis

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

const validResponseJSON = `{"trends":[{"title":"Agents everywhere","category":"tools","summary":"s","why_it_matters":"w","content_angle":"a","script":"sc","sources":[{"url":"https://example.com","platform":"HackerNews","title":"t"}],"engagement_score":88}]}`

type recordingAlerter struct {
	mu     sync.Mutex
	alerts []string
}

func (r *recordingAlerter) Alert(subject, _, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, subject)
}

func (r *recordingAlerter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.alerts)
}

func fastAnalyzer(client Completer, alerter *recordingAlerter) *Analyzer {
	a := NewAnalyzer(client, alerter, logging.NewLogger())
	a.baseDelay = time.Millisecond
	a.maxDelay = 5 * time.Millisecond
	a.preDelay = 0
	return a
}

func anthropicBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"content": []map[string]string{{"type": "text", "text": text}},
	})
	return string(b)
}

func TestSummarize_RetriesRateLimitThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"type":"rate_limit_error"}}`)
			return
		}
		fmt.Fprint(w, anthropicBody(validResponseJSON))
	}))
	defer server.Close()

	alerter := &recordingAlerter{}
	client := NewClient(ClientConfig{APIURL: server.URL, APIKey: "test-key"})
	analyzer := fastAnalyzer(client, alerter)

	trends, err := analyzer.Summarize(context.Background(), nil, models.ScanOptions{})
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, "Agents everywhere", trends[0].Title)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, alerter.count())
}

func TestSummarize_NonRetryableFailsFastWithoutAlert(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"type":"invalid_request_error"}}`)
	}))
	defer server.Close()

	alerter := &recordingAlerter{}
	analyzer := fastAnalyzer(NewClient(ClientConfig{APIURL: server.URL}), alerter)

	_, err := analyzer.Summarize(context.Background(), nil, models.ScanOptions{})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, alerter.count())
}

func TestSummarize_ExhaustionAlerts(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(529)
		fmt.Fprint(w, `{"error":{"type":"overloaded_error","message":"overloaded"}}`)
	}))
	defer server.Close()

	alerter := &recordingAlerter{}
	analyzer := fastAnalyzer(NewClient(ClientConfig{APIURL: server.URL}), alerter)

	_, err := analyzer.Summarize(context.Background(), nil, models.ScanOptions{})
	require.Error(t, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 1, alerter.count())
}

func TestSummarize_UnparsableResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, anthropicBody("I could not find any trends today, sorry."))
	}))
	defer server.Close()

	alerter := &recordingAlerter{}
	analyzer := fastAnalyzer(NewClient(ClientConfig{APIURL: server.URL}), alerter)

	_, err := analyzer.Summarize(context.Background(), nil, models.ScanOptions{})
	assert.ErrorIs(t, err, ErrUnparsable)
	assert.Equal(t, 0, alerter.count())
}

func TestClient_SendsRequiredHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("X-API-Key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("Anthropic-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		fmt.Fprint(w, anthropicBody("hello"))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{APIURL: server.URL, APIKey: "secret"})
	text, err := client.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(&APIError{Status: 429, Message: "slow down"}))
	assert.True(t, IsRetryable(&APIError{Status: 529, Message: "overloaded"}))
	assert.True(t, IsRetryable(fmt.Errorf("upstream said Rate limit exceeded")))
	assert.True(t, IsRetryable(fmt.Errorf("api overloaded, try later")))
	assert.False(t, IsRetryable(&APIError{Status: 400, Message: "bad request"}))
	assert.False(t, IsRetryable(fmt.Errorf("connection refused")))
}

func TestExtractTrends_Shapes(t *testing.T) {
	wrapped := "Here is what I found:\n" + validResponseJSON + "\nHope that helps!"
	fenced := "```json\n" + validResponseJSON + "\n```"

	for name, input := range map[string]string{
		"bare json":  validResponseJSON,
		"in prose":   wrapped,
		"code block": fenced,
	} {
		t.Run(name, func(t *testing.T) {
			trends, err := ExtractTrends(input)
			require.NoError(t, err)
			require.Len(t, trends, 1)
			assert.Equal(t, models.CategoryTools, trends[0].Category)
			assert.Equal(t, 88, trends[0].EngagementScore)
		})
	}

	_, err := ExtractTrends("no json here at all")
	assert.ErrorIs(t, err, ErrUnparsable)
}

func TestExtractTrends_DropsContractViolations(t *testing.T) {
	mixed := `{"trends":[
		{"category":"memes","engagement_score":50},
		{"title":"No category","summary":"s","why_it_matters":"w","content_angle":"a","script":"sc","sources":[{"url":"u","platform":"p","title":"t"}],"engagement_score":10},
		{"title":"Agents everywhere","category":"tools","summary":"s","why_it_matters":"w","content_angle":"a","script":"sc","sources":[{"url":"u","platform":"p","title":"t"}],"engagement_score":88}
	]}`

	trends, err := ExtractTrends(mixed)
	require.NoError(t, err)
	require.Len(t, trends, 1)
	assert.Equal(t, "Agents everywhere", trends[0].Title)

	// Parsable payload where every record is malformed is an error,
	// not silent acceptance.
	_, err = ExtractTrends(`{"trends":[{"category":"memes","engagement_score":50}]}`)
	assert.ErrorIs(t, err, ErrNoValidTrends)

	// An explicitly empty trends array stays a valid empty result.
	empty, err := ExtractTrends(`{"trends":[]}`)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestFormatDigest(t *testing.T) {
	ranked := []models.ScoredCandidate{
		{
			Candidate:  models.Candidate{Title: "Claude release", Source: "HackerNews", Author: "pg", URL: "https://example.com/hn"},
			FinalScore: 900,
			Breakdown:  models.ScoreBreakdown{BaseEngagement: 150, SourceTierMultiplier: 2, AuthorBoost: 1, VelocityMultiplier: 2, KeywordBoost: 1.5},
		},
		{
			Candidate:  models.Candidate{Title: "Fine-tune thread", Source: "r/LocalLLaMA"},
			FinalScore: 400,
			Breakdown:  models.ScoreBreakdown{BaseEngagement: 100, SourceTierMultiplier: 2, AuthorBoost: 1, VelocityMultiplier: 1, KeywordBoost: 1},
		},
	}

	digest := FormatDigest(ranked)
	assert.Contains(t, digest, "=== TOP RANKED TRENDS (weighted scores) ===")
	assert.Contains(t, digest, "1. [Score: 900] Claude release")
	assert.Contains(t, digest, "=== HACKERNEWS ===")
	assert.Contains(t, digest, "=== REDDIT ===")
	assert.Contains(t, digest, "Author: @pg")
	assert.Contains(t, digest, "URL: https://example.com/hn")
	assert.Contains(t, digest, "tier: 2x")
}

func TestBuildPrompt_StyleAndTopics(t *testing.T) {
	prompt := BuildPrompt("DATA", models.ScanOptions{
		ContentStyle: models.StyleLinkedIn,
		Topics:       []string{"agents", "inference"},
	})
	assert.Contains(t, prompt, "LinkedIn creators")
	assert.Contains(t, prompt, "FOCUS AREAS: Prioritize trends related to these topics: agents, inference")
	assert.Contains(t, prompt, `"trends"`)
	assert.Contains(t, prompt, "DATA")

	// Unset style falls back to TikTok.
	fallback := BuildPrompt("DATA", models.ScanOptions{})
	assert.Contains(t, fallback, "TikTok creators")
	assert.NotContains(t, fallback, "FOCUS AREAS")
}
