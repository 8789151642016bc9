// Package sources implements one adapter per upstream signal source.
// Adapters are isolated: any network, parse or timeout failure is
// logged and reduces that source's contribution to an empty slice; it
// never propagates past the adapter boundary.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"frameworks/api_lookout/pkg/clients"
	"frameworks/api_lookout/pkg/logging"
	"frameworks/api_lookout/pkg/models"
)

const userAgent = "Lookout/1.0"

// DefaultTimeout bounds a single upstream HTTP request. The aggregator
// additionally imposes a per-adapter deadline on the whole fetch.
const DefaultTimeout = 8 * time.Second

// Adapter fetches raw trend candidates from one upstream source.
// Fetch returns partial results where possible; a nil slice with a nil
// error means the source simply had nothing relevant.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, opts models.ScanOptions) ([]models.Candidate, error)
}

// NewHTTPClient returns the client adapters share. Timeouts are kept
// short so one slow upstream cannot eat the scan deadline.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: DefaultTimeout}
}

// aiKeywords is the relevance pre-filter applied by feed-style adapters
// whose upstream is not AI-specific.
var aiKeywords = []string{
	"ai", "gpt", "llm", "claude", "openai", "anthropic", "gemini",
	"machine learning", "neural", "transformer", "chatbot", "language model",
	"diffusion", "midjourney", "copilot", "llama", "mistral",
	"deepmind", "hugging face", "pytorch", "tensorflow", "cursor", "agent",
	"chatgpt", "grok", "perplexity", "artificial intelligence", "deep learning",
}

// matchesAIKeyword reports whether the title mentions any AI keyword.
func matchesAIKeyword(title string) bool {
	normalized := strings.ToLower(title)
	for _, keyword := range aiKeywords {
		if strings.Contains(normalized, keyword) {
			return true
		}
	}
	return false
}

// fetchExecutor retries transient upstream failures (network errors
// and 5xx/429 statuses) with a short backoff. Source fetches are GETs,
// so replaying them is safe.
var fetchExecutor = clients.NewHTTPExecutor(clients.HTTPExecutorConfig{
	MaxRetries: 2,
	BaseDelay:  200 * time.Millisecond,
	MaxDelay:   2 * time.Second,
})

// fetchJSON performs a GET request and decodes the JSON body into out.
func fetchJSON(ctx context.Context, client *http.Client, url string, out any) error {
	resp, err := clients.ExecuteHTTP(ctx, fetchExecutor, func() (*http.Response, error) {
		req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if reqErr != nil {
			return nil, fmt.Errorf("create request: %w", reqErr)
		}
		req.Header.Set("User-Agent", userAgent)
		req.Header.Set("Accept", "application/json")
		return client.Do(req)
	})
	if err != nil {
		return fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("get %s: unexpected status %d: %s", url, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", url, err)
	}
	return nil
}

// truncate clips s to at most n bytes on a rune boundary.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	out := ""
	for _, r := range runes {
		if len(out)+len(string(r)) > n {
			break
		}
		out += string(r)
	}
	return out
}

// logFetchFailure records an adapter-local failure. Failures here are
// non-fatal: the adapter contributes nothing and the scan continues.
func logFetchFailure(logger logging.Logger, source string, err error) {
	logger.WithError(err).WithField("source", source).Warn("Source fetch failed")
}
