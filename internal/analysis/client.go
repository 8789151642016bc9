// Package analysis turns a ranked candidate digest into structured
// trends via the Anthropic messages API.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultAPIURL    = "https://api.anthropic.com"
	defaultModel     = "claude-3-haiku-20240307"
	defaultMaxTokens = 4000
	requestTimeout   = 120 * time.Second
)

// APIError is a non-2xx response from the messages endpoint. Status is
// what retry classification keys on.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("anthropic: status %d: %s", e.Status, e.Message)
}

// ClientConfig configures the Anthropic client.
type ClientConfig struct {
	APIURL    string
	APIKey    string
	Model     string
	MaxTokens int
}

// Client is a non-streaming Anthropic messages client. Responses are
// consumed whole because the caller needs the complete JSON body.
type Client struct {
	client    *http.Client
	apiURL    string
	apiKey    string
	model     string
	maxTokens int
}

func NewClient(cfg ClientConfig) *Client {
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	return &Client{
		client:    &http.Client{Timeout: requestTimeout},
		apiURL:    apiURL,
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

type messagesRequest struct {
	Model     string          `json:"model"`
	MaxTokens int             `json:"max_tokens"`
	Messages  []promptMessage `json:"messages"`
	Stream    bool            `json:"stream"`
}

type promptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Complete sends a single user prompt and returns the concatenated
// text blocks of the response.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		Messages:  []promptMessage{{Role: "user", Content: prompt}},
		Stream:    false,
	})
	if err != nil {
		return "", fmt.Errorf("anthropic: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/v1/messages", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("anthropic: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("Anthropic-Version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("anthropic: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic: read response: %w", err)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	var parsed messagesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("anthropic: decode response: %w", err)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return "", fmt.Errorf("anthropic: no text blocks in response")
	}
	return text.String(), nil
}
