package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"invox/internal/config"
	"invox/internal/port"
)

const (
	apiURL           = "https://api.anthropic.com/v1/messages"
	anthropicVersion = "2023-06-01"
	maxTokens        = 8192
)

// Client implements port.ChatCompleter using the Anthropic Messages API.
type Client struct {
	apiKey      string
	model       string
	temperature float64
	endpoint    string
	client      *http.Client
}

// NewClient creates an Anthropic chat client from config.
func NewClient(cfg *config.LLMConfig) *Client {
	return newClient(cfg, apiURL)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.LLMConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.LLMConfig, endpoint string) *Client {
	model := cfg.Model
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:      cfg.APIKey,
		model:       model,
		temperature: cfg.Temperature,
		endpoint:    endpoint,
		client:      &http.Client{Timeout: timeout},
	}
}

var _ port.ChatCompleter = (*Client)(nil)

type messageRequest struct {
	Model       string    `json:"model"`
	MaxTokens   int       `json:"max_tokens"`
	System      string    `json:"system,omitempty"`
	Temperature float64   `json:"temperature"`
	Messages    []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Complete sends one Messages API request and returns the text content of
// the reply. The call is attempted exactly once.
func (c *Client) Complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	reqBody := messageRequest{
		Model:       c.model,
		MaxTokens:   maxTokens,
		System:      systemPrompt,
		Temperature: c.temperature,
		Messages: []message{
			{Role: "user", Content: userContent},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	var parsed messageResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	for _, block := range parsed.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("empty response from API: no text content")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
