package openai

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

const apiURL = "https://api.openai.com/v1/chat/completions"

// Reasoning models reject the temperature parameter.
var reasoningModels = map[string]bool{
	"o4-mini": true,
	"o1-mini": true,
}

// Client implements port.ChatCompleter using the OpenAI Chat Completions API.
type Client struct {
	apiKey      string
	model       string
	temperature float64
	endpoint    string
	client      *http.Client
}

// NewClient creates an OpenAI chat client from config.
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
		model = "gpt-4o-mini"
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

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature *float64  `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends one chat request with a system prompt and user content and
// returns the raw text of the reply. The call is attempted exactly once.
func (c *Client) Complete(ctx context.Context, systemPrompt, userContent string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
	}
	if !reasoningModels[c.model] {
		temp := c.temperature
		reqBody.Temperature = &temp
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
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling openai API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	var parsed chatResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("empty response from API: no choices")
	}
	if parsed.Choices[0].FinishReason == "length" {
		return "", fmt.Errorf("output truncated (finish_reason: length): response exceeded output token limit")
	}
	return parsed.Choices[0].Message.Content, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
