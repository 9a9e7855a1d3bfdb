// Package whisperer is an HTTP client for the LLMWhisperer v2 API, the
// OCR/layout service that converts PDFs into layout-preserving text.
package whisperer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"invox/internal/config"
	"invox/internal/domain"
	"invox/internal/port"
)

const statusProcessed = "processed"

// Client implements port.TextExtractor against the LLMWhisperer v2 API.
type Client struct {
	baseURL      string
	apiKey       string
	mode         string
	outputMode   string
	waitTimeout  time.Duration
	pollInterval time.Duration
	client       *http.Client
}

// NewClient creates a whisperer client from config.
func NewClient(cfg *config.OCRConfig) *Client {
	waitTimeout := cfg.WaitTimeout
	if waitTimeout == 0 {
		waitTimeout = 120 * time.Second
	}
	pollInterval := cfg.PollInterval
	if pollInterval == 0 {
		pollInterval = 2 * time.Second
	}
	// The per-request timeout must not cut off large PDF uploads, so it
	// follows the overall wait timeout unless set explicitly.
	requestTimeout := cfg.RequestTimeout
	if requestTimeout == 0 {
		requestTimeout = waitTimeout
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:       cfg.APIKey,
		mode:         cfg.Mode,
		outputMode:   cfg.OutputMode,
		waitTimeout:  waitTimeout,
		pollInterval: pollInterval,
		client:       &http.Client{Timeout: requestTimeout},
	}
}

var _ port.TextExtractor = (*Client)(nil)

// Extract submits the PDF at path, polls until the conversion finishes or
// the wait timeout elapses, and returns the structured text. Every stage is
// attempted exactly once; there are no retries.
func (c *Client) Extract(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %s", domain.ErrFileNotFound, path)
	}
	if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "", fmt.Errorf("%w: %s", domain.ErrNotPDF, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	hash, err := c.submit(ctx, data)
	if err != nil {
		return "", err
	}

	if err := c.waitForCompletion(ctx, hash); err != nil {
		return "", err
	}

	text, err := c.retrieve(ctx, hash)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", domain.ErrEmptyExtraction
	}
	return text, nil
}

// submit POSTs the raw PDF bytes and returns the whisper hash.
func (c *Client) submit(ctx context.Context, data []byte) (string, error) {
	q := url.Values{}
	q.Set("mode", c.mode)
	q.Set("output_mode", c.outputMode)
	q.Set("mark_vertical_lines", "true")
	q.Set("mark_horizontal_lines", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/whisper?"+q.Encode(), bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating whisper request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("unstract-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: submit: %v", domain.ErrOCRFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading whisper response: %w", err)
	}
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: whisper API status %d: %s",
			domain.ErrOCRFailed, resp.StatusCode, truncate(string(body), 300))
	}

	var submitted struct {
		WhisperHash string `json:"whisper_hash"`
	}
	if err := json.Unmarshal(body, &submitted); err != nil {
		return "", fmt.Errorf("unmarshaling whisper response: %w", err)
	}
	if submitted.WhisperHash == "" {
		return "", fmt.Errorf("%w: whisper response missing whisper_hash", domain.ErrOCRFailed)
	}
	return submitted.WhisperHash, nil
}

// waitForCompletion polls whisper-status until the conversion is processed.
// The overall wait is bounded by the configured wait timeout.
func (c *Client) waitForCompletion(ctx context.Context, hash string) error {
	deadline := time.Now().Add(c.waitTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		status, err := c.status(ctx, hash)
		if err != nil {
			return err
		}
		if status == statusProcessed {
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("%w after %s (last status: %s)", domain.ErrOCRTimeout, c.waitTimeout, status)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) status(ctx context.Context, hash string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/whisper-status?whisper_hash="+url.QueryEscape(hash), nil)
	if err != nil {
		return "", fmt.Errorf("creating status request: %w", err)
	}
	req.Header.Set("unstract-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: status poll: %v", domain.ErrOCRFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading status response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status API status %d: %s",
			domain.ErrOCRFailed, resp.StatusCode, truncate(string(body), 300))
	}

	var st struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &st); err != nil {
		return "", fmt.Errorf("unmarshaling status response: %w", err)
	}
	return st.Status, nil
}

// retrieve fetches the finished conversion and unwraps the nested
// extraction.result_text field from the response envelope.
func (c *Client) retrieve(ctx context.Context, hash string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/whisper-retrieve?whisper_hash="+url.QueryEscape(hash), nil)
	if err != nil {
		return "", fmt.Errorf("creating retrieve request: %w", err)
	}
	req.Header.Set("unstract-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: retrieve: %v", domain.ErrOCRFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading retrieve response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: retrieve API status %d: %s",
			domain.ErrOCRFailed, resp.StatusCode, truncate(string(body), 300))
	}

	// The envelope nests the text under extraction.result_text; some
	// deployments return the extraction object directly.
	var envelope struct {
		Extraction struct {
			ResultText string `json:"result_text"`
		} `json:"extraction"`
		ResultText string `json:"result_text"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", fmt.Errorf("unmarshaling retrieve response: %w", err)
	}
	if envelope.Extraction.ResultText != "" {
		return envelope.Extraction.ResultText, nil
	}
	return envelope.ResultText, nil
}

// Usage fetches account usage from the OCR service.
func (c *Client) Usage(ctx context.Context) (*port.UsageInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/get-usage-info", nil)
	if err != nil {
		return nil, fmt.Errorf("creating usage request: %w", err)
	}
	req.Header.Set("unstract-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling usage API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading usage response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("usage API status %d: %s", resp.StatusCode, truncate(string(body), 300))
	}

	var usage port.UsageInfo
	if err := json.Unmarshal(body, &usage); err != nil {
		return nil, fmt.Errorf("unmarshaling usage response: %w", err)
	}
	return &usage, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
