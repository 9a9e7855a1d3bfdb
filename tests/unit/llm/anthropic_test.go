package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invox/internal/config"
	"invox/internal/llm/anthropic"
)

func TestAnthropicClient_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-anthropic-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		var reqBody map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "claude-sonnet-4-20250514", reqBody["model"])
		assert.Equal(t, float64(8192), reqBody["max_tokens"])
		assert.Equal(t, "extract fields", reqBody["system"])

		messages := reqBody["messages"].([]any)
		require.Len(t, messages, 1)
		msg := messages[0].(map[string]any)
		assert.Equal(t, "user", msg["role"])
		assert.Equal(t, "INVOICE TEXT", msg["content"])

		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{
				{"type": "text", "text": `{"invoice_info":{}}`},
			},
			"stop_reason": "end_turn",
		})
	}))
	defer server.Close()

	c := anthropic.NewClientWithEndpoint(&config.LLMConfig{
		APIKey: "test-anthropic-key",
		Model:  "claude-sonnet-4-20250514",
	}, server.URL)

	reply, err := c.Complete(context.Background(), "extract fields", "INVOICE TEXT")

	require.NoError(t, err)
	assert.Equal(t, `{"invoice_info":{}}`, reply)
}

func TestAnthropicClient_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid request"}}`))
	}))
	defer server.Close()

	c := anthropic.NewClientWithEndpoint(&config.LLMConfig{APIKey: "k"}, server.URL)

	_, err := c.Complete(context.Background(), "prompt", "text")
	assert.ErrorContains(t, err, "400")
}

func TestAnthropicClient_Complete_NoTextContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"content": []any{}})
	}))
	defer server.Close()

	c := anthropic.NewClientWithEndpoint(&config.LLMConfig{APIKey: "k"}, server.URL)

	_, err := c.Complete(context.Background(), "prompt", "text")
	assert.ErrorContains(t, err, "no text content")
}
