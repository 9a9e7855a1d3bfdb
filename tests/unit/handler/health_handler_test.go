package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"invox/internal/config"
	"invox/internal/handler"
	"invox/internal/port"
	"invox/mocks"
)

func readyConfig() *config.Config {
	return &config.Config{
		OCR: config.OCRConfig{APIKey: "ocr-key"},
		LLM: config.LLMConfig{APIKey: "llm-key"},
	}
}

func reachableOCR() *mocks.MockTextExtractor {
	mockOCR := new(mocks.MockTextExtractor)
	mockOCR.On("Usage", mock.Anything).Return(&port.UsageInfo{DailyQuota: 100}, nil)
	return mockOCR
}

func TestHealthHandler_Liveness(t *testing.T) {
	h := handler.NewHealthHandler(readyConfig(), reachableOCR(), true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/healthz", http.NoBody)

	h.Liveness(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHealthHandler_Readiness_OK(t *testing.T) {
	mockOCR := reachableOCR()
	h := handler.NewHealthHandler(readyConfig(), mockOCR, true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)

	h.Readiness(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["ocr_available"])
	assert.Equal(t, true, body["llm_available"])
	assert.Equal(t, true, body["prompt_loaded"])
	mockOCR.AssertExpectations(t)
}

func TestHealthHandler_Readiness_OCRUnreachable(t *testing.T) {
	mockOCR := new(mocks.MockTextExtractor)
	mockOCR.On("Usage", mock.Anything).Return(nil, assert.AnError)
	h := handler.NewHealthHandler(readyConfig(), mockOCR, true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)

	h.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["ocr_available"])
}

func TestHealthHandler_Readiness_MissingOCRKeySkipsProbe(t *testing.T) {
	cfg := readyConfig()
	cfg.OCR.APIKey = ""
	mockOCR := new(mocks.MockTextExtractor)
	h := handler.NewHealthHandler(cfg, mockOCR, true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)

	h.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	// No point burning a usage call when the key is missing.
	mockOCR.AssertNotCalled(t, "Usage", mock.Anything)
}

func TestHealthHandler_Readiness_MissingLLMKey(t *testing.T) {
	cfg := readyConfig()
	cfg.LLM.APIKey = ""
	h := handler.NewHealthHandler(cfg, reachableOCR(), true)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)

	h.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body["status"])
	assert.Equal(t, false, body["llm_available"])
}

func TestHealthHandler_Readiness_PromptNotLoaded(t *testing.T) {
	h := handler.NewHealthHandler(readyConfig(), reachableOCR(), false)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/readyz", http.NoBody)

	h.Readiness(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
