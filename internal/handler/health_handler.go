package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"invox/internal/config"
	"invox/internal/port"
)

// usageProbeTimeout bounds the OCR usage call made by the readiness probe.
const usageProbeTimeout = 5 * time.Second

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	cfg          *config.Config
	ocr          port.TextExtractor
	promptLoaded bool
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(cfg *config.Config, ocr port.TextExtractor, promptLoaded bool) *HealthHandler {
	return &HealthHandler{cfg: cfg, ocr: ocr, promptLoaded: promptLoaded}
}

// Liveness handles GET /healthz
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness handles GET /readyz. The OCR service is probed with a usage call
// to verify the credentials actually work; the LLM key is only checked for
// presence since its providers have no free probe endpoint.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ocrReady := false
	if h.cfg.OCR.APIKey != "" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), usageProbeTimeout)
		defer cancel()
		if _, err := h.ocr.Usage(ctx); err == nil {
			ocrReady = true
		}
	}
	llmReady := h.cfg.LLM.APIKey != ""

	status := gin.H{
		"ocr_available": ocrReady,
		"llm_available": llmReady,
		"prompt_loaded": h.promptLoaded,
	}

	if !ocrReady || !llmReady || !h.promptLoaded {
		status["status"] = "unavailable"
		c.JSON(http.StatusServiceUnavailable, status)
		return
	}
	status["status"] = "ok"
	c.JSON(http.StatusOK, status)
}
