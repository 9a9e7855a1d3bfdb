package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"invox/internal/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newCORSRouter(origins ...string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.CORS(origins))
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := newCORSRouter("https://app.example.com")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_DisallowedOrigin(t *testing.T) {
	r := newCORSRouter("https://app.example.com")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", http.NoBody)
	req.Header.Set("Origin", "https://evil.example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	r := newCORSRouter("https://app.example.com")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/ping", http.NoBody)
	req.Header.Set("Origin", "https://app.example.com")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "GET, POST, OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
}
