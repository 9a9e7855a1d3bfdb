package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invox/internal/middleware"
)

func newRequestIDRouter() *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})
	return r
}

func TestRequestID_Generated(t *testing.T) {
	r := newRequestIDRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", http.NoBody)
	r.ServeHTTP(w, req)

	id := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, id)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestRequestID_Propagated(t *testing.T) {
	r := newRequestIDRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/ping", http.NoBody)
	req.Header.Set("X-Request-ID", "client-supplied-id")
	r.ServeHTTP(w, req)

	assert.Equal(t, "client-supplied-id", w.Header().Get("X-Request-ID"))
}
