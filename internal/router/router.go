package router

import (
	"github.com/gin-gonic/gin"

	"invox/internal/handler"
	"invox/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	allowedOrigins []string,
	batchH *handler.BatchHandler,
	workbookH *handler.WorkbookHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(allowedOrigins))

	// Upload form
	r.GET("/", handler.Index)

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")
	v1.POST("/batches", batchH.Create)
	v1.GET("/workbooks/:id", workbookH.Download)

	return r
}
