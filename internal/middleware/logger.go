package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requestIDKey is the gin context key holding the request ID.
const requestIDKey = "request_id"

// RequestID makes sure every request carries an X-Request-ID, generating one
// when the client did not send it, and echoes it on the response so batch
// failures can be correlated with server logs.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// Logger writes one line per request in the component-prefixed format the
// rest of the service logs in.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Printf("http: %s %s -> %d in %s request_id=%s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(start),
			c.GetString(requestIDKey),
		)
	}
}

// Recovery turns panics into 500 responses instead of dropping the
// connection mid-batch.
func Recovery() gin.HandlerFunc {
	return gin.Recovery()
}
