// Package middleware provides HTTP middleware components for the Gin server.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

const (
	// HeaderRequestID is the header name for request ID.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the gin.Context key for the request ID.
	ContextKeyRequestID = "request_id"

	// maxRequestIDLength bounds caller-supplied IDs before they reach logs.
	maxRequestIDLength = 128
)

// RequestID returns middleware that extracts or generates a request ID.
// The request ID is:
//   - Taken from the X-Request-ID header when present and well formed
//   - Generated as a new UUID v4 otherwise
//   - Stored in the gin.Context and the request's context.Context
//   - Echoed in the response headers
//   - Added to the context logger
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if !validRequestID(id) {
			id = uuid.NewString()
		}

		c.Set(ContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)

		ctx := ContextWithRequestID(c.Request.Context(), id)
		ctx = logging.WithRequestID(ctx, id)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID extracts the request ID from the gin.Context.
// Returns empty string if not set.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(ContextKeyRequestID); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}

	return ""
}

// MustGetRequestID extracts the request ID from the gin.Context.
// Returns "unknown" if not set (should not happen if middleware is applied).
func MustGetRequestID(c *gin.Context) string {
	if id := GetRequestID(c); id != "" {
		return id
	}

	return "unknown"
}

// validRequestID accepts printable ASCII up to maxRequestIDLength.
func validRequestID(id string) bool {
	if id == "" || len(id) > maxRequestIDLength {
		return false
	}

	for i := range len(id) {
		if id[i] < 0x21 || id[i] > 0x7e {
			return false
		}
	}

	return true
}
