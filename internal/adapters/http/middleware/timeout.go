package middleware

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

// Timeout returns middleware that puts a deadline on the request context.
//
// Handlers run on the request goroutine and must respect ctx.Done(). When the
// deadline passes and the handler has not written a response, a 504 with the
// error envelope is sent. Requests to skipPaths get no deadline; the sync
// trigger uses this because a cycle may outlive a normal request.
func Timeout(timeout time.Duration, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok || timeout <= 0 {
			c.Next()
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !c.Writer.Written() {
			handleTimeout(c, timeout)
		}
	}
}

func handleTimeout(c *gin.Context, timeout time.Duration) {
	ctx := c.Request.Context()

	logging.FromContext(ctx).WarnContext(ctx, "request timeout",
		slog.String("path", c.Request.URL.Path),
		slog.String("method", c.Request.Method),
		slog.Duration("timeout", timeout),
	)

	dto.HandleError(c, ctx.Err())
}
