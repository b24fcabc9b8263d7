package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

// Recovery returns middleware that recovers from panics.
// On panic, it:
//   - Logs the value with the stack trace at ERROR level
//   - Responds 500 with the standard error envelope and trace ID
//
// Apply it first so it covers every later handler and middleware.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			ctx := c.Request.Context()
			traceID := dto.GetTraceID(c)

			logging.FromContext(ctx).ErrorContext(ctx, "panic recovered",
				slog.Any("error", r),
				slog.String("stack", string(debug.Stack())),
				slog.String("path", c.Request.URL.Path),
				slog.String("method", c.Request.Method),
			)

			if c.Writer.Written() {
				c.Abort()
				return
			}

			errResp := dto.NewErrorResponse(dto.ErrorCodeInternal, "an internal error occurred").
				WithTraceID(traceID)
			c.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
		}()

		c.Next()
	}
}
