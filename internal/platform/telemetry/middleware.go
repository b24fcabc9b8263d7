package telemetry

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

const instrumentationName = "github.com/jsamuelsen/quote-keeper/telemetry"

// TraceIDHeader carries the trace ID of the request back to the caller.
const TraceIDHeader = "X-Trace-ID"

// HTTPMetrics holds OTel instruments for the HTTP server.
type HTTPMetrics struct {
	requestDuration metric.Float64Histogram
	requestTotal    metric.Int64Counter
	activeRequests  metric.Int64UpDownCounter
}

// NewHTTPMetrics creates the HTTP server instruments on the global meter.
func NewHTTPMetrics() (*HTTPMetrics, error) {
	meter := otel.Meter(instrumentationName)

	requestDuration, err := meter.Float64Histogram(
		"http.server.request.duration",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	requestTotal, err := meter.Int64Counter(
		"http.server.request.total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	activeRequests, err := meter.Int64UpDownCounter(
		"http.server.active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	return &HTTPMetrics{
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		activeRequests:  activeRequests,
	}, nil
}

// Middleware records request metrics, echoes the active trace ID in
// X-Trace-ID and adds it to the request logger as trace_id. It must run
// after TracingMiddleware so a span exists.
func Middleware() gin.HandlerFunc {
	instruments, err := NewHTTPMetrics()
	if err != nil {
		otel.Handle(err)
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()

		if sc := trace.SpanFromContext(ctx).SpanContext(); sc.HasTraceID() {
			traceID := sc.TraceID().String()
			c.Header(TraceIDHeader, traceID)
			c.Request = c.Request.WithContext(logging.WithTraceID(ctx, traceID))
		}

		if instruments == nil {
			c.Next()

			return
		}

		route := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
		)

		instruments.activeRequests.Add(ctx, 1, route)
		defer instruments.activeRequests.Add(ctx, -1, route)

		c.Next()

		done := metric.WithAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.Int("http.status_code", c.Writer.Status()),
		)
		instruments.requestDuration.Record(ctx, time.Since(start).Seconds(), done)
		instruments.requestTotal.Add(ctx, 1, done)
	}
}

// TracingMiddleware starts a server span for every request.
func TracingMiddleware(serviceName string) gin.HandlerFunc {
	return otelgin.Middleware(serviceName)
}
