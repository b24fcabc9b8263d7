package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/jsamuelsen/quote-keeper/internal/platform/logging"
)

func TestNew_DisabledIsNoop(t *testing.T) {
	p, err := New(context.Background(), &Config{Enabled: false})
	require.NoError(t, err)

	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))
}

func TestNewSampler(t *testing.T) {
	tests := []struct {
		name     string
		rate     float64
		span     string
		expected sdktrace.SamplingDecision
	}{
		{"sync cycle kept at zero rate", 0, SyncCycleSpan, sdktrace.RecordAndSample},
		{"request dropped at zero rate", 0, "GET /api/v1/quotes", sdktrace.Drop},
		{"request kept at full rate", 1, "GET /api/v1/quotes", sdktrace.RecordAndSample},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := newSampler(tt.rate).ShouldSample(sdktrace.SamplingParameters{
				ParentContext: context.Background(),
				Name:          tt.span,
			})

			assert.Equal(t, tt.expected, result.Decision)
		})
	}
}

func TestNewSampler_ChildFollowsParent(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter), sdktrace.WithSampler(newSampler(0)))

	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	tracer := provider.Tracer("sync-test")

	ctx, cycle := tracer.Start(context.Background(), SyncCycleSpan)
	_, submit := tracer.Start(ctx, "submit")
	submit.End()
	cycle.End()

	_, request := tracer.Start(context.Background(), "GET /api/v1/quotes")
	request.End()

	names := make([]string, 0, 2)
	for _, s := range exporter.GetSpans() {
		names = append(names, s.Name)
	}

	assert.ElementsMatch(t, []string{SyncCycleSpan, "submit"}, names)
}

func TestNewResource(t *testing.T) {
	res, err := newResource(context.Background(), &Config{
		ServiceName:    "quote-keeper",
		Version:        "1.2.3",
		Environment:    "test",
		RemoteEndpoint: "https://jsonplaceholder.typicode.com/posts",
		SyncInterval:   30 * time.Second,
	})
	require.NoError(t, err)

	attrs := make(map[attribute.Key]string)
	for _, kv := range res.Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}

	assert.Equal(t, "quote-keeper", attrs["service.name"])
	assert.Equal(t, "1.2.3", attrs["service.version"])
	assert.Equal(t, "https://jsonplaceholder.typicode.com/posts", attrs[RemoteEndpointKey])
	assert.Equal(t, "30s", attrs[SyncIntervalKey])
}

func TestNewResource_OmitsUnsetAttributes(t *testing.T) {
	res, err := newResource(context.Background(), &Config{ServiceName: "quote-keeper"})
	require.NoError(t, err)

	set := res.Set()
	_, hasRemote := set.Value(RemoteEndpointKey)
	_, hasInterval := set.Value(SyncIntervalKey)

	assert.False(t, hasRemote)
	assert.False(t, hasInterval)
}

func TestMiddleware_WithoutSpanLeavesHeaderUnset(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Middleware())
	router.GET("/quotes", func(c *gin.Context) { c.Status(http.StatusOK) })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotes", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get(TraceIDHeader))
}

func TestMiddleware_PropagatesTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)

	t.Cleanup(func() {
		otel.SetTracerProvider(previous)
		_ = provider.Shutdown(context.Background())
	})

	var loggerFound bool

	router := gin.New()
	router.Use(TracingMiddleware("quote-keeper-test"), Middleware())
	router.GET("/quotes", func(c *gin.Context) {
		_, loggerFound = logging.Lookup(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/quotes", nil))

	require.Len(t, exporter.GetSpans(), 1)
	span := exporter.GetSpans()[0]

	assert.Equal(t, span.SpanContext.TraceID().String(), rec.Header().Get(TraceIDHeader))
	assert.True(t, loggerFound)
}
