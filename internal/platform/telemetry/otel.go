// Package telemetry wires OpenTelemetry tracing and metrics for the service.
//
// When disabled, New returns a Provider whose Shutdown is a no-op and the
// global otel providers stay at their no-op defaults, so spans started by
// the sync cycle and the HTTP layer cost nothing.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// SyncCycleSpan names the root span of one reconciliation cycle. Cycles are
// rare next to HTTP traffic, so they are always sampled.
const SyncCycleSpan = "sync_cycle"

// Resource attribute keys describing what this instance talks to.
const (
	RemoteEndpointKey = attribute.Key("quote.remote.endpoint")
	SyncIntervalKey   = attribute.Key("quote.sync.interval")
)

const shutdownTimeout = 5 * time.Second

// Config holds telemetry configuration.
type Config struct {
	Enabled      bool
	Endpoint     string
	ServiceName  string
	Version      string
	Environment  string
	SamplingRate float64

	// RemoteEndpoint and SyncInterval are recorded on the resource.
	RemoteEndpoint string
	SyncInterval   time.Duration
}

// Provider owns the SDK providers installed by New.
type Provider struct {
	tracerProvider *trace.TracerProvider
	meterProvider  *metric.MeterProvider
}

// New configures OTLP/gRPC exporters and installs them as the global
// providers. It returns a no-op Provider when telemetry is disabled.
func New(ctx context.Context, cfg *Config) (*Provider, error) {
	if !cfg.Enabled {
		return &Provider{}, nil
	}

	res, err := newResource(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tracerProvider, err := newTracerProvider(ctx, cfg, res)
	if err != nil {
		return nil, err
	}

	meterProvider, err := newMeterProvider(ctx, cfg, res)
	if err != nil {
		_ = tracerProvider.Shutdown(ctx)

		return nil, err
	}

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return &Provider{
		tracerProvider: tracerProvider,
		meterProvider:  meterProvider,
	}, nil
}

func newResource(ctx context.Context, cfg *Config) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.Version),
		semconv.DeploymentEnvironment(cfg.Environment),
	}

	if cfg.RemoteEndpoint != "" {
		attrs = append(attrs, RemoteEndpointKey.String(cfg.RemoteEndpoint))
	}

	if cfg.SyncInterval > 0 {
		attrs = append(attrs, SyncIntervalKey.String(cfg.SyncInterval.String()))
	}

	return resource.New(ctx,
		resource.WithFromEnv(),
		resource.WithTelemetrySDK(),
		resource.WithAttributes(attrs...),
	)
}

func newTracerProvider(ctx context.Context, cfg *Config, res *resource.Resource) (*trace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	return trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
		trace.WithSampler(newSampler(cfg.SamplingRate)),
	), nil
}

func newMeterProvider(ctx context.Context, cfg *Config, res *resource.Resource) (*metric.MeterProvider, error) {
	exporter, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(cfg.Endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	return metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(exporter)),
	), nil
}

// newSampler keeps every sync cycle and samples other root spans at rate.
// Child spans follow their parent's decision.
func newSampler(rate float64) trace.Sampler {
	return trace.ParentBased(cycleSampler{ratio: trace.TraceIDRatioBased(rate)})
}

type cycleSampler struct {
	ratio trace.Sampler
}

func (s cycleSampler) ShouldSample(p trace.SamplingParameters) trace.SamplingResult {
	if p.Name == SyncCycleSpan {
		return trace.AlwaysSample().ShouldSample(p)
	}

	return s.ratio.ShouldSample(p)
}

func (s cycleSampler) Description() string {
	return fmt.Sprintf("CycleSampler{%s,else:%s}", SyncCycleSpan, s.ratio.Description())
}

// Enabled reports whether New installed real providers.
func (p *Provider) Enabled() bool {
	return p.tracerProvider != nil || p.meterProvider != nil
}

// Shutdown flushes and stops the providers.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	var errs []error

	if p.tracerProvider != nil {
		if err := p.tracerProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down tracer provider: %w", err))
		}
	}

	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("shutting down meter provider: %w", err))
		}
	}

	return errors.Join(errs...)
}
