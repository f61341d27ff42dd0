package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Provider owns the process-wide tracer provider. Without an exporter
// configured, spans are sampled and dropped on end; span processors can be
// attached by embedders that want them.
type Provider struct {
	tp *sdktrace.TracerProvider
}

// NewProvider installs a TracerProvider as the global OTel provider and
// returns a handle for shutdown.
func NewProvider(opts ...sdktrace.TracerProviderOption) *Provider {
	opts = append([]sdktrace.TracerProviderOption{
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	}, opts...)
	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	return &Provider{tp: tp}
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	return p.tp.Shutdown(ctx)
}
