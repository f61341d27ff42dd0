package telemetry

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/pixelmill/pixelmill/internal/core/ports"
)

const (
	// NodeID is the unique identifier for the tracer Graft node.
	NodeID graft.ID = "adapter.telemetry"
	// ProviderNodeID is the unique identifier for the tracer provider Graft node.
	ProviderNodeID graft.ID = "adapter.telemetry.provider"
)

func init() {
	// The provider installs itself globally; the tracer node depends on it so
	// otel.Tracer resolves against the installed provider.
	graft.Register(graft.Node[*Provider]{
		ID:        ProviderNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (*Provider, error) {
			return NewProvider(), nil
		},
	})

	graft.Register(graft.Node[ports.Tracer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{ProviderNodeID},
		Run: func(_ context.Context) (ports.Tracer, error) {
			return NewOTelTracer("pixelmill"), nil
		},
	})
}
