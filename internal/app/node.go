package app

import (
	"context"
	"os"

	"github.com/grindlemire/graft"
	"github.com/pixelmill/pixelmill/internal/adapters/config"
	"github.com/pixelmill/pixelmill/internal/adapters/logger"
	"github.com/pixelmill/pixelmill/internal/adapters/mcp"
	"github.com/pixelmill/pixelmill/internal/adapters/telemetry"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"github.com/pixelmill/pixelmill/internal/engine/cache"
	"github.com/pixelmill/pixelmill/internal/engine/dispatch"
	"github.com/pixelmill/pixelmill/internal/engine/executor"
	"github.com/pixelmill/pixelmill/internal/engine/monitor"
	"github.com/pixelmill/pixelmill/internal/engine/registry"
	"github.com/pixelmill/pixelmill/internal/imaging"
)

// ComponentsNodeID is the unique identifier for the App components Graft node.
const ComponentsNodeID graft.ID = "app.components"

func init() {
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			logger.NodeID,
			config.NodeID,
			telemetry.NodeID,
			telemetry.ProviderNodeID,
		},
		Run: runComponentsNode,
	})
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := graft.Dep[domain.Config](ctx)
	if err != nil {
		return nil, err
	}

	tracer, err := graft.Dep[ports.Tracer](ctx)
	if err != nil {
		return nil, err
	}

	provider, err := graft.Dep[*telemetry.Provider](ctx)
	if err != nil {
		return nil, err
	}

	if cfg.LogJSON {
		if pretty, ok := log.(*logger.Logger); ok {
			pretty.SetJSON(true)
		}
	}

	mon := monitor.New()
	resultCache := cache.New(cfg.CacheMaxEntries, cfg.CacheMaxBytes, mon)
	exec := executor.New(cfg.MaxConcurrency, cfg.QueueDepth, cfg.TaskTimeout, resultCache, mon, tracer, log)

	reg := registry.New()
	if err := imaging.NewOps(cfg).RegisterAll(reg); err != nil {
		return nil, err
	}
	reg.Freeze()

	dispatcher := dispatch.New(reg, resultCache, exec, mon, tracer)
	server := mcp.NewServer(os.Stdin, os.Stdout, dispatcher, log)

	return &Components{
		App:        New(log, cfg, server, exec, provider),
		Logger:     log,
		Config:     cfg,
		Dispatcher: dispatcher,
		Executor:   exec,
	}, nil
}
