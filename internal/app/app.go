// Package app implements the application layer for pixelmill.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pixelmill/pixelmill/internal/adapters/mcp"
	"github.com/pixelmill/pixelmill/internal/adapters/telemetry"
	"github.com/pixelmill/pixelmill/internal/build"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// shutdownGrace bounds how long Serve waits for in-flight tasks after the
// protocol stream closes.
const shutdownGrace = 10 * time.Second

// App owns the serving lifecycle: it runs the protocol server and drains the
// executor when the stream closes or the context is canceled.
type App struct {
	logger   ports.Logger
	config   domain.Config
	server   *mcp.Server
	executor ports.Executor
	provider *telemetry.Provider
}

// New creates a new App instance. provider may be nil when tracing has no
// process-wide provider to tear down.
func New(logger ports.Logger, cfg domain.Config, server *mcp.Server, executor ports.Executor, provider *telemetry.Provider) *App {
	return &App{
		logger:   logger,
		config:   cfg,
		server:   server,
		executor: executor,
		provider: provider,
	}
}

// Serve runs the protocol server until the input stream closes or ctx is
// canceled, then drains the executor. Interrupt-driven shutdown is not an
// error.
func (a *App) Serve(ctx context.Context) error {
	a.logger.Info(fmt.Sprintf("pixelmill %s serving on stdio (workers=%d, queue=%d)",
		build.Version, a.config.MaxConcurrency, a.config.QueueDepth))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.server.Run(ctx)
	})
	err := g.Wait()

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if derr := a.executor.Shutdown(drainCtx); derr != nil && err == nil {
		err = derr
	}
	if a.provider != nil {
		if perr := a.provider.Shutdown(drainCtx); perr != nil && err == nil {
			err = perr
		}
	}

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
