// Package dispatch implements the request path: resolve the operation,
// fingerprint the call, serve from the result cache when possible, otherwise
// hand off to the executor, and account every outcome with the monitor.
package dispatch

import (
	"context"
	"time"

	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"github.com/pixelmill/pixelmill/internal/engine/fingerprint"
	"go.trai.ch/zerr"
)

// Dispatcher is the single entry point request surfaces call into. It owns
// no state of its own; everything lives in the collaborating ports.
type Dispatcher struct {
	registry ports.Registry
	cache    ports.ResultCache
	executor ports.Executor
	monitor  ports.Monitor
	tracer   ports.Tracer
}

func New(registry ports.Registry, cache ports.ResultCache, executor ports.Executor, monitor ports.Monitor, tracer ports.Tracer) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		cache:    cache,
		executor: executor,
		monitor:  monitor,
		tracer:   tracer,
	}
}

// Dispatch runs one operation call to completion and returns its result.
// Failures carry a domain sentinel so callers can map them to wire codes.
func (d *Dispatcher) Dispatch(ctx context.Context, operation string, args domain.Args, images [][]byte) (*domain.Result, error) {
	start := time.Now()
	ctx, span := d.tracer.Start(ctx, "dispatch")
	span.SetAttribute("operation", operation)
	defer span.End()

	result, err := d.dispatch(ctx, operation, args, images)

	d.monitor.RecordRequest(operation, err, time.Since(start))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return result, nil
}

func (d *Dispatcher) dispatch(ctx context.Context, operation string, args domain.Args, images [][]byte) (*domain.Result, error) {
	op, err := d.registry.Resolve(operation)
	if err != nil {
		return nil, err
	}

	if op.MaxInputBytes > 0 {
		var total int64
		for _, img := range images {
			total += int64(len(img))
		}
		if total > op.MaxInputBytes {
			return nil, zerr.With(zerr.With(zerr.Wrap(domain.ErrValidation, "input exceeds operation size limit"), "operation", operation), "input_bytes", total)
		}
	}

	fp := fingerprint.Compute(operation, args, images)

	if op.Cacheable {
		if cached, ok := d.cache.Get(fp); ok {
			return cached, nil
		}
	}

	return d.executor.Submit(ctx, fp, op, args, images)
}

// Snapshot exposes the monitor's counters to the protocol layer.
func (d *Dispatcher) Snapshot() domain.MonitorSnapshot {
	return d.monitor.Snapshot()
}

// ResetStats zeroes the monitor's counters.
func (d *Dispatcher) ResetStats() {
	d.monitor.Reset()
}

// Descriptors lists the registered operations for tool listings.
func (d *Dispatcher) Descriptors() []*domain.Operation {
	return d.registry.Descriptors()
}
