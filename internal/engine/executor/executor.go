// Package executor runs operation handlers on a fixed worker pool fed by a
// bounded FIFO queue. Submissions with an identical fingerprint coalesce into
// one execution, each task runs under its own timeout, and a full queue
// rejects immediately instead of blocking the caller.
package executor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"go.trai.ch/zerr"
)

// task is one pending or running handler invocation. Waiters block on done;
// result and err are set exactly once before done closes.
type task struct {
	fp     domain.Fingerprint
	op     *domain.Operation
	args   domain.Args
	images [][]byte

	mu      sync.Mutex
	waiters int

	done   chan struct{}
	result *domain.Result
	err    error
}

func (t *task) addWaiter() {
	t.mu.Lock()
	t.waiters++
	t.mu.Unlock()
}

func (t *task) dropWaiter() {
	t.mu.Lock()
	t.waiters--
	t.mu.Unlock()
}

func (t *task) abandoned() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.waiters == 0
}

type executor struct {
	queue          chan *task
	defaultTimeout time.Duration

	mu       sync.Mutex
	closed   bool
	inflight map[domain.Fingerprint]*task

	wg sync.WaitGroup

	cache   ports.ResultCache
	monitor ports.Monitor
	tracer  ports.Tracer
	logger  ports.Logger
}

// New starts workers goroutines draining a queue of queueDepth slots.
// defaultTimeout bounds handlers whose operation declares none.
func New(workers, queueDepth int, defaultTimeout time.Duration, cache ports.ResultCache, monitor ports.Monitor, tracer ports.Tracer, logger ports.Logger) ports.Executor {
	e := &executor{
		queue:          make(chan *task, queueDepth),
		defaultTimeout: defaultTimeout,
		inflight:       make(map[domain.Fingerprint]*task),
		cache:          cache,
		monitor:        monitor,
		tracer:         tracer,
		logger:         logger,
	}
	for i := 0; i < workers; i++ {
		e.wg.Add(1)
		go e.worker()
	}
	return e
}

func (e *executor) Submit(ctx context.Context, fp domain.Fingerprint, op *domain.Operation, args domain.Args, images [][]byte) (*domain.Result, error) {
	t, err := e.attach(fp, op, args, images)
	if err != nil {
		return nil, err
	}

	select {
	case <-t.done:
		return t.result, t.err
	case <-ctx.Done():
		// The task keeps running for any remaining waiters; only this
		// caller's wait ends.
		t.dropWaiter()
		return nil, ctx.Err()
	}
}

// attach joins an in-flight task for fp or enqueues a new one.
func (e *executor) attach(fp domain.Fingerprint, op *domain.Operation, args domain.Args, images [][]byte) (*task, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, zerr.With(domain.ErrExecutorClosed, "operation", op.Name)
	}

	if t, ok := e.inflight[fp]; ok {
		t.addWaiter()
		return t, nil
	}

	t := &task{fp: fp, op: op, args: args, images: images, done: make(chan struct{})}
	t.addWaiter()

	select {
	case e.queue <- t:
		e.inflight[fp] = t
		return t, nil
	default:
		return nil, zerr.With(zerr.With(domain.ErrOverloaded, "operation", op.Name), "queue_depth", cap(e.queue))
	}
}

func (e *executor) worker() {
	defer e.wg.Done()
	for t := range e.queue {
		e.run(t)
	}
}

func (e *executor) run(t *task) {
	// Every waiter may have walked away while the task sat in the queue;
	// skip the handler in that case.
	if t.abandoned() {
		e.finish(t, nil, zerr.With(zerr.Wrap(context.Canceled, "all waiters abandoned task"), "operation", t.op.Name))
		return
	}

	timeout := t.op.Timeout
	if timeout <= 0 {
		timeout = e.defaultTimeout
	}

	// The run context is detached from any submitter: an abandoned task
	// still completes for late-attaching waiters.
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ctx, span := e.tracer.Start(ctx, "executor.run")
	span.SetAttribute("operation", t.op.Name)
	defer span.End()

	e.monitor.TaskStarted()
	result, err := e.invoke(ctx, t)
	e.monitor.TaskFinished()

	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			err = zerr.With(zerr.With(domain.ErrTimeout, "operation", t.op.Name), "timeout", timeout.String())
		case !errors.Is(err, domain.ErrHandlerFailed) && !errors.Is(err, domain.ErrValidation):
			err = zerr.With(zerr.Wrap(domain.ErrHandlerFailed, err.Error()), "operation", t.op.Name)
		}
		span.RecordError(err)
		e.logger.Warn(fmt.Sprintf("task %s failed: %v", t.op.Name, err))
		result = nil
	}

	e.finish(t, result, err)
}

// invoke runs the handler on its own goroutine so a handler that ignores its
// context still cannot hold a worker past the deadline, and a panic surfaces
// as an error instead of tearing down the process.
func (e *executor) invoke(ctx context.Context, t *task) (*domain.Result, error) {
	type outcome struct {
		result *domain.Result
		err    error
	}
	ch := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- outcome{err: zerr.With(zerr.Wrap(domain.ErrHandlerFailed, fmt.Sprintf("handler panicked: %v", r)), "operation", t.op.Name)}
			}
		}()
		result, err := t.op.Handler(ctx, t.args, t.images)
		ch <- outcome{result: result, err: err}
	}()

	select {
	case out := <-ch:
		return out.result, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// finish publishes the outcome: successful cacheable results land in the
// result cache under a claim so they cannot be evicted before waiters see
// them, the task leaves the in-flight set, and done releases all waiters.
func (e *executor) finish(t *task, result *domain.Result, err error) {
	if err == nil && t.op.Cacheable {
		e.cache.Claim(t.fp)
		e.cache.Put(t.fp, result)
		defer e.cache.Release(t.fp)
	}

	t.result = result
	t.err = err

	e.mu.Lock()
	delete(e.inflight, t.fp)
	e.mu.Unlock()

	close(t.done)
}

func (e *executor) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	close(e.queue)
	e.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return zerr.Wrap(ctx.Err(), "executor shutdown deadline exceeded")
	}
}
