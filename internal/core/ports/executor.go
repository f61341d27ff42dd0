package ports

import (
	"context"

	"github.com/pixelmill/pixelmill/internal/core/domain"
)

// Executor runs operation handlers under a fixed concurrency bound with a
// bounded FIFO queue, per-task timeouts, and single-flight de-duplication
// by fingerprint.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Submit enqueues one handler invocation and blocks until its task
	// reaches a terminal state. If a task with the same fingerprint is
	// already queued or running, the caller attaches to it as an additional
	// waiter instead of enqueueing a second execution.
	//
	// Submit fails fast with domain.ErrOverloaded when the queue is full,
	// and returns domain.ErrTimeout or domain.ErrHandlerFailed when the
	// task fails. ctx only governs this caller's wait: an abandoned task
	// still runs to completion for its remaining waiters.
	Submit(ctx context.Context, fp domain.Fingerprint, op *domain.Operation, args domain.Args, images [][]byte) (*domain.Result, error)

	// Shutdown stops intake, waits for in-flight tasks up to ctx's deadline,
	// and releases the worker pool.
	Shutdown(ctx context.Context) error
}
