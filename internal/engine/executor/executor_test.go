package executor_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"github.com/pixelmill/pixelmill/internal/core/ports/mocks"
	"github.com/pixelmill/pixelmill/internal/engine/cache"
	"github.com/pixelmill/pixelmill/internal/engine/executor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type executorFixture struct {
	exec  ports.Executor
	cache ports.ResultCache
}

// setupExecutorTest builds an executor over permissive mocks and a real
// result cache so cache publication can be observed end to end.
func setupExecutorTest(t *testing.T, workers, queueDepth int, timeout time.Duration) executorFixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	monitor := mocks.NewMockMonitor(ctrl)
	monitor.EXPECT().RecordCacheHit().AnyTimes()
	monitor.EXPECT().RecordCacheMiss().AnyTimes()
	monitor.EXPECT().RecordEviction().AnyTimes()
	monitor.EXPECT().TaskStarted().AnyTimes()
	monitor.EXPECT().TaskFinished().AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()
	logger.EXPECT().Error(gomock.Any()).AnyTimes()

	span := mocks.NewMockSpan(ctrl)
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	tracer := mocks.NewMockTracer(ctrl)
	tracer.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string, _ ...ports.SpanOption) (context.Context, ports.Span) {
			return ctx, span
		},
	).AnyTimes()

	resultCache := cache.New(100, 1<<20, monitor)
	exec := executor.New(workers, queueDepth, timeout, resultCache, monitor, tracer, logger)
	return executorFixture{exec: exec, cache: resultCache}
}

func fp(b byte) domain.Fingerprint {
	var f domain.Fingerprint
	f[0] = b
	return f
}

func TestSubmitSuccess(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 2, 8, 30*time.Second)

		op := &domain.Operation{
			Name:      "resize",
			Cacheable: true,
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				return &domain.Result{Data: []byte("out"), Format: "png", Width: 4, Height: 4}, nil
			},
		}

		res, err := fx.exec.Submit(t.Context(), fp(1), op, nil, nil)
		require.NoError(t, err)
		assert.Equal(t, []byte("out"), res.Data)

		// A cacheable success is published under its fingerprint.
		cached, ok := fx.cache.Get(fp(1))
		require.True(t, ok)
		assert.Equal(t, res, cached)

		require.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestSubmitNonCacheableSkipsCache(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 1, 4, 30*time.Second)

		op := &domain.Operation{
			Name: "info",
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				return &domain.Result{Data: []byte("meta")}, nil
			},
		}

		_, err := fx.exec.Submit(t.Context(), fp(1), op, nil, nil)
		require.NoError(t, err)

		_, ok := fx.cache.Get(fp(1))
		assert.False(t, ok)

		require.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestSingleFlightCoalesces(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 4, 16, 30*time.Second)

		var runs atomic.Int32
		release := make(chan struct{})
		op := &domain.Operation{
			Name:      "blur",
			Cacheable: true,
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				runs.Add(1)
				<-release
				return &domain.Result{Data: []byte("blurred")}, nil
			},
		}

		const callers = 5
		results := make([]*domain.Result, callers)
		errs := make([]error, callers)
		var wg sync.WaitGroup
		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], errs[i] = fx.exec.Submit(t.Context(), fp(7), op, nil, nil)
			}(i)
		}

		// All five callers are attached and the one handler is blocked.
		synctest.Wait()
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), runs.Load(), "identical fingerprints must coalesce")
		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Same(t, results[0], results[i])
		}

		require.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestConcurrencyBound(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		const workers = 4
		fx := setupExecutorTest(t, workers, 32, 30*time.Second)

		var current, peak atomic.Int32
		op := &domain.Operation{
			Name: "sharpen",
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				c := current.Add(1)
				for {
					p := peak.Load()
					if c <= p || peak.CompareAndSwap(p, c) {
						break
					}
				}
				time.Sleep(10 * time.Millisecond)
				current.Add(-1)
				return &domain.Result{}, nil
			},
		}

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := fx.exec.Submit(t.Context(), fp(byte(i)), op, nil, nil)
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		assert.LessOrEqual(t, peak.Load(), int32(workers))
		assert.Greater(t, peak.Load(), int32(0))

		require.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestQueueFullRejects(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 1, 1, 30*time.Second)

		release := make(chan struct{})
		op := &domain.Operation{
			Name: "emboss",
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				<-release
				return &domain.Result{}, nil
			},
		}

		var wg sync.WaitGroup
		submit := func(b byte) {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := fx.exec.Submit(t.Context(), fp(b), op, nil, nil)
				assert.NoError(t, err)
			}()
		}

		// First occupies the worker, second occupies the only queue slot.
		submit(1)
		synctest.Wait()
		submit(2)
		synctest.Wait()

		_, err := fx.exec.Submit(t.Context(), fp(3), op, nil, nil)
		assert.ErrorIs(t, err, domain.ErrOverloaded)

		// A duplicate of a queued fingerprint still attaches: rejection is
		// only for new work.
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.exec.Submit(t.Context(), fp(2), op, nil, nil)
			assert.NoError(t, err)
		}()
		synctest.Wait()

		close(release)
		wg.Wait()
		require.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestHandlerTimeout(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 1, 4, 30*time.Second)

		op := &domain.Operation{
			Name:    "edge_detect",
			Timeout: 50 * time.Millisecond,
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				select {
				case <-time.After(10 * time.Second):
					return &domain.Result{}, nil
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			},
		}

		_, err := fx.exec.Submit(t.Context(), fp(1), op, nil, nil)
		assert.ErrorIs(t, err, domain.ErrTimeout)

		require.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestUncooperativeHandlerStillTimesOut(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 1, 4, 20*time.Millisecond)

		op := &domain.Operation{
			Name: "watermark",
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				// Ignores ctx entirely.
				time.Sleep(10 * time.Second)
				return &domain.Result{}, nil
			},
		}

		start := time.Now()
		_, err := fx.exec.Submit(t.Context(), fp(1), op, nil, nil)
		assert.ErrorIs(t, err, domain.ErrTimeout)
		assert.Less(t, time.Since(start), time.Second, "worker must be released at the deadline")

		require.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestHandlerPanicBecomesError(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 1, 4, 30*time.Second)

		op := &domain.Operation{
			Name: "sepia",
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				panic("index out of range")
			},
		}

		_, err := fx.exec.Submit(t.Context(), fp(1), op, nil, nil)
		assert.ErrorIs(t, err, domain.ErrHandlerFailed)
		assert.Contains(t, err.Error(), "index out of range")

		// The worker survived the panic.
		ok := &domain.Operation{
			Name: "sepia_ok",
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				return &domain.Result{}, nil
			},
		}
		_, err = fx.exec.Submit(t.Context(), fp(2), ok, nil, nil)
		assert.NoError(t, err)

		require.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestCallerCancelDoesNotStopTask(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 1, 4, 30*time.Second)

		started := make(chan struct{})
		release := make(chan struct{})
		op := &domain.Operation{
			Name:      "resize",
			Cacheable: true,
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				close(started)
				<-release
				return &domain.Result{Data: []byte("done")}, nil
			},
		}

		ctx, cancel := context.WithCancel(t.Context())
		errCh := make(chan error, 1)
		go func() {
			_, err := fx.exec.Submit(ctx, fp(1), op, nil, nil)
			errCh <- err
		}()

		<-started
		cancel()
		err := <-errCh
		assert.ErrorIs(t, err, context.Canceled)

		// The abandoned task still runs to completion and publishes.
		close(release)
		synctest.Wait()
		cached, ok := fx.cache.Get(fp(1))
		require.True(t, ok)
		assert.Equal(t, []byte("done"), cached.Data)

		require.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestQueuedTaskSkippedWhenAllWaitersGone(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 1, 4, 30*time.Second)

		release := make(chan struct{})
		blocker := &domain.Operation{
			Name: "blocker",
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				<-release
				return &domain.Result{}, nil
			},
		}

		var ran atomic.Bool
		skipped := &domain.Operation{
			Name:      "skipped",
			Cacheable: true,
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				ran.Store(true)
				return &domain.Result{}, nil
			},
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.exec.Submit(t.Context(), fp(1), blocker, nil, nil)
			assert.NoError(t, err)
		}()
		synctest.Wait()

		// The second task sits in the queue; its only waiter gives up before
		// a worker reaches it.
		ctx, cancel := context.WithCancel(t.Context())
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.exec.Submit(ctx, fp(2), skipped, nil, nil)
			assert.ErrorIs(t, err, context.Canceled)
		}()
		synctest.Wait()
		cancel()
		synctest.Wait()

		close(release)
		wg.Wait()
		synctest.Wait()

		assert.False(t, ran.Load(), "abandoned queued task must not execute")
		_, ok := fx.cache.Get(fp(2))
		assert.False(t, ok)

		require.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestSubmitAfterShutdown(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 2, 4, 30*time.Second)
		require.NoError(t, fx.exec.Shutdown(t.Context()))

		op := &domain.Operation{
			Name: "resize",
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				return &domain.Result{}, nil
			},
		}
		_, err := fx.exec.Submit(t.Context(), fp(1), op, nil, nil)
		assert.ErrorIs(t, err, domain.ErrExecutorClosed)

		// Shutdown is idempotent.
		assert.NoError(t, fx.exec.Shutdown(t.Context()))
	})
}

func TestShutdownWaitsForInFlight(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		fx := setupExecutorTest(t, 1, 4, 30*time.Second)

		op := &domain.Operation{
			Name: "resize",
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				time.Sleep(100 * time.Millisecond)
				return &domain.Result{}, nil
			},
		}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := fx.exec.Submit(t.Context(), fp(1), op, nil, nil)
			assert.NoError(t, err)
		}()
		synctest.Wait()

		require.NoError(t, fx.exec.Shutdown(t.Context()))
		wg.Wait()
	})
}
