package dispatch_test

import (
	"context"
	"testing"
	"testing/synctest"
	"time"

	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"github.com/pixelmill/pixelmill/internal/core/ports/mocks"
	"github.com/pixelmill/pixelmill/internal/engine/cache"
	"github.com/pixelmill/pixelmill/internal/engine/dispatch"
	"github.com/pixelmill/pixelmill/internal/engine/executor"
	"github.com/pixelmill/pixelmill/internal/engine/monitor"
	"github.com/pixelmill/pixelmill/internal/engine/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type dispatchMocks struct {
	registry *mocks.MockRegistry
	cache    *mocks.MockResultCache
	executor *mocks.MockExecutor
	monitor  *mocks.MockMonitor
}

func setupDispatchTest(t *testing.T) (*dispatch.Dispatcher, dispatchMocks) {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := dispatchMocks{
		registry: mocks.NewMockRegistry(ctrl),
		cache:    mocks.NewMockResultCache(ctrl),
		executor: mocks.NewMockExecutor(ctrl),
		monitor:  mocks.NewMockMonitor(ctrl),
	}

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

	d := dispatch.New(m.registry, m.cache, m.executor, m.monitor, tracer)
	return d, m
}

func passHandler(context.Context, domain.Args, [][]byte) (*domain.Result, error) {
	return &domain.Result{}, nil
}

func TestDispatchUnknownOperation(t *testing.T) {
	d, m := setupDispatchTest(t)

	m.registry.EXPECT().Resolve("nope").Return(nil, zerr.With(domain.ErrOperationNotFound, "operation", "nope"))
	m.monitor.EXPECT().RecordRequest("nope", gomock.Any(), gomock.Any())

	_, err := d.Dispatch(context.Background(), "nope", nil, nil)
	assert.ErrorIs(t, err, domain.ErrOperationNotFound)
}

func TestDispatchCacheHitSkipsExecutor(t *testing.T) {
	d, m := setupDispatchTest(t)

	op := &domain.Operation{Name: "resize", Cacheable: true, Handler: passHandler}
	cached := &domain.Result{Data: []byte("hit")}

	m.registry.EXPECT().Resolve("resize").Return(op, nil)
	m.cache.EXPECT().Get(gomock.Any()).Return(cached, true)
	m.monitor.EXPECT().RecordRequest("resize", nil, gomock.Any())
	// No executor expectation: a hit must not reach it.

	res, err := d.Dispatch(context.Background(), "resize", domain.Args{"width": float64(10)}, nil)
	require.NoError(t, err)
	assert.Same(t, cached, res)
}

func TestDispatchCacheMissRunsExecutor(t *testing.T) {
	d, m := setupDispatchTest(t)

	op := &domain.Operation{Name: "resize", Cacheable: true, Handler: passHandler}
	fresh := &domain.Result{Data: []byte("fresh")}

	m.registry.EXPECT().Resolve("resize").Return(op, nil)
	m.cache.EXPECT().Get(gomock.Any()).Return(nil, false)
	m.executor.EXPECT().Submit(gomock.Any(), gomock.Any(), op, gomock.Any(), gomock.Any()).Return(fresh, nil)
	m.monitor.EXPECT().RecordRequest("resize", nil, gomock.Any())

	res, err := d.Dispatch(context.Background(), "resize", nil, nil)
	require.NoError(t, err)
	assert.Same(t, fresh, res)
}

func TestDispatchNonCacheableBypassesCache(t *testing.T) {
	d, m := setupDispatchTest(t)

	op := &domain.Operation{Name: "info", Handler: passHandler}

	m.registry.EXPECT().Resolve("info").Return(op, nil)
	// No cache.Get expectation: non-cacheable ops never consult the cache.
	m.executor.EXPECT().Submit(gomock.Any(), gomock.Any(), op, gomock.Any(), gomock.Any()).Return(&domain.Result{}, nil)
	m.monitor.EXPECT().RecordRequest("info", nil, gomock.Any())

	_, err := d.Dispatch(context.Background(), "info", nil, [][]byte{{1}})
	assert.NoError(t, err)
}

func TestDispatchInputSizeLimit(t *testing.T) {
	d, m := setupDispatchTest(t)

	op := &domain.Operation{Name: "resize", Cacheable: true, Handler: passHandler, MaxInputBytes: 4}

	m.registry.EXPECT().Resolve("resize").Return(op, nil)
	m.monitor.EXPECT().RecordRequest("resize", gomock.Any(), gomock.Any())

	_, err := d.Dispatch(context.Background(), "resize", nil, [][]byte{{1, 2, 3}, {4, 5}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDispatchExecutorErrorPropagates(t *testing.T) {
	d, m := setupDispatchTest(t)

	op := &domain.Operation{Name: "blur", Handler: passHandler}
	failure := zerr.With(domain.ErrTimeout, "operation", "blur")

	m.registry.EXPECT().Resolve("blur").Return(op, nil)
	m.executor.EXPECT().Submit(gomock.Any(), gomock.Any(), op, gomock.Any(), gomock.Any()).Return(nil, failure)
	m.monitor.EXPECT().RecordRequest("blur", failure, gomock.Any())

	_, err := d.Dispatch(context.Background(), "blur", nil, nil)
	assert.ErrorIs(t, err, domain.ErrTimeout)
}

// TestDispatchEndToEnd wires the real registry, cache, monitor, and executor
// together and runs the same call twice: first a miss that executes, then a
// hit served without the handler.
func TestDispatchEndToEnd(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		ctrl := gomock.NewController(t)

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
		logger := mocks.NewMockLogger(ctrl)
		logger.EXPECT().Warn(gomock.Any()).AnyTimes()

		mon := monitor.New()
		resultCache := cache.New(10, 1<<20, mon)
		exec := executor.New(2, 8, 5*time.Second, resultCache, mon, tracer, logger)
		reg := registry.New()

		runs := 0
		require.NoError(t, reg.Register(domain.Operation{
			Name:      "double_width",
			Cacheable: true,
			Handler: func(ctx context.Context, args domain.Args, images [][]byte) (*domain.Result, error) {
				runs++
				w := int(args["width"].(float64))
				return &domain.Result{Data: images[0], Format: "png", Width: w * 2}, nil
			},
		}))
		reg.Freeze()

		d := dispatch.New(reg, resultCache, exec, mon, tracer)

		args := domain.Args{"width": float64(320)}
		img := [][]byte{{0x89, 0x50, 0x4e, 0x47}}

		first, err := d.Dispatch(t.Context(), "double_width", args, img)
		require.NoError(t, err)
		assert.Equal(t, 640, first.Width)

		second, err := d.Dispatch(t.Context(), "double_width", args, img)
		require.NoError(t, err)
		assert.Same(t, first, second, "second call must be served from cache")
		assert.Equal(t, 1, runs)

		// Different arguments miss and execute again.
		third, err := d.Dispatch(t.Context(), "double_width", domain.Args{"width": float64(100)}, img)
		require.NoError(t, err)
		assert.Equal(t, 200, third.Width)
		assert.Equal(t, 2, runs)

		snap := mon.Snapshot()
		assert.Equal(t, uint64(3), snap.TotalRequests)
		assert.Equal(t, uint64(1), snap.CacheHits)
		assert.Equal(t, uint64(2), snap.CacheMisses)
		assert.Equal(t, uint64(3), snap.Operations["double_width"].Count)

		require.NoError(t, exec.Shutdown(t.Context()))
	})
}
