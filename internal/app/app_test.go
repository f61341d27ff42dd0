package app_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pixelmill/pixelmill/internal/adapters/mcp"
	"github.com/pixelmill/pixelmill/internal/app"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports/mocks"
	"github.com/pixelmill/pixelmill/internal/engine/dispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	executor *mocks.MockExecutor
	app      *app.App
}

// setup builds an App whose protocol server reads the given input. The
// dispatcher collaborators are strict mocks: Serve itself must not touch
// them unless input drives a call.
func setup(t *testing.T, input string) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	executor := mocks.NewMockExecutor(ctrl)
	dispatcher := dispatch.New(
		mocks.NewMockRegistry(ctrl),
		mocks.NewMockResultCache(ctrl),
		executor,
		mocks.NewMockMonitor(ctrl),
		mocks.NewMockTracer(ctrl),
	)
	server := mcp.NewServer(strings.NewReader(input), io.Discard, dispatcher, logger)

	return &fixture{
		executor: executor,
		app:      app.New(logger, domain.DefaultConfig(), server, executor, nil),
	}
}

func TestServeDrainsExecutorOnEOF(t *testing.T) {
	f := setup(t, "")
	f.executor.EXPECT().Shutdown(gomock.Any()).Return(nil).Times(1)

	require.NoError(t, f.app.Serve(context.Background()))
}

func TestServeReportsShutdownError(t *testing.T) {
	f := setup(t, "")
	shutdownErr := zerr.Wrap(domain.ErrExecutorClosed, "drain interrupted")
	f.executor.EXPECT().Shutdown(gomock.Any()).Return(shutdownErr).Times(1)

	err := f.app.Serve(context.Background())
	assert.ErrorIs(t, err, domain.ErrExecutorClosed)
}

func TestServeTreatsCancellationAsCleanExit(t *testing.T) {
	// A pending request line forces Run to observe the canceled context.
	f := setup(t, `{"jsonrpc":"2.0","id":1,"method":"ping"}`)
	f.executor.EXPECT().Shutdown(gomock.Any()).Return(nil).Times(1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, f.app.Serve(ctx))
}
