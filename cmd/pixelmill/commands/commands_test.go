package commands_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/pixelmill/pixelmill/cmd/pixelmill/commands"
	"github.com/pixelmill/pixelmill/internal/adapters/mcp"
	"github.com/pixelmill/pixelmill/internal/app"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports/mocks"
	"github.com/pixelmill/pixelmill/internal/engine/dispatch"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newCLI wires a CLI over an App whose protocol stream is already at EOF, so
// serve-style commands return immediately.
func newCLI(t *testing.T, expectServe bool) *commands.CLI {
	t.Helper()
	ctrl := gomock.NewController(t)

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info(gomock.Any()).AnyTimes()

	executor := mocks.NewMockExecutor(ctrl)
	if expectServe {
		executor.EXPECT().Shutdown(gomock.Any()).Return(nil).Times(1)
	}

	dispatcher := dispatch.New(
		mocks.NewMockRegistry(ctrl),
		mocks.NewMockResultCache(ctrl),
		executor,
		mocks.NewMockMonitor(ctrl),
		mocks.NewMockTracer(ctrl),
	)
	server := mcp.NewServer(strings.NewReader(""), io.Discard, dispatcher, logger)
	a := app.New(logger, domain.DefaultConfig(), server, executor, nil)

	return commands.New(a)
}

func TestServeCommand(t *testing.T) {
	cli := newCLI(t, true)
	cli.SetArgs([]string{"serve"})

	require.NoError(t, cli.Execute(context.Background()))
}

func TestBareRootServes(t *testing.T) {
	cli := newCLI(t, true)
	cli.SetArgs([]string{})

	require.NoError(t, cli.Execute(context.Background()))
}

func TestRootHelp(t *testing.T) {
	cli := newCLI(t, false)
	cli.SetArgs([]string{"--help"})

	require.NoError(t, cli.Execute(context.Background()))
}

func TestVersionCommand(t *testing.T) {
	cli := newCLI(t, false)
	cli.SetArgs([]string{"version"})

	require.NoError(t, cli.Execute(context.Background()))
}
