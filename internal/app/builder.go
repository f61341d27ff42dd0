package app

import (
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"github.com/pixelmill/pixelmill/internal/engine/dispatch"
)

// Components contains all the initialized application components.
// This struct provides controlled access to components needed by the CLI layer.
type Components struct {
	App        *App
	Logger     ports.Logger
	Config     domain.Config
	Dispatcher *dispatch.Dispatcher
	Executor   ports.Executor
}
