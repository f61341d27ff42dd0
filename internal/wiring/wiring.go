// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/pixelmill/pixelmill/internal/adapters/config"
	_ "github.com/pixelmill/pixelmill/internal/adapters/logger"
	_ "github.com/pixelmill/pixelmill/internal/adapters/telemetry"
	// Register app nodes.
	_ "github.com/pixelmill/pixelmill/internal/app"
)
