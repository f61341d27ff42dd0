package ports

import "github.com/pixelmill/pixelmill/internal/core/domain"

// ConfigLoader loads and validates the server configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration from its sources (file, environment) and
	// returns the validated result. Loading never partially succeeds: on any
	// validation error the defaults are discarded along with the error.
	Load() (domain.Config, error)
}
