// Package config provides the configuration loader for pixelmill.
//
// Precedence, lowest to highest: built-in defaults, the pixelmill.yaml file,
// PIXELMILL_* environment variables. A missing file is fine; a present but
// unreadable or invalid one is an error.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// FileName is the configuration file pixelmill looks for.
const FileName = "pixelmill.yaml"

// Loader implements ports.ConfigLoader from a YAML file plus environment
// overrides.
type Loader struct {
	logger ports.Logger

	// path pins an explicit config file. Empty means search upward from the
	// working directory; not finding one then falls back to defaults.
	path string
}

// NewLoader creates a Loader searching upward from the working directory.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{logger: logger}
}

// NewLoaderWithPath creates a Loader pinned to an explicit file. Load fails
// if the file does not exist.
func NewLoaderWithPath(logger ports.Logger, path string) *Loader {
	return &Loader{logger: logger, path: path}
}

// Load resolves the effective configuration.
func (l *Loader) Load() (domain.Config, error) {
	cfg := domain.DefaultConfig()

	path, required := l.path, l.path != ""
	if !required {
		path = l.findFile()
	}

	if path != "" {
		if err := applyFile(&cfg, path, required); err != nil {
			return domain.Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return domain.Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return domain.Config{}, err
	}
	return cfg, nil
}

// findFile walks from the working directory toward the filesystem root and
// returns the first pixelmill.yaml it finds, or empty.
func (l *Loader) findFile() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func applyFile(cfg *domain.Config, path string, required bool) error {
	// #nosec G304 -- path comes from the upward search or an explicit flag
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return zerr.With(zerr.Wrap(err, domain.ErrConfigReadFailed.Error()), "path", path)
	}

	var file fileSchema
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	if v := file.Cache.MaxEntries; v != nil {
		cfg.CacheMaxEntries = *v
	}
	if v := file.Cache.MaxBytes; v != nil {
		cfg.CacheMaxBytes = *v
	}
	if v := file.Executor.MaxConcurrency; v != nil {
		cfg.MaxConcurrency = *v
	}
	if v := file.Executor.QueueDepth; v != nil {
		cfg.QueueDepth = *v
	}
	if v := file.Executor.TaskTimeout; v != nil {
		d, err := time.ParseDuration(*v)
		if err != nil {
			return zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "invalid task_timeout"), "value", *v)
		}
		cfg.TaskTimeout = d
	}
	if v := file.Imaging.MaxDimension; v != nil {
		cfg.MaxDimension = *v
	}
	if v := file.Imaging.MaxBatchSize; v != nil {
		cfg.MaxBatchSize = *v
	}
	if v := file.Imaging.OutputFormat; v != nil {
		cfg.OutputFormat = *v
	}
	if v := file.Log.JSON; v != nil {
		cfg.LogJSON = *v
	}
	return nil
}

// Environment variable names, one per config field.
const (
	EnvCacheMaxEntries = "PIXELMILL_CACHE_MAX_ENTRIES"
	EnvCacheMaxBytes   = "PIXELMILL_CACHE_MAX_BYTES"
	EnvMaxConcurrency  = "PIXELMILL_MAX_CONCURRENCY"
	EnvQueueDepth      = "PIXELMILL_QUEUE_DEPTH"
	EnvTaskTimeout     = "PIXELMILL_TASK_TIMEOUT"
	EnvMaxDimension    = "PIXELMILL_MAX_DIMENSION"
	EnvMaxBatchSize    = "PIXELMILL_MAX_BATCH_SIZE"
	EnvOutputFormat    = "PIXELMILL_OUTPUT_FORMAT"
	EnvLogJSON         = "PIXELMILL_LOG_JSON"
)

func applyEnv(cfg *domain.Config) error {
	if err := envInt(EnvCacheMaxEntries, &cfg.CacheMaxEntries); err != nil {
		return err
	}
	if err := envInt64(EnvCacheMaxBytes, &cfg.CacheMaxBytes); err != nil {
		return err
	}
	if err := envInt(EnvMaxConcurrency, &cfg.MaxConcurrency); err != nil {
		return err
	}
	if err := envInt(EnvQueueDepth, &cfg.QueueDepth); err != nil {
		return err
	}
	if err := envInt(EnvMaxDimension, &cfg.MaxDimension); err != nil {
		return err
	}
	if err := envInt(EnvMaxBatchSize, &cfg.MaxBatchSize); err != nil {
		return err
	}

	if raw, ok := os.LookupEnv(EnvTaskTimeout); ok {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return envError(EnvTaskTimeout, raw)
		}
		cfg.TaskTimeout = d
	}
	if raw, ok := os.LookupEnv(EnvOutputFormat); ok {
		cfg.OutputFormat = raw
	}
	if raw, ok := os.LookupEnv(EnvLogJSON); ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return envError(EnvLogJSON, raw)
		}
		cfg.LogJSON = b
	}
	return nil
}

func envInt(name string, dst *int) error {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return envError(name, raw)
	}
	*dst = v
	return nil
}

func envInt64(name string, dst *int64) error {
	raw, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return envError(name, raw)
	}
	*dst = v
	return nil
}

func envError(name, raw string) error {
	return zerr.With(zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, "invalid environment override"), "variable", name), "value", raw)
}
