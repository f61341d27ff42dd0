package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixelmill/pixelmill/internal/adapters/config"
	"github.com/pixelmill/pixelmill/internal/adapters/logger"
	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaultsWhenNoFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.NewLoader(logger.New()).Load()
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultConfig(), cfg)
}

func TestLoadFileOverrides(t *testing.T) {
	path := writeConfig(t, `
cache:
  max_entries: 50
  max_bytes: 1048576
executor:
  max_concurrency: 8
  task_timeout: 45s
imaging:
  output_format: jpeg
log:
  json: true
`)

	cfg, err := config.NewLoaderWithPath(logger.New(), path).Load()
	require.NoError(t, err)

	assert.Equal(t, 50, cfg.CacheMaxEntries)
	assert.Equal(t, int64(1048576), cfg.CacheMaxBytes)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, 45*time.Second, cfg.TaskTimeout)
	assert.Equal(t, "jpeg", cfg.OutputFormat)
	assert.True(t, cfg.LogJSON)

	// Untouched fields keep their defaults.
	assert.Equal(t, domain.DefaultQueueDepth, cfg.QueueDepth)
	assert.Equal(t, domain.DefaultMaxDimension, cfg.MaxDimension)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.FileName)

	_, err := config.NewLoaderWithPath(logger.New(), path).Load()
	assert.ErrorIs(t, err, domain.ErrConfigReadFailed)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := writeConfig(t, "cache: [not a mapping")

	_, err := config.NewLoaderWithPath(logger.New(), path).Load()
	assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
executor:
  max_concurrency: 8
`)
	t.Setenv(config.EnvMaxConcurrency, "2")
	t.Setenv(config.EnvCacheMaxEntries, "7")
	t.Setenv(config.EnvTaskTimeout, "90s")
	t.Setenv(config.EnvLogJSON, "true")

	cfg, err := config.NewLoaderWithPath(logger.New(), path).Load()
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.MaxConcurrency, "environment beats file")
	assert.Equal(t, 7, cfg.CacheMaxEntries)
	assert.Equal(t, 90*time.Second, cfg.TaskTimeout)
	assert.True(t, cfg.LogJSON)
}

func TestLoadInvalidEnvValue(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvQueueDepth, "many")

	_, err := config.NewLoader(logger.New()).Load()
	assert.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestLoadRejectsInvalidResult(t *testing.T) {
	path := writeConfig(t, `
executor:
  max_concurrency: 0
`)

	_, err := config.NewLoaderWithPath(logger.New(), path).Load()
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestLoadSearchesUpward(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, config.FileName), []byte("executor:\n  queue_depth: 3\n"), 0o600))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := config.NewLoader(logger.New()).Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.QueueDepth)
}
