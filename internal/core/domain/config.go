package domain

import (
	"time"

	"go.trai.ch/zerr"
)

// Configuration defaults. These mirror the documented operating limits of
// the server (max image dimension 4096x4096, four concurrent tasks).
const (
	DefaultCacheMaxEntries = 100
	DefaultCacheMaxBytes   = 100 << 20 // 100 MiB
	DefaultMaxConcurrency  = 4
	DefaultQueueDepth      = 64
	DefaultTaskTimeout     = 30 * time.Second
	DefaultMaxDimension    = 4096
	DefaultMaxBatchSize    = 20
	DefaultOutputFormat    = "png"
)

// Config is the validated startup configuration of the server core.
type Config struct {
	// CacheMaxEntries bounds the result cache by entry count.
	CacheMaxEntries int
	// CacheMaxBytes bounds the result cache by aggregate payload size.
	CacheMaxBytes int64
	// MaxConcurrency is the executor worker pool size.
	MaxConcurrency int
	// QueueDepth bounds the executor's pending queue; submissions beyond it
	// fail fast with ErrOverloaded.
	QueueDepth int
	// TaskTimeout is the per-task processing deadline.
	TaskTimeout time.Duration
	// MaxDimension is the largest accepted input image width or height.
	MaxDimension int
	// MaxBatchSize caps the number of images in a batch operation.
	MaxBatchSize int
	// OutputFormat is the default encoding of result images.
	OutputFormat string
	// LogJSON switches the logger to JSON output.
	LogJSON bool
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		CacheMaxEntries: DefaultCacheMaxEntries,
		CacheMaxBytes:   DefaultCacheMaxBytes,
		MaxConcurrency:  DefaultMaxConcurrency,
		QueueDepth:      DefaultQueueDepth,
		TaskTimeout:     DefaultTaskTimeout,
		MaxDimension:    DefaultMaxDimension,
		MaxBatchSize:    DefaultMaxBatchSize,
		OutputFormat:    DefaultOutputFormat,
	}
}

// Validate checks the configuration for values the core cannot run with.
func (c Config) Validate() error {
	if c.CacheMaxEntries <= 0 {
		return zerr.With(ErrInvalidConfig, "cache_max_entries", c.CacheMaxEntries)
	}
	if c.CacheMaxBytes <= 0 {
		return zerr.With(ErrInvalidConfig, "cache_max_bytes", c.CacheMaxBytes)
	}
	if c.MaxConcurrency <= 0 {
		return zerr.With(ErrInvalidConfig, "max_concurrency", c.MaxConcurrency)
	}
	if c.QueueDepth <= 0 {
		return zerr.With(ErrInvalidConfig, "queue_depth", c.QueueDepth)
	}
	if c.TaskTimeout <= 0 {
		return zerr.With(ErrInvalidConfig, "task_timeout", c.TaskTimeout.String())
	}
	if c.MaxDimension <= 0 {
		return zerr.With(ErrInvalidConfig, "max_dimension", c.MaxDimension)
	}
	if c.MaxBatchSize <= 0 {
		return zerr.With(ErrInvalidConfig, "max_batch_size", c.MaxBatchSize)
	}
	if c.OutputFormat != "png" && c.OutputFormat != "jpeg" {
		return zerr.With(ErrInvalidConfig, "output_format", c.OutputFormat)
	}
	return nil
}
