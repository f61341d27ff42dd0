package ports

import (
	"time"

	"github.com/pixelmill/pixelmill/internal/core/domain"
)

// Monitor accumulates process-wide performance counters. Updates are atomic
// increments and never block on I/O; the cache and executor mutate it
// through these narrow calls, callers never do so directly.
//
//go:generate mockgen -source=monitor.go -destination=mocks/mock_monitor.go -package=mocks
type Monitor interface {
	// RecordRequest records one completed dispatch. err is nil on success;
	// failures are tallied by their domain.ErrorKind.
	RecordRequest(operation string, err error, latency time.Duration)

	// RecordCacheHit and RecordCacheMiss count result cache lookups.
	RecordCacheHit()
	RecordCacheMiss()

	// RecordEviction counts result cache evictions.
	RecordEviction()

	// TaskStarted and TaskFinished maintain the in-flight gauge and the
	// peak memory watermark.
	TaskStarted()
	TaskFinished()

	// Snapshot returns an immutable copy of all counters.
	Snapshot() domain.MonitorSnapshot

	// Reset zeroes all counters and restarts the uptime clock. It does not
	// touch cache contents or in-flight tasks.
	Reset()
}
