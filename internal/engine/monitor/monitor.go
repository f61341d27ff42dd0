// Package monitor accumulates process-wide performance counters: request and
// error tallies, per-operation latency sums, cache hit rates, the in-flight
// gauge, and a peak heap watermark. Everything is in memory and lock-light so
// recording never slows the dispatch path.
package monitor

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
)

// heapSampleInterval bounds how often the task hooks may call
// runtime.ReadMemStats, which stops the world.
const heapSampleInterval = int64(time.Second)

type monitor struct {
	totalRequests  atomic.Uint64
	cacheHits      atomic.Uint64
	cacheMisses    atomic.Uint64
	cacheEvictions atomic.Uint64
	inFlight       atomic.Int64
	peakHeap       atomic.Uint64
	lastHeapSample atomic.Int64

	mu      sync.Mutex
	started time.Time
	errors  map[domain.ErrorKind]uint64
	ops     map[string]*opStats
}

type opStats struct {
	count   uint64
	errors  uint64
	latency time.Duration
}

// New returns a monitor with the uptime clock started now.
func New() ports.Monitor {
	return &monitor{
		started: time.Now(),
		errors:  make(map[domain.ErrorKind]uint64),
		ops:     make(map[string]*opStats),
	}
}

func (m *monitor) RecordRequest(operation string, err error, latency time.Duration) {
	m.totalRequests.Add(1)

	m.mu.Lock()
	s, ok := m.ops[operation]
	if !ok {
		s = &opStats{}
		m.ops[operation] = s
	}
	s.count++
	s.latency += latency
	if err != nil {
		s.errors++
		m.errors[domain.KindOf(err)]++
	}
	m.mu.Unlock()
}

func (m *monitor) RecordCacheHit()  { m.cacheHits.Add(1) }
func (m *monitor) RecordCacheMiss() { m.cacheMisses.Add(1) }
func (m *monitor) RecordEviction()  { m.cacheEvictions.Add(1) }

func (m *monitor) TaskStarted() {
	m.inFlight.Add(1)
	m.observeHeap()
}

func (m *monitor) TaskFinished() {
	m.inFlight.Add(-1)
	m.observeHeap()
}

// observeHeap samples the heap at most once per heapSampleInterval. The CAS
// on the timestamp elects a single sampler among concurrent task hooks.
func (m *monitor) observeHeap() {
	now := time.Now().UnixNano()
	last := m.lastHeapSample.Load()
	if now-last < heapSampleInterval || !m.lastHeapSample.CompareAndSwap(last, now) {
		return
	}
	m.sampleHeap()
}

// sampleHeap ratchets the peak heap watermark upward. Reads race with other
// observers, so the update loops on CompareAndSwap.
func (m *monitor) sampleHeap() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	for {
		peak := m.peakHeap.Load()
		if ms.HeapAlloc <= peak || m.peakHeap.CompareAndSwap(peak, ms.HeapAlloc) {
			return
		}
	}
}

func (m *monitor) Snapshot() domain.MonitorSnapshot {
	// Snapshots are rare; sample unconditionally so the watermark is never
	// staler than the report built from it.
	m.sampleHeap()

	m.mu.Lock()
	errors := make(map[domain.ErrorKind]uint64, len(m.errors))
	for k, v := range m.errors {
		errors[k] = v
	}
	ops := make(map[string]domain.OperationStats, len(m.ops))
	for name, s := range m.ops {
		ops[name] = domain.OperationStats{
			Count:             s.count,
			Errors:            s.errors,
			CumulativeLatency: s.latency,
		}
	}
	uptime := time.Since(m.started)
	m.mu.Unlock()

	return domain.MonitorSnapshot{
		Uptime:         uptime,
		TotalRequests:  m.totalRequests.Load(),
		CacheHits:      m.cacheHits.Load(),
		CacheMisses:    m.cacheMisses.Load(),
		CacheEvictions: m.cacheEvictions.Load(),
		Errors:         errors,
		Operations:     ops,
		InFlight:       m.inFlight.Load(),
		PeakHeapBytes:  m.peakHeap.Load(),
	}
}

func (m *monitor) Reset() {
	m.mu.Lock()
	m.started = time.Now()
	m.errors = make(map[domain.ErrorKind]uint64)
	m.ops = make(map[string]*opStats)
	m.mu.Unlock()

	m.totalRequests.Store(0)
	m.cacheHits.Store(0)
	m.cacheMisses.Store(0)
	m.cacheEvictions.Store(0)
	m.peakHeap.Store(0)
	m.lastHeapSample.Store(0)
	// inFlight is a live gauge, not a counter; tasks currently running must
	// still decrement it, so Reset leaves it alone.
}
