package domain

import "time"

// OperationStats accumulates per-operation request accounting.
type OperationStats struct {
	Count             uint64        `json:"count"`
	Errors            uint64        `json:"errors"`
	CumulativeLatency time.Duration `json:"cumulative_latency_ns"`
}

// AverageLatency returns the mean request latency for the operation.
func (s OperationStats) AverageLatency() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.CumulativeLatency / time.Duration(s.Count)
}

// MonitorSnapshot is an immutable point-in-time copy of the performance
// monitor's counters. It is produced on demand and never stored.
type MonitorSnapshot struct {
	Uptime         time.Duration             `json:"uptime_ns"`
	TotalRequests  uint64                    `json:"total_requests"`
	CacheHits      uint64                    `json:"cache_hits"`
	CacheMisses    uint64                    `json:"cache_misses"`
	CacheEvictions uint64                    `json:"cache_evictions"`
	Errors         map[ErrorKind]uint64      `json:"errors"`
	Operations     map[string]OperationStats `json:"operations"`
	InFlight       int64                     `json:"in_flight"`
	PeakHeapBytes  uint64                    `json:"peak_heap_bytes"`
}

// HitRate returns the cache hit ratio over all cache lookups, zero when no
// lookups happened yet.
func (s MonitorSnapshot) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// ErrorRate returns the fraction of requests that ended in an error.
func (s MonitorSnapshot) ErrorRate() float64 {
	if s.TotalRequests == 0 {
		return 0
	}
	var errs uint64
	for _, n := range s.Errors {
		errs += n
	}
	return float64(errs) / float64(s.TotalRequests)
}

// RequestsPerSecond returns the mean request throughput since startup or the
// last reset.
func (s MonitorSnapshot) RequestsPerSecond() float64 {
	secs := s.Uptime.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(s.TotalRequests) / secs
}
