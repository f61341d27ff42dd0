package ports

import "github.com/pixelmill/pixelmill/internal/core/domain"

// ResultCache stores computed operation results keyed by fingerprint, with
// LRU eviction bounded by entry count and aggregate byte size. All methods
// are safe for concurrent use; callers never need their own locks.
//
//go:generate mockgen -source=cache.go -destination=mocks/mock_cache.go -package=mocks
type ResultCache interface {
	// Get returns the cached result for fp and refreshes its recency.
	// Hit/miss accounting is reported to the monitor internally.
	Get(fp domain.Fingerprint) (*domain.Result, bool)

	// Put inserts or replaces the entry for fp, evicting least-recently-used
	// entries as needed to restore the capacity invariants. Claimed entries
	// are never evicted.
	Put(fp domain.Fingerprint, result *domain.Result)

	// Claim pins fp against eviction until the matching Release. The
	// executor claims a fingerprint for the short window between publishing
	// a result and delivering it to all waiters.
	Claim(fp domain.Fingerprint)

	// Release drops a claim taken with Claim.
	Release(fp domain.Fingerprint)

	// Invalidate removes a single entry if present.
	Invalidate(fp domain.Fingerprint)

	// Clear removes all entries.
	Clear()

	// Len returns the resident entry count.
	Len() int

	// SizeBytes returns the aggregate size of resident entries.
	SizeBytes() int64
}
