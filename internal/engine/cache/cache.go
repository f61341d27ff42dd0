// Package cache implements the fingerprint-keyed result cache: a doubly
// linked LRU list with a map index, bounded by both entry count and aggregate
// result bytes. Claimed fingerprints are pinned and survive eviction until
// released.
package cache

import (
	"container/list"
	"sync"

	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
)

type entry struct {
	fp     domain.Fingerprint
	result *domain.Result
	size   int64
}

type cache struct {
	mu         sync.Mutex
	maxEntries int
	maxBytes   int64
	totalBytes int64

	// order holds *entry values, front = most recently used.
	order *list.List
	index map[domain.Fingerprint]*list.Element

	// claims pins fingerprints against eviction. A claim may exist before
	// the entry does; Put honors it once the result lands.
	claims map[domain.Fingerprint]int

	monitor ports.Monitor
}

// New returns a cache bounded by maxEntries entries and maxBytes aggregate
// result size. Lookup accounting is reported through monitor.
func New(maxEntries int, maxBytes int64, monitor ports.Monitor) ports.ResultCache {
	return &cache{
		maxEntries: maxEntries,
		maxBytes:   maxBytes,
		order:      list.New(),
		index:      make(map[domain.Fingerprint]*list.Element),
		claims:     make(map[domain.Fingerprint]int),
		monitor:    monitor,
	}
}

func (c *cache) Get(fp domain.Fingerprint) (*domain.Result, bool) {
	c.mu.Lock()
	var res *domain.Result
	el, ok := c.index[fp]
	if ok {
		c.order.MoveToFront(el)
		// Read the entry under the lock: Put mutates it in place when it
		// replaces an existing fingerprint.
		res = el.Value.(*entry).result
	}
	c.mu.Unlock()

	if !ok {
		c.monitor.RecordCacheMiss()
		return nil, false
	}
	c.monitor.RecordCacheHit()
	return res, true
}

func (c *cache) Put(fp domain.Fingerprint, result *domain.Result) {
	if result == nil {
		return
	}
	size := result.SizeBytes()

	// A single result larger than the whole budget is not cacheable.
	if c.maxBytes > 0 && size > c.maxBytes {
		return
	}

	c.mu.Lock()
	if el, ok := c.index[fp]; ok {
		old := el.Value.(*entry)
		c.totalBytes += size - old.size
		old.result = result
		old.size = size
		c.order.MoveToFront(el)
	} else {
		el := c.order.PushFront(&entry{fp: fp, result: result, size: size})
		c.index[fp] = el
		c.totalBytes += size
	}
	evicted := c.evictLocked()
	c.mu.Unlock()

	for i := 0; i < evicted; i++ {
		c.monitor.RecordEviction()
	}
}

// evictLocked removes least-recently-used unclaimed entries until both
// capacity invariants hold again, and returns how many it removed. Claimed
// entries are skipped, so the cache can transiently exceed its caps while
// claims are outstanding.
func (c *cache) evictLocked() int {
	evicted := 0
	el := c.order.Back()
	for el != nil && c.overCapacityLocked() {
		prev := el.Prev()
		e := el.Value.(*entry)
		if c.claims[e.fp] == 0 {
			c.removeLocked(el)
			evicted++
		}
		el = prev
	}
	return evicted
}

func (c *cache) overCapacityLocked() bool {
	if c.maxEntries > 0 && c.order.Len() > c.maxEntries {
		return true
	}
	if c.maxBytes > 0 && c.totalBytes > c.maxBytes {
		return true
	}
	return false
}

func (c *cache) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	c.order.Remove(el)
	delete(c.index, e.fp)
	c.totalBytes -= e.size
}

func (c *cache) Claim(fp domain.Fingerprint) {
	c.mu.Lock()
	c.claims[fp]++
	c.mu.Unlock()
}

func (c *cache) Release(fp domain.Fingerprint) {
	c.mu.Lock()
	if n := c.claims[fp]; n > 1 {
		c.claims[fp] = n - 1
	} else {
		delete(c.claims, fp)
	}
	evicted := c.evictLocked()
	c.mu.Unlock()

	for i := 0; i < evicted; i++ {
		c.monitor.RecordEviction()
	}
}

func (c *cache) Invalidate(fp domain.Fingerprint) {
	c.mu.Lock()
	if el, ok := c.index[fp]; ok {
		c.removeLocked(el)
	}
	c.mu.Unlock()
}

func (c *cache) Clear() {
	c.mu.Lock()
	c.order.Init()
	c.index = make(map[domain.Fingerprint]*list.Element)
	c.totalBytes = 0
	c.mu.Unlock()
}

func (c *cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *cache) SizeBytes() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalBytes
}
