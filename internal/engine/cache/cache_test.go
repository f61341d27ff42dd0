package cache_test

import (
	"sync"
	"testing"

	"github.com/pixelmill/pixelmill/internal/core/domain"
	"github.com/pixelmill/pixelmill/internal/core/ports"
	"github.com/pixelmill/pixelmill/internal/core/ports/mocks"
	"github.com/pixelmill/pixelmill/internal/engine/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func fp(b byte) domain.Fingerprint {
	var f domain.Fingerprint
	f[0] = b
	return f
}

func result(size int) *domain.Result {
	return &domain.Result{Data: make([]byte, size), Format: "png"}
}

func quietMonitor(t *testing.T) ports.Monitor {
	t.Helper()
	ctrl := gomock.NewController(t)
	m := mocks.NewMockMonitor(ctrl)
	m.EXPECT().RecordCacheHit().AnyTimes()
	m.EXPECT().RecordCacheMiss().AnyTimes()
	m.EXPECT().RecordEviction().AnyTimes()
	return m
}

func TestGetMissThenHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	monitor := mocks.NewMockMonitor(ctrl)
	monitor.EXPECT().RecordCacheMiss().Times(1)
	monitor.EXPECT().RecordCacheHit().Times(1)

	c := cache.New(10, 1<<20, monitor)

	_, ok := c.Get(fp(1))
	assert.False(t, ok)

	r := result(100)
	r.Width, r.Height = 8, 8
	c.Put(fp(1), r)

	got, ok := c.Get(fp(1))
	require.True(t, ok)
	assert.Equal(t, 8, got.Width)
	assert.Equal(t, 1, c.Len())
}

func TestEntryCapEvictsLRU(t *testing.T) {
	c := cache.New(2, 0, quietMonitor(t))

	c.Put(fp(1), result(10))
	c.Put(fp(2), result(10))

	// Touch 1 so 2 becomes the LRU victim.
	_, ok := c.Get(fp(1))
	require.True(t, ok)

	c.Put(fp(3), result(10))

	assert.Equal(t, 2, c.Len())
	_, ok = c.Get(fp(2))
	assert.False(t, ok, "LRU entry should have been evicted")
	_, ok = c.Get(fp(1))
	assert.True(t, ok)
	_, ok = c.Get(fp(3))
	assert.True(t, ok)
}

func TestByteCapEvictsUntilFit(t *testing.T) {
	ctrl := gomock.NewController(t)
	monitor := mocks.NewMockMonitor(ctrl)
	monitor.EXPECT().RecordCacheMiss().AnyTimes()
	monitor.EXPECT().RecordCacheHit().AnyTimes()
	monitor.EXPECT().RecordEviction().Times(2)

	c := cache.New(0, 100, monitor)

	c.Put(fp(1), result(40))
	c.Put(fp(2), result(40))
	// 90 bytes forces both earlier entries out.
	c.Put(fp(3), result(90))

	assert.Equal(t, 1, c.Len())
	assert.LessOrEqual(t, c.SizeBytes(), int64(100))
	_, ok := c.Get(fp(3))
	assert.True(t, ok)
}

func TestOversizedResultNotCached(t *testing.T) {
	c := cache.New(10, 100, quietMonitor(t))

	c.Put(fp(1), result(101))
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.SizeBytes())
}

func TestPutReplacesExisting(t *testing.T) {
	c := cache.New(10, 1<<20, quietMonitor(t))

	c.Put(fp(1), result(100))
	c.Put(fp(1), result(40))

	assert.Equal(t, 1, c.Len())
	got, ok := c.Get(fp(1))
	require.True(t, ok)
	assert.Len(t, got.Data, 40)
}

func TestClaimPinsAgainstEviction(t *testing.T) {
	c := cache.New(1, 0, quietMonitor(t))

	c.Put(fp(1), result(10))
	c.Claim(fp(1))

	// Over capacity, but the claimed entry cannot be the victim.
	c.Put(fp(2), result(10))
	_, ok := c.Get(fp(1))
	assert.True(t, ok, "claimed entry must survive")

	// Releasing the claim restores the capacity invariant.
	c.Release(fp(1))
	assert.Equal(t, 1, c.Len())
}

func TestClaimBeforePut(t *testing.T) {
	c := cache.New(1, 0, quietMonitor(t))

	// The executor claims the fingerprint before the result exists.
	c.Claim(fp(1))
	c.Put(fp(1), result(10))
	c.Put(fp(2), result(10))

	_, ok := c.Get(fp(1))
	assert.True(t, ok)

	c.Release(fp(1))
	assert.Equal(t, 1, c.Len())
}

func TestNestedClaims(t *testing.T) {
	c := cache.New(1, 0, quietMonitor(t))

	c.Put(fp(1), result(10))
	c.Claim(fp(1))
	c.Claim(fp(1))
	c.Release(fp(1))

	// One claim still outstanding.
	c.Put(fp(2), result(10))
	_, ok := c.Get(fp(1))
	assert.True(t, ok)

	c.Release(fp(1))
	assert.Equal(t, 1, c.Len())
}

func TestInvalidateAndClear(t *testing.T) {
	c := cache.New(10, 1<<20, quietMonitor(t))

	c.Put(fp(1), result(10))
	c.Put(fp(2), result(10))

	c.Invalidate(fp(1))
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get(fp(1))
	assert.False(t, ok)

	// Invalidating an absent entry is a no-op.
	c.Invalidate(fp(9))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), c.SizeBytes())
}

func TestSizeBytesTracksMeta(t *testing.T) {
	c := cache.New(10, 1<<20, quietMonitor(t))

	r := result(10)
	r.Meta = map[string]string{"ab": "cd"}
	c.Put(fp(1), r)

	assert.Equal(t, r.SizeBytes(), c.SizeBytes())
}

func TestConcurrentGetPutSameFingerprint(t *testing.T) {
	c := cache.New(10, 1<<20, quietMonitor(t))
	c.Put(fp(1), result(10))

	// Put replaces the entry in place, so concurrent readers must observe a
	// consistent result. Run under -race to catch unsynchronized access.
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(size int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				c.Put(fp(1), result(size))
			}
		}(10 + w)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				got, ok := c.Get(fp(1))
				require.True(t, ok)
				require.NotNil(t, got)
			}
		}()
	}
	wg.Wait()

	got, ok := c.Get(fp(1))
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(got.Data), 10)
}
