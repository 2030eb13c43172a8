package tokencache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvenk/partscout/internal/tokencache"
)

// fakeClock is a mutable time source safe for concurrent reads.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestCache_GetMiss(t *testing.T) {
	t.Parallel()

	c := tokencache.New()
	token, ok := c.Get("TI")
	assert.False(t, ok)
	assert.Empty(t, token)
}

func TestCache_SetThenGet(t *testing.T) {
	t.Parallel()

	c := tokencache.New()
	c.Set("TI", "abc123", time.Hour)

	token, ok := c.Get("TI")
	require.True(t, ok)
	assert.Equal(t, "abc123", token)

	// Other sources are unaffected.
	_, ok = c.Get("DIGIKEY")
	assert.False(t, ok)
}

func TestCache_ExpiryBuffer(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := tokencache.New(tokencache.WithNowFunc(clock.Now))

	// Nominal TTL 100s minus the 60s buffer leaves 40s of validity.
	c.Set("TI", "short-lived", 100*time.Second)

	_, ok := c.Get("TI")
	require.True(t, ok)

	clock.Advance(39 * time.Second)
	_, ok = c.Get("TI")
	assert.True(t, ok, "still valid at 39s")

	clock.Advance(2 * time.Second)
	_, ok = c.Get("TI")
	assert.False(t, ok, "expired after 41s")
}

func TestCache_ExpiredEntryIsIgnored(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	c := tokencache.New(tokencache.WithNowFunc(clock.Now))

	c.Set("OCTOPART", "stale", time.Minute) // already expired: 60s - 60s buffer
	_, ok := c.Get("OCTOPART")
	assert.False(t, ok)

	// Overwrite revives the entry.
	c.Set("OCTOPART", "fresh", time.Hour)
	token, ok := c.Get("OCTOPART")
	require.True(t, ok)
	assert.Equal(t, "fresh", token)
}

func TestCache_LastWriteWins(t *testing.T) {
	t.Parallel()

	c := tokencache.New()
	c.Set("DIGIKEY", "first", time.Hour)
	c.Set("DIGIKEY", "second", time.Hour)

	token, ok := c.Get("DIGIKEY")
	require.True(t, ok)
	assert.Equal(t, "second", token)
}

func TestCache_ConcurrentAccess(t *testing.T) {
	t.Parallel()

	c := tokencache.New()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			source := fmt.Sprintf("SRC%d", i%4)
			c.Set(source, "tok", time.Hour)
			_, _ = c.Get(source)
		}(i)
	}
	wg.Wait()

	for i := range 4 {
		_, ok := c.Get(fmt.Sprintf("SRC%d", i))
		assert.True(t, ok)
	}
}
