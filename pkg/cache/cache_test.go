package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/authflow/pkg/cache"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()

		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "key", 42, time.Minute))
		v, err := c.Get(ctx, "key")
		require.NoError(t, err)
		require.Equal(t, 42, v)
	})

	t.Run("expires after ttl", func(t *testing.T) {
		t.Parallel()
		clk := &clock{now: time.Now()}
		c := cache.NewMemory[string](cache.WithCleanupInterval(0), cache.WithClock(clk.Now))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "key", "v", time.Second))
		clk.Advance(2 * time.Second)

		_, err := c.Get(ctx, "key")
		require.ErrorIs(t, err, cache.ErrNotFound)
		require.Zero(t, c.Len())
	})

	t.Run("zero ttl uses default", func(t *testing.T) {
		t.Parallel()
		clk := &clock{now: time.Now()}
		c := cache.NewMemory[string](
			cache.WithCleanupInterval(0),
			cache.WithDefaultTTL(time.Minute),
			cache.WithClock(clk.Now),
		)
		defer c.Close()

		require.NoError(t, c.Set(ctx, "key", "v", 0))
		clk.Advance(30 * time.Second)
		_, err := c.Get(ctx, "key")
		require.NoError(t, err)

		clk.Advance(time.Minute)
		_, err = c.Get(ctx, "key")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()
		clk := &clock{now: time.Now()}
		c := cache.NewMemory[string](cache.WithCleanupInterval(0), cache.WithClock(clk.Now))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "key", "v", -1))
		clk.Advance(24 * 365 * time.Hour)
		_, err := c.Get(ctx, "key")
		require.NoError(t, err)
	})

	t.Run("delete", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		defer c.Close()

		require.NoError(t, c.Set(ctx, "key", "v", time.Minute))
		require.NoError(t, c.Delete(ctx, "key"))
		require.NoError(t, c.Delete(ctx, "key"))
		_, err := c.Get(ctx, "key")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("closed cache rejects writes", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string]()
		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		require.ErrorIs(t, c.Set(ctx, "key", "v", time.Minute), cache.ErrClosed)
		require.ErrorIs(t, c.Delete(ctx, "key"), cache.ErrClosed)
	})

	t.Run("purge loop removes expired entries", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithCleanupInterval(10 * time.Millisecond))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "key", "v", time.Millisecond))
		require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 10*time.Millisecond)
	})
}

func TestLoader(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("caches loaded value", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[bool]()
		defer c.Close()
		l := cache.NewLoader[bool](c, time.Minute)

		var calls atomic.Int32
		load := func(context.Context) (bool, error) {
			calls.Add(1)
			return true, nil
		}

		for range 3 {
			v, err := l.Load(ctx, "k", load)
			require.NoError(t, err)
			require.True(t, v)
		}
		require.Equal(t, int32(1), calls.Load())
	})

	t.Run("does not cache errors", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[bool]()
		defer c.Close()
		l := cache.NewLoader[bool](c, time.Minute)

		boom := errors.New("boom")
		_, err := l.Load(ctx, "k", func(context.Context) (bool, error) { return false, boom })
		require.ErrorIs(t, err, boom)

		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("coalesces concurrent misses", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()
		l := cache.NewLoader[int](c, time.Minute)

		var calls atomic.Int32
		release := make(chan struct{})
		load := func(context.Context) (int, error) {
			calls.Add(1)
			<-release
			return 7, nil
		}

		var wg sync.WaitGroup
		results := make([]int, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := l.Load(ctx, "k", load)
				if err == nil {
					results[i] = v
				}
			}()
		}

		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		require.LessOrEqual(t, calls.Load(), int32(2))
		for _, v := range results {
			require.Equal(t, 7, v)
		}
	})

	t.Run("forget reloads", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int]()
		defer c.Close()
		l := cache.NewLoader[int](c, time.Minute)

		n := 0
		load := func(context.Context) (int, error) {
			n++
			return n, nil
		}

		v, err := l.Load(ctx, "k", load)
		require.NoError(t, err)
		require.Equal(t, 1, v)

		require.NoError(t, l.Forget(ctx, "k"))
		v, err = l.Load(ctx, "k", load)
		require.NoError(t, err)
		require.Equal(t, 2, v)
	})
}
