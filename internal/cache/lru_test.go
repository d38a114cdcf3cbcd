package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/colarray/internal/resource"
)

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	ctx := t.Context()
	c := NewLRUBlockCache(30, nil)
	a, b, d := Key{"f", 0}, Key{"f", 1}, Key{"f", 2}

	c.Set(ctx, a, make([]byte, 10))
	c.Set(ctx, b, make([]byte, 10))
	c.Set(ctx, d, make([]byte, 10))
	_, ok := c.Get(ctx, a)
	assert.True(t, ok)

	c.Set(ctx, Key{"g", 0}, make([]byte, 10))
	_, ok = c.Get(ctx, b)
	assert.False(t, ok, "b was least recently used")
	_, ok = c.Get(ctx, a)
	assert.True(t, ok)
	assert.Equal(t, int64(30), c.Size())
	assert.Equal(t, 3, c.Len())

	hits, misses := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}

func TestLRUOversizedAndUpdates(t *testing.T) {
	ctx := t.Context()
	c := NewLRUBlockCache(50, nil)
	k := Key{"f", 1}

	c.Set(ctx, k, make([]byte, 60))
	_, ok := c.Get(ctx, k)
	assert.False(t, ok, "blocks larger than the capacity are not cached")

	c.Set(ctx, k, make([]byte, 10))
	c.Set(ctx, k, make([]byte, 20))
	assert.Equal(t, int64(20), c.Size())
	c.Set(ctx, k, make([]byte, 5))
	assert.Equal(t, int64(5), c.Size())
}

func TestLRUSharesMemoryBudget(t *testing.T) {
	ctx := t.Context()
	rc := resource.NewController(resource.Config{MemoryLimitBytes: 10})
	c := NewLRUBlockCache(50, rc)
	k := Key{"f", 1}

	c.Set(ctx, k, make([]byte, 8))
	assert.Equal(t, int64(8), rc.MemoryUsage())

	c.Set(ctx, k, make([]byte, 12))
	v, ok := c.Get(ctx, k)
	assert.True(t, ok)
	assert.Len(t, v, 8, "growth beyond the budget is rejected")

	c.Set(ctx, Key{"f", 2}, make([]byte, 4))
	_, ok = c.Get(ctx, Key{"f", 2})
	assert.False(t, ok)

	c.Invalidate(func(key Key) bool { return key.Path == "f" })
	assert.Equal(t, 0, c.Len())
	assert.Equal(t, int64(0), rc.MemoryUsage())
}

func TestLRUClose(t *testing.T) {
	c := NewLRUBlockCache(100, nil)
	c.Set(t.Context(), Key{"a", 0}, []byte("x"))
	assert.NoError(t, c.Close())
	assert.Equal(t, int64(0), c.Size())
}
