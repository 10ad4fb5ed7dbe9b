package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type testEntry struct {
	ID     string  `json:"id"`
	Amount float64 `json:"amount"`
}

func TestMemoryCacheGetSet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	t.Run("Set then get returns stored value", func(t *testing.T) {
		in := testEntry{ID: "order-1", Amount: 125.5}
		err := c.Set(ctx, "orders", in, 0)
		assert.NoError(t, err)

		var out testEntry
		err = c.Get(ctx, "orders", &out)
		assert.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("Missing key returns ErrCacheMiss", func(t *testing.T) {
		var out testEntry
		err := c.Get(ctx, "nope", &out)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, ErrCacheMiss))
	})

	t.Run("Zero expiration never expires", func(t *testing.T) {
		err := c.Set(ctx, "keep", testEntry{ID: "s"}, 0)
		assert.NoError(t, err)

		exists, err := c.Exists(ctx, "keep")
		assert.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("Expired entry behaves as miss", func(t *testing.T) {
		err := c.Set(ctx, "gone", testEntry{ID: "s"}, time.Millisecond)
		assert.NoError(t, err)

		time.Sleep(5 * time.Millisecond)

		var out testEntry
		err = c.Get(ctx, "gone", &out)
		assert.True(t, errors.Is(err, ErrCacheMiss))

		exists, err := c.Exists(ctx, "gone")
		assert.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestMemoryCacheDelete(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	err := c.Set(ctx, "stores", []testEntry{{ID: "store-1"}}, 0)
	assert.NoError(t, err)

	err = c.Delete(ctx, "stores")
	assert.NoError(t, err)

	var out []testEntry
	err = c.Get(ctx, "stores", &out)
	assert.True(t, errors.Is(err, ErrCacheMiss))
}

func TestMemoryCacheInvalidatePattern(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "stores", testEntry{ID: "a"}, 0))
	assert.NoError(t, c.Set(ctx, "orders", testEntry{ID: "b"}, 0))

	err := c.InvalidatePattern(ctx, "*")
	assert.NoError(t, err)

	for _, key := range []string{"stores", "orders"} {
		var out testEntry
		assert.True(t, errors.Is(c.Get(ctx, key, &out), ErrCacheMiss))
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	assert.NoError(t, c.Set(ctx, "orders", testEntry{ID: "o1", Amount: 20}, 0))
	assert.NoError(t, c.Set(ctx, "orders", testEntry{ID: "o1", Amount: 99}, 0))

	var out testEntry
	assert.NoError(t, c.Get(ctx, "orders", &out))
	assert.Equal(t, 99.0, out.Amount)
}
