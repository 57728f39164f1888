package lazycache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCache_OnMissing(t *testing.T) {
	r := require.New(t)
	cache := New[string, int]()

	count := 0
	cache.OnMissing(func(string) int {
		count++
		return count
	})

	for _, pass := range []string{"first", "second"} {
		for want, key := range []string{"a", "b", "c"} {
			val, err := cache.Get(key)
			r.NoError(err, pass)
			r.Equal(want+1, val, pass)
		}
	}

	r.Equal(3, count)
	r.Equal(3, cache.Len())
	r.Equal([]string{"a", "b", "c"}, cache.Keys())
}

func TestCache_OnMissingReplacement(t *testing.T) {
	r := require.New(t)
	cache := NewWithMissing(func(string) int { return 1 })

	val, err := cache.Get("a")
	r.NoError(err)
	r.Equal(1, val)

	cache.OnMissing(func(string) int { return 2 })

	// already cached values are not recomputed
	val, err = cache.Get("a")
	r.NoError(err)
	r.Equal(1, val)

	val, err = cache.Get("b")
	r.NoError(err)
	r.Equal(2, val)

	cache.OnMissing(nil)
	_, err = cache.Get("c")
	r.ErrorIs(err, ErrKeyNotFound)
}

func TestCache_OnMissingStoresKeyItself(t *testing.T) {
	r := require.New(t)

	var added []int
	cache := New[string, int]()
	cache.OnAddition(func(v int) { added = append(added, v) })
	cache.OnMissing(func(key string) int {
		cache.Set(key, 1)
		return 2
	})

	val, err := cache.Get("a")
	r.NoError(err)
	r.Equal(2, val)

	val, err = cache.Get("a")
	r.NoError(err)
	r.Equal(2, val)

	// only the handler's own insertion was new
	r.Equal([]int{1}, added)
	r.Equal(1, cache.Len())
}

func TestCache_OnAddition(t *testing.T) {
	tests := map[string]struct {
		run       func(c *Cache[string, int])
		wantAdded []int
	}{
		"set new keys": {
			run: func(c *Cache[string, int]) {
				c.Set("a", 1)
				c.Set("b", 2)
			},
			wantAdded: []int{1, 2},
		},
		"overwrite does not fire": {
			run: func(c *Cache[string, int]) {
				c.Set("a", 1)
				c.Set("a", 10)
			},
			wantAdded: []int{1},
		},
		"fill fires once": {
			run: func(c *Cache[string, int]) {
				c.Fill("a", 1)
				c.Fill("a", 2)
			},
			wantAdded: []int{1},
		},
		"miss handler insertion fires": {
			run: func(c *Cache[string, int]) {
				c.OnMissing(func(k string) int { return len(k) })
				_, _ = c.Get("abc")
				_, _ = c.Get("abc")
			},
			wantAdded: []int{3},
		},
		"failed get does not fire": {
			run: func(c *Cache[string, int]) {
				_, _ = c.Get("missing")
			},
			wantAdded: nil,
		},
		"reinsert after remove fires again": {
			run: func(c *Cache[string, int]) {
				c.Set("a", 1)
				c.Remove("a")
				c.Set("a", 2)
			},
			wantAdded: []int{1, 2},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			r := require.New(t)

			var added []int
			cache := New[string, int]()
			cache.OnAddition(func(v int) { added = append(added, v) })

			tc.run(cache)
			r.Equal(tc.wantAdded, added)
		})
	}
}

func TestCache_OnAdditionSeesEntry(t *testing.T) {
	r := require.New(t)
	cache := New[string, int]()

	var present bool
	cache.OnAddition(func(int) { present = cache.Has("a") })
	cache.Set("a", 1)

	r.True(present)
}

func TestCache_ClearKeepsConfiguration(t *testing.T) {
	r := require.New(t)

	added := 0
	cache := NewWithConfig(Config[string, int]{
		OnMissing:    func(k string) int { return len(k) },
		KeyExtractor: func(v int) string { return string(rune('a' + v)) },
		OnAddition:   func(int) { added++ },
	})

	cache.Set("x", 1)
	cache.Clear()

	val, err := cache.Get("four")
	r.NoError(err)
	r.Equal(4, val)
	r.Equal(2, added)

	key, err := cache.GetKey(1)
	r.NoError(err)
	r.Equal("b", key)
}
