// Package lazycache provides a generic keyed cache that remembers insertion
// order and can populate itself on demand.
//
// # Basic Usage
//
// Create a cache and store values:
//
//	cache := lazycache.New[string, int]()
//	cache.Set("key", 42)
//	value, err := cache.Get("key")
//
// [Cache.Get] fails with a [*KeyNotFoundError] for absent keys unless a miss
// handler is configured. [Cache.TryGet] and [Cache.WithValue] never fail.
//
// # Lazy Population
//
// A miss handler computes the value for an absent key once; the result is
// stored and returned by every later read:
//
//	cache := lazycache.NewWithMissing(func(name string) *Template {
//	    return parse(name)
//	})
//	tmpl, _ := cache.Get("index.html")
//
// # Ordering
//
// Entries keep the position of their first insertion. Overwriting a key with
// [Cache.Set] does not move it, [Cache.Remove] vacates its slot, and
// [Cache.First], [Cache.All], [Cache.Keys] and [Cache.Values] all follow
// insertion order.
//
// # Hooks
//
// [Config.OnAddition] is called once for every new key, whether it was added
// by [Cache.Set], [Cache.Fill] or the miss handler. [Config.KeyExtractor]
// enables [Cache.GetKey], which otherwise returns [ErrNotConfigured].
//
// A Cache is not safe for concurrent use.
package lazycache
