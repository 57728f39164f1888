package lazycache

import (
	"fmt"
	"iter"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/pkg/errors"
)

// MissFunc produces the value for a key that is not yet in the cache.
type MissFunc[K comparable, V any] func(key K) V

// KeyFunc derives a key from a value.
type KeyFunc[K comparable, V any] func(value V) K

// AddFunc is called when a key is inserted into the cache for the first time.
type AddFunc[V any] func(value V)

// Config holds the optional behaviors of a [Cache]. Any field may be nil.
type Config[K comparable, V any] struct {
	// OnMissing is called by [Cache.Get] for absent keys. Its result is
	// stored before it is returned.
	OnMissing MissFunc[K, V]

	// KeyExtractor enables [Cache.GetKey].
	KeyExtractor KeyFunc[K, V]

	// OnAddition is notified of every new key, whichever operation
	// inserted it.
	OnAddition AddFunc[V]
}

// Cache is a keyed container that remembers the order in which keys were
// first inserted and can populate itself on demand.
//
// A Cache is not safe for concurrent use. The zero value is not ready for
// use; create one with [New], [NewWithMissing], [NewWithConfig] or
// [NewFrom].
type Cache[K comparable, V any] struct {
	items map[K]*entry[K, V]
	head  *entry[K, V] // first inserted
	tail  *entry[K, V] // last inserted

	onMissing    MissFunc[K, V]
	keyExtractor KeyFunc[K, V]
	onAddition   AddFunc[V]
}

// entry is an intrusive doubly-linked list node.
type entry[K comparable, V any] struct {
	key  K
	val  V
	prev *entry[K, V]
	next *entry[K, V]
}

// New creates an empty cache with no miss handler, key extractor or
// addition hook.
func New[K comparable, V any]() *Cache[K, V] {
	return NewWithConfig(Config[K, V]{})
}

// NewWithMissing creates an empty cache that fills absent keys with f.
func NewWithMissing[K comparable, V any](f MissFunc[K, V]) *Cache[K, V] {
	return NewWithConfig(Config[K, V]{OnMissing: f})
}

// NewWithConfig creates an empty cache configured from cfg.
func NewWithConfig[K comparable, V any](cfg Config[K, V]) *Cache[K, V] {
	return &Cache[K, V]{
		items:        make(map[K]*entry[K, V]),
		onMissing:    cfg.OnMissing,
		keyExtractor: cfg.KeyExtractor,
		onAddition:   cfg.OnAddition,
	}
}

// NewFrom creates a cache pre-seeded from values, inserting entries in the
// order given by keys. Keys missing from values are skipped, as are values
// whose key is not listed. The addition hook is not called for seed entries.
func NewFrom[K comparable, V any](keys []K, values map[K]V,
	cfg Config[K, V]) *Cache[K, V] {

	c := NewWithConfig(cfg)
	for _, key := range keys {
		val, ok := values[key]
		if !ok {
			continue
		}
		if _, dup := c.items[key]; dup {
			continue
		}
		c.insert(key, val)
	}

	log.Debugf("Seeded cache with %d of %d entries", len(c.items),
		len(values))

	return c
}

// OnMissing sets the function used by [Cache.Get] to produce values for
// absent keys. Passing nil makes Get fail on absent keys again. Values that
// are already cached are not affected.
func (c *Cache[K, V]) OnMissing(f MissFunc[K, V]) {
	c.onMissing = f
}

// SetKeyExtractor sets the function used by [Cache.GetKey].
func (c *Cache[K, V]) SetKeyExtractor(f KeyFunc[K, V]) {
	c.keyExtractor = f
}

// OnAddition sets a callback that is invoked once for each key the first
// time it is inserted, whether by [Cache.Set], [Cache.Fill] or the miss
// handler. Overwriting an existing key does not invoke it.
func (c *Cache[K, V]) OnAddition(f AddFunc[V]) {
	c.onAddition = f
}

// Get returns the value stored under key. If the key is absent and a miss
// handler is configured, the handler's result is stored and returned.
// Otherwise Get returns a *KeyNotFoundError.
func (c *Cache[K, V]) Get(key K) (V, error) {
	if e, found := c.items[key]; found {
		return e.val, nil
	}

	if c.onMissing == nil {
		var zero V
		return zero, errors.WithStack(&KeyNotFoundError[K]{Key: key})
	}

	val := c.onMissing(key)
	log.Tracef("Miss handler produced value for key %v: %v", key,
		spewClosure(val))

	// the handler may have stored the key itself, in which case its
	// result replaces that value in place
	c.Set(key, val)

	return val, nil
}

// TryGet returns the value stored under key and whether it was found. It
// never consults the miss handler.
func (c *Cache[K, V]) TryGet(key K) (V, bool) {
	var zero V
	o := c.lookup(key)

	return o.UnwrapOr(zero), o.IsSome()
}

// Set stores value under key. A new key is appended to the insertion order
// and reported to the addition hook; an existing key keeps its position.
func (c *Cache[K, V]) Set(key K, value V) {
	if e, found := c.items[key]; found {
		e.val = value
		return
	}

	c.add(key, value)
}

// Fill stores value under key only if key is absent. An existing value is
// left untouched and the supplied one is discarded.
func (c *Cache[K, V]) Fill(key K, value V) {
	if _, found := c.items[key]; found {
		return
	}

	c.add(key, value)
}

// GetKey derives the key for value using the configured key extractor. It
// returns ErrNotConfigured if no extractor has been set.
func (c *Cache[K, V]) GetKey(value V) (K, error) {
	if c.keyExtractor == nil {
		var zero K
		return zero, errors.WithStack(ErrNotConfigured)
	}

	return c.keyExtractor(value), nil
}

// Exists reports whether any stored value satisfies predicate.
func (c *Cache[K, V]) Exists(predicate func(V) bool) bool {
	return c.find(predicate).IsSome()
}

// Find returns the first value, in insertion order, that satisfies
// predicate, or the zero value of V if none does.
func (c *Cache[K, V]) Find(predicate func(V) bool) V {
	var zero V
	return c.find(predicate).UnwrapOr(zero)
}

// First returns the earliest inserted value still in the cache, or the zero
// value of V if the cache is empty.
func (c *Cache[K, V]) First() V {
	var zero V
	if c.head == nil {
		return zero
	}

	return c.head.val
}

// Has reports whether key is present.
func (c *Cache[K, V]) Has(key K) bool {
	return c.lookup(key).IsSome()
}

// Len returns the number of entries in the cache.
func (c *Cache[K, V]) Len() int {
	return len(c.items)
}

// Remove deletes key from the cache. It returns whether the key was present.
func (c *Cache[K, V]) Remove(key K) bool {
	e, found := c.items[key]
	if !found {
		return false
	}

	delete(c.items, key)
	c.unlink(e)

	log.Tracef("Removed key %v", key)

	return true
}

// Clear removes every entry. The miss handler, key extractor and addition
// hook stay configured.
func (c *Cache[K, V]) Clear() {
	log.Debugf("Clearing %d entries", len(c.items))

	c.items = make(map[K]*entry[K, V])
	c.head = nil
	c.tail = nil
}

// WithValue calls action with the value stored under key. Nothing happens if
// the key is absent; the miss handler is not consulted.
func (c *Cache[K, V]) WithValue(key K, action func(V)) {
	c.lookup(key).WhenSome(action)
}

// All returns an iterator over the values in insertion order.
func (c *Cache[K, V]) All() iter.Seq[V] {
	return func(yield func(V) bool) {
		for e := c.head; e != nil; {
			next := e.next
			if !yield(e.val) {
				return
			}
			e = next
		}
	}
}

// Pairs returns an iterator over keys and values in insertion order.
func (c *Cache[K, V]) Pairs() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for e := c.head; e != nil; {
			next := e.next
			if !yield(e.key, e.val) {
				return
			}
			e = next
		}
	}
}

// Each calls action for every value in insertion order.
func (c *Cache[K, V]) Each(action func(V)) {
	for v := range c.All() {
		action(v)
	}
}

// EachPair calls action for every key and value in insertion order.
func (c *Cache[K, V]) EachPair(action func(K, V)) {
	for k, v := range c.Pairs() {
		action(k, v)
	}
}

// Keys returns a slice of all keys in insertion order.
func (c *Cache[K, V]) Keys() []K {
	keys := make([]K, 0, len(c.items))
	for e := c.head; e != nil; e = e.next {
		keys = append(keys, e.key)
	}

	return keys
}

// Values returns a slice of all values in insertion order.
func (c *Cache[K, V]) Values() []V {
	values := make([]V, 0, len(c.items))
	for e := c.head; e != nil; e = e.next {
		values = append(values, e.val)
	}

	return values
}

// String implements fmt.Stringer.
func (c *Cache[K, V]) String() string {
	return fmt.Sprintf("lazycache.Cache[%d entries]", len(c.items))
}

// add inserts a new key and notifies the addition hook. The entry is linked
// before the hook runs so the hook observes it.
func (c *Cache[K, V]) add(key K, value V) {
	c.insert(key, value)

	log.Tracef("Added key %v", key)

	if c.onAddition != nil {
		c.onAddition(value)
	}
}

// insert links a new entry at the end of the list. The key must be absent.
func (c *Cache[K, V]) insert(key K, value V) {
	e := &entry[K, V]{
		key: key,
		val: value,
	}
	c.pushBack(e)
	c.items[key] = e
}

func (c *Cache[K, V]) lookup(key K) fn.Option[V] {
	e, found := c.items[key]
	if !found {
		return fn.None[V]()
	}

	return fn.Some(e.val)
}

func (c *Cache[K, V]) find(predicate func(V) bool) fn.Option[V] {
	for e := c.head; e != nil; e = e.next {
		if predicate(e.val) {
			return fn.Some(e.val)
		}
	}

	return fn.None[V]()
}

// pushBack appends an entry to the end of the list.
func (c *Cache[K, V]) pushBack(e *entry[K, V]) {
	e.next = nil
	e.prev = c.tail
	if c.tail != nil {
		c.tail.next = e
	}
	c.tail = e
	if c.head == nil {
		c.head = e
	}
}

// unlink removes an entry from the list.
func (c *Cache[K, V]) unlink(e *entry[K, V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
	e.prev = nil
	e.next = nil
}
