// Package cache provides the bounded in-process LRU used for per-browser
// state (storage namespaces and live auth session managers).
package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
	"time"
)

// LRU is a small in-memory LRU cache with per-entry TTL.
// With Sliding enabled every read pushes the expiry forward, so TTL acts as
// an idle timeout.
// Concurrency: methods are safe for concurrent use.
type LRU[V any] struct {
	mu      sync.Mutex
	cap     int
	sliding bool
	ll      *list.List               // front = most-recently used
	items   map[string]*list.Element // key -> element
	now     func() time.Time         // injectable clock for tests
	onEvict func(key string, value V)
	hits    atomic.Uint64
	misses  atomic.Uint64
	evicts  atomic.Uint64
}

type lruEntry[V any] struct {
	key    string
	value  V
	ttl    time.Duration
	expiry time.Time // zero means no expiry
}

// Config groups constructor options.
type Config[V any] struct {
	Capacity int
	Sliding  bool
	Now      func() time.Time
	// OnEvict runs for entries dropped by capacity, expiry or Sweep; never
	// for explicit Delete. It is invoked without the cache lock held.
	OnEvict func(key string, value V)
}

// NewLRU creates a new LRU with the given config.
func NewLRU[V any](cfg Config[V]) *LRU[V] {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 1024
	}
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	return &LRU[V]{
		cap:     capacity,
		sliding: cfg.Sliding,
		ll:      list.New(),
		items:   make(map[string]*list.Element, capacity),
		now:     nowFn,
		onEvict: cfg.OnEvict,
	}
}

// Get returns the value for key if present and not expired.
func (c *LRU[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	v, ok, dropped := c.getLocked(key)
	c.mu.Unlock()
	c.notify(dropped)
	return v, ok
}

// GetOrCreate returns the live value for key, or stores and returns the
// result of create. created reports which path was taken.
func (c *LRU[V]) GetOrCreate(key string, ttl time.Duration, create func() V) (value V, created bool) {
	c.mu.Lock()
	v, ok, dropped := c.getLocked(key)
	if ok {
		c.mu.Unlock()
		c.notify(dropped)
		return v, false
	}
	v = create()
	dropped = append(dropped, c.setLocked(key, v, ttl)...)
	c.mu.Unlock()
	c.notify(dropped)
	return v, true
}

// Set inserts or updates a value with TTL.
// ttl <= 0 means no expiration.
func (c *LRU[V]) Set(key string, value V, ttl time.Duration) {
	c.mu.Lock()
	dropped := c.setLocked(key, value, ttl)
	c.mu.Unlock()
	c.notify(dropped)
}

// Delete removes a key from the cache.
func (c *LRU[V]) Delete(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElement(el)
		return true
	}
	return false
}

// Sweep drops every expired entry and returns how many were removed.
func (c *LRU[V]) Sweep() int {
	c.mu.Lock()
	var dropped []*lruEntry[V]
	for el := c.ll.Back(); el != nil; {
		prev := el.Prev()
		if ent, ok := el.Value.(*lruEntry[V]); ok && c.isExpired(ent) {
			c.removeElement(el)
			dropped = append(dropped, ent)
		}
		el = prev
	}
	c.mu.Unlock()
	c.notify(dropped)
	return len(dropped)
}

// Len returns the current number of items in the cache.
func (c *LRU[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

// Stats are simple counters for observability.
type Stats struct {
	Hits, Misses, Evictions uint64
	Size, Capacity          int
}

// Stats returns a snapshot of counters and sizes.
func (c *LRU[V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
		Size:      c.Len(),
		Capacity:  c.cap,
	}
}

// Helpers (caller must hold c.mu where noted).
func (c *LRU[V]) getLocked(key string) (V, bool, []*lruEntry[V]) {
	var zero V
	el, found := c.items[key]
	if !found {
		c.misses.Add(1)
		return zero, false, nil
	}
	ent, entryOK := el.Value.(*lruEntry[V])
	if !entryOK {
		c.removeElement(el)
		c.misses.Add(1)
		return zero, false, nil
	}
	if c.isExpired(ent) {
		c.removeElement(el)
		c.misses.Add(1)
		c.evicts.Add(1)
		return zero, false, []*lruEntry[V]{ent}
	}
	if c.sliding && ent.ttl > 0 {
		ent.expiry = c.now().Add(ent.ttl)
	}
	c.ll.MoveToFront(el)
	c.hits.Add(1)
	return ent.value, true, nil
}

func (c *LRU[V]) setLocked(key string, value V, ttl time.Duration) []*lruEntry[V] {
	var exp time.Time
	if ttl > 0 {
		exp = c.now().Add(ttl)
	}

	if el, found := c.items[key]; found {
		if ent, entryOK := el.Value.(*lruEntry[V]); entryOK {
			ent.value = value
			ent.ttl = ttl
			ent.expiry = exp
			c.ll.MoveToFront(el)
			return nil
		}
		c.removeElement(el)
	}

	el := c.ll.PushFront(&lruEntry[V]{key: key, value: value, ttl: ttl, expiry: exp})
	c.items[key] = el
	return c.evictIfNeeded()
}

func (c *LRU[V]) isExpired(e *lruEntry[V]) bool {
	if e.expiry.IsZero() {
		return false
	}
	return c.now().After(e.expiry)
}

func (c *LRU[V]) removeElement(el *list.Element) {
	c.ll.Remove(el)
	if ent, ok := el.Value.(*lruEntry[V]); ok {
		delete(c.items, ent.key)
		return
	}
	for k, v := range c.items {
		if v == el {
			delete(c.items, k)
			break
		}
	}
}

func (c *LRU[V]) evictIfNeeded() []*lruEntry[V] {
	var dropped []*lruEntry[V]
	for c.ll.Len() > c.cap {
		el := c.ll.Back()
		if el == nil {
			break
		}
		c.removeElement(el)
		c.evicts.Add(1)
		if ent, ok := el.Value.(*lruEntry[V]); ok {
			dropped = append(dropped, ent)
		}
	}
	return dropped
}

func (c *LRU[V]) notify(dropped []*lruEntry[V]) {
	if c.onEvict == nil {
		return
	}
	for _, ent := range dropped {
		c.onEvict(ent.key, ent.value)
	}
}
