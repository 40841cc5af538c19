// internal/cache/lru.go
//
// Small generic LRU with optional idle expiry.
//
// Context
// -------
// The page store keeps one login controller per rendered page and must stay
// bounded, so entries leave on two paths: capacity pressure (least recently
// used first) and idle TTL (untouched for longer than IdleTTL).  The view
// engine reuses the same type without a TTL to hold parsed templates.
//
// Notes
// -----
//   - Safe for concurrent use; one mutex guards list and map.
//   - OnEvict runs after the lock is released, so callbacks may call back
//     into the cache.
//   - Oxford commas, two spaces after periods.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Reason says why an entry left the cache.
type Reason string

const (
	ReasonCapacity Reason = "capacity"
	ReasonIdle     Reason = "idle"
)

// Options tune an LRU.  IdleTTL ≤ 0 disables idle expiry.
type Options[K comparable, V any] struct {
	Capacity int
	IdleTTL  time.Duration
	OnEvict  func(key K, val V, why Reason)
	Now      func() time.Time // test hook; defaults to time.Now
}

// LRU is a least-recently-used cache.
type LRU[K comparable, V any] struct {
	mu   sync.Mutex
	cap  int
	ttl  time.Duration
	ll   *list.List
	dict map[K]*list.Element

	onEvict func(K, V, Reason)
	now     func() time.Time
}

type entry[K comparable, V any] struct {
	key      K
	val      V
	lastSeen time.Time
}

type evicted[K comparable, V any] struct {
	key K
	val V
	why Reason
}

// New returns an LRU.  Panics on Capacity < 1.
func New[K comparable, V any](opts Options[K, V]) *LRU[K, V] {
	if opts.Capacity < 1 {
		panic("cache: capacity must be ≥1")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &LRU[K, V]{
		cap:     opts.Capacity,
		ttl:     opts.IdleTTL,
		ll:      list.New(),
		dict:    make(map[K]*list.Element),
		onEvict: opts.OnEvict,
		now:     now,
	}
}

// Get retrieves a value and marks it MRU.  An entry past its idle TTL is
// treated as absent and evicted on the spot.
func (c *LRU[K, V]) Get(key K) (val V, ok bool) {
	c.mu.Lock()
	ele, hit := c.dict[key]
	if !hit {
		c.mu.Unlock()
		return val, false
	}
	ent := ele.Value.(*entry[K, V])
	now := c.now()
	if c.expired(ent, now) {
		c.removeElement(ele)
		c.mu.Unlock()
		c.notify([]evicted[K, V]{{ent.key, ent.val, ReasonIdle}})
		return val, false
	}
	ent.lastSeen = now
	c.ll.MoveToFront(ele)
	c.mu.Unlock()
	return ent.val, true
}

// Add inserts or updates a value, evicting the LRU entry when full.
func (c *LRU[K, V]) Add(key K, val V) {
	var out []evicted[K, V]

	c.mu.Lock()
	now := c.now()
	if ele, hit := c.dict[key]; hit {
		ent := ele.Value.(*entry[K, V])
		ent.val, ent.lastSeen = val, now
		c.ll.MoveToFront(ele)
		c.mu.Unlock()
		return
	}
	c.dict[key] = c.ll.PushFront(&entry[K, V]{key: key, val: val, lastSeen: now})
	for c.ll.Len() > c.cap {
		last := c.ll.Back()
		ent := last.Value.(*entry[K, V])
		c.removeElement(last)
		out = append(out, evicted[K, V]{ent.key, ent.val, ReasonCapacity})
	}
	c.mu.Unlock()

	c.notify(out)
}

// Remove deletes key without calling OnEvict.  It reports whether the key
// was present.
func (c *LRU[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	ele, hit := c.dict[key]
	if hit {
		c.removeElement(ele)
	}
	return hit
}

// Sweep evicts every idle entry and returns how many went.  Entries are
// scanned from the LRU end, so the walk stops at the first live one.
func (c *LRU[K, V]) Sweep() int {
	if c.ttl <= 0 {
		return 0
	}
	var out []evicted[K, V]

	c.mu.Lock()
	now := c.now()
	for ele := c.ll.Back(); ele != nil; {
		ent := ele.Value.(*entry[K, V])
		if !c.expired(ent, now) {
			break
		}
		prev := ele.Prev()
		c.removeElement(ele)
		out = append(out, evicted[K, V]{ent.key, ent.val, ReasonIdle})
		ele = prev
	}
	c.mu.Unlock()

	c.notify(out)
	return len(out)
}

// Len reports current size.
func (c *LRU[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func (c *LRU[K, V]) expired(ent *entry[K, V], now time.Time) bool {
	return c.ttl > 0 && now.Sub(ent.lastSeen) > c.ttl
}

// removeElement requires c.mu.
func (c *LRU[K, V]) removeElement(ele *list.Element) {
	c.ll.Remove(ele)
	delete(c.dict, ele.Value.(*entry[K, V]).key)
}

func (c *LRU[K, V]) notify(out []evicted[K, V]) {
	if c.onEvict == nil {
		return
	}
	for _, e := range out {
		c.onEvict(e.key, e.val, e.why)
	}
}
