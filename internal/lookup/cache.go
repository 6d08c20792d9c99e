package lookup

import (
	"context"
	"sync"

	"github.com/lvasseur/go-landslides/internal/observability"
)

// Cached wraps a Lookup with an in-memory LRU cache. Only successful blurbs
// are cached so transient failures and misses can be retried.
type Cached struct {
	inner   Lookup
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCached builds the caching decorator. metrics may be nil.
func NewCached(inner Lookup, maxEntries int, metrics *observability.Metrics) *Cached {
	return &Cached{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *Cached) Summary(ctx context.Context, term string) (string, error) {
	if blurb, ok := c.cache.get(term); ok {
		c.count("hit")
		return blurb, nil
	}
	blurb, err := c.inner.Summary(ctx, term)
	if err != nil {
		c.count("error")
		return "", err
	}
	c.count("miss")
	c.cache.put(term, blurb)
	return blurb, nil
}

func (c *Cached) count(outcome string) {
	if c.metrics != nil {
		c.metrics.LookupRequests.WithLabelValues(outcome).Inc()
	}
}

// lruCache is a small thread-safe LRU for blurbs.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value string
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return "", false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.pushFront(e)

	if len(c.entries) > c.maxEntries {
		c.evict()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if c.head == e {
		return
	}
	c.unlink(e)
	c.pushFront(e)
}

func (c *lruCache) pushFront(e *entry) {
	e.prev = nil
	e.next = c.head
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) unlink(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	if c.head == e {
		c.head = e.next
	}
	if c.tail == e {
		c.tail = e.prev
	}
	e.prev, e.next = nil, nil
}

func (c *lruCache) evict() {
	if c.tail == nil {
		return
	}
	evicted := c.tail
	c.unlink(evicted)
	delete(c.entries, evicted.key)
}
