package cache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Sn1ff3hr/chabella/pkg/logger"
	"github.com/Sn1ff3hr/chabella/pkg/metric"
)

const (
	_removePreallocSize = 10

	_reasonCapacity = "lru"
	_reasonExpired  = "ttl"
	_reasonDeleted  = "delete"
	_reasonPurged   = "purge"
)

var _ Cache[string, int] = (*LRUCache[string, int])(nil)

type LRUCache[K comparable, V any] struct {
	name    string
	items   map[K]*list.Element
	order   *list.List
	mutex   sync.Mutex
	log     logger.Logger
	metrics metric.Cache

	capacity    int
	cleanupStop chan struct{}
	onEvicted   func(key K, value V)
}

type entry[K comparable, V any] struct {
	key     K
	value   V
	expires time.Time
}

func (e *entry[K, V]) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// NewLRUCache returns a cache bounded by capacity. name labels the metrics
// and log lines of this instance.
func NewLRUCache[K comparable, V any](
	name string,
	capacity int,
	log logger.Logger,
	metrics metric.Cache,
) (*LRUCache[K, V], error) {
	const op = "cache.NewLRUCache"

	if name == "" {
		return nil, fmt.Errorf("%s: name is required", op)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%s: capacity must be positive, got %d", op, capacity)
	}
	if log == nil || metrics == nil {
		return nil, fmt.Errorf("%s: logger and metrics are required", op)
	}

	return &LRUCache[K, V]{
		name:     name,
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
		log:      log.With("cache", name),
		metrics:  metrics,
	}, nil
}

func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.get(key)
}

func (c *LRUCache[K, V]) get(key K) (V, bool) {
	var zero V

	elem, ok := c.items[key]
	if !ok {
		c.metrics.Miss(c.name)
		return zero, false
	}

	e := elem.Value.(*entry[K, V])
	if e.expired(time.Now()) {
		c.removeElement(elem, _reasonExpired)
		c.metrics.Miss(c.name)
		return zero, false
	}

	c.order.MoveToFront(elem)
	c.metrics.Hit(c.name)

	return e.value, true
}

func (c *LRUCache[K, V]) Put(key K, value V, ttl time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.put(key, value, ttl)
}

func (c *LRUCache[K, V]) put(key K, value V, ttl time.Duration) {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry[K, V])
		e.value = value
		e.expires = expires
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.removeElement(oldest, _reasonCapacity)
		}
	}

	c.items[key] = c.order.PushFront(&entry[K, V]{
		key:     key,
		value:   value,
		expires: expires,
	})
	c.metrics.Size(c.name, c.order.Len())
}

// GetOrLoad returns the cached value or calls load and caches its result.
// The lock is not held while load runs, so concurrent misses on the same key
// may each call load; the last result wins.
func (c *LRUCache[K, V]) GetOrLoad(
	ctx context.Context,
	key K,
	ttl time.Duration,
	load LoadFunc[K, V],
) (V, error) {
	if value, ok := c.Get(key); ok {
		return value, nil
	}

	value, err := load(ctx, key)
	if err != nil {
		var zero V
		return zero, err
	}

	c.Put(key, value, ttl)
	return value, nil
}

func (c *LRUCache[K, V]) Delete(key K) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	c.removeElement(elem, _reasonDeleted)
	return true
}

func (c *LRUCache[K, V]) Has(key K) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return false
	}
	return !elem.Value.(*entry[K, V]).expired(time.Now())
}

func (c *LRUCache[K, V]) Len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.order.Len()
}

func (c *LRUCache[K, V]) Capacity() int {
	return c.capacity
}

// Purge empties the cache. The eviction callback runs after the lock is released.
func (c *LRUCache[K, V]) Purge() {
	c.mutex.Lock()
	evicted := make([]*entry[K, V], 0, c.order.Len())
	for elem := c.order.Back(); elem != nil; elem = elem.Prev() {
		evicted = append(evicted, elem.Value.(*entry[K, V]))
	}
	c.order.Init()
	clear(c.items)
	onEvicted := c.onEvicted
	c.metrics.Size(c.name, 0)
	c.mutex.Unlock()

	for _, e := range evicted {
		c.metrics.Eviction(c.name, _reasonPurged)
		if onEvicted != nil {
			onEvicted(e.key, e.value)
		}
	}
}

func (c *LRUCache[K, V]) StartCleanup(interval time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.cleanupStop != nil {
		close(c.cleanupStop)
	}

	stop := make(chan struct{})
	c.cleanupStop = stop
	go c.runCleanup(interval, stop)
}

func (c *LRUCache[K, V]) StopCleanup() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.cleanupStop != nil {
		close(c.cleanupStop)
		c.cleanupStop = nil
	}
}

func (c *LRUCache[K, V]) runCleanup(interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.cleanupExpired()
		case <-stop:
			return
		}
	}
}

func (c *LRUCache[K, V]) cleanupExpired() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	toRemove := make([]*list.Element, 0, _removePreallocSize)

	for _, elem := range c.items {
		if elem.Value.(*entry[K, V]).expired(now) {
			toRemove = append(toRemove, elem)
		}
	}

	for _, elem := range toRemove {
		c.removeElement(elem, _reasonExpired)
	}

	if len(toRemove) > 0 {
		c.log.Debugw("cache cleanup completed",
			"removed", len(toRemove),
			"remaining", c.order.Len(),
		)
	}
}

func (c *LRUCache[K, V]) removeElement(elem *list.Element, reason string) {
	c.order.Remove(elem)
	e := elem.Value.(*entry[K, V])
	delete(c.items, e.key)

	c.metrics.Eviction(c.name, reason)
	c.metrics.Size(c.name, c.order.Len())

	if c.onEvicted != nil {
		c.onEvicted(e.key, e.value)
	}
}

func (c *LRUCache[K, V]) SetOnEvicted(onEvicted func(key K, value V)) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.onEvicted = onEvicted
}
