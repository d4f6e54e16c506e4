package cache

import (
	"context"
	"sync"
	"time"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/ports"
)

// entry wraps a cached value with its expiration time
type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// TTL is a generic in-process cache. Expired entries are swept by a
// background goroutine until Close is called.
type TTL[T any] struct {
	mu    sync.RWMutex
	items map[string]entry[T]
	ttl   time.Duration
	now   func() time.Time
	stop  chan struct{}
	once  sync.Once
}

func NewTTL[T any](ttl time.Duration) *TTL[T] {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	c := &TTL[T]{
		items: make(map[string]entry[T]),
		ttl:   ttl,
		now:   time.Now,
		stop:  make(chan struct{}),
	}
	go c.sweep()
	return c
}

func (c *TTL[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.items[key]
	if !ok || c.now().After(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (c *TTL[T]) Set(key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry[T]{value: value, expiresAt: c.now().Add(c.ttl)}
}

// Len returns the number of entries, expired ones included.
func (c *TTL[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *TTL[T]) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *TTL[T]) sweep() {
	ticker := time.NewTicker(c.ttl)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stop:
			return
		}
	}
}

func (c *TTL[T]) removeExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.items {
		if now.After(e.expiresAt) {
			delete(c.items, k)
		}
	}
}

// MemorySearchCache keeps address results in process.
type MemorySearchCache struct {
	*TTL[[]ports.AddressResult]
}

func NewMemorySearchCache(ttl time.Duration) *MemorySearchCache {
	return &MemorySearchCache{NewTTL[[]ports.AddressResult](ttl)}
}

func (m *MemorySearchCache) Get(_ context.Context, query string) ([]ports.AddressResult, bool, error) {
	v, ok := m.TTL.Get(SearchKey(query))
	return v, ok, nil
}

func (m *MemorySearchCache) Put(_ context.Context, query string, results []ports.AddressResult) error {
	m.TTL.Set(SearchKey(query), append([]ports.AddressResult(nil), results...))
	return nil
}

// MemoryGeometryCache keeps optimized paths in process.
type MemoryGeometryCache struct {
	*TTL[[]domain.LatLng]
}

func NewMemoryGeometryCache(ttl time.Duration) *MemoryGeometryCache {
	return &MemoryGeometryCache{NewTTL[[]domain.LatLng](ttl)}
}

func (m *MemoryGeometryCache) Get(_ context.Context, waypoints []domain.LatLng) ([]domain.LatLng, bool, error) {
	v, ok := m.TTL.Get(GeometryKey(waypoints))
	if !ok {
		return nil, false, nil
	}
	return append([]domain.LatLng(nil), v...), true, nil
}

func (m *MemoryGeometryCache) Put(_ context.Context, waypoints []domain.LatLng, geometry []domain.LatLng) error {
	m.TTL.Set(GeometryKey(waypoints), append([]domain.LatLng(nil), geometry...))
	return nil
}
