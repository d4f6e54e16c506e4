package repositories

import (
	"context"
	"fmt"
	"sync"
	"transit-map-service/internal/domain"
)

// In-memory implementation of the RouteStore port. Routes live for the
// lifetime of the process; every mutation bumps the route revision and
// notifies subscribers after the lock is released.
type MemoryRouteStore struct {
	mu     sync.RWMutex
	routes map[string]*domain.Route
	order  []string

	subMu  sync.Mutex
	subs   map[int]func(string)
	nextID int
}

func NewMemoryRouteStore() *MemoryRouteStore {
	return &MemoryRouteStore{
		routes: make(map[string]*domain.Route),
		subs:   make(map[int]func(string)),
	}
}

// Return clones of all routes in insertion order.
func (s *MemoryRouteStore) ListRoutes(_ context.Context) ([]*domain.Route, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Route, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.routes[id].Clone())
	}
	return out, nil
}

func (s *MemoryRouteStore) GetRoute(_ context.Context, id string) (*domain.Route, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.routes[id]
	if !ok {
		return nil, false, nil
	}
	return r.Clone(), true, nil
}

func (s *MemoryRouteStore) SaveRoute(_ context.Context, route *domain.Route) (*domain.Route, error) {
	if route == nil {
		return nil, fmt.Errorf("save route: route is nil")
	}
	if err := route.Validate(); err != nil {
		return nil, fmt.Errorf("save route: %w", err)
	}

	s.mu.Lock()
	stored := route.Clone()
	if prev, ok := s.routes[route.ID]; ok {
		stored.Revision = prev.Revision + 1
	} else {
		stored.Revision = 1
		s.order = append(s.order, route.ID)
	}
	s.routes[route.ID] = stored
	out := stored.Clone()
	s.mu.Unlock()

	s.notify(route.ID)
	return out, nil
}

func (s *MemoryRouteStore) UpdateRoute(
	_ context.Context,
	id string,
	fn func(*domain.Route) error,
) (*domain.Route, error) {
	s.mu.Lock()
	prev, ok := s.routes[id]
	if !ok {
		s.mu.Unlock()
		return nil, fmt.Errorf("update route %s: not found", id)
	}

	next := prev.Clone()
	if err := fn(next); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("update route %s: %w", id, err)
	}
	next.ID = id
	if err := next.Validate(); err != nil {
		s.mu.Unlock()
		return nil, fmt.Errorf("update route %s: %w", id, err)
	}
	next.Revision = prev.Revision + 1
	s.routes[id] = next
	out := next.Clone()
	s.mu.Unlock()

	s.notify(id)
	return out, nil
}

func (s *MemoryRouteStore) Subscribe(fn func(routeID string)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *MemoryRouteStore) notify(routeID string) {
	s.subMu.Lock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(routeID)
	}
}
