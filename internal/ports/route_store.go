package ports

import (
	"context"
	"transit-map-service/internal/domain"
)

// Port: a boundary for reading and mutating Route entities.
type RouteStore interface {
	// Return all routes in insertion order.
	ListRoutes(ctx context.Context) ([]*domain.Route, error)
	// Return one route; ok is false when no route has that id.
	GetRoute(ctx context.Context, id string) (*domain.Route, bool, error)
	// Insert or replace a route. The stored revision is bumped.
	SaveRoute(ctx context.Context, route *domain.Route) (*domain.Route, error)
	// Apply fn to the stored route under the store's lock and persist the result.
	UpdateRoute(ctx context.Context, id string, fn func(*domain.Route) error) (*domain.Route, error)
	// Register a change listener; the returned func deregisters it.
	Subscribe(fn func(routeID string)) func()
}
