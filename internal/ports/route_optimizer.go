package ports

import (
	"context"
	"transit-map-service/internal/domain"
)

// Contract for turning sparse waypoints into a dense travel path.
type RouteOptimizer interface {
	// Return an ordered sequence of coordinates approximating the path
	// that visits the given waypoints in order.
	Optimize(ctx context.Context, waypoints []domain.LatLng) ([]domain.LatLng, error)
}

// Optional cache in front of a RouteOptimizer keyed by the waypoint list.
type GeometryCache interface {
	Get(ctx context.Context, waypoints []domain.LatLng) ([]domain.LatLng, bool, error)
	Put(ctx context.Context, waypoints []domain.LatLng, geometry []domain.LatLng) error
}
