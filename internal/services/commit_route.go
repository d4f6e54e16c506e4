package services

import (
	"context"
	"log"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/geo"
	"transit-map-service/internal/platform/obs"
	"transit-map-service/internal/ports"
)

// DefaultGeometryTolerance bounds how far an optimized path may start or
// end from the first and last waypoint, in meters.
const DefaultGeometryTolerance = 250.0

type CommitPipeline struct {
	Optimizer ports.RouteOptimizer
	Cache     ports.GeometryCache
	// Tolerance in meters; zero means DefaultGeometryTolerance.
	Tolerance float64
}

// CommitRoute turns waypoints into the geometry stored on a route.
//
// The optimizer result is used only when it is non-empty and its
// endpoints lie within tolerance of the first and last waypoint. Any
// other outcome, including an optimizer error or a missing optimizer,
// yields the waypoint coordinates unchanged. optimized reports which
// path was taken.
func (p *CommitPipeline) CommitRoute(
	ctx context.Context,
	waypoints []domain.Waypoint,
) (geometry []domain.LatLng, optimized bool) {
	var err error
	defer obs.Time(ctx, "commit.CommitRoute")(&err)

	coords := domain.Coordinates(waypoints)
	if len(coords) < 2 || p.Optimizer == nil {
		return coords, false
	}

	if p.Cache != nil {
		cached, ok, cerr := p.Cache.Get(ctx, coords)
		if cerr != nil {
			log.Printf("commit route: geometry cache read failed: %v", cerr)
		}
		if ok && p.accept(cached, coords) {
			return cached, true
		}
	}

	var dense []domain.LatLng
	dense, err = p.Optimizer.Optimize(ctx, coords)
	if err != nil {
		log.Printf("commit route: optimizer failed, using %d waypoints: %v", len(coords), err)
		return coords, false
	}
	if !p.accept(dense, coords) {
		log.Printf("commit route: optimizer geometry rejected points=%d, using %d waypoints", len(dense), len(coords))
		return coords, false
	}

	if p.Cache != nil {
		if perr := p.Cache.Put(ctx, coords, dense); perr != nil {
			log.Printf("commit route: geometry cache write failed: %v", perr)
		}
	}

	return dense, true
}

func (p *CommitPipeline) accept(path, coords []domain.LatLng) bool {
	if len(path) == 0 {
		return false
	}
	tol := p.Tolerance
	if tol <= 0 {
		tol = DefaultGeometryTolerance
	}
	return geo.EndpointsWithin(path, coords[0], coords[len(coords)-1], tol)
}
