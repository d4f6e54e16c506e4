// Package geo holds the pure coordinate math used by the simulator,
// the rendering adapter and the commit pipeline.
package geo

import (
	"math"
	"transit-map-service/internal/domain"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// Bearing returns the initial great-circle bearing (forward azimuth) from
// one coordinate to another in degrees clockwise from north, in [0, 360).
// Identical points have no defined heading and yield 0.
func Bearing(from, to domain.LatLng) float64 {
	if from == to {
		return 0
	}

	lat1 := from.Lat * math.Pi / 180
	lat2 := to.Lat * math.Pi / 180
	dLng := (to.Lng - from.Lng) * math.Pi / 180

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	if x == 0 && y == 0 {
		return 0
	}

	b := math.Mod(math.Atan2(y, x)*180/math.Pi+360, 360)
	// Mod can return 360 for tiny negative angles after rounding.
	if b >= 360 {
		b = 0
	}
	return b
}

// Distance returns the great-circle distance in meters.
func Distance(a, b domain.LatLng) float64 {
	return orbgeo.Distance(a.Point(), b.Point())
}

// Wrap returns i modulo n, always in [0, n). n must be positive.
func Wrap(i, n int) int {
	return ((i % n) + n) % n
}

// Bounds returns the bounding region of a path and whether the path had
// any points at all.
func Bounds(path []domain.LatLng) (orb.Bound, bool) {
	if len(path) == 0 {
		return orb.Bound{}, false
	}
	mp := make(orb.MultiPoint, 0, len(path))
	for _, p := range path {
		mp = append(mp, p.Point())
	}
	return mp.Bound(), true
}

// EndpointsWithin reports whether the path starts within tolerance meters
// of start and ends within tolerance meters of end.
func EndpointsWithin(path []domain.LatLng, start, end domain.LatLng, tolerance float64) bool {
	if len(path) == 0 {
		return false
	}
	return Distance(path[0], start) <= tolerance && Distance(path[len(path)-1], end) <= tolerance
}
