package geo

import (
	"math"
	"testing"
	"transit-map-service/internal/domain"
)

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestBearingSamePointIsZero(t *testing.T) {
	points := []domain.LatLng{
		{Lat: 0, Lng: 0},
		{Lat: -23.59, Lng: -46.68},
		{Lat: 89.9, Lng: 179.9},
		{Lat: -90, Lng: 0},
	}
	for _, p := range points {
		if got := Bearing(p, p); got != 0 {
			t.Errorf("Bearing(%v, %v) = %v, want 0", p, p, got)
		}
	}
}

func TestBearingCardinalDirections(t *testing.T) {
	origin := domain.LatLng{Lat: 0, Lng: 0}

	if got := Bearing(origin, domain.LatLng{Lat: 0, Lng: 1}); !approx(got, 90, 1e-9) {
		t.Errorf("east bearing = %v, want 90", got)
	}
	if got := Bearing(origin, domain.LatLng{Lat: 1, Lng: 0}); !approx(got, 0, 1e-9) {
		t.Errorf("north bearing = %v, want 0", got)
	}
	if got := Bearing(origin, domain.LatLng{Lat: -1, Lng: 0}); !approx(got, 180, 1e-9) {
		t.Errorf("south bearing = %v, want 180", got)
	}
	if got := Bearing(origin, domain.LatLng{Lat: 0, Lng: -1}); !approx(got, 270, 1e-9) {
		t.Errorf("west bearing = %v, want 270", got)
	}
}

func TestBearingAlwaysInRange(t *testing.T) {
	for lat := -80.0; lat <= 80; lat += 20 {
		for lng := -170.0; lng <= 170; lng += 34 {
			from := domain.LatLng{Lat: lat, Lng: lng}
			to := domain.LatLng{Lat: -lat / 2, Lng: lng + 7.5}
			got := Bearing(from, to)
			if got < 0 || got >= 360 {
				t.Fatalf("Bearing(%v, %v) = %v, outside [0, 360)", from, to, got)
			}
		}
	}
}

func TestWrap(t *testing.T) {
	if got := Wrap(4, 4); got != 0 {
		t.Errorf("Wrap(4, 4) = %d, want 0", got)
	}
	if got := Wrap(-1, 4); got != 3 {
		t.Errorf("Wrap(-1, 4) = %d, want 3", got)
	}
}

func TestBounds(t *testing.T) {
	if _, ok := Bounds(nil); ok {
		t.Fatal("Bounds(nil) reported a region")
	}

	b, ok := Bounds([]domain.LatLng{{Lat: -23.59, Lng: -46.68}, {Lat: -23.65, Lng: -46.72}})
	if !ok {
		t.Fatal("Bounds reported no region")
	}
	if b.Min.Lat() != -23.65 || b.Max.Lat() != -23.59 || b.Min.Lon() != -46.72 || b.Max.Lon() != -46.68 {
		t.Errorf("unexpected bound %v", b)
	}
}

func TestEndpointsWithin(t *testing.T) {
	start := domain.LatLng{Lat: -23.59, Lng: -46.68}
	end := domain.LatLng{Lat: -23.60, Lng: -46.685}
	path := []domain.LatLng{{Lat: -23.5901, Lng: -46.6801}, {Lat: -23.595, Lng: -46.6825}, end}

	if !EndpointsWithin(path, start, end, 50) {
		t.Error("path close to endpoints was rejected")
	}
	if EndpointsWithin(path, end, start, 50) {
		t.Error("reversed path was accepted")
	}
	if EndpointsWithin(nil, start, end, 50) {
		t.Error("empty path was accepted")
	}
}
