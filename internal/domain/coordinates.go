package domain

import "github.com/paulmach/orb"

// Immutable geographic coordinates (latitude, longitude) in degrees.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Return coordinates as an orb point, which is ordered [lng, lat].
func (c LatLng) Point() orb.Point { return orb.Point{c.Lng, c.Lat} }

// Return coordinates as [lng, lat] for external API compatibility.
func (c LatLng) CoordsToList() []float64 { return []float64{c.Lng, c.Lat} }

// FromPoint converts an orb point back into coordinates.
func FromPoint(p orb.Point) LatLng { return LatLng{Lat: p.Lat(), Lng: p.Lon()} }
