package domain

// Represents one coordinate authored while drawing a route.
// A Waypoint may be flagged as a passenger stop, optionally named.
// Order within a route is the travel order.
type Waypoint struct {
	LatLng
	IsStop   bool   `json:"is_stop"`
	StopName string `json:"stop_name,omitempty"`
}

// Return only the coordinates of the given waypoints, preserving order.
func Coordinates(waypoints []Waypoint) []LatLng {
	out := make([]LatLng, 0, len(waypoints))
	for _, w := range waypoints {
		out = append(out, w.LatLng)
	}
	return out
}

// CloneWaypoints returns a copy that shares no backing array with the input.
func CloneWaypoints(waypoints []Waypoint) []Waypoint {
	if waypoints == nil {
		return nil
	}
	out := make([]Waypoint, len(waypoints))
	copy(out, waypoints)
	return out
}
