package domain

// Snapshot of a simulated vehicle on a running route.
// NextPosition is the point the vehicle is heading to and drives the
// marker heading.
type LiveVehicleState struct {
	RouteID       string  `json:"route_id"`
	PositionIndex int     `json:"position_index"`
	Position      LatLng  `json:"position"`
	NextPosition  LatLng  `json:"next_position"`
	Bearing       float64 `json:"bearing"`
}
