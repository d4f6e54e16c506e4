package dto

type StartDrawingRequest struct {
	// Empty starts a new route.
	TargetRouteID string `json:"target_route_id"`
}

type AppendAddressRequest struct {
	Generation *uint64  `json:"generation" validate:"required"`
	Lat        *float64 `json:"lat" validate:"required,latitude"`
	Lng        *float64 `json:"lng" validate:"required,longitude"`
}

// PatchPointRequest edits one point. Lat and Lng move it and must be
// given together.
type PatchPointRequest struct {
	ToggleStop bool     `json:"toggle_stop"`
	StopName   *string  `json:"stop_name"`
	Lat        *float64 `json:"lat"`
	Lng        *float64 `json:"lng"`
}

type CommitRequest struct {
	Name          string `json:"name" validate:"required"`
	Schedule      string `json:"schedule"`
	ItineraryText string `json:"itinerary_text"`
}
