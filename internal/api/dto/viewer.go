package dto

import "transit-map-service/internal/dashboard"

type CreateViewerRequest struct {
	Role      string `json:"role" validate:"required"`
	CompanyID string `json:"company_id"`
}

type ViewerResponse struct {
	ViewerID string          `json:"viewer_id"`
	State    dashboard.State `json:"state"`
}

type TileStyleRequest struct {
	TileStyle string `json:"tile_style" validate:"required"`
}

type NavigationRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type SelectionRequest struct {
	// Empty clears the selection.
	RouteID string `json:"route_id"`
}

type RunningRequest struct {
	Running *bool `json:"running" validate:"required"`
}

type ScanRequest struct {
	Payload string `json:"payload" validate:"required"`
}

type IncidentRequest struct {
	Type        string `json:"type" validate:"required"`
	Description string `json:"description"`
}

type ClickRequest struct {
	Lat *float64 `json:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" validate:"required,longitude"`
}

type DragRequest struct {
	LayerID string   `json:"layer_id" validate:"required"`
	Lat     *float64 `json:"lat" validate:"required,latitude"`
	Lng     *float64 `json:"lng" validate:"required,longitude"`
}

type GestureResponse struct {
	Handled bool `json:"handled"`
}
