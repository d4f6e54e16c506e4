package dto

import (
	"transit-map-service/internal/domain"
	"transit-map-service/internal/ports"
)

type WaypointResponse struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	IsStop   bool    `json:"is_stop"`
	StopName string  `json:"stop_name,omitempty"`
}

type RouteResponse struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	CompanyID           string             `json:"company_id"`
	CompanyName         string             `json:"company_name"`
	Status              string             `json:"status"`
	IncidentDescription string             `json:"incident_description,omitempty"`
	AccessToken         string             `json:"access_token"`
	IsOffRoute          bool               `json:"is_off_route"`
	Schedule            string             `json:"schedule,omitempty"`
	ItineraryText       string             `json:"itinerary_text,omitempty"`
	Revision            int                `json:"revision"`
	Waypoints           []WaypointResponse `json:"waypoints"`
	Geometry            []domain.LatLng    `json:"geometry"`
}

type ListRoutesResponse struct {
	Routes []RouteResponse `json:"routes"`
}

type AddressSearchResponse struct {
	Results []ports.AddressResult `json:"results"`
}

func NewRouteResponse(r *domain.Route) RouteResponse {
	res := RouteResponse{
		ID:                  r.ID,
		Name:                r.Name,
		CompanyID:           r.CompanyID,
		CompanyName:         r.CompanyName,
		Status:              string(r.Status),
		IncidentDescription: r.IncidentDescription,
		AccessToken:         r.AccessToken,
		IsOffRoute:          r.IsOffRoute,
		Schedule:            r.Schedule,
		ItineraryText:       r.ItineraryText,
		Revision:            r.Revision,
		Waypoints:           make([]WaypointResponse, 0, len(r.Waypoints)),
		Geometry:            append([]domain.LatLng{}, r.Path()...),
	}
	for _, w := range r.Waypoints {
		res.Waypoints = append(res.Waypoints, WaypointResponse{
			Lat:      w.Lat,
			Lng:      w.Lng,
			IsStop:   w.IsStop,
			StopName: w.StopName,
		})
	}
	return res
}
