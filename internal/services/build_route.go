package services

import (
	"fmt"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/drawing"

	"github.com/google/uuid"
)

const DefaultAccessTokenScheme = "meuonibus"

// AccessToken is the QR payload printed for a route.
func AccessToken(scheme, routeID string) string {
	if scheme == "" {
		scheme = DefaultAccessTokenScheme
	}
	return fmt.Sprintf("%s://route/%s", scheme, routeID)
}

type RouteDefaults struct {
	CompanyID         string
	CompanyName       string
	AccessTokenScheme string
}

// NewRouteFromDraft builds a fresh NORMAL route for a committed draft.
func NewRouteFromDraft(d drawing.Draft, geometry []domain.LatLng, defaults RouteDefaults) *domain.Route {
	id := uuid.NewString()
	return &domain.Route{
		ID:            id,
		Name:          d.Name,
		CompanyID:     defaults.CompanyID,
		CompanyName:   defaults.CompanyName,
		Waypoints:     domain.CloneWaypoints(d.Waypoints),
		Geometry:      geometry,
		Status:        domain.StatusNormal,
		AccessToken:   AccessToken(defaults.AccessTokenScheme, id),
		IsOffRoute:    false,
		Schedule:      d.Schedule,
		ItineraryText: d.ItineraryText,
	}
}

// ApplyDraft overwrites the authored fields of an existing route. Status,
// incident, token and company are left as they were.
func ApplyDraft(r *domain.Route, d drawing.Draft, geometry []domain.LatLng) {
	r.Name = d.Name
	r.Waypoints = domain.CloneWaypoints(d.Waypoints)
	r.Geometry = geometry
	r.Schedule = d.Schedule
	r.ItineraryText = d.ItineraryText
}
