package domain

import (
	"errors"
	"fmt"
	"strings"
)

type RouteStatus string

const (
	StatusNormal  RouteStatus = "NORMAL"
	StatusDelayed RouteStatus = "DELAYED"
	StatusBroken  RouteStatus = "BROKEN"
	StatusTraffic RouteStatus = "TRAFFIC"
)

// Kinds of incident a driver can report against a running route.
type IncidentType string

const (
	IncidentBreakdown IncidentType = "BREAKDOWN"
	IncidentTraffic   IncidentType = "TRAFFIC"
	IncidentAccident  IncidentType = "ACCIDENT"
	IncidentOther     IncidentType = "OTHER"
	IncidentClear     IncidentType = "CLEAR"
)

// ParseIncidentType validates a raw incident type.
func ParseIncidentType(s string) (IncidentType, error) {
	switch t := IncidentType(strings.ToUpper(strings.TrimSpace(s))); t {
	case IncidentBreakdown, IncidentTraffic, IncidentAccident, IncidentOther, IncidentClear:
		return t, nil
	}
	return "", fmt.Errorf("unknown incident type %q", s)
}

// StatusFor maps a reported incident onto the route status it produces.
func (t IncidentType) StatusFor() RouteStatus {
	switch t {
	case IncidentClear:
		return StatusNormal
	case IncidentTraffic:
		return StatusTraffic
	default:
		return StatusDelayed
	}
}

// Represents a transit line authored by a company.
//
// Waypoints are the operator-authored points; Geometry is the dense path
// returned by route optimization and may be empty, in which case the
// waypoints are used for drawing and simulated motion.
// Revision increases on every stored mutation so observers can tell
// one version of the same route from the next.
type Route struct {
	ID                  string      `json:"id"`
	Name                string      `json:"name"`
	CompanyID           string      `json:"company_id"`
	CompanyName         string      `json:"company_name"`
	Waypoints           []Waypoint  `json:"waypoints"`
	Geometry            []LatLng    `json:"geometry,omitempty"`
	Status              RouteStatus `json:"status"`
	IncidentDescription string      `json:"incident_description,omitempty"`
	AccessToken         string      `json:"access_token"`
	IsOffRoute          bool        `json:"is_off_route"`
	Schedule            string      `json:"schedule,omitempty"`
	ItineraryText       string      `json:"itinerary_text,omitempty"`
	Revision            int         `json:"revision"`
}

// Path returns the coordinates the vehicle travels along: the geometry
// when present, otherwise the waypoints.
func (r *Route) Path() []LatLng {
	if len(r.Geometry) > 0 {
		return r.Geometry
	}
	return Coordinates(r.Waypoints)
}

// Stops returns the waypoints flagged as passenger stops, in travel order.
func (r *Route) Stops() []Waypoint {
	out := make([]Waypoint, 0)
	for _, w := range r.Waypoints {
		if w.IsStop {
			out = append(out, w)
		}
	}
	return out
}

// Validate checks the invariants of a committed route.
func (r *Route) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("route: id must not be empty")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("route %s: name must not be empty", r.ID)
	}
	if len(r.Waypoints) < 2 {
		return fmt.Errorf("route %s: needs at least 2 waypoints, got %d", r.ID, len(r.Waypoints))
	}
	switch r.Status {
	case StatusNormal, StatusDelayed, StatusBroken, StatusTraffic:
	default:
		return fmt.Errorf("route %s: unknown status %q", r.ID, r.Status)
	}
	return nil
}

// Clone returns a deep copy of the route.
func (r *Route) Clone() *Route {
	c := *r
	c.Waypoints = CloneWaypoints(r.Waypoints)
	if r.Geometry != nil {
		c.Geometry = append([]LatLng(nil), r.Geometry...)
	}
	return &c
}
