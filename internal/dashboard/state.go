package dashboard

import (
	"transit-map-service/internal/domain"
)

type DrawingState struct {
	Mode          string            `json:"mode"`
	Generation    uint64            `json:"generation"`
	TargetRouteID string            `json:"target_route_id,omitempty"`
	Points        []domain.Waypoint `json:"points"`
}

// State is a point-in-time copy of everything a dashboard shows.
type State struct {
	domain.ViewportPreferences

	ViewerID        string                   `json:"viewer_id"`
	Role            domain.Role              `json:"role"`
	SelectedRouteID string                   `json:"selected_route_id,omitempty"`
	Route           *domain.Route            `json:"route,omitempty"`
	Vehicle         *domain.LiveVehicleState `json:"vehicle,omitempty"`
	Simulator       string                   `json:"simulator"`
	Running         bool                     `json:"running"`
	Navigation      bool                     `json:"navigation"`
	ZoomControl     bool                     `json:"zoom_control"`
	Drawing         DrawingState             `json:"drawing"`
}

func (d *Dashboard) snapshot() State {
	st := State{
		ViewerID:        d.viewer.ID,
		Role:            d.viewer.Role,
		SelectedRouteID: d.selected,
		Simulator:       d.sim.State().String(),
		Running:         d.running,
		Navigation:      d.navigation,
		ZoomControl:     d.route != nil && !d.navigation,
		Drawing: DrawingState{
			Mode:          d.session.Mode().String(),
			Generation:    d.session.Generation(),
			TargetRouteID: d.session.TargetRouteID(),
			Points:        d.session.Points(),
		},
		ViewportPreferences: d.prefs,
	}
	if st.Drawing.Points == nil {
		st.Drawing.Points = []domain.Waypoint{}
	}
	if d.route != nil {
		st.Route = d.route.Clone()
	}
	if v, ok := d.sim.Current(); ok {
		st.Vehicle = &v
	}
	return st
}
