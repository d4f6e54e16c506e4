package dashboard

import (
	"context"
	"errors"
	"sort"
	"sync"
	"transit-map-service/internal/domain"

	"github.com/google/uuid"
)

var ErrViewerNotFound = errors.New("viewer not found")

// Registry tracks the open dashboard of every viewer.
type Registry struct {
	deps Deps

	mu         sync.RWMutex
	dashboards map[string]*Dashboard
}

func NewRegistry(deps Deps) *Registry {
	return &Registry{deps: deps, dashboards: make(map[string]*Dashboard)}
}

// Open creates a dashboard for a new viewer.
func (r *Registry) Open(role domain.Role, companyID string) (*Dashboard, error) {
	v := domain.Viewer{ID: uuid.NewString(), Role: role, CompanyID: companyID}

	d, err := New(v, r.deps)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.dashboards[v.ID] = d
	r.mu.Unlock()
	return d, nil
}

func (r *Registry) Get(viewerID string) (*Dashboard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.dashboards[viewerID]
	if !ok {
		return nil, ErrViewerNotFound
	}
	return d, nil
}

// Close tears down one viewer's dashboard.
func (r *Registry) Close(viewerID string) error {
	r.mu.Lock()
	d, ok := r.dashboards[viewerID]
	delete(r.dashboards, viewerID)
	r.mu.Unlock()

	if !ok {
		return ErrViewerNotFound
	}
	d.Close()
	return nil
}

func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*Dashboard, 0, len(r.dashboards))
	for _, d := range r.dashboards {
		all = append(all, d)
	}
	r.dashboards = make(map[string]*Dashboard)
	r.mu.Unlock()

	for _, d := range all {
		d.Close()
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.dashboards)
}

// Vehicles returns one simulated vehicle per running route, ordered by
// route id. When several viewers follow the same route the one with the
// lowest viewer id is published.
func (r *Registry) Vehicles(ctx context.Context) []domain.LiveVehicleState {
	r.mu.RLock()
	all := make([]*Dashboard, 0, len(r.dashboards))
	for _, d := range r.dashboards {
		all = append(all, d)
	}
	r.mu.RUnlock()
	sort.Slice(all, func(i, j int) bool { return all[i].viewer.ID < all[j].viewer.ID })

	byRoute := make(map[string]domain.LiveVehicleState)
	for _, d := range all {
		st, err := d.State(ctx)
		if err != nil || st.Vehicle == nil {
			continue
		}
		if _, ok := byRoute[st.Vehicle.RouteID]; !ok {
			byRoute[st.Vehicle.RouteID] = *st.Vehicle
		}
	}

	out := make([]domain.LiveVehicleState, 0, len(byRoute))
	for _, v := range byRoute {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RouteID < out[j].RouteID })
	return out
}
