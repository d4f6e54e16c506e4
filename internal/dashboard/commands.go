package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/drawing"
	"transit-map-service/internal/render"
	"transit-map-service/internal/services"
)

// State returns a copy of the dashboard state.
func (d *Dashboard) State(ctx context.Context) (State, error) {
	var st State
	err := d.call(ctx, func() error {
		st = d.snapshot()
		return nil
	})
	return st, err
}

// View exports the map surface.
func (d *Dashboard) View(ctx context.Context) (render.View, error) {
	var v render.View
	err := d.call(ctx, func() error {
		var ok bool
		if v, ok = d.adapter.Export(); !ok {
			return errors.New("map surface cannot be exported")
		}
		return nil
	})
	return v, err
}

func (d *Dashboard) SetTileStyle(ctx context.Context, style domain.TileStyle) error {
	return d.call(ctx, func() error {
		d.prefs.TileStyle = domain.NormalizeTileStyle(string(style))
		d.adapter.SetTileStyle(d.prefs.TileStyle)
		return nil
	})
}

func (d *Dashboard) SetNavigation(ctx context.Context, on bool) error {
	return d.call(ctx, func() error {
		d.navigation = on
		d.sync()
		return nil
	})
}

// SelectRoute displays a route; an empty id clears the selection.
func (d *Dashboard) SelectRoute(ctx context.Context, routeID string) error {
	if routeID != "" {
		if _, ok, err := d.deps.Store.GetRoute(ctx, routeID); err != nil {
			return fmt.Errorf("select route: %w", err)
		} else if !ok {
			return fmt.Errorf("select route %s: %w", routeID, services.ErrRouteNotFound)
		}
	}

	return d.call(ctx, func() error {
		d.selectOnLoop(routeID)
		return nil
	})
}

func (d *Dashboard) selectOnLoop(routeID string) {
	if routeID != d.selected {
		d.running = false
	}
	d.selected = routeID
	d.reloadRoute()
	d.sync()
}

// SetRunning starts or stops the driver's simulated run. Passengers
// always follow the selected route and cannot change it.
func (d *Dashboard) SetRunning(ctx context.Context, running bool) error {
	if d.viewer.Role == domain.RolePassenger {
		return ErrForbidden
	}
	return d.call(ctx, func() error {
		if running && d.route == nil {
			return ErrNoRouteSelected
		}
		d.running = running
		d.sync()
		return nil
	})
}

// Scan matches a QR payload against route access tokens and selects the
// matching route.
func (d *Dashboard) Scan(ctx context.Context, payload string) (*domain.Route, error) {
	r, err := services.MatchAccessToken(ctx, d.deps.Store, payload)
	if err != nil {
		return nil, err
	}
	if err := d.call(ctx, func() error {
		d.selectOnLoop(r.ID)
		return nil
	}); err != nil {
		return nil, err
	}
	return r, nil
}

// ReportIncident records an incident against the selected route. The
// summary is produced off the loop.
func (d *Dashboard) ReportIncident(
	ctx context.Context,
	incident domain.IncidentType,
	description string,
) (*domain.Route, error) {
	if d.viewer.Role == domain.RolePassenger {
		return nil, ErrForbidden
	}

	var routeID string
	if err := d.call(ctx, func() error {
		routeID = d.selected
		return nil
	}); err != nil {
		return nil, err
	}
	if routeID == "" {
		return nil, ErrNoRouteSelected
	}

	return services.ReportIncident(ctx, d.deps.Store, d.deps.Summarizer, routeID, incident, description)
}

// Click replays a map click. It reports whether a listener handled it.
func (d *Dashboard) Click(ctx context.Context, at domain.LatLng) (bool, error) {
	var handled bool
	err := d.call(ctx, func() error {
		handled = d.adapter.ReplayClick(at)
		return nil
	})
	return handled, err
}

// Drag replays dropping a marker at a new coordinate.
func (d *Dashboard) Drag(ctx context.Context, layer render.LayerID, to domain.LatLng) (bool, error) {
	var handled bool
	err := d.call(ctx, func() error {
		handled = d.adapter.ReplayDrag(layer, to)
		return nil
	})
	return handled, err
}

// StartDrawing opens a drawing session. An empty target creates a new
// route; otherwise the target route is edited.
func (d *Dashboard) StartDrawing(ctx context.Context, targetRouteID string) (DrawingState, error) {
	if d.viewer.Role != domain.RoleCompany {
		return DrawingState{}, ErrForbidden
	}

	var target *domain.Route
	if targetRouteID != "" {
		r, ok, err := d.deps.Store.GetRoute(ctx, targetRouteID)
		if err != nil {
			return DrawingState{}, fmt.Errorf("start drawing: %w", err)
		}
		if !ok {
			return DrawingState{}, fmt.Errorf("start drawing %s: %w", targetRouteID, services.ErrRouteNotFound)
		}
		target = r
	}

	return d.drawingCall(ctx, func() error {
		d.session.Start(target)
		return nil
	})
}

func (d *Dashboard) DiscardDrawing(ctx context.Context) (DrawingState, error) {
	return d.drawingCall(ctx, func() error {
		d.session.Discard()
		return nil
	})
}

func (d *Dashboard) Drawing(ctx context.Context) (DrawingState, error) {
	return d.drawingCall(ctx, func() error { return nil })
}

func (d *Dashboard) ToggleStop(ctx context.Context, i int) (DrawingState, error) {
	return d.drawingCall(ctx, func() error { return d.session.ToggleStop(i) })
}

func (d *Dashboard) RenameStop(ctx context.Context, i int, name string) (DrawingState, error) {
	return d.drawingCall(ctx, func() error { return d.session.RenameStop(i, name) })
}

func (d *Dashboard) RemovePoint(ctx context.Context, i int) (DrawingState, error) {
	return d.drawingCall(ctx, func() error { return d.session.RemovePoint(i) })
}

// PatchPoint applies several edits to one point in a single loop turn.
func (d *Dashboard) PatchPoint(ctx context.Context, i int, edit drawing.PointEdit) (DrawingState, error) {
	return d.drawingCall(ctx, func() error { return d.session.EditPoint(i, edit) })
}

// AppendAddress adds a stop from an address lookup issued while the
// session had generation gen.
func (d *Dashboard) AppendAddress(ctx context.Context, gen uint64, at domain.LatLng) (DrawingState, error) {
	return d.drawingCall(ctx, func() error { return d.session.AppendFromAddressResult(gen, at) })
}

// drawingCall runs a session operation on the loop, re-syncs the map
// when it succeeded and returns the resulting session state.
func (d *Dashboard) drawingCall(ctx context.Context, op func() error) (DrawingState, error) {
	var st DrawingState
	err := d.call(ctx, func() error {
		if err := op(); err != nil {
			return err
		}
		d.sync()
		st = d.snapshot().Drawing
		return nil
	})
	return st, err
}

// Commit freezes the session, runs the commit pipeline off the loop and
// stores the result. A session discarded or restarted while the pipeline
// ran gets drawing.ErrStale and nothing is stored.
func (d *Dashboard) Commit(ctx context.Context, name, schedule, itinerary string) (*domain.Route, error) {
	if d.viewer.Role != domain.RoleCompany {
		return nil, ErrForbidden
	}

	var draft drawing.Draft
	if err := d.call(ctx, func() error {
		var err error
		if draft, err = d.session.BeginCommit(name, schedule, itinerary); err != nil {
			return err
		}
		d.sync()
		return nil
	}); err != nil {
		return nil, err
	}

	geometry, optimized := d.deps.Commit.CommitRoute(ctx, draft.Waypoints)

	// The session must be released even if the caller went away.
	finishCtx := context.WithoutCancel(ctx)
	var stored *domain.Route
	err := d.call(finishCtx, func() error {
		if d.session.Generation() != draft.Generation || d.session.Mode() != drawing.Committing {
			return drawing.ErrStale
		}

		r, err := d.store(finishCtx, draft, geometry)
		if err != nil {
			_ = d.session.AbortCommit(draft.Generation)
			d.sync()
			return err
		}
		if err := d.session.FinishCommit(draft.Generation); err != nil {
			return err
		}

		stored = r
		d.selectOnLoop(r.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("route committed viewer=%s route=%s points=%d geometry=%d optimized=%t",
		d.viewer.ID, stored.ID, len(stored.Waypoints), len(stored.Geometry), optimized)
	return stored, nil
}

func (d *Dashboard) store(ctx context.Context, draft drawing.Draft, geometry []domain.LatLng) (*domain.Route, error) {
	if draft.TargetRouteID == "" {
		defaults := d.deps.Defaults
		if d.viewer.CompanyID != "" {
			defaults.CompanyID = d.viewer.CompanyID
		}
		r, err := d.deps.Store.SaveRoute(ctx, services.NewRouteFromDraft(draft, geometry, defaults))
		if err != nil {
			return nil, fmt.Errorf("commit: save route: %w", err)
		}
		return r, nil
	}

	r, err := d.deps.Store.UpdateRoute(ctx, draft.TargetRouteID, func(r *domain.Route) error {
		services.ApplyDraft(r, draft, geometry)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("commit: update route: %w", err)
	}
	return r, nil
}
