// Package dashboard hosts one viewer's map: an event loop that owns the
// rendering adapter, the vehicle simulator and the drawing session, and
// re-projects state onto the map after every change.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
	"transit-map-service/internal/adapters/scene"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/drawing"
	"transit-map-service/internal/platform/eventloop"
	"transit-map-service/internal/ports"
	"transit-map-service/internal/render"
	"transit-map-service/internal/services"
	"transit-map-service/internal/simulator"
)

var (
	ErrForbidden       = errors.New("viewer role cannot perform this action")
	ErrNoRouteSelected = errors.New("no route selected")
	ErrDashboardClosed = errors.New("dashboard closed")
)

// Deps are shared by every dashboard of a process.
type Deps struct {
	Store      ports.RouteStore
	Commit     *services.CommitPipeline
	Summarizer ports.IncidentSummarizer
	Tiles      render.TileCatalog
	Defaults   services.RouteDefaults

	SimInterval time.Duration
	// Ticker replaces the wall-clock timer driving the simulator.
	Ticker      simulator.TickerFunc
	// Surface builds the map surface for a viewer. Defaults to an
	// in-memory scene.
	Surface     func(viewerID string) render.Surface
}

type Dashboard struct {
	viewer domain.Viewer
	deps   Deps

	loop      *eventloop.Loop
	stopLoop  context.CancelFunc
	closeOnce sync.Once
	unsub     func()

	// owned by the loop
	adapter    *render.Adapter
	dispose    func()
	sim        *simulator.Simulator
	session    *drawing.Session
	route      *domain.Route
	selected   string
	prefs      domain.ViewportPreferences
	navigation bool
	running    bool
	simKey     string
}

// New starts a dashboard and mounts its map. A surface that cannot mount
// is fatal and leaves nothing running.
func New(viewer domain.Viewer, deps Deps) (*Dashboard, error) {
	if deps.Store == nil {
		return nil, errors.New("dashboard: route store is required")
	}
	if deps.Commit == nil {
		deps.Commit = &services.CommitPipeline{}
	}
	if deps.Surface == nil {
		deps.Surface = func(id string) render.Surface { return scene.New("map-" + id) }
	}

	sim := simulator.New(deps.SimInterval)
	if deps.Ticker != nil {
		sim = simulator.NewWithTicker(deps.SimInterval, deps.Ticker)
	}

	ctx, cancel := context.WithCancel(context.Background())
	d := &Dashboard{
		viewer:   viewer,
		deps:     deps,
		loop:     eventloop.New(64),
		stopLoop: cancel,
		adapter:  render.NewAdapter(deps.Surface(viewer.ID), deps.Tiles),
		sim:      sim,
		session:  drawing.NewSession(),
		prefs:    domain.ViewportPreferences{TileStyle: domain.TileDark},
	}
	go d.loop.Run(ctx)

	err := d.loop.Call(ctx, func() error {
		dispose, err := d.adapter.Initialize(render.DefaultCenter)
		if err != nil {
			return err
		}
		d.dispose = dispose
		d.adapter.SetTileStyle(d.prefs.TileStyle)
		d.sync()
		return nil
	})
	if err != nil {
		cancel()
		d.loop.Close()
		return nil, fmt.Errorf("dashboard %s: %w", viewer.ID, err)
	}

	// Store notifications may arrive on the loop itself (our own commits),
	// so they are handed over without blocking.
	d.unsub = deps.Store.Subscribe(func(routeID string) {
		go d.loop.Post(func() { d.onRouteChanged(routeID) })
	})

	log.Printf("dashboard opened viewer=%s role=%s", viewer.ID, viewer.Role)
	return d, nil
}

func (d *Dashboard) Viewer() domain.Viewer { return d.viewer }

// Close stops the simulator and releases the map exactly once.
func (d *Dashboard) Close() {
	d.closeOnce.Do(func() {
		if d.unsub != nil {
			d.unsub()
		}
		err := d.loop.Call(context.Background(), func() error {
			d.sim.Stop()
			if d.dispose != nil {
				d.dispose()
			}
			return nil
		})
		if err != nil {
			log.Printf("dashboard close viewer=%s err=%v", d.viewer.ID, err)
		}
		d.stopLoop()
		d.loop.Close()
		log.Printf("dashboard closed viewer=%s", d.viewer.ID)
	})
}

// call runs fn on the loop and maps a closed loop onto ErrDashboardClosed.
func (d *Dashboard) call(ctx context.Context, fn func() error) error {
	err := d.loop.Call(ctx, fn)
	if errors.Is(err, eventloop.ErrClosed) {
		return ErrDashboardClosed
	}
	return err
}

func (d *Dashboard) onRouteChanged(routeID string) {
	if routeID != d.selected {
		return
	}
	d.reloadRoute()
	d.sync()
}

func (d *Dashboard) reloadRoute() {
	d.route = nil
	if d.selected == "" {
		return
	}
	r, ok, err := d.deps.Store.GetRoute(context.Background(), d.selected)
	if err != nil {
		log.Printf("dashboard viewer=%s reload route=%s err=%v", d.viewer.ID, d.selected, err)
		return
	}
	if !ok {
		d.selected = ""
		return
	}
	d.route = r
}

func (d *Dashboard) shouldRun() bool {
	if d.route == nil || d.session.Drawing() {
		return false
	}
	return d.viewer.Role == domain.RolePassenger || d.running
}

// sync projects the current state onto the adapter: vehicle, route,
// drawing preview, click handler, zoom control.
func (d *Dashboard) sync() {
	d.syncSimulator()

	if st, ok := d.sim.Current(); ok {
		d.adapter.SyncVehicle(&st.Position, &st.NextPosition, d.navigation)
	} else {
		d.adapter.SyncVehicle(nil, nil, d.navigation)
	}

	d.adapter.SyncRoute(d.route, d.session.Drawing())
	d.adapter.SyncDrawingPreview(d.session.Drawing(), d.session.Points(), d.onPreviewMoved)

	if d.session.Mode() == drawing.Active {
		d.adapter.SetClickHandler(d.onMapClick)
	} else {
		d.adapter.SetClickHandler(nil)
	}

	d.adapter.SetZoomControlVisible(d.route != nil && !d.navigation)
}

// syncSimulator restarts the simulator whenever the route or its path
// changes, and stops it when it should no longer run.
func (d *Dashboard) syncSimulator() {
	if !d.shouldRun() {
		if d.sim.State() == simulator.Running {
			d.sim.Stop()
		}
		d.simKey = ""
		return
	}

	key := fmt.Sprintf("%s@%d", d.route.ID, d.route.Revision)
	if d.sim.State() == simulator.Running && key == d.simKey {
		return
	}
	d.simKey = key
	d.sim.Start(d.route.ID, d.route.Path(), func(t simulator.Tick) bool {
		return d.loop.Post(func() { d.onTick(t) })
	})
}

func (d *Dashboard) onTick(t simulator.Tick) {
	st, ok := d.sim.Advance(t)
	if !ok {
		return
	}
	d.adapter.SyncVehicle(&st.Position, &st.NextPosition, d.navigation)
}

func (d *Dashboard) onMapClick(at domain.LatLng) {
	if err := d.session.AppendPoint(at.Lat, at.Lng); err != nil {
		log.Printf("dashboard viewer=%s map click ignored: %v", d.viewer.ID, err)
		return
	}
	d.sync()
}

func (d *Dashboard) onPreviewMoved(i int, to domain.LatLng) {
	if err := d.session.MovePoint(i, to.Lat, to.Lng); err != nil {
		log.Printf("dashboard viewer=%s drag ignored: %v", d.viewer.ID, err)
		return
	}
	d.sync()
}
