package render

import (
	"fmt"
	"sync"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/geo"
)

const (
	InitialZoom    = 15
	NavigationZoom = 18
	FitPadding     = 40

	VehicleIconSize    = 40
	NavigationIconSize = 80
	StopIconSize       = 24
	WaypointIconSize   = 14

	ColorDefault = "#0070f3"
	ColorAmber   = "#f59e0b"
	ColorRed     = "#ef4444"
	ColorPreview = "#10b981"
)

// Layer roles, exported on every feature so clients can style them.
const (
	RoleRoute        = "route"
	RoleStop         = "stop"
	RoleVehicle      = "vehicle"
	RolePreviewLine  = "preview-line"
	RolePreviewPoint = "preview-point"
)

// DefaultCenter is used when the dashboard has no position to start from.
var DefaultCenter = domain.LatLng{Lat: -23.5505, Lng: -46.6333}

// Adapter is the only code that touches its Surface. Every Sync call
// replaces the layers it owns instead of stacking new ones on top.
//
// An Adapter is not safe for concurrent use; the dashboard event loop
// owns it.
type Adapter struct {
	surface Surface
	tiles   TileCatalog

	initialized bool
	dispose     func()

	base      LayerID
	routeLine LayerID
	stops     []LayerID
	vehicle   LayerID
	preview   []LayerID
	click     ListenerID
	hasClick  bool
	fitKey    string
}

func NewAdapter(surface Surface, tiles TileCatalog) *Adapter {
	if tiles == nil {
		tiles = DefaultTiles()
	}
	return &Adapter{surface: surface, tiles: tiles}
}

// Initialize mounts the surface once. Later calls return the same
// disposer without touching the surface. The disposer releases every
// layer and listener and is safe to call more than once.
func (a *Adapter) Initialize(center domain.LatLng) (func(), error) {
	if a.initialized {
		return a.dispose, nil
	}
	if err := a.surface.Mount(center, InitialZoom); err != nil {
		return nil, fmt.Errorf("initialize map surface: %w", err)
	}

	a.initialized = true
	var once sync.Once
	a.dispose = func() { once.Do(a.teardown) }
	return a.dispose, nil
}

func (a *Adapter) Ready() bool { return a.initialized }

func (a *Adapter) teardown() {
	a.SetClickHandler(nil)
	a.clearRoute()
	a.clearPreview()
	a.removeVehicle()
	if a.base != "" {
		a.surface.RemoveLayer(a.base)
		a.base = ""
	}
	if a.surface.HasControl(ZoomControl) {
		a.surface.RemoveControl(ZoomControl)
	}
	a.surface.Unmount()
	a.initialized = false
}

// SetTileStyle swaps the base layer. Other layers are left alone.
func (a *Adapter) SetTileStyle(style domain.TileStyle) {
	if !a.initialized {
		return
	}
	if a.base != "" {
		a.surface.RemoveLayer(a.base)
	}
	a.base = a.surface.AddLayer(a.tiles.Lookup(style))
}

// RouteColor picks the polyline color for a route.
func RouteColor(r *domain.Route) string {
	switch {
	case r.Status == domain.StatusTraffic || r.Status == domain.StatusDelayed:
		return ColorAmber
	case r.IsOffRoute:
		return ColorRed
	default:
		return ColorDefault
	}
}

// SyncRoute redraws the committed route and its stops. With no route, or
// while drawing, those layers are cleared. The viewport is fitted to the
// route once per route version, and only while no vehicle is shown.
func (a *Adapter) SyncRoute(route *domain.Route, drawing bool) {
	if !a.initialized {
		return
	}
	a.clearRoute()

	if route == nil || drawing {
		a.fitKey = ""
		return
	}

	path := route.Path()
	a.routeLine = a.surface.AddLayer(Polyline{
		Role: RoleRoute,
		Path: path,
		Style: LineStyle{
			Color:   RouteColor(route),
			Weight:  6,
			Opacity: 0.8,
		},
	})

	for _, stop := range route.Stops() {
		id := a.surface.AddLayer(Marker{
			Role:     RoleStop,
			Position: stop.LatLng,
			Icon:     Icon{Kind: IconStop, Size: StopIconSize, Label: stop.StopName},
		})
		a.stops = append(a.stops, id)
	}

	if a.vehicle != "" {
		return
	}
	key := fmt.Sprintf("%s@%d", route.ID, route.Revision)
	if key == a.fitKey {
		return
	}
	if b, ok := geo.Bounds(path); ok {
		a.surface.FitBounds(b, FitPadding)
		a.fitKey = key
	}
}

func (a *Adapter) clearRoute() {
	if a.routeLine != "" {
		a.surface.RemoveLayer(a.routeLine)
		a.routeLine = ""
	}
	for _, id := range a.stops {
		a.surface.RemoveLayer(id)
	}
	a.stops = nil
}

// SyncVehicle places the vehicle marker and moves the camera. A nil
// position removes the marker. The marker is created once and then
// moved in place on every update.
func (a *Adapter) SyncVehicle(position, next *domain.LatLng, navigation bool) {
	if !a.initialized {
		return
	}
	if position == nil {
		a.removeVehicle()
		return
	}

	heading := 0.0
	if next != nil {
		heading = geo.Bearing(*position, *next)
	}
	size := VehicleIconSize
	if navigation {
		size = NavigationIconSize
	}
	icon := Icon{Kind: IconVehicle, Size: size, Rotation: heading}

	if a.vehicle == "" {
		a.vehicle = a.surface.AddLayer(Marker{Role: RoleVehicle, Position: *position, Icon: icon})
	} else {
		a.surface.UpdateMarker(a.vehicle, *position, icon)
	}

	if navigation {
		a.surface.SetView(*position, NavigationZoom)
	} else {
		a.surface.PanTo(*position)
	}
}

func (a *Adapter) removeVehicle() {
	if a.vehicle != "" {
		a.surface.RemoveLayer(a.vehicle)
		a.vehicle = ""
	}
}

// HasVehicle reports whether a vehicle marker is on the surface.
func (a *Adapter) HasVehicle() bool { return a.vehicle != "" }

// SyncDrawingPreview renders the in-progress route as a dashed line with
// one draggable marker per point. Dropping a marker reports its index and
// new coordinate through onMove; the adapter never edits the list itself.
func (a *Adapter) SyncDrawingPreview(active bool, points []domain.Waypoint, onMove func(int, domain.LatLng)) {
	if !a.initialized {
		return
	}
	a.clearPreview()
	if !active || len(points) == 0 {
		return
	}

	a.preview = append(a.preview, a.surface.AddLayer(Polyline{
		Role: RolePreviewLine,
		Path: domain.Coordinates(points),
		Style: LineStyle{
			Color:     ColorPreview,
			Weight:    4,
			Opacity:   0.6,
			DashArray: "8, 8",
		},
	}))

	for i, p := range points {
		icon := Icon{Kind: IconWaypoint, Size: WaypointIconSize}
		if p.IsStop {
			icon = Icon{Kind: IconStop, Size: StopIconSize, Label: p.StopName}
		}

		idx := i
		m := Marker{Role: RolePreviewPoint, Position: p.LatLng, Icon: icon, Draggable: true}
		if onMove != nil {
			m.OnDragEnd = func(to domain.LatLng) { onMove(idx, to) }
		}
		a.preview = append(a.preview, a.surface.AddLayer(m))
	}
}

func (a *Adapter) clearPreview() {
	for _, id := range a.preview {
		a.surface.RemoveLayer(id)
	}
	a.preview = nil
}

// SetClickHandler replaces the surface click listener; nil removes it.
func (a *Adapter) SetClickHandler(fn func(domain.LatLng)) {
	if !a.initialized {
		return
	}
	if a.hasClick {
		a.surface.Off(a.click)
		a.hasClick = false
	}
	if fn != nil {
		a.click = a.surface.OnClick(fn)
		a.hasClick = true
	}
}

func (a *Adapter) SetZoomControlVisible(visible bool) {
	if !a.initialized {
		return
	}
	has := a.surface.HasControl(ZoomControl)
	switch {
	case visible && !has:
		a.surface.AddControl(ZoomControl)
	case !visible && has:
		a.surface.RemoveControl(ZoomControl)
	}
}

// Export describes the surface when it supports it.
func (a *Adapter) Export() (View, bool) {
	e, ok := a.surface.(Exporter)
	if !ok {
		return View{}, false
	}
	return e.Export(), true
}

// ReplayClick feeds a user click into the surface event stream.
func (a *Adapter) ReplayClick(at domain.LatLng) bool {
	g, ok := a.surface.(Gestures)
	if !ok || !a.initialized {
		return false
	}
	return g.Click(at)
}

// ReplayDrag feeds a marker drop into the surface event stream.
func (a *Adapter) ReplayDrag(id LayerID, to domain.LatLng) bool {
	g, ok := a.surface.(Gestures)
	if !ok || !a.initialized {
		return false
	}
	return g.Drag(id, to)
}
