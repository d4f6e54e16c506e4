// Package render projects declarative dashboard state onto an imperative
// map surface.
package render

import (
	"errors"
	"transit-map-service/internal/domain"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrNoContainer is returned by a surface that has nothing to mount into.
var ErrNoContainer = errors.New("render: map container missing")

type LayerID string

type ListenerID int

type Control string

const ZoomControl Control = "zoom"

// Layer is one of TileLayer, Polyline or Marker.
type Layer interface {
	layer()
}

type TileLayer struct {
	Style       domain.TileStyle `json:"style"`
	URL         string           `json:"url"`
	Attribution string           `json:"attribution"`
	MaxZoom     int              `json:"max_zoom"`
}

type LineStyle struct {
	Color     string
	Weight    int
	Opacity   float64
	DashArray string
}

type Polyline struct {
	Role  string
	Path  []domain.LatLng
	Style LineStyle
}

type IconKind string

const (
	IconVehicle  IconKind = "vehicle"
	IconStop     IconKind = "stop"
	IconWaypoint IconKind = "waypoint"
)

type Icon struct {
	Kind     IconKind
	Size     int
	Rotation float64
	Label    string
}

type Marker struct {
	Role      string
	Position  domain.LatLng
	Icon      Icon
	Draggable bool
	// OnDragEnd receives the coordinate a draggable marker was dropped at.
	OnDragEnd func(domain.LatLng)
}

func (TileLayer) layer() {}
func (Polyline) layer() {}
func (Marker) layer() {}

// Surface is a stateful map: it owns layers, a viewport, controls and an
// event stream. Tile loading problems never surface as errors.
type Surface interface {
	Mount(center domain.LatLng, zoom int) error
	Unmount()

	AddLayer(l Layer) LayerID
	RemoveLayer(id LayerID)
	// UpdateMarker moves and restyles an existing marker in place.
	UpdateMarker(id LayerID, pos domain.LatLng, icon Icon)

	SetView(center domain.LatLng, zoom int)
	PanTo(center domain.LatLng)
	FitBounds(b orb.Bound, padding int)

	OnClick(fn func(domain.LatLng)) ListenerID
	Off(id ListenerID)

	AddControl(c Control)
	RemoveControl(c Control)
	HasControl(c Control) bool
}

// View is a serializable picture of a surface.
type View struct {
	Mounted  bool                       `json:"mounted"`
	Center   domain.LatLng              `json:"center"`
	Zoom     int                        `json:"zoom"`
	Base     *TileLayer                 `json:"base,omitempty"`
	Controls []Control                  `json:"controls"`
	Layers   *geojson.FeatureCollection `json:"layers"`
}

// Exporter is implemented by surfaces that can describe themselves.
type Exporter interface {
	Export() View
}

// Gestures is implemented by surfaces that accept replayed user input.
type Gestures interface {
	Click(at domain.LatLng) bool
	Drag(id LayerID, to domain.LatLng) bool
}
