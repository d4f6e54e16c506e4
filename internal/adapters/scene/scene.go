// Package scene is an in-memory map surface. It keeps the layer set,
// viewport and listeners a browser map would hold, replays client
// gestures, and exports itself as GeoJSON.
package scene

import (
	"fmt"
	"math"
	"sort"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/render"

	"github.com/paulmach/orb"
)

const (
	minZoom = 1
	maxZoom = 19
)

// Stats counts surface mutations so callers can tell a moved marker from
// a recreated one.
type Stats struct {
	Added   int
	Removed int
	Updated int
	Fits    int
	Pans    int
	Views   int
}

// Scene implements render.Surface. It is not safe for concurrent use.
type Scene struct {
	container string
	mounted   bool

	center domain.LatLng
	zoom   int

	layers map[render.LayerID]render.Layer
	order  []render.LayerID
	nextID int

	listeners    map[render.ListenerID]func(domain.LatLng)
	nextListener render.ListenerID

	controls map[render.Control]bool
	stats    Stats
}

// New returns a scene bound to a named container. An empty name makes
// Mount fail the way a missing DOM element would.
func New(container string) *Scene {
	return &Scene{
		container: container,
		layers:    make(map[render.LayerID]render.Layer),
		listeners: make(map[render.ListenerID]func(domain.LatLng)),
		controls:  make(map[render.Control]bool),
	}
}

func (s *Scene) Mount(center domain.LatLng, zoom int) error {
	if s.container == "" {
		return render.ErrNoContainer
	}
	if s.mounted {
		return fmt.Errorf("scene %q: already mounted", s.container)
	}
	s.mounted = true
	s.center = center
	s.zoom = clampZoom(zoom)
	return nil
}

// Unmount drops everything the scene holds.
func (s *Scene) Unmount() {
	s.mounted = false
	s.layers = make(map[render.LayerID]render.Layer)
	s.order = nil
	s.listeners = make(map[render.ListenerID]func(domain.LatLng))
	s.controls = make(map[render.Control]bool)
}

func (s *Scene) Mounted() bool { return s.mounted }

func (s *Scene) AddLayer(l render.Layer) render.LayerID {
	s.nextID++
	id := render.LayerID(fmt.Sprintf("layer-%d", s.nextID))
	s.layers[id] = l
	s.order = append(s.order, id)
	s.stats.Added++
	return id
}

func (s *Scene) RemoveLayer(id render.LayerID) {
	if _, ok := s.layers[id]; !ok {
		return
	}
	delete(s.layers, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	s.stats.Removed++
}

func (s *Scene) UpdateMarker(id render.LayerID, pos domain.LatLng, icon render.Icon) {
	m, ok := s.layers[id].(render.Marker)
	if !ok {
		return
	}
	m.Position = pos
	m.Icon = icon
	s.layers[id] = m
	s.stats.Updated++
}

func (s *Scene) SetView(center domain.LatLng, zoom int) {
	s.center = center
	s.zoom = clampZoom(zoom)
	s.stats.Views++
}

func (s *Scene) PanTo(center domain.LatLng) {
	s.center = center
	s.stats.Pans++
}

// FitBounds centers on b and picks the closest zoom that shows all of it.
func (s *Scene) FitBounds(b orb.Bound, padding int) {
	s.center = domain.FromPoint(b.Center())
	s.zoom = zoomFor(b, padding)
	s.stats.Fits++
}

func (s *Scene) OnClick(fn func(domain.LatLng)) render.ListenerID {
	s.nextListener++
	s.listeners[s.nextListener] = fn
	return s.nextListener
}

func (s *Scene) Off(id render.ListenerID) {
	delete(s.listeners, id)
}

func (s *Scene) AddControl(c render.Control) { s.controls[c] = true }
func (s *Scene) RemoveControl(c render.Control) { delete(s.controls, c) }
func (s *Scene) HasControl(c render.Control) bool { return s.controls[c] }

// Click dispatches a click to every listener. It reports whether anyone
// was listening.
func (s *Scene) Click(at domain.LatLng) bool {
	if !s.mounted || len(s.listeners) == 0 {
		return false
	}
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, int(id))
	}
	sort.Ints(ids)
	for _, id := range ids {
		if fn, ok := s.listeners[render.ListenerID(id)]; ok {
			fn(at)
		}
	}
	return true
}

// Drag drops a draggable marker at a new coordinate and fires its handler.
func (s *Scene) Drag(id render.LayerID, to domain.LatLng) bool {
	m, ok := s.layers[id].(render.Marker)
	if !ok || !m.Draggable {
		return false
	}
	m.Position = to
	s.layers[id] = m
	if m.OnDragEnd != nil {
		m.OnDragEnd(to)
	}
	return true
}

func (s *Scene) Stats() Stats { return s.stats }

func (s *Scene) Center() domain.LatLng { return s.center }

func (s *Scene) Zoom() int { return s.zoom }

// Layers returns the current layers in the order they were added.
func (s *Scene) Layers() []render.Layer {
	out := make([]render.Layer, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.layers[id])
	}
	return out
}

// LayerIDs returns the ids of the current layers in the order they were added.
func (s *Scene) LayerIDs() []render.LayerID {
	return append([]render.LayerID(nil), s.order...)
}

func clampZoom(z int) int {
	return max(minZoom, min(maxZoom, z))
}

// zoomFor approximates the web-mercator zoom at which b spans a 512px
// viewport after padding.
func zoomFor(b orb.Bound, padding int) int {
	span := math.Max(b.Max.Lon()-b.Min.Lon(), b.Max.Lat()-b.Min.Lat())
	if span <= 0 {
		return maxZoom
	}
	px := 512.0 - 2*float64(padding)
	if px < 64 {
		px = 64
	}
	z := math.Log2(360 * px / 256 / span)
	return clampZoom(int(math.Floor(z)))
}
