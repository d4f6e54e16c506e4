package scene

import (
	"errors"
	"testing"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/render"

	"github.com/paulmach/orb"
)

func TestMountWithoutContainer(t *testing.T) {
	s := New("")
	if err := s.Mount(domain.LatLng{}, 15); !errors.Is(err, render.ErrNoContainer) {
		t.Fatalf("expected ErrNoContainer, got %v", err)
	}
	if s.Mounted() {
		t.Fatalf("scene should not be mounted")
	}
}

func TestMountTwice(t *testing.T) {
	s := New("map")
	if err := s.Mount(domain.LatLng{}, 15); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Mount(domain.LatLng{}, 15); err == nil {
		t.Fatalf("expected error on second mount")
	}
}

func TestLayersKeepOrderAfterRemove(t *testing.T) {
	s := New("map")
	_ = s.Mount(domain.LatLng{}, 15)

	a := s.AddLayer(render.Marker{Role: "a"})
	b := s.AddLayer(render.Marker{Role: "b"})
	c := s.AddLayer(render.Marker{Role: "c"})
	s.RemoveLayer(b)
	s.RemoveLayer(b)

	ids := s.LayerIDs()
	if len(ids) != 2 || ids[0] != a || ids[1] != c {
		t.Fatalf("unexpected layer ids: %v", ids)
	}
	if got := s.Stats().Removed; got != 1 {
		t.Fatalf("expected 1 removal, got %d", got)
	}
}

func TestUpdateMarkerInPlace(t *testing.T) {
	s := New("map")
	_ = s.Mount(domain.LatLng{}, 15)

	id := s.AddLayer(render.Marker{Role: "vehicle", Position: domain.LatLng{Lat: 1, Lng: 1}})
	s.UpdateMarker(id, domain.LatLng{Lat: 2, Lng: 2}, render.Icon{Kind: render.IconVehicle, Rotation: 90})

	m := s.Layers()[0].(render.Marker)
	if m.Position != (domain.LatLng{Lat: 2, Lng: 2}) {
		t.Fatalf("marker not moved: %+v", m.Position)
	}
	if m.Icon.Rotation != 90 {
		t.Fatalf("expected rotation 90, got %v", m.Icon.Rotation)
	}
	st := s.Stats()
	if st.Added != 1 || st.Updated != 1 {
		t.Fatalf("unexpected stats: %+v", st)
	}
}

func TestClickAndOff(t *testing.T) {
	s := New("map")
	_ = s.Mount(domain.LatLng{}, 15)

	var got []domain.LatLng
	id := s.OnClick(func(p domain.LatLng) { got = append(got, p) })

	if !s.Click(domain.LatLng{Lat: 1, Lng: 2}) {
		t.Fatalf("expected click to be handled")
	}
	s.Off(id)
	if s.Click(domain.LatLng{Lat: 3, Lng: 4}) {
		t.Fatalf("expected click to be ignored after Off")
	}
	if len(got) != 1 || got[0].Lat != 1 {
		t.Fatalf("unexpected clicks: %v", got)
	}
}

func TestDragOnlyDraggable(t *testing.T) {
	s := New("map")
	_ = s.Mount(domain.LatLng{}, 15)

	fixed := s.AddLayer(render.Marker{Role: "stop"})
	var dropped *domain.LatLng
	movable := s.AddLayer(render.Marker{
		Role:      "preview-point",
		Draggable: true,
		OnDragEnd: func(p domain.LatLng) { dropped = &p },
	})

	if s.Drag(fixed, domain.LatLng{Lat: 5}) {
		t.Fatalf("fixed marker should not drag")
	}
	if !s.Drag(movable, domain.LatLng{Lat: 6, Lng: 7}) {
		t.Fatalf("expected drag to succeed")
	}
	if dropped == nil || dropped.Lat != 6 || dropped.Lng != 7 {
		t.Fatalf("unexpected drop: %v", dropped)
	}
}

func TestFitBoundsCentersAndZooms(t *testing.T) {
	s := New("map")
	_ = s.Mount(domain.LatLng{}, 3)

	b := orb.Bound{Min: orb.Point{-46.70, -23.60}, Max: orb.Point{-46.60, -23.50}}
	s.FitBounds(b, 40)

	c := s.Center()
	if c.Lat < -23.551 || c.Lat > -23.549 || c.Lng < -46.651 || c.Lng > -46.649 {
		t.Fatalf("unexpected center: %+v", c)
	}
	if z := s.Zoom(); z < 10 || z > 13 {
		t.Fatalf("unexpected zoom: %d", z)
	}

	s.FitBounds(orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{1, 1}}, 40)
	if s.Zoom() != maxZoom {
		t.Fatalf("expected max zoom for a single point, got %d", s.Zoom())
	}
}

func TestExport(t *testing.T) {
	s := New("map")
	_ = s.Mount(domain.LatLng{Lat: 1, Lng: 2}, 15)
	s.AddLayer(render.TileLayer{Style: domain.TileDark, URL: "https://tiles/{z}/{x}/{y}.png"})
	s.AddLayer(render.Polyline{
		Role:  "route",
		Path:  []domain.LatLng{{Lat: 0, Lng: 0}, {Lat: 1, Lng: 1}},
		Style: render.LineStyle{Color: "#0070f3", Weight: 6, Opacity: 0.8},
	})
	s.AddLayer(render.Marker{Role: "stop", Position: domain.LatLng{Lat: 1, Lng: 1}, Icon: render.Icon{Kind: render.IconStop, Label: "Terminal"}})
	s.AddControl(render.ZoomControl)

	v := s.Export()
	if !v.Mounted || v.Zoom != 15 {
		t.Fatalf("unexpected view header: %+v", v)
	}
	if v.Base == nil || v.Base.Style != domain.TileDark {
		t.Fatalf("expected dark base layer, got %+v", v.Base)
	}
	if len(v.Controls) != 1 || v.Controls[0] != render.ZoomControl {
		t.Fatalf("unexpected controls: %v", v.Controls)
	}
	if len(v.Layers.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(v.Layers.Features))
	}

	line := v.Layers.Features[0]
	if _, ok := line.Geometry.(orb.LineString); !ok {
		t.Fatalf("expected line string, got %T", line.Geometry)
	}
	if line.Properties["color"] != "#0070f3" {
		t.Fatalf("unexpected color: %v", line.Properties["color"])
	}

	stop := v.Layers.Features[1]
	pt, ok := stop.Geometry.(orb.Point)
	if !ok || pt.Lat() != 1 || pt.Lon() != 1 {
		t.Fatalf("unexpected stop geometry: %v", stop.Geometry)
	}
	if stop.Properties["label"] != "Terminal" {
		t.Fatalf("unexpected label: %v", stop.Properties["label"])
	}
}
