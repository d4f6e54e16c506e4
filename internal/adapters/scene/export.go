package scene

import (
	"sort"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/render"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Export describes the scene as a view. Lines and markers become GeoJSON
// features in draw order; the tile layer is reported separately.
func (s *Scene) Export() render.View {
	v := render.View{
		Mounted:  s.mounted,
		Center:   s.center,
		Zoom:     s.zoom,
		Controls: []render.Control{},
		Layers:   geojson.NewFeatureCollection(),
	}
	for c := range s.controls {
		v.Controls = append(v.Controls, c)
	}
	sort.Slice(v.Controls, func(i, j int) bool { return v.Controls[i] < v.Controls[j] })

	for _, id := range s.order {
		switch l := s.layers[id].(type) {
		case render.TileLayer:
			base := l
			v.Base = &base
		case render.Polyline:
			f := geojson.NewFeature(lineString(l.Path))
			f.ID = string(id)
			f.Properties["layer_id"] = string(id)
			f.Properties["role"] = l.Role
			f.Properties["color"] = l.Style.Color
			f.Properties["weight"] = l.Style.Weight
			f.Properties["opacity"] = l.Style.Opacity
			if l.Style.DashArray != "" {
				f.Properties["dash_array"] = l.Style.DashArray
			}
			v.Layers.Append(f)
		case render.Marker:
			f := geojson.NewFeature(l.Position.Point())
			f.ID = string(id)
			f.Properties["layer_id"] = string(id)
			f.Properties["role"] = l.Role
			f.Properties["icon"] = string(l.Icon.Kind)
			f.Properties["size"] = l.Icon.Size
			f.Properties["rotation"] = l.Icon.Rotation
			if l.Icon.Label != "" {
				f.Properties["label"] = l.Icon.Label
			}
			f.Properties["draggable"] = l.Draggable
			v.Layers.Append(f)
		}
	}
	return v
}

func lineString(path []domain.LatLng) orb.LineString {
	ls := make(orb.LineString, 0, len(path))
	for _, p := range path {
		ls = append(ls, p.Point())
	}
	return ls
}
