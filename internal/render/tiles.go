package render

import "transit-map-service/internal/domain"

// TileCatalog maps each style to its base-layer source.
type TileCatalog map[domain.TileStyle]TileLayer

// DefaultTiles are the CARTO and Esri sources the dashboard ships with.
func DefaultTiles() TileCatalog {
	return TileCatalog{
		domain.TileLight: {
			Style:       domain.TileLight,
			URL:         "https://{s}.basemaps.cartocdn.com/light_all/{z}/{x}/{y}{r}.png",
			Attribution: "&copy; OpenStreetMap &copy; CARTO",
			MaxZoom:     19,
		},
		domain.TileDark: {
			Style:       domain.TileDark,
			URL:         "https://{s}.basemaps.cartocdn.com/dark_all/{z}/{x}/{y}{r}.png",
			Attribution: "&copy; OpenStreetMap &copy; CARTO",
			MaxZoom:     19,
		},
		domain.TileSatellite: {
			Style:       domain.TileSatellite,
			URL:         "https://server.arcgisonline.com/ArcGIS/rest/services/World_Imagery/MapServer/tile/{z}/{y}/{x}",
			Attribution: "Tiles &copy; Esri &mdash; Source: Esri, i-cubed, USDA, USGS, AEX, GeoEye, Getmapping, Aerogrid, IGN, IGP, UPR-EGP, and the GIS User Community",
			MaxZoom:     19,
		},
	}
}

// Lookup returns the layer for style, falling back to DARK.
func (c TileCatalog) Lookup(style domain.TileStyle) TileLayer {
	if l, ok := c[style]; ok {
		return l
	}
	if l, ok := c[domain.TileDark]; ok {
		return l
	}
	return DefaultTiles()[domain.TileDark]
}
