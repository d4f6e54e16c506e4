package config

import (
	"fmt"
	"os"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/render"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type tileFile struct {
	Tiles []tileEntry `yaml:"tiles" validate:"dive"`
}

type tileEntry struct {
	Style       string `yaml:"style" validate:"required,oneof=LIGHT DARK SATELLITE"`
	URL         string `yaml:"url" validate:"required"`
	Attribution string `yaml:"attribution"`
	MaxZoom     int    `yaml:"max_zoom" validate:"gte=0,lte=22"`
}

// LoadTiles reads a YAML tile catalog. Styles missing from the file keep
// their default source. An empty path returns the defaults.
func LoadTiles(path string) (render.TileCatalog, error) {
	catalog := render.DefaultTiles()
	if path == "" {
		return catalog, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load tiles: read %q: %w", path, err)
	}

	var f tileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("load tiles: parse %q: %w", path, err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("load tiles: %q: %w", path, err)
	}

	for _, t := range f.Tiles {
		style := domain.TileStyle(t.Style)
		maxZoom := t.MaxZoom
		if maxZoom == 0 {
			maxZoom = 19
		}
		catalog[style] = render.TileLayer{
			Style:       style,
			URL:         t.URL,
			Attribution: t.Attribution,
			MaxZoom:     maxZoom,
		}
	}
	return catalog, nil
}
