package domain

import (
	"fmt"
	"strings"
)

type TileStyle string

const (
	TileLight     TileStyle = "LIGHT"
	TileDark      TileStyle = "DARK"
	TileSatellite TileStyle = "SATELLITE"
)

// NormalizeTileStyle maps any unknown style onto DARK.
func NormalizeTileStyle(s string) TileStyle {
	switch st := TileStyle(strings.ToUpper(strings.TrimSpace(s))); st {
	case TileLight, TileDark, TileSatellite:
		return st
	}
	return TileDark
}

// ViewportPreferences holds the map settings a viewer can change.
type ViewportPreferences struct {
	TileStyle TileStyle `json:"tile_style"`
}

type Role string

const (
	RolePassenger Role = "USER"
	RoleDriver    Role = "DRIVER"
	RoleCompany   Role = "COMPANY"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RolePassenger, RoleDriver, RoleCompany:
		return r, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Identity of whoever is looking at a dashboard.
type Viewer struct {
	ID        string
	Role      Role
	CompanyID string
}
