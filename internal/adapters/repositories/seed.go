package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/ports"
)

type RouteSeed struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	CompanyID     string            `json:"company_id"`
	CompanyName   string            `json:"company_name"`
	Waypoints     []domain.Waypoint `json:"waypoints"`
	Geometry      []domain.LatLng   `json:"geometry"`
	Status        string            `json:"status"`
	AccessToken   string            `json:"access_token"`
	Schedule      string            `json:"schedule"`
	ItineraryText string            `json:"itinerary_text"`
}

// Populate the store with route data from a JSON file.
func SeedFromJSON(ctx context.Context, store ports.RouteStore, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed routes: read %q: %w", jsonPath, err)
	}

	var data []RouteSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed routes: parse json: %w", err)
	}

	routes := make([]*domain.Route, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.ID)
		if id == "" {
			return 0, fmt.Errorf("seed routes: item at index %d: id cannot be empty", i+1)
		}

		status := domain.RouteStatus(strings.ToUpper(strings.TrimSpace(item.Status)))
		if status == "" {
			status = domain.StatusNormal
		}

		r := &domain.Route{
			ID:            id,
			Name:          strings.TrimSpace(item.Name),
			CompanyID:     item.CompanyID,
			CompanyName:   item.CompanyName,
			Waypoints:     item.Waypoints,
			Geometry:      item.Geometry,
			Status:        status,
			AccessToken:   item.AccessToken,
			Schedule:      item.Schedule,
			ItineraryText: item.ItineraryText,
		}
		if err := r.Validate(); err != nil {
			return 0, fmt.Errorf("seed routes: item at index %d: %w", i+1, err)
		}
		routes = append(routes, r)
	}

	for _, r := range routes {
		if _, err := store.SaveRoute(ctx, r); err != nil {
			return 0, fmt.Errorf("seed routes: save %s: %w", r.ID, err)
		}
	}

	return len(routes), nil
}
