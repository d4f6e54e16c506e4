package services

import (
	"context"
	"errors"
	"fmt"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/ports"
)

// ErrRouteNotFound is the normal negative outcome of a lookup.
var ErrRouteNotFound = errors.New("route not found")

// MatchAccessToken finds the route whose access token equals payload
// exactly. No match yields ErrRouteNotFound.
func MatchAccessToken(ctx context.Context, store ports.RouteStore, payload string) (*domain.Route, error) {
	if payload == "" {
		return nil, ErrRouteNotFound
	}

	routes, err := store.ListRoutes(ctx)
	if err != nil {
		return nil, fmt.Errorf("match access token: list routes: %w", err)
	}

	for _, r := range routes {
		if r.AccessToken == payload {
			return r, nil
		}
	}
	return nil, ErrRouteNotFound
}
