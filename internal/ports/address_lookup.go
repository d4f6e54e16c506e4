package ports

import (
	"context"
	"transit-map-service/internal/domain"
)

// One candidate returned by an address search.
type AddressResult struct {
	Name     string        `json:"name"`
	Location domain.LatLng `json:"location"`
}

// Contract for resolving free text into candidate coordinates.
type AddressLookup interface {
	Search(ctx context.Context, text string) ([]AddressResult, error)
}

// Persistent cache for address searches keyed by normalized query text.
type SearchCache interface {
	Get(ctx context.Context, query string) ([]AddressResult, bool, error)
	Put(ctx context.Context, query string, results []AddressResult) error
}
