// Package ors talks to OpenRouteService for route optimization and
// address lookup.
package ors

import (
	"errors"
	"strings"
	"time"
	"transit-map-service/internal/platform/httpx"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultProfile = "driving-car"
	DefaultCountry = "BR"
)

// Client implements ports.RouteOptimizer and ports.AddressLookup.
// It is safe for concurrent use.
type Client struct {
	http    *httpx.Client
	baseURL string
	profile string
	country string
	size    int
}

type Options struct {
	BaseURL string
	Profile string
	// Country restricts geocoding to an ISO 3166-1 alpha-2 code.
	Country string
	// Size caps the number of address candidates per search.
	Size    int
	Timeout time.Duration
}

func NewClient(apiKey string, opts Options) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("ORS api key is empty")
	}

	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Profile == "" {
		opts.Profile = DefaultProfile
	}
	if opts.Country == "" {
		opts.Country = DefaultCountry
	}
	if opts.Size <= 0 {
		opts.Size = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	return &Client{
		http:    httpx.New(opts.Timeout, map[string]string{"Authorization": apiKey}),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		profile: opts.Profile,
		country: opts.Country,
		size:    opts.Size,
	}, nil
}

// normalize collapses whitespace so equivalent queries share cache keys.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
