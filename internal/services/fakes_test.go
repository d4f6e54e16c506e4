package services

import (
	"context"
	"errors"
	"fmt"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/ports"
)

type fakeOptimizer struct {
	path  []domain.LatLng
	err   error
	calls int
	got   []domain.LatLng
}

func (f *fakeOptimizer) Optimize(_ context.Context, waypoints []domain.LatLng) ([]domain.LatLng, error) {
	f.calls++
	f.got = append([]domain.LatLng(nil), waypoints...)
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.LatLng(nil), f.path...), nil
}

type fakeGeometryCache struct {
	entries map[string][]domain.LatLng
	puts    int
}

func newFakeGeometryCache() *fakeGeometryCache {
	return &fakeGeometryCache{entries: map[string][]domain.LatLng{}}
}

func geometryKey(w []domain.LatLng) string {
	return fmt.Sprint(w)
}

func (c *fakeGeometryCache) Get(_ context.Context, w []domain.LatLng) ([]domain.LatLng, bool, error) {
	g, ok := c.entries[geometryKey(w)]
	return g, ok, nil
}

func (c *fakeGeometryCache) Put(_ context.Context, w, g []domain.LatLng) error {
	c.puts++
	c.entries[geometryKey(w)] = g
	return nil
}

type fakeLookup struct {
	results []ports.AddressResult
	err     error
	calls   int
}

func (f *fakeLookup) Search(_ context.Context, _ string) ([]ports.AddressResult, error) {
	f.calls++
	return f.results, f.err
}

type fakeSearchCache struct {
	entries map[string][]ports.AddressResult
}

func (c *fakeSearchCache) Get(_ context.Context, q string) ([]ports.AddressResult, bool, error) {
	r, ok := c.entries[q]
	return r, ok, nil
}

func (c *fakeSearchCache) Put(_ context.Context, q string, r []ports.AddressResult) error {
	c.entries[q] = r
	return nil
}

type fakeSummarizer struct {
	text string
	err  error
}

func (f fakeSummarizer) Summarize(context.Context, domain.IncidentType, string) (string, error) {
	return f.text, f.err
}

var errUpstream = errors.New("upstream unavailable")
