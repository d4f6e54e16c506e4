package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"transit-map-service/internal/adapters/repositories"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/drawing"
	"transit-map-service/internal/ports"
)

var denseBerrini = []domain.LatLng{
	{Lat: -23.59, Lng: -46.68},
	{Lat: -23.595, Lng: -46.6825},
	{Lat: -23.60, Lng: -46.685},
}

func TestCommitScenario(t *testing.T) {
	ctx := context.Background()

	s := drawing.NewSession()
	s.Start(nil)
	if err := s.AppendPoint(-23.59, -46.68); err != nil {
		t.Fatalf("append point: %v", err)
	}
	if err := s.AppendFromAddressResult(s.Generation(), domain.LatLng{Lat: -23.60, Lng: -46.685}); err != nil {
		t.Fatalf("append address: %v", err)
	}

	draft, err := s.BeginCommit("Linha X", "07:00", "desc")
	if err != nil {
		t.Fatalf("begin commit: %v", err)
	}

	opt := &fakeOptimizer{path: denseBerrini}
	p := &CommitPipeline{Optimizer: opt}
	geometry, optimized := p.CommitRoute(ctx, draft.Waypoints)
	if !optimized {
		t.Fatalf("expected optimized geometry")
	}

	r := NewRouteFromDraft(draft, geometry, RouteDefaults{CompanyID: "comp-1", CompanyName: "TransExpress"})
	if err := s.FinishCommit(draft.Generation); err != nil {
		t.Fatalf("finish commit: %v", err)
	}

	if len(r.Waypoints) != 2 {
		t.Fatalf("expected 2 waypoints, got %d", len(r.Waypoints))
	}
	if len(r.Geometry) != 3 {
		t.Fatalf("expected 3 geometry points, got %d", len(r.Geometry))
	}
	if r.Status != domain.StatusNormal {
		t.Fatalf("expected NORMAL, got %s", r.Status)
	}
	if !r.Waypoints[1].IsStop || r.Waypoints[0].IsStop {
		t.Fatalf("unexpected stop flags %+v", r.Waypoints)
	}
	if r.AccessToken != "meuonibus://route/"+r.ID {
		t.Fatalf("unexpected access token %q", r.AccessToken)
	}
	if r.Schedule != "07:00" || r.ItineraryText != "desc" || r.IsOffRoute {
		t.Fatalf("unexpected route %+v", r)
	}
	if err := r.Validate(); err != nil {
		t.Fatalf("built route invalid: %v", err)
	}
	if s.Drawing() || len(s.Points()) != 0 {
		t.Fatalf("session not consumed")
	}
}

func TestCommitFallsBackOnError(t *testing.T) {
	waypoints := []domain.Waypoint{
		{LatLng: domain.LatLng{Lat: -23.59, Lng: -46.68}, IsStop: true},
		{LatLng: domain.LatLng{Lat: -23.62, Lng: -46.70}},
		{LatLng: domain.LatLng{Lat: -23.65, Lng: -46.72}, IsStop: true},
	}

	p := &CommitPipeline{Optimizer: &fakeOptimizer{err: errUpstream}}
	geometry, optimized := p.CommitRoute(context.Background(), waypoints)

	if optimized {
		t.Fatalf("expected fallback")
	}
	if len(geometry) != len(waypoints) {
		t.Fatalf("expected %d points, got %d", len(waypoints), len(geometry))
	}
	for i := range waypoints {
		if geometry[i] != waypoints[i].LatLng {
			t.Fatalf("point %d = %+v, want %+v", i, geometry[i], waypoints[i].LatLng)
		}
	}
}

func TestCommitFallsBackOnEmptyOrDistantGeometry(t *testing.T) {
	waypoints := []domain.Waypoint{
		{LatLng: domain.LatLng{Lat: -23.59, Lng: -46.68}},
		{LatLng: domain.LatLng{Lat: -23.60, Lng: -46.685}},
	}

	cases := []struct {
		name string
		path []domain.LatLng
	}{
		{"empty", nil},
		{"wrong start", []domain.LatLng{{Lat: -23.50, Lng: -46.68}, {Lat: -23.60, Lng: -46.685}}},
		{"wrong end", []domain.LatLng{{Lat: -23.59, Lng: -46.68}, {Lat: -23.70, Lng: -46.685}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cache := newFakeGeometryCache()
			p := &CommitPipeline{Optimizer: &fakeOptimizer{path: tc.path}, Cache: cache}
			geometry, optimized := p.CommitRoute(context.Background(), waypoints)
			if optimized || len(geometry) != 2 {
				t.Fatalf("expected fallback to waypoints, got %v", geometry)
			}
			if cache.puts != 0 {
				t.Fatalf("rejected geometry was cached")
			}
		})
	}
}

func TestCommitWithinTolerance(t *testing.T) {
	waypoints := []domain.Waypoint{
		{LatLng: domain.LatLng{Lat: -23.59, Lng: -46.68}},
		{LatLng: domain.LatLng{Lat: -23.60, Lng: -46.685}},
	}
	// snapped about 100 m from each waypoint
	snapped := []domain.LatLng{{Lat: -23.5909, Lng: -46.68}, {Lat: -23.595, Lng: -46.683}, {Lat: -23.6009, Lng: -46.685}}

	p := &CommitPipeline{Optimizer: &fakeOptimizer{path: snapped}}
	if _, optimized := p.CommitRoute(context.Background(), waypoints); !optimized {
		t.Fatalf("expected snapped geometry to be accepted")
	}

	p.Tolerance = 50
	if _, optimized := p.CommitRoute(context.Background(), waypoints); optimized {
		t.Fatalf("expected rejection under a 50 m tolerance")
	}
}

func TestCommitUsesCache(t *testing.T) {
	ctx := context.Background()
	waypoints := []domain.Waypoint{
		{LatLng: denseBerrini[0]},
		{LatLng: denseBerrini[2]},
	}

	opt := &fakeOptimizer{path: denseBerrini}
	cache := newFakeGeometryCache()
	p := &CommitPipeline{Optimizer: opt, Cache: cache}

	p.CommitRoute(ctx, waypoints)
	geometry, optimized := p.CommitRoute(ctx, waypoints)

	if !optimized || len(geometry) != 3 {
		t.Fatalf("unexpected second commit %v %v", geometry, optimized)
	}
	if opt.calls != 1 {
		t.Fatalf("expected a single optimizer call, got %d", opt.calls)
	}
}

func TestCommitWithoutOptimizer(t *testing.T) {
	waypoints := []domain.Waypoint{{LatLng: denseBerrini[0]}, {LatLng: denseBerrini[2]}}
	p := &CommitPipeline{}
	geometry, optimized := p.CommitRoute(context.Background(), waypoints)
	if optimized || len(geometry) != 2 {
		t.Fatalf("expected raw waypoints, got %v", geometry)
	}
}

func TestApplyDraftKeepsIdentity(t *testing.T) {
	r := &domain.Route{
		ID:                  "route-1",
		Name:                "Old",
		CompanyID:           "comp-1",
		Status:              domain.StatusTraffic,
		IncidentDescription: "Trânsito",
		AccessToken:         "meuonibus://route/1",
	}
	d := drawing.Draft{
		Name:          "New",
		Schedule:      "08:00",
		ItineraryText: "via Marginal",
		Waypoints:     []domain.Waypoint{{LatLng: denseBerrini[0]}, {LatLng: denseBerrini[2]}},
	}

	ApplyDraft(r, d, denseBerrini)

	if r.Name != "New" || r.Schedule != "08:00" || len(r.Geometry) != 3 || len(r.Waypoints) != 2 {
		t.Fatalf("authored fields not applied: %+v", r)
	}
	if r.Status != domain.StatusTraffic || r.AccessToken != "meuonibus://route/1" || r.CompanyID != "comp-1" {
		t.Fatalf("identity fields changed: %+v", r)
	}
}

func TestAccessToken(t *testing.T) {
	if got := AccessToken("", "42"); got != "meuonibus://route/42" {
		t.Fatalf("AccessToken = %q", got)
	}
	if got := AccessToken("linha", "42"); got != "linha://route/42" {
		t.Fatalf("AccessToken = %q", got)
	}
}

func seededStore(t *testing.T) *repositories.MemoryRouteStore {
	t.Helper()
	s := repositories.NewMemoryRouteStore()
	_, err := s.SaveRoute(context.Background(), &domain.Route{
		ID:          "route-1",
		Name:        "Fretado Berrini - Santo Amaro",
		Status:      domain.StatusNormal,
		AccessToken: "meuonibus://route/1",
		Waypoints:   []domain.Waypoint{{LatLng: denseBerrini[0]}, {LatLng: denseBerrini[2]}},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return s
}

func TestMatchAccessTokenNotFound(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)
	before, _, _ := s.GetRoute(ctx, "route-1")

	_, err := MatchAccessToken(ctx, s, "route/42")
	if !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}

	after, _, _ := s.GetRoute(ctx, "route-1")
	if after.Revision != before.Revision {
		t.Fatalf("lookup mutated the store")
	}
}

func TestMatchAccessTokenExact(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	r, err := MatchAccessToken(ctx, s, "meuonibus://route/1")
	if err != nil || r.ID != "route-1" {
		t.Fatalf("expected route-1, got %v %v", r, err)
	}
	if _, err := MatchAccessToken(ctx, s, "meuonibus://route/1 "); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected exact equality, got %v", err)
	}
	if _, err := MatchAccessToken(ctx, s, ""); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected not found for empty payload, got %v", err)
	}
}

func TestReportIncident(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		incident domain.IncidentType
		want     domain.RouteStatus
	}{
		{domain.IncidentClear, domain.StatusNormal},
		{domain.IncidentTraffic, domain.StatusTraffic},
		{domain.IncidentBreakdown, domain.StatusDelayed},
		{domain.IncidentAccident, domain.StatusDelayed},
		{domain.IncidentOther, domain.StatusDelayed},
	}
	for _, tc := range cases {
		t.Run(string(tc.incident), func(t *testing.T) {
			s := seededStore(t)
			r, err := ReportIncident(ctx, s, fakeSummarizer{text: "Atraso previsto"}, "route-1", tc.incident, "")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Status != tc.want {
				t.Fatalf("status = %s, want %s", r.Status, tc.want)
			}
			if r.IncidentDescription != "Atraso previsto" {
				t.Fatalf("unexpected description %q", r.IncidentDescription)
			}
		})
	}
}

func TestReportIncidentFallbackAndNotFound(t *testing.T) {
	ctx := context.Background()
	s := seededStore(t)

	r, err := ReportIncident(ctx, s, fakeSummarizer{err: errUpstream}, "route-1", domain.IncidentBreakdown, "pneu")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.IncidentDescription != FallbackIncidentMessage {
		t.Fatalf("expected fallback message, got %q", r.IncidentDescription)
	}

	if got := DescribeIncident(ctx, fakeSummarizer{text: "   "}, domain.IncidentOther, ""); got != FallbackIncidentMessage {
		t.Fatalf("blank summary should fall back, got %q", got)
	}

	padded := "  Atraso na Marginal.\n"
	r, err = ReportIncident(ctx, s, fakeSummarizer{text: padded}, "route-1", domain.IncidentTraffic, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.IncidentDescription != padded {
		t.Fatalf("summary not stored verbatim: %q", r.IncidentDescription)
	}

	if _, err := ReportIncident(ctx, s, nil, "missing", domain.IncidentOther, ""); !errors.Is(err, ErrRouteNotFound) {
		t.Fatalf("expected ErrRouteNotFound, got %v", err)
	}
}

func TestSearchAddress(t *testing.T) {
	ctx := context.Background()
	hit := []ports.AddressResult{{Name: "Praça da Sé", Location: domain.LatLng{Lat: -23.5503, Lng: -46.6339}}}

	lookup := &fakeLookup{results: hit}
	cache := &fakeSearchCache{entries: map[string][]ports.AddressResult{}}
	a := &AddressSearch{Lookup: lookup, Cache: cache}

	if got := a.Search(ctx, " Sé "); len(got) != 0 || lookup.calls != 0 {
		t.Fatalf("short query should not reach lookup")
	}
	if got := a.Search(ctx, "Praç"); len(got) != 1 {
		t.Fatalf("expected 1 result for a 4-rune query, got %d", len(got))
	}
	a.Search(ctx, "Praç")
	if lookup.calls != 1 {
		t.Fatalf("expected cached second search, got %d lookups", lookup.calls)
	}

	lookup.err = errUpstream
	got := a.Search(ctx, "Avenida Paulista")
	if got == nil || len(got) != 0 {
		t.Fatalf("failure should degrade to an empty list, got %v", got)
	}
	if strings.Contains(strings.Join(keys(cache.entries), ","), "Avenida") {
		t.Fatalf("failed lookup was cached")
	}
}

func keys(m map[string][]ports.AddressResult) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
