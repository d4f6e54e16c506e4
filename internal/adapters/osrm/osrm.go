// Package osrm is a route optimizer backed by an OSRM route service.
package osrm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/platform/httpx"
	"transit-map-service/internal/platform/obs"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const DefaultBaseURL = "https://router.project-osrm.org"

// OSRM response format
type routeResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry *geojson.Geometry `json:"geometry"`
	} `json:"routes"`
}

type Optimizer struct {
	http    *httpx.Client
	baseURL string
	profile string
}

func New(baseURL string, timeout time.Duration) *Optimizer {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Optimizer{
		http:    httpx.New(timeout, nil),
		baseURL: strings.TrimRight(baseURL, "/"),
		profile: "driving",
	}
}

// Optimize returns the full-overview geometry of the fastest route that
// visits waypoints in order.
func (o *Optimizer) Optimize(ctx context.Context, waypoints []domain.LatLng) (_ []domain.LatLng, err error) {
	defer obs.Time(ctx, "osrm.Optimize")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("osrm optimize: need at least 2 waypoints, got %d", len(waypoints))
	}

	pairs := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		pairs = append(pairs, fmt.Sprintf("%.6f,%.6f", w.Lng, w.Lat))
	}
	url := fmt.Sprintf("%s/route/v1/%s/%s?overview=full&geometries=geojson",
		o.baseURL, o.profile, strings.Join(pairs, ";"))

	resp, err := o.http.DoWithRetry(ctx, func() (*http.Request, error) {
		return o.http.NewRequest(ctx, http.MethodGet, url, nil)
	})
	if err != nil {
		return nil, fmt.Errorf("osrm optimize: execute request: %w", err)
	}
	defer resp.Body.Close()

	var parsed routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("osrm optimize: decode response: %w", err)
	}

	if parsed.Code != "" && parsed.Code != "Ok" {
		return nil, fmt.Errorf("osrm optimize: service returned %s", parsed.Code)
	}
	if len(parsed.Routes) == 0 || parsed.Routes[0].Geometry == nil {
		return nil, errors.New("osrm optimize: no route in response")
	}

	ls, ok := parsed.Routes[0].Geometry.Geometry().(orb.LineString)
	if !ok || len(ls) == 0 {
		return nil, errors.New("osrm optimize: route geometry is not a line")
	}

	out := make([]domain.LatLng, 0, len(ls))
	for _, p := range ls {
		out = append(out, domain.FromPoint(p))
	}
	return out, nil
}
