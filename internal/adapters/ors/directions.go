package ors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/platform/obs"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type directionsRequest struct {
	Coordinates [][]float64 `json:"coordinates"`
}

// Optimize asks /v2/directions for a driving path through the waypoints,
// in order, and returns the dense line it travels.
func (c *Client) Optimize(ctx context.Context, waypoints []domain.LatLng) (_ []domain.LatLng, err error) {
	defer obs.Time(ctx, "ors.Optimize")(&err)

	if len(waypoints) < 2 {
		return nil, fmt.Errorf("ors optimize: need at least 2 waypoints, got %d", len(waypoints))
	}

	body := directionsRequest{Coordinates: make([][]float64, 0, len(waypoints))}
	for _, w := range waypoints {
		body.Coordinates = append(body.Coordinates, w.CoordsToList())
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("ors optimize: encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s/geojson", c.baseURL, c.profile)
	resp, err := c.http.DoWithRetry(ctx, func() (*http.Request, error) {
		return c.http.NewRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	})
	if err != nil {
		return nil, fmt.Errorf("ors optimize: execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ors optimize: read response: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("ors optimize: decode response: %w", err)
	}

	return pathFromFeatures(fc)
}

// pathFromFeatures joins every line string in the collection into one
// path. Consecutive duplicates at segment joints are dropped.
func pathFromFeatures(fc *geojson.FeatureCollection) ([]domain.LatLng, error) {
	var out []domain.LatLng
	appendPoint := func(p orb.Point) {
		ll := domain.FromPoint(p)
		if n := len(out); n > 0 && out[n-1] == ll {
			return
		}
		out = append(out, ll)
	}

	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.LineString:
			for _, p := range g {
				appendPoint(p)
			}
		case orb.MultiLineString:
			for _, ls := range g {
				for _, p := range ls {
					appendPoint(p)
				}
			}
		}
	}

	if len(out) == 0 {
		return nil, errors.New("ors optimize: response has no route geometry")
	}
	return out, nil
}
