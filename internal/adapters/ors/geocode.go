package ors

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/platform/obs"
	"transit-map-service/internal/ports"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Search resolves free text through /geocode/search. Features without a
// point geometry are skipped.
func (c *Client) Search(ctx context.Context, text string) (_ []ports.AddressResult, err error) {
	defer obs.Time(ctx, "ors.Search")(&err)

	norm := normalize(text)
	if norm == "" {
		return []ports.AddressResult{}, nil
	}

	endpoint := c.baseURL + "/geocode/search"
	resp, err := c.http.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := c.http.NewRequest(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("text", norm)
		q.Set("boundary.country", c.country)
		q.Set("size", strconv.Itoa(c.size))
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return nil, fmt.Errorf("ors search: execute request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ors search: read response: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("ors search: decode response: %w", err)
	}

	out := make([]ports.AddressResult, 0, len(fc.Features))
	for _, f := range fc.Features {
		p, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		name := f.Properties.MustString("label", "")
		if name == "" {
			name = f.Properties.MustString("name", norm)
		}
		out = append(out, ports.AddressResult{
			Name:     name,
			Location: domain.FromPoint(p),
		})
	}

	return out, nil
}
