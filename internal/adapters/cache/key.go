package cache

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
	"transit-map-service/internal/domain"
)

// SearchKey folds case and whitespace so equivalent queries share an entry.
func SearchKey(query string) string {
	return strings.ToLower(strings.Join(strings.Fields(query), " "))
}

// GeometryKey identifies an ordered waypoint list. Coordinates are rounded
// to six decimals, about 10 cm.
func GeometryKey(waypoints []domain.LatLng) string {
	h := sha1.New()
	for _, w := range waypoints {
		fmt.Fprintf(h, "%.6f,%.6f;", w.Lat, w.Lng)
	}
	return hex.EncodeToString(h.Sum(nil))
}
