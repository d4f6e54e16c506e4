package handlers

import (
	"log"
	"net/http"
	"time"
	"transit-map-service/internal/dashboard"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/feed"
	"transit-map-service/internal/ports"

	"google.golang.org/protobuf/encoding/protojson"
)

// FeedHandler publishes the simulated vehicles as GTFS-Realtime.
type FeedHandler struct {
	Registry *dashboard.Registry
	Store    ports.RouteStore
	Now      func() time.Time
}

// VehiclePositions writes the protobuf feed, or its JSON form with
// ?format=json.
func (h *FeedHandler) VehiclePositions(w http.ResponseWriter, r *http.Request) {
	routes, err := h.Store.ListRoutes(r.Context())
	if err != nil {
		log.Printf("gtfs-rt list routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	byID := make(map[string]*domain.Route, len(routes))
	for _, rt := range routes {
		byID[rt.ID] = rt
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}
	msg := feed.VehiclePositions(h.Registry.Vehicles(r.Context()), byID, now())

	var (
		body        []byte
		contentType string
	)
	if r.URL.Query().Get("format") == "json" {
		body, err = protojson.Marshal(msg)
		contentType = "application/json"
	} else {
		body, err = feed.Marshal(msg)
		contentType = feed.ContentType
	}
	if err != nil {
		log.Printf("gtfs-rt encode failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf("gtfs-rt write failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}
