package api

import (
	"net/http"
	"time"
	"transit-map-service/internal/api/handlers"
	"transit-map-service/internal/dashboard"
	"transit-map-service/internal/ports"
	"transit-map-service/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type Deps struct {
	Store       ports.RouteStore
	Registry    *dashboard.Registry
	Search      *services.AddressSearch
	CORSOrigins []string
	// Now stamps the GTFS-RT feed. Defaults to time.Now.
	Now func() time.Time
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader, "Location"},
		MaxAge:         300,
	}))

	routes := &handlers.RouteHandler{Store: d.Store}
	address := &handlers.AddressHandler{Search: d.Search}
	gtfs := &handlers.FeedHandler{Registry: d.Registry, Store: d.Store, Now: d.Now}
	viewers := &handlers.ViewerHandler{Registry: d.Registry}

	r.Get("/health", handlers.Health)
	r.Get("/routes", routes.List)
	r.Get("/routes/{routeID}", routes.Get)
	r.Get("/address", address.Lookup)
	r.Get("/gtfs-rt/vehicle-positions", gtfs.VehiclePositions)

	r.Post("/viewers", viewers.Create)
	r.Route("/viewers/{viewerID}", func(r chi.Router) {
		r.Get("/", viewers.Get)
		r.Delete("/", viewers.Delete)
		r.Get("/scene", viewers.Scene)
		r.Put("/style", viewers.SetStyle)
		r.Put("/navigation", viewers.SetNavigation)
		r.Put("/selection", viewers.Select)
		r.Put("/running", viewers.SetRunning)
		r.Post("/scan", viewers.Scan)
		r.Post("/incidents", viewers.ReportIncident)
		r.Post("/map/click", viewers.Click)
		r.Post("/map/drag", viewers.Drag)

		r.Get("/drawing", viewers.GetDrawing)
		r.Post("/drawing", viewers.StartDrawing)
		r.Delete("/drawing", viewers.DiscardDrawing)
		r.Post("/drawing/address", viewers.AppendAddress)
		r.Patch("/drawing/points/{index}", viewers.PatchPoint)
		r.Delete("/drawing/points/{index}", viewers.DeletePoint)
		r.Post("/drawing/commit", viewers.Commit)
	})

	return r
}
