package handlers

import (
	"log"
	"net/http"
	"transit-map-service/internal/api/dto"
	"transit-map-service/internal/ports"
	"transit-map-service/internal/services"

	"github.com/go-chi/chi/v5"
)

// RouteHandler exposes read-only route retrieval endpoints.
type RouteHandler struct {
	Store ports.RouteStore
}

func (h *RouteHandler) List(w http.ResponseWriter, r *http.Request) {
	routes, err := h.Store.ListRoutes(r.Context())
	if err != nil {
		log.Printf("list routes failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	res := dto.ListRoutesResponse{
		Routes: make([]dto.RouteResponse, 0, len(routes)),
	}
	for _, rt := range routes {
		res.Routes = append(res.Routes, dto.NewRouteResponse(rt))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *RouteHandler) Get(w http.ResponseWriter, r *http.Request) {
	rt, ok, err := h.Store.GetRoute(r.Context(), chi.URLParam(r, "routeID"))
	if err != nil {
		writeServiceError(w, r, "get route", err)
		return
	}
	if !ok {
		writeServiceError(w, r, "get route", services.ErrRouteNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(rt))
}
