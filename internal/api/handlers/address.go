package handlers

import (
	"net/http"
	"transit-map-service/internal/api/dto"
	"transit-map-service/internal/services"
)

type AddressHandler struct {
	Search *services.AddressSearch
}

// Lookup never fails: short queries and collaborator errors both yield an
// empty result list.
func (h *AddressHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	results := h.Search.Search(r.Context(), r.URL.Query().Get("q"))
	writeJSON(w, r, http.StatusOK, dto.AddressSearchResponse{Results: results})
}
