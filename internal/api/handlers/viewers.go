package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"transit-map-service/internal/api/dto"
	"transit-map-service/internal/dashboard"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/render"
	"transit-map-service/internal/services"

	"github.com/go-chi/chi/v5"
)

// ViewerHandler drives the dashboards of connected viewers.
type ViewerHandler struct {
	Registry *dashboard.Registry
}

// lookup resolves {viewerID}; it writes the 404 itself.
func (h *ViewerHandler) lookup(w http.ResponseWriter, r *http.Request) (*dashboard.Dashboard, bool) {
	d, err := h.Registry.Get(chi.URLParam(r, "viewerID"))
	if err != nil {
		writeServiceError(w, r, "get viewer", err)
		return nil, false
	}
	return d, true
}

// writeState answers a command with the dashboard state after it ran.
func (h *ViewerHandler) writeState(w http.ResponseWriter, r *http.Request, d *dashboard.Dashboard, status int) {
	st, err := d.State(r.Context())
	if err != nil {
		writeServiceError(w, r, "viewer state", err)
		return
	}
	writeJSON(w, r, status, dto.ViewerResponse{ViewerID: d.Viewer().ID, State: st})
}

func (h *ViewerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateViewerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	role, err := domain.ParseRole(req.Role)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "role must be one of USER, DRIVER, COMPANY")
		return
	}

	d, err := h.Registry.Open(role, req.CompanyID)
	if err != nil {
		log.Printf("open viewer failed: role=%s err=%v", role, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/viewers/%s", d.Viewer().ID))
	h.writeState(w, r, d, http.StatusCreated)
}

func (h *ViewerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.Registry.Close(chi.URLParam(r, "viewerID")); err != nil {
		writeServiceError(w, r, "close viewer", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ViewerHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	h.writeState(w, r, d, http.StatusOK)
}

func (h *ViewerHandler) Scene(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	v, err := d.View(r.Context())
	if err != nil {
		writeServiceError(w, r, "export scene", err)
		return
	}
	writeJSON(w, r, http.StatusOK, v)
}

func (h *ViewerHandler) SetStyle(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.TileStyleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := d.SetTileStyle(r.Context(), domain.TileStyle(req.TileStyle)); err != nil {
		writeServiceError(w, r, "set tile style", err)
		return
	}
	h.writeState(w, r, d, http.StatusOK)
}

func (h *ViewerHandler) SetNavigation(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.NavigationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := d.SetNavigation(r.Context(), *req.Enabled); err != nil {
		writeServiceError(w, r, "set navigation", err)
		return
	}
	h.writeState(w, r, d, http.StatusOK)
}

func (h *ViewerHandler) Select(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.SelectionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := d.SelectRoute(r.Context(), req.RouteID); err != nil {
		writeServiceError(w, r, "select route", err)
		return
	}
	h.writeState(w, r, d, http.StatusOK)
}

func (h *ViewerHandler) SetRunning(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.RunningRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := d.SetRunning(r.Context(), *req.Running); err != nil {
		writeServiceError(w, r, "set running", err)
		return
	}
	h.writeState(w, r, d, http.StatusOK)
}

// Scan selects the route printed on a QR code.
func (h *ViewerHandler) Scan(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.ScanRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rt, err := d.Scan(r.Context(), req.Payload)
	if err != nil {
		if errors.Is(err, services.ErrRouteNotFound) {
			writeError(w, r, http.StatusNotFound, "code not recognized")
			return
		}
		writeServiceError(w, r, "scan", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(rt))
}

func (h *ViewerHandler) ReportIncident(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.IncidentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	incident, err := domain.ParseIncidentType(req.Type)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "type must be one of BREAKDOWN, TRAFFIC, ACCIDENT, OTHER, CLEAR")
		return
	}

	rt, err := d.ReportIncident(r.Context(), incident, req.Description)
	if err != nil {
		writeServiceError(w, r, "report incident", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.NewRouteResponse(rt))
}

func (h *ViewerHandler) Click(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.ClickRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	handled, err := d.Click(r.Context(), domain.LatLng{Lat: *req.Lat, Lng: *req.Lng})
	if err != nil {
		writeServiceError(w, r, "map click", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.GestureResponse{Handled: handled})
}

func (h *ViewerHandler) Drag(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.DragRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	to := domain.LatLng{Lat: *req.Lat, Lng: *req.Lng}
	handled, err := d.Drag(r.Context(), render.LayerID(req.LayerID), to)
	if err != nil {
		writeServiceError(w, r, "map drag", err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.GestureResponse{Handled: handled})
}
