package handlers

import (
	"net/http"
	"strconv"
	"transit-map-service/internal/api/dto"
	"transit-map-service/internal/dashboard"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/drawing"

	"github.com/go-chi/chi/v5"
)

func writeDrawing(w http.ResponseWriter, r *http.Request, op string, st dashboard.DrawingState, err error) {
	if err != nil {
		writeServiceError(w, r, op, err)
		return
	}
	writeJSON(w, r, http.StatusOK, st)
}

func (h *ViewerHandler) GetDrawing(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	st, err := d.Drawing(r.Context())
	writeDrawing(w, r, "get drawing", st, err)
}

// StartDrawing opens a session; the body is optional and names the route
// to edit.
func (h *ViewerHandler) StartDrawing(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.StartDrawingRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	st, err := d.StartDrawing(r.Context(), req.TargetRouteID)
	writeDrawing(w, r, "start drawing", st, err)
}

func (h *ViewerHandler) DiscardDrawing(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	st, err := d.DiscardDrawing(r.Context())
	writeDrawing(w, r, "discard drawing", st, err)
}

// AppendAddress adds the stop chosen from an address search. The
// generation must be the one returned when the search was started.
func (h *ViewerHandler) AppendAddress(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.AppendAddressRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	st, err := d.AppendAddress(r.Context(), *req.Generation, domain.LatLng{Lat: *req.Lat, Lng: *req.Lng})
	writeDrawing(w, r, "append address", st, err)
}

func pointIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "index must be an integer")
		return 0, false
	}
	return i, true
}

// PatchPoint moves, renames and toggles one point, in that order.
func (h *ViewerHandler) PatchPoint(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	i, ok := pointIndex(w, r)
	if !ok {
		return
	}
	var req dto.PatchPointRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		writeError(w, r, http.StatusBadRequest, "lat and lng must be given together")
		return
	}
	if req.Lat != nil && (*req.Lat < -90 || *req.Lat > 90 || *req.Lng < -180 || *req.Lng > 180) {
		writeError(w, r, http.StatusBadRequest, "coordinates out of range")
		return
	}

	edit := drawing.PointEdit{StopName: req.StopName, ToggleStop: req.ToggleStop}
	if req.Lat != nil {
		edit.MoveTo = &domain.LatLng{Lat: *req.Lat, Lng: *req.Lng}
	}
	st, err := d.PatchPoint(r.Context(), i, edit)
	writeDrawing(w, r, "patch point", st, err)
}

func (h *ViewerHandler) DeletePoint(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	i, ok := pointIndex(w, r)
	if !ok {
		return
	}
	st, err := d.RemovePoint(r.Context(), i)
	writeDrawing(w, r, "remove point", st, err)
}

// Commit runs the commit pipeline and answers with the stored route.
func (h *ViewerHandler) Commit(w http.ResponseWriter, r *http.Request) {
	d, ok := h.lookup(w, r)
	if !ok {
		return
	}
	var req dto.CommitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rt, err := d.Commit(r.Context(), req.Name, req.Schedule, req.ItineraryText)
	if err != nil {
		writeServiceError(w, r, "commit route", err)
		return
	}
	writeJSON(w, r, http.StatusCreated, dto.NewRouteResponse(rt))
}
