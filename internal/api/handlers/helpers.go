package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"transit-map-service/internal/dashboard"
	"transit-map-service/internal/drawing"
	"transit-map-service/internal/services"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode failed: method=%s path=%s err=%v", r.Method, r.URL.Path, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// decodeJSON reads exactly one JSON object with no unknown fields into v
// and validates it. It writes the 400 response itself and reports false
// on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	return decode(w, r, v, false)
}

// decodeOptionalJSON is decodeJSON for endpoints where the body may be
// omitted entirely.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	return decode(w, r, v, true)
}

func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) bool {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if !(optional && errors.Is(err, io.EOF)) {
			writeError(w, r, http.StatusBadRequest, "invalid json body")
			return false
		}
	} else if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return false
	}

	if err := validate.Struct(v); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeServiceError maps domain errors onto HTTP statuses. Anything it
// does not recognize is logged and reported as a 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, dashboard.ErrViewerNotFound), errors.Is(err, dashboard.ErrDashboardClosed):
		writeError(w, r, http.StatusNotFound, "viewer not found")
	case errors.Is(err, services.ErrRouteNotFound):
		writeError(w, r, http.StatusNotFound, "route not found")
	case errors.Is(err, dashboard.ErrForbidden):
		writeError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, drawing.ErrIndexOutOfRange):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, drawing.ErrInactive),
		errors.Is(err, drawing.ErrCommitInFlight),
		errors.Is(err, drawing.ErrStale),
		errors.Is(err, drawing.ErrCommitRejected),
		errors.Is(err, dashboard.ErrNoRouteSelected):
		writeError(w, r, http.StatusConflict, err.Error())
	default:
		log.Printf("%s failed: %v", op, err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}
