package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/ports"
)

// FallbackIncidentMessage is shown to passengers whenever no summary can
// be produced.
const FallbackIncidentMessage = "Houve um imprevisto na linha. Recomendamos acompanhar o mapa para atualizações em tempo real."

// DescribeIncident asks the summarizer for a passenger message and falls
// back to a fixed text on any failure.
func DescribeIncident(
	ctx context.Context,
	summarizer ports.IncidentSummarizer,
	incident domain.IncidentType,
	description string,
) string {
	if summarizer == nil {
		return FallbackIncidentMessage
	}

	text, err := summarizer.Summarize(ctx, incident, description)
	if err != nil {
		log.Printf("describe incident: type=%s summarizer failed: %v", incident, err)
		return FallbackIncidentMessage
	}
	if strings.TrimSpace(text) == "" {
		return FallbackIncidentMessage
	}
	return text
}

// ApplyIncident stores the status and message produced by an incident.
func ApplyIncident(
	ctx context.Context,
	store ports.RouteStore,
	routeID string,
	incident domain.IncidentType,
	message string,
) (*domain.Route, error) {
	r, err := store.UpdateRoute(ctx, routeID, func(r *domain.Route) error {
		r.Status = incident.StatusFor()
		r.IncidentDescription = message
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("apply incident: %w", err)
	}
	return r, nil
}

// ReportIncident summarizes and stores an incident in one call.
func ReportIncident(
	ctx context.Context,
	store ports.RouteStore,
	summarizer ports.IncidentSummarizer,
	routeID string,
	incident domain.IncidentType,
	description string,
) (*domain.Route, error) {
	if _, ok, err := store.GetRoute(ctx, routeID); err != nil {
		return nil, fmt.Errorf("report incident: %w", err)
	} else if !ok {
		return nil, fmt.Errorf("report incident: route %s: %w", routeID, ErrRouteNotFound)
	}

	message := DescribeIncident(ctx, summarizer, incident, description)
	return ApplyIncident(ctx, store, routeID, incident, message)
}
