package ports

import (
	"context"
	"transit-map-service/internal/domain"
)

// Contract for producing a passenger-facing message about an incident.
type IncidentSummarizer interface {
	Summarize(ctx context.Context, incident domain.IncidentType, description string) (string, error)
}
