package summary

import (
	"context"
	"fmt"
	"strings"
	"text/template"
	"transit-map-service/internal/domain"
)

var messages = template.Must(template.New("incident").Parse(
	`{{- if eq .Type "CLEAR" -}}
A linha voltou a operar normalmente.
{{- else -}}
{{ .Headline }}{{ if .Description }} {{ .Description }}{{ end }} {{ .Advice }}
{{- end -}}`))

var headlines = map[domain.IncidentType]struct {
	headline string
	advice   string
}{
	domain.IncidentBreakdown: {"O ônibus apresentou uma falha mecânica.", "Considere uma linha alternativa; a espera pode passar de 30 minutos."},
	domain.IncidentTraffic:   {"Trânsito intenso no trajeto.", "Espere atrasos de 10 a 20 minutos e acompanhe o mapa."},
	domain.IncidentAccident:  {"Houve um acidente no trajeto.", "O serviço pode atrasar; acompanhe o mapa para atualizações."},
	domain.IncidentOther:     {"Ocorreu um imprevisto na linha.", "Acompanhe o mapa para atualizações em tempo real."},
}

// TemplateSummarizer renders canned Portuguese messages without any
// network call. It is used when no summary endpoint is configured.
type TemplateSummarizer struct{}

func (TemplateSummarizer) Summarize(
	_ context.Context,
	incident domain.IncidentType,
	description string,
) (string, error) {
	h, ok := headlines[incident]
	if !ok && incident != domain.IncidentClear {
		return "", fmt.Errorf("summarize: unknown incident type %q", incident)
	}

	desc := strings.TrimSpace(description)
	if desc != "" && !strings.HasSuffix(desc, ".") {
		desc += "."
	}

	var sb strings.Builder
	err := messages.Execute(&sb, struct {
		Type        string
		Headline    string
		Description string
		Advice      string
	}{string(incident), h.headline, desc, h.advice})
	if err != nil {
		return "", fmt.Errorf("summarize: render template: %w", err)
	}
	return sb.String(), nil
}
