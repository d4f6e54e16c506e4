// Package summary produces passenger-facing incident messages.
package summary

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"transit-map-service/internal/domain"
	"transit-map-service/internal/platform/httpx"
	"transit-map-service/internal/platform/obs"
)

type summaryRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

type summaryResponse struct {
	Text string `json:"text"`
}

// HTTPSummarizer delegates to a text-generation endpoint that accepts
// {type, description, language} and answers {text}.
type HTTPSummarizer struct {
	http     *httpx.Client
	endpoint string
}

func NewHTTPSummarizer(endpoint, apiKey string, timeout time.Duration) (*HTTPSummarizer, error) {
	if strings.TrimSpace(endpoint) == "" {
		return nil, errors.New("summary endpoint is empty")
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	headers := map[string]string{}
	if apiKey != "" {
		headers["Authorization"] = "Bearer " + apiKey
	}

	return &HTTPSummarizer{
		http:     httpx.New(timeout, headers),
		endpoint: endpoint,
	}, nil
}

func (s *HTTPSummarizer) Summarize(
	ctx context.Context,
	incident domain.IncidentType,
	description string,
) (_ string, err error) {
	defer obs.Time(ctx, "summary.Summarize")(&err)

	b, err := json.Marshal(summaryRequest{
		Type:        string(incident),
		Description: description,
		Language:    "pt-BR",
	})
	if err != nil {
		return "", fmt.Errorf("summarize: encode request: %w", err)
	}

	resp, err := s.http.DoWithRetry(ctx, func() (*http.Request, error) {
		return s.http.NewRequest(ctx, http.MethodPost, s.endpoint, bytes.NewReader(b))
	})
	if err != nil {
		return "", fmt.Errorf("summarize: execute request: %w", err)
	}
	defer resp.Body.Close()

	var decoded summaryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("summarize: decode response: %w", err)
	}

	if strings.TrimSpace(decoded.Text) == "" {
		return "", errors.New("summarize: empty text in response")
	}
	return decoded.Text, nil
}
