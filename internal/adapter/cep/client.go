// Package cep resolves Brazilian postal codes (CEP) to coordinates via the
// BrasilAPI CEP v2 endpoint, for policies whose export lacks lat/lon.
package cep

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meridianseguros/claims-backfill/internal/domain"
	"github.com/meridianseguros/claims-backfill/internal/observability"
)

// Client implements domain.Geocoder using BrasilAPI.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a BrasilAPI CEP client.
func NewClient(timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    "https://brasilapi.com.br/api/cep/v2",
		metrics:    metrics,
		logger:     logger,
	}
}

// LookupPostalCode resolves a CEP to coordinates. An unknown CEP or a known
// CEP without coordinates yields a zero Geo and no error; callers treat that
// as "not found" and fall back.
func (c *Client) LookupPostalCode(ctx context.Context, postalCode string) (domain.Geo, error) {
	cepDigits := strings.ReplaceAll(strings.TrimSpace(postalCode), "-", "")
	if cepDigits == "" {
		return domain.Geo{}, fmt.Errorf("empty postal code")
	}

	fullURL := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(cepDigits))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return domain.Geo{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.CEPLookups.WithLabelValues("error").Inc()
		return domain.Geo{}, fmt.Errorf("cep request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.CEPLookups.WithLabelValues("empty").Inc()
		return domain.Geo{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.metrics.CEPLookups.WithLabelValues("error").Inc()
		return domain.Geo{}, fmt.Errorf("brasilapi error: status %d: %s", resp.StatusCode, body)
	}

	var payload response
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.metrics.CEPLookups.WithLabelValues("error").Inc()
		return domain.Geo{}, fmt.Errorf("decode response: %w", err)
	}

	geo := payload.geo()
	if geo.IsZero() {
		c.metrics.CEPLookups.WithLabelValues("empty").Inc()
		return domain.Geo{}, nil
	}
	c.metrics.CEPLookups.WithLabelValues("success").Inc()
	return geo, nil
}

// BrasilAPI CEP v2 response types. Coordinates arrive as strings.

type response struct {
	Location struct {
		Coordinates struct {
			Latitude  string `json:"latitude"`
			Longitude string `json:"longitude"`
		} `json:"coordinates"`
	} `json:"location"`
}

func (r response) geo() domain.Geo {
	lat, errLat := strconv.ParseFloat(r.Location.Coordinates.Latitude, 64)
	lon, errLon := strconv.ParseFloat(r.Location.Coordinates.Longitude, 64)
	if errLat != nil || errLon != nil {
		return domain.Geo{}
	}
	return domain.Geo{Lat: lat, Lon: lon}
}
