package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"tripway/internal/models"
)

// TripGateway talks to the trip backend's REST resource. Requests carry the
// session cookie through the shared jar; the backend owns authentication.
type TripGateway struct {
	baseURL    string
	httpClient *http.Client
}

func NewTripGateway(baseURL string) (*TripGateway, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}
	return &TripGateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
	}, nil
}

// NewTripGatewayWithClient keeps the caller's client, used by tests and by
// deployments that manage their own session transport.
func NewTripGatewayWithClient(baseURL string, client *http.Client) *TripGateway {
	return &TripGateway{baseURL: baseURL, httpClient: client}
}

func (g *TripGateway) List(ctx context.Context) ([]models.Trip, error) {
	var trips []models.Trip
	if err := g.do(ctx, "GET", "/api/trips/", nil, &trips); err != nil {
		return nil, err
	}
	return trips, nil
}

func (g *TripGateway) Get(ctx context.Context, id int64) (*models.Trip, error) {
	var trip models.Trip
	if err := g.do(ctx, "GET", fmt.Sprintf("/api/trips/%d/", id), nil, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (g *TripGateway) Create(ctx context.Context, payload *models.TripPayload) (*models.Trip, error) {
	var trip models.Trip
	if err := g.do(ctx, "POST", "/api/trips/", payload, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (g *TripGateway) Update(ctx context.Context, id int64, payload *models.TripPayload) (*models.Trip, error) {
	var trip models.Trip
	if err := g.do(ctx, "PUT", fmt.Sprintf("/api/trips/%d/", id), payload, &trip); err != nil {
		return nil, err
	}
	return &trip, nil
}

func (g *TripGateway) Delete(ctx context.Context, id int64) error {
	return g.do(ctx, "DELETE", fmt.Sprintf("/api/trips/%d/", id), nil, nil)
}

func (g *TripGateway) do(ctx context.Context, method, path string, payload, dest interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return models.ErrAuthRequired
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: trip", models.ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("trip backend error %d: %s", resp.StatusCode, string(data))
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}
