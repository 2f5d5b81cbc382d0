package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

const defaultPhotonBaseURL = "https://photon.komoot.io"

// PhotonProvider queries the komoot Photon geocoder. Photon needs no API
// key, which makes it the default provider.
type PhotonProvider struct {
	baseURL    string
	limit      int
	httpClient *http.Client
}

func NewPhotonProvider(baseURL string) *PhotonProvider {
	if baseURL == "" {
		baseURL = defaultPhotonBaseURL
	}
	return &PhotonProvider{
		baseURL:    baseURL,
		limit:      5,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *PhotonProvider) Forward(ctx context.Context, query string) (*Place, error) {
	apiURL := fmt.Sprintf("%s/api/?q=%s&limit=%d", p.baseURL, url.QueryEscape(query), p.limit)
	return p.lookup(ctx, apiURL, query)
}

func (p *PhotonProvider) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	apiURL := fmt.Sprintf("%s/reverse?lon=%f&lat=%f", p.baseURL, lng, lat)
	return p.lookup(ctx, apiURL, "")
}

type photonFeature struct {
	Geometry struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
	Properties struct {
		Name    string `json:"name"`
		Street  string `json:"street"`
		City    string `json:"city"`
		County  string `json:"county"`
		Country string `json:"country"`
	} `json:"properties"`
}

func (p *PhotonProvider) lookup(ctx context.Context, apiURL, fallbackName string) (*Place, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("photon error %d: %s", resp.StatusCode, string(body))
	}

	var photonResp struct {
		Features []json.RawMessage `json:"features"`
	}
	if err := json.Unmarshal(body, &photonResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(photonResp.Features) == 0 {
		return nil, ErrNotFound
	}

	// First candidate only.
	raw := photonResp.Features[0]
	var feature photonFeature
	if err := json.Unmarshal(raw, &feature); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feature: %w", err)
	}

	coords := feature.Geometry.Coordinates
	if len(coords) < 2 {
		return nil, ErrInvalidResult
	}
	// Photon geometries are [lon, lat].
	lng, lat := coords[0], coords[1]
	if !isFinite(lat) || !isFinite(lng) {
		return nil, ErrInvalidResult
	}

	return &Place{
		Lat:         lat,
		Lng:         lng,
		DisplayName: displayName(feature, fallbackName),
		Raw:         raw,
	}, nil
}

func displayName(f photonFeature, fallback string) string {
	props := f.Properties
	for _, candidate := range []string{props.Name, props.Street, props.City, props.County, props.Country} {
		if candidate != "" {
			return candidate
		}
	}
	if fallback != "" {
		return fallback
	}
	return "Selected place"
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
