package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

const defaultORSBaseURL = "https://api.openrouteservice.org"

// ORSProvider computes routes through the openrouteservice directions API.
// Without an API key it degrades to a straight-line route instead of
// failing: a deliberate offline mode, not an error.
type ORSProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewORSProvider(apiKey, baseURL string) *ORSProvider {
	if baseURL == "" {
		baseURL = defaultORSBaseURL
	}
	return &ORSProvider{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (o *ORSProvider) Compute(ctx context.Context, points []Waypoint, profile Profile) (*Result, error) {
	if len(points) < 2 {
		return nil, ErrInsufficientPoints
	}

	coords := make([][2]float64, len(points))
	for i, p := range points {
		if !finite(p.Lat) || !finite(p.Lng) {
			return nil, ErrInvalidCoordinates
		}
		// ORS wants [lon, lat] pairs.
		coords[i] = [2]float64{p.Lng, p.Lat}
	}

	if o.apiKey == "" {
		return straightLine(coords), nil
	}

	if profile == "" {
		profile = ProfileDriving
	}

	payload, err := json.Marshal(map[string]interface{}{"coordinates": coords})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	apiURL := fmt.Sprintf("%s/v2/directions/%s/geojson", o.baseURL, profile)
	req, err := http.NewRequestWithContext(ctx, "POST", apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", o.apiKey)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ComputationError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, &ComputationError{StatusCode: resp.StatusCode, Body: "malformed geojson payload"}
	}
	if len(fc.Features) == 0 {
		return nil, &ComputationError{StatusCode: resp.StatusCode, Body: "no route feature in payload"}
	}

	result := &Result{Geometry: fc}
	if summary, ok := fc.Features[0].Properties["summary"].(map[string]interface{}); ok {
		if distance, ok := summary["distance"].(float64); ok {
			result.DistanceMeters = &distance
		}
		if duration, ok := summary["duration"].(float64); ok {
			result.DurationSeconds = &duration
		}
	}
	return result, nil
}

// straightLine synthesizes a LineString through the points in order.
func straightLine(coords [][2]float64) *Result {
	line := make(orb.LineString, len(coords))
	for i, c := range coords {
		line[i] = orb.Point{c[0], c[1]}
	}
	feature := geojson.NewFeature(line)
	feature.Properties["fallback"] = true

	fc := geojson.NewFeatureCollection()
	fc.Append(feature)
	return &Result{Geometry: fc, IsFallback: true}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
