package poi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultOverpassBaseURL = "https://overpass-api.de/api/interpreter"

// OverpassProvider queries OpenStreetMap data through the Overpass API for
// tourism, restaurant and cafe nodes around a center point.
type OverpassProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewOverpassProvider(baseURL string) *OverpassProvider {
	if baseURL == "" {
		baseURL = defaultOverpassBaseURL
	}
	return &OverpassProvider{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (o *OverpassProvider) Nearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]Marker, error) {
	query := fmt.Sprintf(`[out:json][timeout:25];
(
  node(around:%d,%f,%f)["tourism"];
  node(around:%d,%f,%f)["amenity"="restaurant"];
  node(around:%d,%f,%f)["amenity"="cafe"];
);
out body;`, radiusMeters, lat, lng, radiusMeters, lat, lng, radiusMeters, lat, lng)

	form := url.Values{"data": {query}}
	req, err := http.NewRequestWithContext(ctx, "POST", o.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass error %d: %s", resp.StatusCode, string(body))
	}

	var overpassResp struct {
		Elements []struct {
			Lat  float64           `json:"lat"`
			Lon  float64           `json:"lon"`
			Tags map[string]string `json:"tags"`
		} `json:"elements"`
	}
	if err := json.Unmarshal(body, &overpassResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	markers := make([]Marker, 0, len(overpassResp.Elements))
	for _, element := range overpassResp.Elements {
		name := element.Tags["name"]
		if name == "" {
			// Anonymous nodes are useless as suggestions.
			continue
		}
		markers = append(markers, Marker{
			Lat:      element.Lat,
			Lng:      element.Lon,
			Name:     name,
			Category: categorize(element.Tags),
		})
	}
	return markers, nil
}

func categorize(tags map[string]string) Category {
	if tags["tourism"] != "" {
		return CategoryTourism
	}
	switch tags["amenity"] {
	case "restaurant", "cafe":
		return CategoryFood
	}
	return CategoryOther
}
