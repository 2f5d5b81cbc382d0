package geocode

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// GoogleProvider implements the same lookups against the Google Geocoding
// API for deployments that already hold a Google key.
type GoogleProvider struct {
	client *maps.Client
}

func NewGoogleProvider(apiKey string) (*GoogleProvider, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}
	return &GoogleProvider{client: client}, nil
}

func (g *GoogleProvider) Forward(ctx context.Context, query string) (*Place, error) {
	resp, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: query})
	if err != nil {
		return nil, fmt.Errorf("geocoding failed: %w", err)
	}
	return firstGoogleResult(resp)
}

func (g *GoogleProvider) Reverse(ctx context.Context, lat, lng float64) (*Place, error) {
	resp, err := g.client.ReverseGeocode(ctx, &maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: lat, Lng: lng},
	})
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding failed: %w", err)
	}
	return firstGoogleResult(resp)
}

func firstGoogleResult(results []maps.GeocodingResult) (*Place, error) {
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	first := results[0]
	lat := first.Geometry.Location.Lat
	lng := first.Geometry.Location.Lng
	if !isFinite(lat) || !isFinite(lng) {
		return nil, ErrInvalidResult
	}
	return &Place{
		Lat:         lat,
		Lng:         lng,
		DisplayName: first.FormattedAddress,
	}, nil
}
