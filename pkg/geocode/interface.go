package geocode

import (
	"context"
	"encoding/json"
	"errors"
)

var (
	// ErrNotFound means the provider returned no candidate at all.
	ErrNotFound = errors.New("no geocoding result")
	// ErrInvalidResult means the provider answered with unusable coordinates.
	ErrInvalidResult = errors.New("invalid geocoding result")
)

// Place is the normalized output of a lookup: provider geometries arrive in
// [lon, lat] order and are swapped to lat/lng here.
type Place struct {
	Lat         float64         `json:"lat"`
	Lng         float64         `json:"lng"`
	DisplayName string          `json:"display_name"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}

type Provider interface {
	// Forward resolves a free-text query to the first candidate place.
	Forward(ctx context.Context, query string) (*Place, error)
	// Reverse resolves coordinates to the nearest known place.
	Reverse(ctx context.Context, lat, lng float64) (*Place, error)
}
