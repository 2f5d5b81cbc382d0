package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulmach/orb/geojson"
)

var (
	ErrInsufficientPoints = errors.New("at least two points are required")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
)

// ComputationError reports a routing provider call that failed, carrying
// the upstream HTTP status for the status surface.
type ComputationError struct {
	StatusCode int
	Body       string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("routing provider error %d: %s", e.StatusCode, e.Body)
}

type Profile string

const (
	ProfileDriving Profile = "driving-car"
	ProfileCycling Profile = "cycling-regular"
	ProfileWalking Profile = "foot-walking"
)

type Waypoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Result carries the computed route. Distance and duration stay nil when a
// successful payload omits its summary; that is not an error. IsFallback
// marks the straight-line route used when no provider key is configured.
type Result struct {
	Geometry        *geojson.FeatureCollection `json:"geometry"`
	DistanceMeters  *float64                   `json:"distance_meters,omitempty"`
	DurationSeconds *float64                   `json:"duration_seconds,omitempty"`
	IsFallback      bool                       `json:"is_fallback"`
}

type Provider interface {
	// Compute returns a route visiting the points in the given order.
	Compute(ctx context.Context, points []Waypoint, profile Profile) (*Result, error)
}
