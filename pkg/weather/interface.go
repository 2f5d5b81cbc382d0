package weather

import "context"

// Summary is a short display-ready description of current conditions.
type Summary struct {
	Text string `json:"text"`
	Icon string `json:"icon,omitempty"`
}

// Provider returns current conditions for a coordinate. Implementations
// return (nil, nil) when unconfigured or on failure: weather is optional
// enrichment and must degrade silently.
type Provider interface {
	Current(ctx context.Context, lat, lng float64) (*Summary, error)
}
