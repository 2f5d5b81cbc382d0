package poi

import "context"

type Category string

const (
	CategoryTourism Category = "tourism"
	CategoryFood    Category = "food"
	CategoryOther   Category = "other"
)

// Color returns the marker color for a category. Styling only.
func (c Category) Color() string {
	switch c {
	case CategoryTourism:
		return "gold"
	case CategoryFood:
		return "red"
	}
	return "blue"
}

// Marker is a named point of interest near a map center. Unnamed elements
// are discarded before they reach callers.
type Marker struct {
	Lat      float64  `json:"lat"`
	Lng      float64  `json:"lng"`
	Name     string   `json:"name"`
	Category Category `json:"category"`
}

type Provider interface {
	// Nearby returns points of interest within radiusMeters of the center.
	// Zero usable elements is an empty slice, not an error.
	Nearby(ctx context.Context, lat, lng float64, radiusMeters int) ([]Marker, error)
}
