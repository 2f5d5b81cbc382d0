package models

type TravelProfile string

// Provider profile identifiers, passed through to the routing provider
// unchanged. Changing the profile never recomputes an existing route; the
// next explicit trace uses it.
const (
	ProfileDriving TravelProfile = "driving-car"
	ProfileCycling TravelProfile = "cycling-regular"
	ProfileWalking TravelProfile = "foot-walking"
)

func (p TravelProfile) Valid() bool {
	switch p {
	case ProfileDriving, ProfileCycling, ProfileWalking:
		return true
	}
	return false
}

type RoutePickPhase string

const (
	RoutePickIdle      RoutePickPhase = "idle"
	RoutePickAwaitingA RoutePickPhase = "awaiting_a"
	RoutePickAwaitingB RoutePickPhase = "awaiting_b"
)

// RoutePick tracks the A/B route-drawing mode independently of the
// itinerary. Active is the mode toggle; Phase advances as endpoints are
// picked. Once both points are set the phase returns to idle and a further
// click restarts the pair.
type RoutePick struct {
	Active bool           `json:"active"`
	Phase  RoutePickPhase `json:"phase"`
	PointA *Coordinate    `json:"point_a,omitempty"`
	PointB *Coordinate    `json:"point_b,omitempty"`
}

func (rp *RoutePick) Reset() {
	rp.Phase = RoutePickIdle
	rp.PointA = nil
	rp.PointB = nil
}

type MarkerLayer string

// Marker categories in draw order; later layers render on top.
const (
	LayerSearch    MarkerLayer = "search"
	LayerItinerary MarkerLayer = "itinerary"
	LayerPOI       MarkerLayer = "poi"
	LayerRoutePick MarkerLayer = "route_pick"
)

// Marker is a presentational map pin derived from store state.
type Marker struct {
	Lat   float64     `json:"lat"`
	Lng   float64     `json:"lng"`
	Title string      `json:"title"`
	Layer MarkerLayer `json:"layer"`
	Color string      `json:"color,omitempty"`
}

// Status is the exit surface for the last operation: whether it succeeded,
// a short human-readable message, and whether the result was a degraded
// fallback (straight-line route, absent weather).
type Status struct {
	OK       bool   `json:"ok"`
	Message  string `json:"message,omitempty"`
	Fallback bool   `json:"fallback,omitempty"`
}
