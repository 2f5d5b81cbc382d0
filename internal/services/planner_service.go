package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"tripway/internal/models"
	"tripway/internal/repositories/interfaces"
	"tripway/pkg/geocode"
	"tripway/pkg/logger"
	"tripway/pkg/poi"
	"tripway/pkg/routing"
	"tripway/pkg/weather"
)

// PlannerService is the itinerary store: it owns the day-partitioned plan,
// the map-interaction mode and all transient selection state, and it
// orchestrates the provider clients. Every intent leaves the store in a
// consistent state; failed provider calls become a transient status and
// never corrupt the itinerary.
type PlannerService interface {
	// Map interaction
	Search(ctx context.Context, query string) error
	ClickMap(ctx context.Context, point models.Coordinate) error
	SelectMarker(label string, point models.Coordinate)
	ToggleRouteMode()

	// Itinerary management
	AddItem(ctx context.Context, timeOfDay, name string) (*models.ItineraryItem, error)
	RemoveItem(dayKey, itemID string)
	AddDay() string
	RemoveDay(dayKey string) error
	SetActiveDay(dayKey string) error
	ViewItem(itemID string) error

	// Routing
	TraceRoute(ctx context.Context, dayKey string) error
	ClearRoute()
	SetProfile(profile models.TravelProfile) error

	// Discovery
	ExplorePOIs(ctx context.Context, radiusMeters int) error

	// Persistence
	SaveTrip(ctx context.Context, title string) (*models.TripMeta, error)
	LoadTrip(ctx context.Context, id int64) error

	// View
	Snapshot() *Snapshot
	SetOnChange(fn func(*Snapshot))
}

// The map starts on a whole-world view; POI exploration is refused until
// some interaction has moved it.
var defaultMapCenter = models.Coordinate{Lat: 20, Lng: 0}

const (
	defaultMapZoom = 2
	focusMapZoom   = 13
)

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

type plannerService struct {
	mu sync.Mutex

	geocoder geocode.Provider
	router   routing.Provider
	weather  weather.Provider
	pois     poi.Provider
	trips    interfaces.TripGateway
	logger   *logger.Logger

	meta      models.TripMeta
	itinerary *models.Itinerary

	mapCenter models.Coordinate
	mapZoom   int

	// Pending free-click / search selection, consumed by AddItem.
	lastSearch  *geocode.Place
	pendingName string

	pick    models.RoutePick
	profile models.TravelProfile
	route   *routing.Result
	// routeToken guards the single route slot: a fold whose token is no
	// longer current was superseded and is discarded.
	routeToken uint64

	poiMarkers []poi.Marker

	status models.Status
	busy   BusyFlags

	onChange func(*Snapshot)
}

func NewPlannerService(
	geocoder geocode.Provider,
	router routing.Provider,
	weatherProvider weather.Provider,
	poiProvider poi.Provider,
	trips interfaces.TripGateway,
	log *logger.Logger,
) PlannerService {
	return &plannerService{
		geocoder:  geocoder,
		router:    router,
		weather:   weatherProvider,
		pois:      poiProvider,
		trips:     trips,
		logger:    log,
		itinerary: models.NewItinerary(),
		mapCenter: defaultMapCenter,
		mapZoom:   defaultMapZoom,
		profile:   models.ProfileDriving,
		status:    models.Status{OK: true},
	}
}

func (s *plannerService) SetOnChange(fn func(*Snapshot)) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *plannerService) notify() {
	s.mu.Lock()
	listener := s.onChange
	var snap *Snapshot
	if listener != nil {
		snap = s.snapshotLocked()
	}
	s.mu.Unlock()
	if listener != nil {
		listener(snap)
	}
}

// Search resolves a free-text query and stages the first candidate as the
// pending selection. On failure the prior selection stays untouched.
func (s *plannerService) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.fail("Type a place to search for.", fmt.Errorf("%w: empty query", models.ErrValidation))
	}

	s.setBusy(func(b *BusyFlags) { b.Geocoding = true })

	start := time.Now()
	place, err := s.geocoder.Forward(ctx, query)
	s.logger.LogProviderCall("geocode", "forward", time.Since(start), err)

	s.mu.Lock()
	s.busy.Geocoding = false
	if err != nil {
		s.status = models.Status{Message: "Place not found."}
		s.mu.Unlock()
		s.notify()
		return mapGeocodeError(err)
	}
	s.stageSelectionLocked(place)
	s.status = models.Status{OK: true, Message: place.DisplayName}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClickMap dispatches a map click according to the route-pick mode: free
// clicks reverse-geocode the point, A/B mode collects route endpoints.
func (s *plannerService) ClickMap(ctx context.Context, point models.Coordinate) error {
	if !point.Valid() {
		return s.fail("Invalid map position.", fmt.Errorf("%w: non-finite click", models.ErrValidation))
	}

	s.mu.Lock()
	if !s.pick.Active {
		s.mu.Unlock()
		return s.reverseGeocode(ctx, point)
	}

	switch s.pick.Phase {
	case models.RoutePickAwaitingA:
		s.pick.PointA = &point
		s.pick.Phase = models.RoutePickAwaitingB
		s.status = models.Status{OK: true, Message: "Point A set. Click point B."}
		s.mu.Unlock()
		s.notify()
		return nil

	case models.RoutePickAwaitingB:
		if s.pick.PointA == nil {
			s.pick.PointA = &point
			s.status = models.Status{OK: true, Message: "Point A set. Click point B."}
			s.mu.Unlock()
			s.notify()
			return nil
		}
		s.pick.PointB = &point
		s.pick.Phase = models.RoutePickIdle
		pointA := *s.pick.PointA
		s.mu.Unlock()
		s.notify()
		return s.computeRoute(ctx, []models.Coordinate{pointA, point})

	default:
		// Both endpoints already picked: a further click restarts the pair.
		s.pick.PointA = &point
		s.pick.PointB = nil
		s.pick.Phase = models.RoutePickAwaitingB
		s.routeToken++ // orphan any in-flight computation
		s.busy.Routing = false
		s.route = nil
		s.status = models.Status{OK: true, Message: "New point A set. Click point B."}
		s.mu.Unlock()
		s.notify()
		return nil
	}
}

func (s *plannerService) reverseGeocode(ctx context.Context, point models.Coordinate) error {
	s.setBusy(func(b *BusyFlags) { b.Geocoding = true })

	start := time.Now()
	place, err := s.geocoder.Reverse(ctx, point.Lat, point.Lng)
	s.logger.LogProviderCall("geocode", "reverse", time.Since(start), err)

	s.mu.Lock()
	s.busy.Geocoding = false
	if err != nil {
		// The click identified nothing: drop the pending selection so a
		// stale place cannot leak into the next added item.
		s.lastSearch = nil
		s.pendingName = ""
		s.status = models.Status{Message: "Could not identify the clicked location."}
		s.mu.Unlock()
		s.notify()
		return mapGeocodeError(err)
	}
	place.Lat, place.Lng = point.Lat, point.Lng
	s.stageSelectionLocked(place)
	s.status = models.Status{OK: true, Message: place.DisplayName}
	s.mu.Unlock()
	s.notify()
	return nil
}

// stageSelectionLocked records a resolved place as the pending selection and
// focuses the map on it.
func (s *plannerService) stageSelectionLocked(place *geocode.Place) {
	s.lastSearch = place
	s.pendingName = place.DisplayName
	s.mapCenter = models.Coordinate{Lat: place.Lat, Lng: place.Lng}
	s.mapZoom = focusMapZoom
}

// SelectMarker treats a marker click as an already-resolved reverse geocode:
// no network call, the marker's label becomes the pending name.
func (s *plannerService) SelectMarker(label string, point models.Coordinate) {
	name := cleanLabel(label)
	if name == "" {
		name = "Selected place"
	}
	s.mu.Lock()
	s.stageSelectionLocked(&geocode.Place{Lat: point.Lat, Lng: point.Lng, DisplayName: name})
	s.status = models.Status{OK: true, Message: name}
	s.mu.Unlock()
	s.notify()
}

// ToggleRouteMode flips between free-click and A/B pick mode. Entering
// clears the pending selection and any drawn route; leaving keeps the route
// visible and only drops the endpoints.
func (s *plannerService) ToggleRouteMode() {
	s.mu.Lock()
	s.pick.Active = !s.pick.Active
	if s.pick.Active {
		s.pick.Reset()
		s.pick.Phase = models.RoutePickAwaitingA
		s.routeToken++
		s.busy.Routing = false
		s.route = nil
		s.lastSearch = nil
		s.pendingName = ""
		s.status = models.Status{OK: true, Message: "Route mode on. Click point A."}
	} else {
		s.pick.Reset()
		s.status = models.Status{OK: true, Message: "Route mode off."}
	}
	s.mu.Unlock()
	s.notify()
}

// AddItem appends a new entry to the active day. When a selection with
// coordinates is pending they are copied onto the item and weather
// enrichment starts in the background; the item is visible immediately.
func (s *plannerService) AddItem(ctx context.Context, timeOfDay, name string) (*models.ItineraryItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, s.fail("Fill in the time and the activity.", fmt.Errorf("%w: empty name", models.ErrValidation))
	}
	if !timeOfDayPattern.MatchString(timeOfDay) {
		return nil, s.fail("Fill in the time and the activity.", fmt.Errorf("%w: bad time %q", models.ErrValidation, timeOfDay))
	}

	s.mu.Lock()
	item := models.NewItineraryItem(name, timeOfDay)
	var enrichAt *models.Coordinate
	// A hand-edited name detaches the staged coordinates: the selection only
	// applies to the place it resolved.
	if s.lastSearch != nil && name == s.pendingName {
		lat, lng := s.lastSearch.Lat, s.lastSearch.Lng
		item.Lat = &lat
		item.Lng = &lng
		enrichAt = &models.Coordinate{Lat: lat, Lng: lng}
	}
	dayKey := s.itinerary.ActiveDay
	if err := s.itinerary.AddItem(dayKey, item); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.lastSearch = nil
	s.pendingName = ""
	s.status = models.Status{OK: true, Message: fmt.Sprintf("Added to %s.", dayKey)}
	created := item.Clone()
	tripID := s.tripIDLocked()
	s.mu.Unlock()
	s.notify()

	if enrichAt != nil {
		s.enrichWeather(item.ID, *enrichAt)
	}

	s.logger.LogIntent(tripID, "add_item", true, map[string]interface{}{"day": dayKey})
	return created, nil
}

// enrichWeather fetches conditions for a just-created item and folds them in
// once, if the item still exists by then. Weather misses stay silent.
func (s *plannerService) enrichWeather(itemID string, at models.Coordinate) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		start := time.Now()
		summary, err := s.weather.Current(ctx, at.Lat, at.Lng)
		s.logger.LogProviderCall("weather", "current", time.Since(start), err)
		if summary == nil || err != nil {
			return
		}

		s.mu.Lock()
		item, _, found := s.itinerary.Item(itemID)
		if !found {
			// Removed while the call was in flight.
			s.mu.Unlock()
			return
		}
		item.Weather = &models.WeatherSummary{Text: summary.Text, Icon: summary.Icon}
		s.mu.Unlock()
		s.notify()
	}()
}

func (s *plannerService) RemoveItem(dayKey, itemID string) {
	s.mu.Lock()
	removed := s.itinerary.RemoveItem(dayKey, itemID)
	if removed {
		s.status = models.Status{OK: true, Message: "Item removed."}
	}
	s.mu.Unlock()
	if removed {
		s.notify()
	}
}

func (s *plannerService) AddDay() string {
	s.mu.Lock()
	key := s.itinerary.AddDay()
	s.status = models.Status{OK: true, Message: key + " created."}
	s.mu.Unlock()
	s.notify()
	return key
}

func (s *plannerService) RemoveDay(dayKey string) error {
	s.mu.Lock()
	err := s.itinerary.RemoveDay(dayKey)
	if err != nil {
		if errors.Is(err, models.ErrInvariantViolation) {
			s.status = models.Status{Message: "You cannot remove the last day."}
		} else {
			s.status = models.Status{Message: "Unknown day."}
		}
		s.mu.Unlock()
		s.notify()
		return err
	}
	s.status = models.Status{OK: true, Message: dayKey + " removed."}
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *plannerService) SetActiveDay(dayKey string) error {
	s.mu.Lock()
	err := s.itinerary.SetActiveDay(dayKey)
	s.mu.Unlock()
	if err == nil {
		s.notify()
	}
	return err
}

// ViewItem centers the map on a geolocated item.
func (s *plannerService) ViewItem(itemID string) error {
	s.mu.Lock()
	item, _, found := s.itinerary.Item(itemID)
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("%w: unknown item", models.ErrValidation)
	}
	coord, ok := item.Coordinate()
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%w: item has no coordinates", models.ErrValidation)
	}
	s.mapCenter = coord
	s.mapZoom = focusMapZoom
	s.mu.Unlock()
	s.notify()
	return nil
}

// TraceRoute routes through a day's geolocated items in time order.
func (s *plannerService) TraceRoute(ctx context.Context, dayKey string) error {
	s.mu.Lock()
	if _, exists := s.itinerary.Days[dayKey]; !exists {
		s.mu.Unlock()
		return s.fail("Unknown day.", fmt.Errorf("%w: unknown day %q", models.ErrValidation, dayKey))
	}
	points := s.itinerary.RoutablePoints(dayKey)
	s.mu.Unlock()

	if len(points) < 2 {
		return s.fail("At least two located items are needed to trace a route.", models.ErrInsufficientPoints)
	}
	return s.computeRoute(ctx, points)
}

// computeRoute owns the single route slot. A new computation supersedes any
// in-flight one: last writer wins, stale results are discarded by token.
func (s *plannerService) computeRoute(ctx context.Context, points []models.Coordinate) error {
	s.mu.Lock()
	s.routeToken++
	token := s.routeToken
	s.busy.Routing = true
	s.route = nil
	profile := s.profile
	s.mu.Unlock()
	s.notify()

	waypoints := make([]routing.Waypoint, len(points))
	for i, p := range points {
		waypoints[i] = routing.Waypoint{Lat: p.Lat, Lng: p.Lng}
	}

	start := time.Now()
	result, err := s.router.Compute(ctx, waypoints, routing.Profile(profile))
	s.logger.LogProviderCall("routing", "compute", time.Since(start), err)

	s.mu.Lock()
	if token != s.routeToken {
		// Superseded while in flight; the newer computation owns the slot.
		s.mu.Unlock()
		return nil
	}
	s.busy.Routing = false
	if err != nil {
		s.status = models.Status{Message: "Could not compute the route."}
		s.mu.Unlock()
		s.notify()
		return mapRouteError(err)
	}
	s.route = result
	if result.IsFallback {
		s.status = models.Status{OK: true, Message: "Straight-line route (no routing key configured).", Fallback: true}
	} else {
		s.status = models.Status{OK: true, Message: routeSummary(result)}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// ClearRoute drops the drawn route, the A/B endpoints and the POI markers,
// and returns the map to the world view.
func (s *plannerService) ClearRoute() {
	s.mu.Lock()
	s.routeToken++
	s.busy.Routing = false
	s.route = nil
	s.pick.Active = false
	s.pick.Reset()
	s.poiMarkers = nil
	s.mapCenter = defaultMapCenter
	s.mapZoom = defaultMapZoom
	s.status = models.Status{OK: true, Message: "Route cleared."}
	s.mu.Unlock()
	s.notify()
}

// SetProfile stores the travel profile for the next computation; it never
// recomputes an existing route by itself.
func (s *plannerService) SetProfile(profile models.TravelProfile) error {
	if !profile.Valid() {
		return fmt.Errorf("%w: unknown profile %q", models.ErrValidation, profile)
	}
	s.mu.Lock()
	s.profile = profile
	s.mu.Unlock()
	s.notify()
	return nil
}

// ExplorePOIs lists tourism and food points around the current map center.
func (s *plannerService) ExplorePOIs(ctx context.Context, radiusMeters int) error {
	s.mu.Lock()
	center := s.mapCenter
	s.mu.Unlock()

	if center == defaultMapCenter {
		return s.fail("Search or click a place before exploring.", models.ErrNoAreaSelected)
	}
	if radiusMeters <= 0 {
		radiusMeters = 1000
	}

	s.setBusy(func(b *BusyFlags) { b.Exploring = true })

	start := time.Now()
	markers, err := s.pois.Nearby(ctx, center.Lat, center.Lng, radiusMeters)
	s.logger.LogProviderCall("poi", "nearby", time.Since(start), err)

	s.mu.Lock()
	s.busy.Exploring = false
	if err != nil {
		s.status = models.Status{Message: "Could not load points of interest."}
		s.mu.Unlock()
		s.notify()
		return fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
	s.poiMarkers = markers
	if len(markers) == 0 {
		s.status = models.Status{OK: true, Message: "No named points of interest nearby."}
	} else {
		s.status = models.Status{OK: true, Message: fmt.Sprintf("%d points of interest found.", len(markers))}
	}
	s.mu.Unlock()
	s.notify()
	return nil
}

// SaveTrip flattens the itinerary and creates or updates the backend trip.
// The first successful save assigns the trip id.
func (s *plannerService) SaveTrip(ctx context.Context, title string) (*models.TripMeta, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, s.fail("Give the trip a title.", fmt.Errorf("%w: empty title", models.ErrValidation))
	}

	s.mu.Lock()
	payload := &models.TripPayload{
		Title: title,
		Items: models.FlattenItinerary(s.itinerary),
	}
	currentID := s.meta.ID
	s.busy.Saving = true
	s.mu.Unlock()
	s.notify()

	var (
		saved *models.Trip
		err   error
	)
	start := time.Now()
	if currentID == nil {
		saved, err = s.trips.Create(ctx, payload)
	} else {
		saved, err = s.trips.Update(ctx, *currentID, payload)
	}
	s.logger.LogProviderCall("trips", "save", time.Since(start), err)

	s.mu.Lock()
	s.busy.Saving = false
	if err != nil {
		if errors.Is(err, models.ErrAuthRequired) {
			s.status = models.Status{Message: "Sign in to save your trip."}
		} else {
			s.status = models.Status{Message: "Could not save the trip."}
		}
		s.mu.Unlock()
		s.notify()
		return nil, err
	}
	s.meta.ID = &saved.ID
	s.meta.Title = saved.Title
	meta := s.meta
	s.status = models.Status{OK: true, Message: "Trip saved."}
	s.mu.Unlock()
	s.notify()
	return &meta, nil
}

// LoadTrip replaces the store's itinerary with a persisted trip.
func (s *plannerService) LoadTrip(ctx context.Context, id int64) error {
	trip, err := s.trips.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrAuthRequired) {
			return s.failWith(err, "Sign in to open your trips.")
		}
		return s.failWith(err, "Could not load the trip.")
	}

	s.mu.Lock()
	s.itinerary = models.ItineraryFromItems(trip.Items)
	s.meta = models.TripMeta{ID: &trip.ID, Title: trip.Title}
	s.routeToken++
	s.busy.Routing = false
	s.route = nil
	s.pick = models.RoutePick{Phase: models.RoutePickIdle}
	s.lastSearch = nil
	s.pendingName = ""
	s.poiMarkers = nil
	s.status = models.Status{OK: true, Message: "Trip loaded."}
	s.mu.Unlock()
	s.notify()
	return nil
}

func (s *plannerService) tripIDLocked() string {
	if s.meta.ID != nil {
		return fmt.Sprintf("%d", *s.meta.ID)
	}
	return "draft"
}

func (s *plannerService) setBusy(set func(*BusyFlags)) {
	s.mu.Lock()
	set(&s.busy)
	s.mu.Unlock()
	s.notify()
}

// fail records a transient failure status and returns the classified error.
func (s *plannerService) fail(message string, err error) error {
	s.mu.Lock()
	s.status = models.Status{Message: message}
	s.mu.Unlock()
	s.notify()
	return err
}

func (s *plannerService) failWith(err error, message string) error {
	s.mu.Lock()
	s.status = models.Status{Message: message}
	s.mu.Unlock()
	s.notify()
	return err
}

func mapGeocodeError(err error) error {
	switch {
	case errors.Is(err, geocode.ErrNotFound):
		return fmt.Errorf("%w: %v", models.ErrNotFound, err)
	case errors.Is(err, geocode.ErrInvalidResult):
		return fmt.Errorf("%w: %v", models.ErrInvalidResult, err)
	default:
		return fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
}

func mapRouteError(err error) error {
	var compErr *routing.ComputationError
	switch {
	case errors.Is(err, routing.ErrInsufficientPoints):
		return fmt.Errorf("%w: %v", models.ErrInsufficientPoints, err)
	case errors.Is(err, routing.ErrInvalidCoordinates):
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	case errors.As(err, &compErr):
		return fmt.Errorf("%w: %v", models.ErrRouteComputation, err)
	default:
		return fmt.Errorf("%w: %v", models.ErrTransport, err)
	}
}

func routeSummary(result *routing.Result) string {
	distance := "n/a"
	duration := "n/a"
	if result.DistanceMeters != nil {
		distance = fmt.Sprintf("%.1f km", *result.DistanceMeters/1000)
	}
	if result.DurationSeconds != nil {
		duration = fmt.Sprintf("%.0f min", *result.DurationSeconds/60)
	}
	return fmt.Sprintf("Route ready: %s, %s.", distance, duration)
}

// cleanLabel strips a leading decorative glyph from a marker label. Purely
// cosmetic; anything left after trimming is used as-is.
func cleanLabel(label string) string {
	s := strings.TrimSpace(label)
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			break
		}
		s = strings.TrimSpace(s[size:])
	}
	return s
}
