package services

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tripway/internal/models"
	"tripway/pkg/geocode"
	"tripway/pkg/logger"
	"tripway/pkg/poi"
	"tripway/pkg/routing"
	"tripway/pkg/weather"
)

type fakeGeocoder struct {
	mu         sync.Mutex
	forward    *geocode.Place
	forwardErr error
	reverse    *geocode.Place
	reverseErr error
}

func (f *fakeGeocoder) Forward(context.Context, string) (*geocode.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.forwardErr != nil {
		return nil, f.forwardErr
	}
	place := *f.forward
	return &place, nil
}

func (f *fakeGeocoder) Reverse(context.Context, float64, float64) (*geocode.Place, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reverseErr != nil {
		return nil, f.reverseErr
	}
	place := *f.reverse
	return &place, nil
}

type fakeRouter struct {
	mu        sync.Mutex
	calls     int
	waypoints [][]routing.Waypoint
	result    *routing.Result
	err       error
	block     chan struct{} // when set, Compute waits for a receive
	started   chan struct{} // closed once Compute has been entered
}

func (f *fakeRouter) Compute(_ context.Context, points []routing.Waypoint, _ routing.Profile) (*routing.Result, error) {
	f.mu.Lock()
	f.calls++
	f.waypoints = append(f.waypoints, points)
	block, started := f.block, f.started
	result, err := f.result, f.err
	f.mu.Unlock()

	if started != nil {
		close(started)
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}
	if result != nil {
		return result, nil
	}
	distance, duration := 1000.0, 600.0
	return &routing.Result{DistanceMeters: &distance, DurationSeconds: &duration}, nil
}

func (f *fakeRouter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeWeather struct {
	mu      sync.Mutex
	summary *weather.Summary
	block   chan struct{}
}

func (f *fakeWeather) Current(context.Context, float64, float64) (*weather.Summary, error) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.summary == nil {
		return nil, nil
	}
	summary := *f.summary
	return &summary, nil
}

type fakePOIs struct {
	markers []poi.Marker
	err     error
}

func (f *fakePOIs) Nearby(context.Context, float64, float64, int) ([]poi.Marker, error) {
	return f.markers, f.err
}

type fakeTripGateway struct {
	mu      sync.Mutex
	creates []*models.TripPayload
	updates []*models.TripPayload
	trip    *models.Trip
	err     error
}

func (f *fakeTripGateway) List(context.Context) ([]models.Trip, error) {
	return nil, f.err
}

func (f *fakeTripGateway) Get(context.Context, int64) (*models.Trip, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.trip, nil
}

func (f *fakeTripGateway) Create(_ context.Context, payload *models.TripPayload) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.creates = append(f.creates, payload)
	return &models.Trip{ID: 42, Title: payload.Title, Items: payload.Items}, nil
}

func (f *fakeTripGateway) Update(_ context.Context, id int64, payload *models.TripPayload) (*models.Trip, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.updates = append(f.updates, payload)
	return &models.Trip{ID: id, Title: payload.Title, Items: payload.Items}, nil
}

func (f *fakeTripGateway) Delete(context.Context, int64) error {
	return f.err
}

type testDeps struct {
	geocoder *fakeGeocoder
	router   *fakeRouter
	weather  *fakeWeather
	pois     *fakePOIs
	trips    *fakeTripGateway
}

func newTestService(t *testing.T) (PlannerService, *testDeps) {
	t.Helper()
	deps := &testDeps{
		geocoder: &fakeGeocoder{forward: &geocode.Place{Lat: 48.8575, Lng: 2.3514, DisplayName: "Paris"}},
		router:   &fakeRouter{},
		weather:  &fakeWeather{},
		pois:     &fakePOIs{},
		trips:    &fakeTripGateway{},
	}
	deps.geocoder.reverse = &geocode.Place{Lat: 0, Lng: 0, DisplayName: "Somewhere"}

	log, err := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Format: "text", Output: "stdout"})
	require.NoError(t, err)
	log.SetOutput(io.Discard)

	return NewPlannerService(deps.geocoder, deps.router, deps.weather, deps.pois, deps.trips, log), deps
}

func TestSearch(t *testing.T) {
	t.Run("stages the first candidate and focuses the map", func(t *testing.T) {
		svc, _ := newTestService(t)

		require.NoError(t, svc.Search(context.Background(), "Paris"))

		snap := svc.Snapshot()
		assert.Equal(t, "Paris", snap.PendingName)
		require.NotNil(t, snap.PendingPlace)
		assert.Equal(t, models.Coordinate{Lat: 48.8575, Lng: 2.3514}, snap.MapCenter)
		assert.Equal(t, 13, snap.MapZoom)
		assert.True(t, snap.Status.OK)
	})

	t.Run("empty query", func(t *testing.T) {
		svc, _ := newTestService(t)

		err := svc.Search(context.Background(), "   ")
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("failure keeps the prior selection", func(t *testing.T) {
		svc, deps := newTestService(t)
		require.NoError(t, svc.Search(context.Background(), "Paris"))

		deps.geocoder.mu.Lock()
		deps.geocoder.forwardErr = geocode.ErrNotFound
		deps.geocoder.mu.Unlock()

		err := svc.Search(context.Background(), "xyzzy")
		assert.ErrorIs(t, err, models.ErrNotFound)

		snap := svc.Snapshot()
		assert.Equal(t, "Paris", snap.PendingName)
		assert.False(t, snap.Status.OK)
	})
}

func TestClickMap(t *testing.T) {
	t.Run("free click reverse geocodes at the clicked point", func(t *testing.T) {
		svc, deps := newTestService(t)
		deps.geocoder.reverse = &geocode.Place{Lat: 48.0, Lng: 2.0, DisplayName: "Rue de Test"}

		require.NoError(t, svc.ClickMap(context.Background(), models.Coordinate{Lat: 48.8584, Lng: 2.2945}))

		snap := svc.Snapshot()
		assert.Equal(t, "Rue de Test", snap.PendingName)
		// The clicked position wins over the provider's resolved position.
		assert.Equal(t, models.Coordinate{Lat: 48.8584, Lng: 2.2945}, snap.MapCenter)
	})

	t.Run("reverse failure clears the pending selection", func(t *testing.T) {
		svc, deps := newTestService(t)
		require.NoError(t, svc.Search(context.Background(), "Paris"))

		deps.geocoder.mu.Lock()
		deps.geocoder.reverseErr = geocode.ErrNotFound
		deps.geocoder.mu.Unlock()

		err := svc.ClickMap(context.Background(), models.Coordinate{Lat: 1, Lng: 1})
		assert.ErrorIs(t, err, models.ErrNotFound)

		snap := svc.Snapshot()
		assert.Empty(t, snap.PendingName)
		assert.Nil(t, snap.PendingPlace)
	})

	t.Run("invalid coordinates", func(t *testing.T) {
		svc, _ := newTestService(t)
		err := svc.ClickMap(context.Background(), models.Coordinate{Lat: 200, Lng: 0})
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func TestRoutePickMode(t *testing.T) {
	t.Run("A then B computes exactly one route", func(t *testing.T) {
		svc, deps := newTestService(t)

		svc.ToggleRouteMode()
		snap := svc.Snapshot()
		assert.True(t, snap.RoutePick.Active)
		assert.Equal(t, models.RoutePickAwaitingA, snap.RoutePick.Phase)

		require.NoError(t, svc.ClickMap(context.Background(), models.Coordinate{Lat: 48.85, Lng: 2.35}))
		assert.Equal(t, 0, deps.router.callCount(), "no compute before both endpoints")

		require.NoError(t, svc.ClickMap(context.Background(), models.Coordinate{Lat: 48.86, Lng: 2.34}))
		assert.Equal(t, 1, deps.router.callCount())

		snap = svc.Snapshot()
		require.NotNil(t, snap.Route)
		assert.True(t, snap.Status.OK)

		// Both endpoint markers stay on the map after the route is drawn.
		require.NotNil(t, snap.RoutePick.PointA)
		require.NotNil(t, snap.RoutePick.PointB)
		assert.Equal(t, models.Coordinate{Lat: 48.85, Lng: 2.35}, *snap.RoutePick.PointA)
		assert.Equal(t, models.Coordinate{Lat: 48.86, Lng: 2.34}, *snap.RoutePick.PointB)

		deps.router.mu.Lock()
		waypoints := deps.router.waypoints[0]
		deps.router.mu.Unlock()
		require.Len(t, waypoints, 2)
		assert.Equal(t, routing.Waypoint{Lat: 48.85, Lng: 2.35}, waypoints[0])
	})

	t.Run("entering route mode clears selection and route", func(t *testing.T) {
		svc, _ := newTestService(t)
		require.NoError(t, svc.Search(context.Background(), "Paris"))

		svc.ToggleRouteMode()
		snap := svc.Snapshot()
		assert.Empty(t, snap.PendingName)
		assert.Nil(t, snap.Route)
	})

	t.Run("leaving route mode drops the endpoints but keeps the route", func(t *testing.T) {
		svc, _ := newTestService(t)
		svc.ToggleRouteMode()
		require.NoError(t, svc.ClickMap(context.Background(), models.Coordinate{Lat: 1, Lng: 1}))
		require.NoError(t, svc.ClickMap(context.Background(), models.Coordinate{Lat: 2, Lng: 2}))

		svc.ToggleRouteMode()
		snap := svc.Snapshot()
		assert.False(t, snap.RoutePick.Active)
		assert.Nil(t, snap.RoutePick.PointA)
		assert.NotNil(t, snap.Route)
	})
}

func TestAddItem(t *testing.T) {
	t.Run("manual entry without selection", func(t *testing.T) {
		svc, _ := newTestService(t)

		item, err := svc.AddItem(context.Background(), "09:00", "Breakfast")
		require.NoError(t, err)
		assert.NotEmpty(t, item.ID)
		assert.Nil(t, item.Lat)

		snap := svc.Snapshot()
		require.Len(t, snap.Days, 1)
		require.Len(t, snap.Days[0].Items, 1)
	})

	t.Run("pending selection is consumed once", func(t *testing.T) {
		svc, _ := newTestService(t)
		require.NoError(t, svc.Search(context.Background(), "Paris"))

		item, err := svc.AddItem(context.Background(), "10:00", "Paris")
		require.NoError(t, err)
		require.NotNil(t, item.Lat)
		assert.Equal(t, 48.8575, *item.Lat)

		snap := svc.Snapshot()
		assert.Empty(t, snap.PendingName, "selection consumed")

		second, err := svc.AddItem(context.Background(), "11:00", "Walk")
		require.NoError(t, err)
		assert.Nil(t, second.Lat, "second item gets no stale coordinates")
	})

	t.Run("edited name detaches the staged coordinates", func(t *testing.T) {
		svc, _ := newTestService(t)
		require.NoError(t, svc.Search(context.Background(), "Paris"))

		item, err := svc.AddItem(context.Background(), "10:00", "Dinner near Paris")
		require.NoError(t, err)
		assert.Nil(t, item.Lat, "renamed entries are manual")
	})

	t.Run("duplicate entries stay distinct", func(t *testing.T) {
		svc, _ := newTestService(t)

		first, err := svc.AddItem(context.Background(), "09:00", "Museum")
		require.NoError(t, err)
		second, err := svc.AddItem(context.Background(), "09:00", "Museum")
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		snap := svc.Snapshot()
		assert.Len(t, snap.Days[0].Items, 2)
	})

	t.Run("validation", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.AddItem(context.Background(), "09:00", "  ")
		assert.ErrorIs(t, err, models.ErrValidation)

		_, err = svc.AddItem(context.Background(), "25:00", "x")
		assert.ErrorIs(t, err, models.ErrValidation)

		_, err = svc.AddItem(context.Background(), "9:00", "x")
		assert.ErrorIs(t, err, models.ErrValidation, "times must be zero padded")
	})
}

func TestWeatherEnrichment(t *testing.T) {
	t.Run("located items gain weather in the background", func(t *testing.T) {
		svc, deps := newTestService(t)
		deps.weather.mu.Lock()
		deps.weather.summary = &weather.Summary{Text: "18°C - Light rain", Icon: "10d"}
		deps.weather.mu.Unlock()

		require.NoError(t, svc.Search(context.Background(), "Paris"))
		item, err := svc.AddItem(context.Background(), "10:00", "Paris")
		require.NoError(t, err)
		assert.Nil(t, item.Weather, "item visible before enrichment completes")

		assert.Eventually(t, func() bool {
			snap := svc.Snapshot()
			enriched := snap.Days[0].Items[0].Weather
			return enriched != nil && enriched.Text == "18°C - Light rain"
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("enrichment of a removed item is discarded", func(t *testing.T) {
		svc, deps := newTestService(t)
		release := make(chan struct{})
		deps.weather.mu.Lock()
		deps.weather.summary = &weather.Summary{Text: "20°C - Clear sky"}
		deps.weather.block = release
		deps.weather.mu.Unlock()

		require.NoError(t, svc.Search(context.Background(), "Paris"))
		item, err := svc.AddItem(context.Background(), "10:00", "Paris")
		require.NoError(t, err)

		snap := svc.Snapshot()
		svc.RemoveItem(snap.ActiveDay, item.ID)
		close(release)

		// Give the in-flight fold a chance to run, then confirm nothing
		// reappeared.
		time.Sleep(50 * time.Millisecond)
		snap = svc.Snapshot()
		assert.Empty(t, snap.Days[0].Items)
	})
}

func TestDayManagement(t *testing.T) {
	svc, _ := newTestService(t)

	key := svc.AddDay()
	assert.Equal(t, "Day 2", key)
	assert.Equal(t, "Day 2", svc.Snapshot().ActiveDay)

	require.NoError(t, svc.SetActiveDay("Day 1"))
	assert.ErrorIs(t, svc.SetActiveDay("Day 9"), models.ErrValidation)

	require.NoError(t, svc.RemoveDay("Day 2"))
	assert.ErrorIs(t, svc.RemoveDay("Day 1"), models.ErrInvariantViolation)
}

func TestViewItem(t *testing.T) {
	svc, _ := newTestService(t)
	require.NoError(t, svc.Search(context.Background(), "Paris"))
	located, err := svc.AddItem(context.Background(), "10:00", "Paris")
	require.NoError(t, err)
	manual, err := svc.AddItem(context.Background(), "12:00", "Lunch")
	require.NoError(t, err)

	svc.ClearRoute() // back to the world view
	require.NoError(t, svc.ViewItem(located.ID))
	snap := svc.Snapshot()
	assert.Equal(t, models.Coordinate{Lat: 48.8575, Lng: 2.3514}, snap.MapCenter)
	assert.Equal(t, 13, snap.MapZoom)

	assert.ErrorIs(t, svc.ViewItem(manual.ID), models.ErrValidation)
	assert.ErrorIs(t, svc.ViewItem("missing"), models.ErrValidation)
}

func TestTraceRoute(t *testing.T) {
	addLocated := func(t *testing.T, svc PlannerService, deps *testDeps, timeOfDay string, lat, lng float64) {
		t.Helper()
		deps.geocoder.mu.Lock()
		deps.geocoder.forward = &geocode.Place{Lat: lat, Lng: lng, DisplayName: "Stop"}
		deps.geocoder.mu.Unlock()
		require.NoError(t, svc.Search(context.Background(), "stop"))
		_, err := svc.AddItem(context.Background(), timeOfDay, "Stop")
		require.NoError(t, err)
	}

	t.Run("routes located items in time order", func(t *testing.T) {
		svc, deps := newTestService(t)
		addLocated(t, svc, deps, "14:00", 3, 3)
		addLocated(t, svc, deps, "08:00", 1, 1)
		addLocated(t, svc, deps, "11:00", 2, 2)
		_, err := svc.AddItem(context.Background(), "09:00", "Manual stop")
		require.NoError(t, err)

		require.NoError(t, svc.TraceRoute(context.Background(), "Day 1"))

		deps.router.mu.Lock()
		waypoints := deps.router.waypoints[0]
		deps.router.mu.Unlock()
		require.Len(t, waypoints, 3, "manual entries are skipped")
		assert.Equal(t, routing.Waypoint{Lat: 1, Lng: 1}, waypoints[0])
		assert.Equal(t, routing.Waypoint{Lat: 2, Lng: 2}, waypoints[1])
		assert.Equal(t, routing.Waypoint{Lat: 3, Lng: 3}, waypoints[2])
	})

	t.Run("fewer than two located items", func(t *testing.T) {
		svc, deps := newTestService(t)
		addLocated(t, svc, deps, "10:00", 1, 1)

		err := svc.TraceRoute(context.Background(), "Day 1")
		assert.ErrorIs(t, err, models.ErrInsufficientPoints)
		assert.Equal(t, 0, deps.router.callCount())
	})

	t.Run("unknown day", func(t *testing.T) {
		svc, _ := newTestService(t)
		assert.ErrorIs(t, svc.TraceRoute(context.Background(), "Day 9"), models.ErrValidation)
	})

	t.Run("provider failure leaves no partial route", func(t *testing.T) {
		svc, deps := newTestService(t)
		addLocated(t, svc, deps, "08:00", 1, 1)
		addLocated(t, svc, deps, "10:00", 2, 2)
		deps.router.mu.Lock()
		deps.router.err = &routing.ComputationError{StatusCode: 500, Body: "boom"}
		deps.router.mu.Unlock()

		err := svc.TraceRoute(context.Background(), "Day 1")
		assert.ErrorIs(t, err, models.ErrRouteComputation)

		snap := svc.Snapshot()
		assert.Nil(t, snap.Route)
		assert.False(t, snap.Status.OK)
	})
}

func TestRouteSupersession(t *testing.T) {
	svc, deps := newTestService(t)

	release := make(chan struct{})
	started := make(chan struct{})
	deps.router.mu.Lock()
	deps.router.block = release
	deps.router.started = started
	deps.router.mu.Unlock()

	svc.ToggleRouteMode()
	require.NoError(t, svc.ClickMap(context.Background(), models.Coordinate{Lat: 1, Lng: 1}))

	done := make(chan error, 1)
	go func() {
		done <- svc.ClickMap(context.Background(), models.Coordinate{Lat: 2, Lng: 2})
	}()

	<-started
	// The route slot is reassigned while the computation is in flight.
	svc.ClearRoute()
	close(release)
	require.NoError(t, <-done)

	snap := svc.Snapshot()
	assert.Nil(t, snap.Route, "superseded result must be discarded")
	assert.False(t, snap.Busy.Routing, "clearing the route ends the in-progress state")
}

func TestSetProfile(t *testing.T) {
	svc, _ := newTestService(t)

	require.NoError(t, svc.SetProfile(models.ProfileCycling))
	assert.Equal(t, models.ProfileCycling, svc.Snapshot().Profile)

	assert.ErrorIs(t, svc.SetProfile("hovercraft"), models.ErrValidation)
	assert.Equal(t, models.ProfileCycling, svc.Snapshot().Profile)
}

func TestExplorePOIs(t *testing.T) {
	t.Run("refused on the default world view", func(t *testing.T) {
		svc, _ := newTestService(t)
		err := svc.ExplorePOIs(context.Background(), 500)
		assert.ErrorIs(t, err, models.ErrNoAreaSelected)
	})

	t.Run("markers carry category colors", func(t *testing.T) {
		svc, deps := newTestService(t)
		deps.pois.markers = []poi.Marker{
			{Lat: 1, Lng: 1, Name: "Museum", Category: poi.CategoryTourism},
			{Lat: 2, Lng: 2, Name: "Bistro", Category: poi.CategoryFood},
		}

		require.NoError(t, svc.Search(context.Background(), "Paris"))
		require.NoError(t, svc.ExplorePOIs(context.Background(), 500))

		snap := svc.Snapshot()
		var poiMarkers []models.Marker
		for _, m := range snap.Markers {
			if m.Layer == models.LayerPOI {
				poiMarkers = append(poiMarkers, m)
			}
		}
		require.Len(t, poiMarkers, 2)
		assert.Equal(t, "gold", poiMarkers[0].Color)
		assert.Equal(t, "red", poiMarkers[1].Color)
	})
}

func TestClearRoute(t *testing.T) {
	svc, deps := newTestService(t)
	deps.pois.markers = []poi.Marker{{Lat: 1, Lng: 1, Name: "Spot"}}

	require.NoError(t, svc.Search(context.Background(), "Paris"))
	require.NoError(t, svc.ExplorePOIs(context.Background(), 500))
	svc.ToggleRouteMode()
	require.NoError(t, svc.ClickMap(context.Background(), models.Coordinate{Lat: 1, Lng: 1}))
	require.NoError(t, svc.ClickMap(context.Background(), models.Coordinate{Lat: 2, Lng: 2}))

	svc.ClearRoute()

	snap := svc.Snapshot()
	assert.Nil(t, snap.Route)
	assert.False(t, snap.RoutePick.Active)
	assert.Equal(t, models.Coordinate{Lat: 20, Lng: 0}, snap.MapCenter)
	assert.Equal(t, 2, snap.MapZoom)
	for _, m := range snap.Markers {
		assert.NotEqual(t, models.LayerPOI, m.Layer, "POI markers cleared")
	}
}

func TestSaveTrip(t *testing.T) {
	t.Run("first save creates, later saves update", func(t *testing.T) {
		svc, deps := newTestService(t)
		_, err := svc.AddItem(context.Background(), "10:00", "Museum")
		require.NoError(t, err)

		meta, err := svc.SaveTrip(context.Background(), "City break")
		require.NoError(t, err)
		require.NotNil(t, meta.ID)
		assert.Equal(t, int64(42), *meta.ID)

		_, err = svc.SaveTrip(context.Background(), "City break v2")
		require.NoError(t, err)

		deps.trips.mu.Lock()
		defer deps.trips.mu.Unlock()
		assert.Len(t, deps.trips.creates, 1)
		assert.Len(t, deps.trips.updates, 1)
		assert.Equal(t, "10:00:00", deps.trips.creates[0].Items[0].Time)
	})

	t.Run("empty title", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.SaveTrip(context.Background(), " ")
		assert.ErrorIs(t, err, models.ErrValidation)
	})

	t.Run("auth required surfaces as sign-in status", func(t *testing.T) {
		svc, deps := newTestService(t)
		deps.trips.err = models.ErrAuthRequired

		_, err := svc.SaveTrip(context.Background(), "City break")
		assert.ErrorIs(t, err, models.ErrAuthRequired)

		snap := svc.Snapshot()
		assert.Nil(t, snap.Meta.ID, "failed save must not assign an id")
		assert.Contains(t, snap.Status.Message, "Sign in")
	})
}

func TestLoadTrip(t *testing.T) {
	svc, deps := newTestService(t)
	lat, lng := 41.39, 2.17
	deps.trips.trip = &models.Trip{
		ID:    7,
		Title: "Barcelona",
		Items: []models.TripItem{
			{DayKey: "Day 1", Name: "Sagrada Familia", Time: "09:30:00", Lat: &lat, Lng: &lng},
			{DayKey: "Day 2", Name: "Beach", Time: "15:00:00"},
		},
	}

	// Local state that the load must replace.
	_, err := svc.AddItem(context.Background(), "08:00", "Old plan")
	require.NoError(t, err)

	require.NoError(t, svc.LoadTrip(context.Background(), 7))

	snap := svc.Snapshot()
	require.NotNil(t, snap.Meta.ID)
	assert.Equal(t, int64(7), *snap.Meta.ID)
	assert.Equal(t, "Barcelona", snap.Meta.Title)
	require.Len(t, snap.Days, 2)
	assert.Equal(t, "Day 1", snap.ActiveDay)
	assert.Equal(t, "09:30", snap.Days[0].Items[0].Time)
	assert.Nil(t, snap.Route)
	assert.Empty(t, snap.PendingName)
}

func TestSelectMarker(t *testing.T) {
	svc, _ := newTestService(t)

	svc.SelectMarker("📍 Cafe de Flore", models.Coordinate{Lat: 48.854, Lng: 2.332})
	snap := svc.Snapshot()
	assert.Equal(t, "Cafe de Flore", snap.PendingName)
	assert.Equal(t, models.Coordinate{Lat: 48.854, Lng: 2.332}, snap.MapCenter)

	svc.SelectMarker("⭐", models.Coordinate{Lat: 1, Lng: 1})
	assert.Equal(t, "Selected place", svc.Snapshot().PendingName)
}

func TestSnapshotIsolation(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.AddItem(context.Background(), "10:00", "Museum")
	require.NoError(t, err)

	snap := svc.Snapshot()
	snap.Days[0].Items[0].Name = "Tampered"
	snap.ActiveDay = "Day 99"

	fresh := svc.Snapshot()
	assert.Equal(t, "Museum", fresh.Days[0].Items[0].Name)
	assert.Equal(t, "Day 1", fresh.ActiveDay)
}

func TestOnChangeNotification(t *testing.T) {
	svc, _ := newTestService(t)

	var mu sync.Mutex
	var seen []*Snapshot
	svc.SetOnChange(func(snap *Snapshot) {
		mu.Lock()
		seen = append(seen, snap)
		mu.Unlock()
	})

	_, err := svc.AddItem(context.Background(), "10:00", "Museum")
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, seen)
	last := seen[len(seen)-1]
	assert.Len(t, last.Days[0].Items, 1)
}
