package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItinerary(t *testing.T) {
	it := NewItinerary()

	assert.Equal(t, []string{"Day 1"}, it.DayOrder)
	assert.Equal(t, "Day 1", it.ActiveDay)
	assert.Empty(t, it.Days["Day 1"])
}

func TestItinerary_AddDay(t *testing.T) {
	t.Run("sequential naming", func(t *testing.T) {
		it := NewItinerary()

		assert.Equal(t, "Day 2", it.AddDay())
		assert.Equal(t, "Day 3", it.AddDay())
		assert.Equal(t, "Day 3", it.ActiveDay)
	})

	t.Run("skips names still in use after removals", func(t *testing.T) {
		it := NewItinerary()
		it.AddDay() // Day 2
		it.AddDay() // Day 3
		require.NoError(t, it.RemoveDay("Day 2"))

		// Two days remain, so the next candidate name is "Day 3",
		// which is taken and must be skipped.
		assert.Equal(t, "Day 4", it.AddDay())
	})
}

func TestItinerary_RemoveDay(t *testing.T) {
	t.Run("last day cannot be removed", func(t *testing.T) {
		it := NewItinerary()

		err := it.RemoveDay("Day 1")
		assert.ErrorIs(t, err, ErrInvariantViolation)
		assert.Equal(t, "Day 1", it.ActiveDay)
	})

	t.Run("unknown day", func(t *testing.T) {
		it := NewItinerary()
		it.AddDay()

		assert.ErrorIs(t, it.RemoveDay("Day 9"), ErrValidation)
	})

	t.Run("removing the active day activates the first remaining", func(t *testing.T) {
		it := NewItinerary()
		it.AddDay() // Day 2, now active

		require.NoError(t, it.RemoveDay("Day 2"))
		assert.Equal(t, "Day 1", it.ActiveDay)
	})

	t.Run("removing an inactive day keeps the active one", func(t *testing.T) {
		it := NewItinerary()
		it.AddDay() // Day 2, now active

		require.NoError(t, it.RemoveDay("Day 1"))
		assert.Equal(t, "Day 2", it.ActiveDay)
		assert.Equal(t, []string{"Day 2"}, it.DayOrder)
	})
}

func TestItinerary_SetActiveDay(t *testing.T) {
	it := NewItinerary()
	it.AddDay()

	require.NoError(t, it.SetActiveDay("Day 1"))
	assert.Equal(t, "Day 1", it.ActiveDay)

	assert.ErrorIs(t, it.SetActiveDay("Day 7"), ErrValidation)
	assert.Equal(t, "Day 1", it.ActiveDay)
}

func TestItinerary_AddItem(t *testing.T) {
	it := NewItinerary()

	item := NewItineraryItem("Louvre", "09:00")
	require.NoError(t, it.AddItem("Day 1", item))
	assert.NotEmpty(t, item.ID)
	assert.Len(t, it.Days["Day 1"], 1)

	other := NewItineraryItem("Louvre", "09:00")
	require.NoError(t, it.AddItem("Day 1", other))
	assert.NotEqual(t, item.ID, other.ID, "duplicate entries must stay distinct")

	assert.ErrorIs(t, it.AddItem("Day 9", NewItineraryItem("x", "10:00")), ErrValidation)
}

func TestItinerary_RemoveItem(t *testing.T) {
	it := NewItinerary()
	item := NewItineraryItem("Museum", "10:00")
	require.NoError(t, it.AddItem("Day 1", item))

	assert.False(t, it.RemoveItem("Day 1", "missing"))
	assert.Len(t, it.Days["Day 1"], 1)

	assert.True(t, it.RemoveItem("Day 1", item.ID))
	assert.Empty(t, it.Days["Day 1"])

	assert.False(t, it.RemoveItem("Day 1", item.ID))
}

func TestItinerary_SortedItems(t *testing.T) {
	it := NewItinerary()
	c := NewItineraryItem("C", "14:00")
	a := NewItineraryItem("A", "08:30")
	b := NewItineraryItem("B", "11:15")
	for _, item := range []*ItineraryItem{c, a, b} {
		require.NoError(t, it.AddItem("Day 1", item))
	}

	sorted := it.SortedItems("Day 1")
	require.Len(t, sorted, 3)
	assert.Equal(t, "A", sorted[0].Name)
	assert.Equal(t, "B", sorted[1].Name)
	assert.Equal(t, "C", sorted[2].Name)

	// Sorting is a view concern, the stored order is untouched.
	assert.Equal(t, "C", it.Days["Day 1"][0].Name)
}

func TestItinerary_SortedItemsStableOnTies(t *testing.T) {
	it := NewItinerary()
	first := NewItineraryItem("first", "09:00")
	second := NewItineraryItem("second", "09:00")
	require.NoError(t, it.AddItem("Day 1", first))
	require.NoError(t, it.AddItem("Day 1", second))

	sorted := it.SortedItems("Day 1")
	assert.Equal(t, "first", sorted[0].Name)
	assert.Equal(t, "second", sorted[1].Name)
}

func TestItinerary_RoutablePoints(t *testing.T) {
	it := NewItinerary()

	located := NewItineraryItem("Eiffel Tower", "10:00")
	lat, lng := 48.8584, 2.2945
	located.Lat, located.Lng = &lat, &lng

	manual := NewItineraryItem("Lunch somewhere", "12:00")

	earlier := NewItineraryItem("Hotel", "08:00")
	hLat, hLng := 48.853, 2.35
	earlier.Lat, earlier.Lng = &hLat, &hLng

	for _, item := range []*ItineraryItem{located, manual, earlier} {
		require.NoError(t, it.AddItem("Day 1", item))
	}

	points := it.RoutablePoints("Day 1")
	require.Len(t, points, 2, "manual entries are skipped")
	assert.Equal(t, Coordinate{Lat: 48.853, Lng: 2.35}, points[0])
	assert.Equal(t, Coordinate{Lat: 48.8584, Lng: 2.2945}, points[1])
}

func TestItinerary_Clone(t *testing.T) {
	it := NewItinerary()
	item := NewItineraryItem("Museum", "10:00")
	lat, lng := 1.0, 2.0
	item.Lat, item.Lng = &lat, &lng
	require.NoError(t, it.AddItem("Day 1", item))

	clone := it.Clone()
	item.Weather = &WeatherSummary{Text: "20°C - Clear sky"}
	*item.Lat = 99

	cloned, _, ok := clone.Item(item.ID)
	require.True(t, ok)
	assert.Nil(t, cloned.Weather)
	assert.Equal(t, 1.0, *cloned.Lat)
}

func TestCoordinate_Valid(t *testing.T) {
	assert.True(t, Coordinate{Lat: 48.85, Lng: 2.29}.Valid())
	assert.True(t, Coordinate{Lat: -90, Lng: 180}.Valid())
	assert.False(t, Coordinate{Lat: 91, Lng: 0}.Valid())
	assert.False(t, Coordinate{Lat: 0, Lng: -181}.Valid())
}

func TestCoordinate_ToLonLat(t *testing.T) {
	assert.Equal(t, [2]float64{2.29, 48.85}, Coordinate{Lat: 48.85, Lng: 2.29}.ToLonLat())
}
