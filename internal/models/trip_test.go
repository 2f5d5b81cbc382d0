package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenItinerary(t *testing.T) {
	it := NewItinerary()
	it.AddDay()

	museum := NewItineraryItem("Museum", "10:00")
	lat, lng := 48.86, 2.33
	museum.Lat, museum.Lng = &lat, &lng
	museum.Weather = &WeatherSummary{Text: "18°C - Light rain", Icon: "10d"}
	require.NoError(t, it.AddItem("Day 1", museum))
	require.NoError(t, it.AddItem("Day 2", NewItineraryItem("Dinner", "19:30")))

	items := FlattenItinerary(it)
	require.Len(t, items, 2)

	assert.Equal(t, "Day 1", items[0].DayKey)
	assert.Equal(t, "Museum", items[0].Name)
	assert.Equal(t, "10:00:00", items[0].Time)
	assert.Equal(t, 48.86, *items[0].Lat)
	assert.Equal(t, "18°C - Light rain", items[0].WeatherText)
	assert.Equal(t, "10d", items[0].WeatherIcon)

	assert.Equal(t, "Day 2", items[1].DayKey)
	assert.Equal(t, "19:30:00", items[1].Time)
	assert.Nil(t, items[1].Lat)
	assert.Empty(t, items[1].WeatherText)
}

func TestFlattenItinerary_Empty(t *testing.T) {
	items := FlattenItinerary(NewItinerary())
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestItineraryFromItems(t *testing.T) {
	lat, lng := 41.39, 2.17
	items := []TripItem{
		{DayKey: "Day 2", Name: "Beach", Time: "15:00:00"},
		{DayKey: "Day 1", Name: "Sagrada Familia", Time: "09:30:00", Lat: &lat, Lng: &lng, WeatherText: "24°C - Clear sky", WeatherIcon: "01d"},
		{DayKey: "Day 2", Name: "Tapas", Time: "20:00:00"},
	}

	it := ItineraryFromItems(items)

	// Day order follows first appearance in the stored list.
	assert.Equal(t, []string{"Day 2", "Day 1"}, it.DayOrder)
	assert.Equal(t, "Day 2", it.ActiveDay)
	assert.Len(t, it.Days["Day 2"], 2)

	restored := it.Days["Day 1"][0]
	assert.Equal(t, "Sagrada Familia", restored.Name)
	assert.Equal(t, "09:30", restored.Time)
	assert.NotEmpty(t, restored.ID)
	require.NotNil(t, restored.Weather)
	assert.Equal(t, "24°C - Clear sky", restored.Weather.Text)
	assert.Equal(t, 41.39, *restored.Lat)
}

func TestItineraryFromItems_Empty(t *testing.T) {
	it := ItineraryFromItems(nil)

	assert.Equal(t, []string{"Day 1"}, it.DayOrder)
	assert.Equal(t, "Day 1", it.ActiveDay)
}

func TestFlattenRoundTrip(t *testing.T) {
	it := NewItinerary()
	require.NoError(t, it.AddItem("Day 1", NewItineraryItem("A", "08:00")))
	require.NoError(t, it.AddItem("Day 1", NewItineraryItem("B", "12:45")))
	it.AddDay()
	require.NoError(t, it.AddItem("Day 2", NewItineraryItem("C", "10:15")))

	restored := ItineraryFromItems(FlattenItinerary(it))

	assert.Equal(t, it.DayOrder, restored.DayOrder)
	for _, day := range it.DayOrder {
		require.Len(t, restored.Days[day], len(it.Days[day]))
		for i, item := range it.Days[day] {
			assert.Equal(t, item.Name, restored.Days[day][i].Name)
			assert.Equal(t, item.Time, restored.Days[day][i].Time)
		}
	}
}
