package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinate) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// ToLonLat returns the coordinate in the [lon, lat] order routing and
// geocoding providers expect on the wire.
func (c Coordinate) ToLonLat() [2]float64 {
	return [2]float64{c.Lng, c.Lat}
}

type WeatherSummary struct {
	Text string `json:"text"`
	Icon string `json:"icon,omitempty"`
}

// ItineraryItem is one entry of a day plan. Items without coordinates are
// manual entries: they have no map presence and are skipped when routing.
// Weather is the only field mutated after creation.
type ItineraryItem struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Time    string          `json:"time"` // HH:MM, zero-padded 24h
	Lat     *float64        `json:"lat,omitempty"`
	Lng     *float64        `json:"lng,omitempty"`
	Weather *WeatherSummary `json:"weather,omitempty"`
}

func NewItineraryItem(name, timeOfDay string) *ItineraryItem {
	return &ItineraryItem{
		ID:   uuid.NewString(),
		Name: name,
		Time: timeOfDay,
	}
}

func (i *ItineraryItem) HasCoordinates() bool {
	return i.Lat != nil && i.Lng != nil
}

func (i *ItineraryItem) Coordinate() (Coordinate, bool) {
	if !i.HasCoordinates() {
		return Coordinate{}, false
	}
	c := Coordinate{Lat: *i.Lat, Lng: *i.Lng}
	return c, c.Valid()
}

// Clone copies the item so callers cannot observe later in-place weather
// enrichment.
func (i *ItineraryItem) Clone() *ItineraryItem {
	out := *i
	if i.Lat != nil {
		lat := *i.Lat
		out.Lat = &lat
	}
	if i.Lng != nil {
		lng := *i.Lng
		out.Lng = &lng
	}
	if i.Weather != nil {
		w := *i.Weather
		out.Weather = &w
	}
	return &out
}

// Itinerary is the day-partitioned plan. Days keeps insertion order per day
// bucket; DayOrder keeps the bucket order itself, since day removal must
// deterministically activate the first remaining day. At least one day
// always exists and ActiveDay is always a present key.
type Itinerary struct {
	Days      map[string][]*ItineraryItem `json:"days"`
	DayOrder  []string                    `json:"day_order"`
	ActiveDay string                      `json:"active_day"`
}

const firstDayKey = "Day 1"

func NewItinerary() *Itinerary {
	return &Itinerary{
		Days:      map[string][]*ItineraryItem{firstDayKey: {}},
		DayOrder:  []string{firstDayKey},
		ActiveDay: firstDayKey,
	}
}

// AddDay creates the next sequentially named day and makes it active. The
// name counts up from the current day count, skipping names still in use
// after earlier removals.
func (it *Itinerary) AddDay() string {
	n := len(it.DayOrder) + 1
	key := fmt.Sprintf("Day %d", n)
	for {
		if _, exists := it.Days[key]; !exists {
			break
		}
		n++
		key = fmt.Sprintf("Day %d", n)
	}
	it.Days[key] = []*ItineraryItem{}
	it.DayOrder = append(it.DayOrder, key)
	it.ActiveDay = key
	return key
}

func (it *Itinerary) RemoveDay(key string) error {
	if _, exists := it.Days[key]; !exists {
		return fmt.Errorf("%w: unknown day %q", ErrValidation, key)
	}
	if len(it.DayOrder) <= 1 {
		return fmt.Errorf("%w: cannot remove the last day", ErrInvariantViolation)
	}
	delete(it.Days, key)
	for i, k := range it.DayOrder {
		if k == key {
			it.DayOrder = append(it.DayOrder[:i], it.DayOrder[i+1:]...)
			break
		}
	}
	if it.ActiveDay == key {
		it.ActiveDay = it.DayOrder[0]
	}
	return nil
}

func (it *Itinerary) SetActiveDay(key string) error {
	if _, exists := it.Days[key]; !exists {
		return fmt.Errorf("%w: unknown day %q", ErrValidation, key)
	}
	it.ActiveDay = key
	return nil
}

func (it *Itinerary) AddItem(dayKey string, item *ItineraryItem) error {
	if _, exists := it.Days[dayKey]; !exists {
		return fmt.Errorf("%w: unknown day %q", ErrValidation, dayKey)
	}
	it.Days[dayKey] = append(it.Days[dayKey], item)
	return nil
}

// RemoveItem deletes an item by id; missing items are a no-op.
func (it *Itinerary) RemoveItem(dayKey, itemID string) bool {
	items, exists := it.Days[dayKey]
	if !exists {
		return false
	}
	for i, item := range items {
		if item.ID == itemID {
			it.Days[dayKey] = append(items[:i], items[i+1:]...)
			return true
		}
	}
	return false
}

// Item looks an item up across all days.
func (it *Itinerary) Item(itemID string) (*ItineraryItem, string, bool) {
	for _, key := range it.DayOrder {
		for _, item := range it.Days[key] {
			if item.ID == itemID {
				return item, key, true
			}
		}
	}
	return nil, "", false
}

// SortedItems returns a day's items in display order: ascending by time,
// stable so ties keep insertion order. String comparison is safe because
// times are zero-padded HH:MM.
func (it *Itinerary) SortedItems(dayKey string) []*ItineraryItem {
	items := it.Days[dayKey]
	out := make([]*ItineraryItem, len(items))
	copy(out, items)
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Time < out[b].Time
	})
	return out
}

// RoutablePoints returns a day's geolocated items in display order as
// coordinates, the input for whole-day route computation.
func (it *Itinerary) RoutablePoints(dayKey string) []Coordinate {
	var points []Coordinate
	for _, item := range it.SortedItems(dayKey) {
		if c, ok := item.Coordinate(); ok {
			points = append(points, c)
		}
	}
	return points
}

// Clone returns a deep copy safe to hand out of the store.
func (it *Itinerary) Clone() *Itinerary {
	out := &Itinerary{
		Days:      make(map[string][]*ItineraryItem, len(it.Days)),
		DayOrder:  append([]string(nil), it.DayOrder...),
		ActiveDay: it.ActiveDay,
	}
	for key, items := range it.Days {
		cloned := make([]*ItineraryItem, len(items))
		for i, item := range items {
			cloned[i] = item.Clone()
		}
		out.Days[key] = cloned
	}
	return out
}
