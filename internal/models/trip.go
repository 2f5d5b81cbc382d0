package models

import (
	"strings"
	"time"
)

// TripMeta identifies a trip draft. A nil ID means the trip has not been
// persisted yet; the first successful save promotes it.
type TripMeta struct {
	ID    *int64 `json:"id,omitempty"`
	Title string `json:"title"`
}

// Trip is the persistence backend's resource shape.
type Trip struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	Items     []TripItem `json:"items"`
}

// TripItem is the flattened wire form of an itinerary item: the day
// partition travels as day_key and times are HH:MM:SS.
type TripItem struct {
	ID          int64    `json:"id,omitempty"`
	DayKey      string   `json:"day_key"`
	Name        string   `json:"name"`
	Time        string   `json:"time"`
	Lat         *float64 `json:"lat"`
	Lng         *float64 `json:"lng"`
	WeatherText string   `json:"weather_text"`
	WeatherIcon string   `json:"weather_icon"`
}

// TripPayload is the request body for create and update calls.
type TripPayload struct {
	Title string     `json:"title"`
	Items []TripItem `json:"items"`
}

// FlattenItinerary maps the day-partitioned itinerary to the persisted item
// list, each item carrying its day key.
func FlattenItinerary(it *Itinerary) []TripItem {
	items := make([]TripItem, 0)
	for _, dayKey := range it.DayOrder {
		for _, item := range it.Days[dayKey] {
			out := TripItem{
				DayKey: dayKey,
				Name:   item.Name,
				Time:   wireTime(item.Time),
			}
			if item.Lat != nil {
				lat := *item.Lat
				out.Lat = &lat
			}
			if item.Lng != nil {
				lng := *item.Lng
				out.Lng = &lng
			}
			if item.Weather != nil {
				out.WeatherText = item.Weather.Text
				out.WeatherIcon = item.Weather.Icon
			}
			items = append(items, out)
		}
	}
	return items
}

// ItineraryFromItems rebuilds the day-partitioned structure from persisted
// items, preserving the stored day-key order of first appearance. An empty
// item list still yields the single-day invariant.
func ItineraryFromItems(items []TripItem) *Itinerary {
	it := &Itinerary{Days: map[string][]*ItineraryItem{}}
	for _, wire := range items {
		if _, exists := it.Days[wire.DayKey]; !exists {
			it.Days[wire.DayKey] = []*ItineraryItem{}
			it.DayOrder = append(it.DayOrder, wire.DayKey)
		}
		item := NewItineraryItem(wire.Name, displayTime(wire.Time))
		if wire.Lat != nil {
			lat := *wire.Lat
			item.Lat = &lat
		}
		if wire.Lng != nil {
			lng := *wire.Lng
			item.Lng = &lng
		}
		if wire.WeatherText != "" || wire.WeatherIcon != "" {
			item.Weather = &WeatherSummary{Text: wire.WeatherText, Icon: wire.WeatherIcon}
		}
		it.Days[wire.DayKey] = append(it.Days[wire.DayKey], item)
	}
	if len(it.DayOrder) == 0 {
		it.Days[firstDayKey] = []*ItineraryItem{}
		it.DayOrder = []string{firstDayKey}
	}
	it.ActiveDay = it.DayOrder[0]
	return it
}

// wireTime widens HH:MM to the backend's HH:MM:SS.
func wireTime(t string) string {
	if strings.Count(t, ":") == 1 {
		return t + ":00"
	}
	return t
}

// displayTime narrows HH:MM:SS back to HH:MM.
func displayTime(t string) string {
	if strings.Count(t, ":") == 2 {
		return t[:strings.LastIndex(t, ":")]
	}
	return t
}
