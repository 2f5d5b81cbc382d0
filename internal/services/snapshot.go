package services

import (
	"tripway/internal/models"
	"tripway/pkg/geocode"
	"tripway/pkg/routing"
)

// BusyFlags mirror the in-progress state of each asynchronous slot so the
// rendering layer can show per-operation spinners.
type BusyFlags struct {
	Geocoding bool `json:"geocoding"`
	Routing   bool `json:"routing"`
	Exploring bool `json:"exploring"`
	Saving    bool `json:"saving"`
}

// DayView is one day bucket in display order.
type DayView struct {
	Key   string                  `json:"key"`
	Items []*models.ItineraryItem `json:"items"`
}

// Snapshot is a deep-copied view model of the store. The rendering layer
// only ever sees snapshots; mutating one never touches store state.
type Snapshot struct {
	Meta      models.TripMeta `json:"meta"`
	Days      []DayView       `json:"days"`
	ActiveDay string          `json:"active_day"`

	MapCenter models.Coordinate `json:"map_center"`
	MapZoom   int               `json:"map_zoom"`
	Markers   []models.Marker   `json:"markers"`

	PendingName  string         `json:"pending_name,omitempty"`
	PendingPlace *geocode.Place `json:"pending_place,omitempty"`

	RoutePick models.RoutePick     `json:"route_pick"`
	Profile   models.TravelProfile `json:"profile"`
	Route     *routing.Result      `json:"route,omitempty"`

	Status models.Status `json:"status"`
	Busy   BusyFlags     `json:"busy"`
}

func (s *plannerService) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *plannerService) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		Meta:        s.meta,
		ActiveDay:   s.itinerary.ActiveDay,
		MapCenter:   s.mapCenter,
		MapZoom:     s.mapZoom,
		PendingName: s.pendingName,
		RoutePick:   s.pick,
		Profile:     s.profile,
		Route:       s.route,
		Status:      s.status,
		Busy:        s.busy,
	}
	if s.meta.ID != nil {
		id := *s.meta.ID
		snap.Meta.ID = &id
	}
	if s.lastSearch != nil {
		place := *s.lastSearch
		snap.PendingPlace = &place
	}
	if s.pick.PointA != nil {
		a := *s.pick.PointA
		snap.RoutePick.PointA = &a
	}
	if s.pick.PointB != nil {
		b := *s.pick.PointB
		snap.RoutePick.PointB = &b
	}

	for _, dayKey := range s.itinerary.DayOrder {
		sorted := s.itinerary.SortedItems(dayKey)
		items := make([]*models.ItineraryItem, len(sorted))
		for i, item := range sorted {
			items[i] = item.Clone()
		}
		snap.Days = append(snap.Days, DayView{Key: dayKey, Items: items})
	}

	snap.Markers = s.markersLocked()
	return snap
}

// markersLocked layers marker sets in draw order: pending selection, active
// day itinerary, POIs, then A/B endpoints on top.
func (s *plannerService) markersLocked() []models.Marker {
	var markers []models.Marker

	if s.lastSearch != nil {
		markers = append(markers, models.Marker{
			Lat:   s.lastSearch.Lat,
			Lng:   s.lastSearch.Lng,
			Title: s.lastSearch.DisplayName,
			Layer: models.LayerSearch,
		})
	}

	for _, item := range s.itinerary.SortedItems(s.itinerary.ActiveDay) {
		if coord, ok := item.Coordinate(); ok {
			markers = append(markers, models.Marker{
				Lat:   coord.Lat,
				Lng:   coord.Lng,
				Title: item.Time + " - " + item.Name,
				Layer: models.LayerItinerary,
			})
		}
	}

	for _, marker := range s.poiMarkers {
		markers = append(markers, models.Marker{
			Lat:   marker.Lat,
			Lng:   marker.Lng,
			Title: marker.Name,
			Layer: models.LayerPOI,
			Color: marker.Category.Color(),
		})
	}

	if s.pick.PointA != nil {
		markers = append(markers, models.Marker{
			Lat:   s.pick.PointA.Lat,
			Lng:   s.pick.PointA.Lng,
			Title: "Point A",
			Layer: models.LayerRoutePick,
		})
	}
	if s.pick.PointB != nil {
		markers = append(markers, models.Marker{
			Lat:   s.pick.PointB.Lat,
			Lng:   s.pick.PointB.Lng,
			Title: "Point B",
			Layer: models.LayerRoutePick,
		})
	}

	return markers
}
