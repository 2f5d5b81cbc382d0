package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"tripway/internal/models"
	"tripway/internal/services"
	"tripway/internal/utils"
	"tripway/pkg/websocket"
)

// PlannerHandler exposes the itinerary store's intents over HTTP. One live
// planner session exists per trip id; the rendering layer dispatches
// intents here and subscribes to snapshots over the websocket hub.
type PlannerHandler struct {
	mu        sync.Mutex
	sessions  map[string]services.PlannerService
	factory   func() services.PlannerService
	hub       *websocket.Hub
	poiRadius int
}

func NewPlannerHandler(factory func() services.PlannerService, hub *websocket.Hub) *PlannerHandler {
	return &PlannerHandler{
		sessions: make(map[string]services.PlannerService),
		factory:  factory,
		hub:      hub,
	}
}

// SetDefaultPOIRadius sets the radius used when an explore request does not
// carry one.
func (h *PlannerHandler) SetDefaultPOIRadius(meters int) {
	h.poiRadius = meters
}

func (h *PlannerHandler) session(tripID string) services.PlannerService {
	h.mu.Lock()
	defer h.mu.Unlock()

	if svc, ok := h.sessions[tripID]; ok {
		return svc
	}
	svc := h.factory()
	if h.hub != nil {
		svc.SetOnChange(func(snap *services.Snapshot) {
			h.hub.BroadcastSnapshot(tripID, snap)
		})
	}
	h.sessions[tripID] = svc
	return svc
}

// Snapshot returns the current view model for a trip session.
func (h *PlannerHandler) Snapshot(c *gin.Context) {
	svc := h.session(c.Param("trip"))
	utils.SuccessResponse(c, "", svc.Snapshot())
}

// Subscribe upgrades to a websocket snapshot subscription.
func (h *PlannerHandler) Subscribe(c *gin.Context) {
	tripID := c.Param("trip")
	h.session(tripID) // ensure the session exists before subscribing
	// The upgrader writes its own error response on failure.
	_ = websocket.ServeWS(h.hub, c.Writer, c.Request, tripID)
}

func (h *PlannerHandler) Search(c *gin.Context) {
	var request struct {
		Query string `json:"query" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	svc := h.session(c.Param("trip"))
	if err := svc.Search(c.Request.Context(), request.Query); err != nil {
		respondIntentError(c, err)
		return
	}
	utils.SuccessResponse(c, "Place found", svc.Snapshot())
}

func (h *PlannerHandler) ClickMap(c *gin.Context) {
	var request struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	svc := h.session(c.Param("trip"))
	if err := svc.ClickMap(c.Request.Context(), models.Coordinate{Lat: request.Lat, Lng: request.Lng}); err != nil {
		respondIntentError(c, err)
		return
	}
	utils.SuccessResponse(c, "Click handled", svc.Snapshot())
}

func (h *PlannerHandler) SelectMarker(c *gin.Context) {
	var request struct {
		Label string  `json:"label"`
		Lat   float64 `json:"lat"`
		Lng   float64 `json:"lng"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	svc := h.session(c.Param("trip"))
	svc.SelectMarker(request.Label, models.Coordinate{Lat: request.Lat, Lng: request.Lng})
	utils.SuccessResponse(c, "Marker selected", svc.Snapshot())
}

func (h *PlannerHandler) ToggleRouteMode(c *gin.Context) {
	svc := h.session(c.Param("trip"))
	svc.ToggleRouteMode()
	utils.SuccessResponse(c, "Route mode toggled", svc.Snapshot())
}

func (h *PlannerHandler) AddItem(c *gin.Context) {
	var request struct {
		Time string `json:"time" binding:"required"`
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	svc := h.session(c.Param("trip"))
	item, err := svc.AddItem(c.Request.Context(), request.Time, request.Name)
	if err != nil {
		respondIntentError(c, err)
		return
	}
	utils.CreatedResponse(c, "Item added", item)
}

func (h *PlannerHandler) RemoveItem(c *gin.Context) {
	svc := h.session(c.Param("trip"))
	svc.RemoveItem(c.Param("day"), c.Param("item"))
	utils.NoContentResponse(c)
}

func (h *PlannerHandler) AddDay(c *gin.Context) {
	svc := h.session(c.Param("trip"))
	key := svc.AddDay()
	utils.CreatedResponse(c, "Day added", gin.H{"day": key})
}

func (h *PlannerHandler) RemoveDay(c *gin.Context) {
	svc := h.session(c.Param("trip"))
	if err := svc.RemoveDay(c.Param("day")); err != nil {
		respondIntentError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *PlannerHandler) SetActiveDay(c *gin.Context) {
	var request struct {
		Day string `json:"day" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	svc := h.session(c.Param("trip"))
	if err := svc.SetActiveDay(request.Day); err != nil {
		respondIntentError(c, err)
		return
	}
	utils.SuccessResponse(c, "Active day changed", svc.Snapshot())
}

func (h *PlannerHandler) ViewItem(c *gin.Context) {
	svc := h.session(c.Param("trip"))
	if err := svc.ViewItem(c.Param("item")); err != nil {
		respondIntentError(c, err)
		return
	}
	utils.SuccessResponse(c, "Centered on item", svc.Snapshot())
}

func (h *PlannerHandler) TraceRoute(c *gin.Context) {
	svc := h.session(c.Param("trip"))
	if err := svc.TraceRoute(c.Request.Context(), c.Param("day")); err != nil {
		respondIntentError(c, err)
		return
	}
	utils.SuccessResponse(c, "Route traced", svc.Snapshot())
}

func (h *PlannerHandler) ClearRoute(c *gin.Context) {
	svc := h.session(c.Param("trip"))
	svc.ClearRoute()
	utils.SuccessResponse(c, "Route cleared", svc.Snapshot())
}

func (h *PlannerHandler) SetProfile(c *gin.Context) {
	var request struct {
		Profile string `json:"profile" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	svc := h.session(c.Param("trip"))
	if err := svc.SetProfile(models.TravelProfile(request.Profile)); err != nil {
		respondIntentError(c, err)
		return
	}
	utils.SuccessResponse(c, "Profile changed", svc.Snapshot())
}

func (h *PlannerHandler) ExplorePOIs(c *gin.Context) {
	var request struct {
		RadiusMeters int `json:"radius_meters"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	radius := request.RadiusMeters
	if radius <= 0 {
		radius = h.poiRadius
	}

	svc := h.session(c.Param("trip"))
	if err := svc.ExplorePOIs(c.Request.Context(), radius); err != nil {
		respondIntentError(c, err)
		return
	}
	utils.SuccessResponse(c, "Points of interest loaded", svc.Snapshot())
}

func (h *PlannerHandler) SaveTrip(c *gin.Context) {
	var request struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		utils.BadRequestResponse(c, "Invalid request: "+err.Error())
		return
	}

	svc := h.session(c.Param("trip"))
	meta, err := svc.SaveTrip(c.Request.Context(), request.Title)
	if err != nil {
		respondIntentError(c, err)
		return
	}
	utils.SuccessResponse(c, "Trip saved", meta)
}

func (h *PlannerHandler) LoadTrip(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid trip ID")
		return
	}

	svc := h.session(c.Param("trip"))
	if err := svc.LoadTrip(c.Request.Context(), id); err != nil {
		respondIntentError(c, err)
		return
	}
	utils.SuccessResponse(c, "Trip loaded", svc.Snapshot())
}

// respondIntentError maps the store's error taxonomy onto HTTP statuses.
func respondIntentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		utils.ErrorResponse(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	case errors.Is(err, models.ErrNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "PLACE_NOT_FOUND", err.Error())
	case errors.Is(err, models.ErrInsufficientPoints):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "INSUFFICIENT_POINTS", err.Error())
	case errors.Is(err, models.ErrNoAreaSelected):
		utils.ErrorResponse(c, http.StatusUnprocessableEntity, "NO_AREA_SELECTED", err.Error())
	case errors.Is(err, models.ErrInvariantViolation):
		utils.ConflictResponse(c, err.Error())
	case errors.Is(err, models.ErrAuthRequired):
		utils.UnauthorizedResponse(c)
	case errors.Is(err, models.ErrInvalidResult), errors.Is(err, models.ErrRouteComputation):
		utils.ErrorResponse(c, http.StatusBadGateway, "PROVIDER_ERROR", err.Error())
	case errors.Is(err, models.ErrTransport):
		utils.ErrorResponse(c, http.StatusBadGateway, "TRANSPORT_ERROR", err.Error())
	default:
		utils.InternalServerErrorResponse(c)
	}
}
