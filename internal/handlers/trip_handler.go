package handlers

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"tripway/internal/models"
	"tripway/internal/repositories/interfaces"
	"tripway/internal/utils"
)

// TripHandler is a thin passthrough over the trip persistence gateway
// for operations that do not touch a live planner session.
type TripHandler struct {
	gateway interfaces.TripGateway
}

func NewTripHandler(gateway interfaces.TripGateway) *TripHandler {
	return &TripHandler{gateway: gateway}
}

func (h *TripHandler) ListTrips(c *gin.Context) {
	trips, err := h.gateway.List(c.Request.Context())
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	utils.SuccessResponse(c, "Trips retrieved", trips)
}

func (h *TripHandler) GetTrip(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid trip ID")
		return
	}

	trip, err := h.gateway.Get(c.Request.Context(), id)
	if err != nil {
		respondGatewayError(c, err)
		return
	}
	utils.SuccessResponse(c, "Trip retrieved", trip)
}

func (h *TripHandler) DeleteTrip(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid trip ID")
		return
	}

	if err := h.gateway.Delete(c.Request.Context(), id); err != nil {
		respondGatewayError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func respondGatewayError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrAuthRequired):
		utils.UnauthorizedResponse(c)
	case errors.Is(err, models.ErrNotFound):
		utils.NotFoundResponse(c, "Trip")
	default:
		utils.InternalServerErrorResponse(c)
	}
}
