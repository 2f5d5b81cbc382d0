package routes

import (
	"github.com/gin-gonic/gin"

	"tripway/internal/handlers"
)

// SetupPlannerRoutes wires the planner session intents and the trip
// persistence passthrough onto the API group.
func SetupPlannerRoutes(r *gin.RouterGroup, plannerHandler *handlers.PlannerHandler, tripHandler *handlers.TripHandler) {
	planner := r.Group("/planner/:trip")
	{
		planner.GET("/snapshot", plannerHandler.Snapshot)
		planner.GET("/subscribe", plannerHandler.Subscribe)

		planner.POST("/search", plannerHandler.Search)
		planner.POST("/click", plannerHandler.ClickMap)
		planner.POST("/select-marker", plannerHandler.SelectMarker)
		planner.POST("/route-mode/toggle", plannerHandler.ToggleRouteMode)

		planner.POST("/items", plannerHandler.AddItem)
		planner.DELETE("/days/:day/items/:item", plannerHandler.RemoveItem)
		planner.GET("/items/:item/view", plannerHandler.ViewItem)

		planner.POST("/days", plannerHandler.AddDay)
		planner.DELETE("/days/:day", plannerHandler.RemoveDay)
		planner.PUT("/days/active", plannerHandler.SetActiveDay)

		planner.POST("/days/:day/route", plannerHandler.TraceRoute)
		planner.DELETE("/route", plannerHandler.ClearRoute)
		planner.PUT("/profile", plannerHandler.SetProfile)

		planner.POST("/explore", plannerHandler.ExplorePOIs)

		planner.POST("/save", plannerHandler.SaveTrip)
		planner.POST("/load/:id", plannerHandler.LoadTrip)
	}

	trips := r.Group("/trips")
	{
		trips.GET("/", tripHandler.ListTrips)
		trips.GET("/:id", tripHandler.GetTrip)
		trips.DELETE("/:id", tripHandler.DeleteTrip)
	}
}
