package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/controllers"
)

// RegisterTrackingRoutes registers tracking session and route snapshot routes
func RegisterTrackingRoutes(api *echo.Group, tc *controllers.TrackingSessionController, rc *controllers.RouteSnapshotController) {
	sessions := api.Group("/tracking-sessions")
	sessions.GET("", tc.ListSessions)
	sessions.POST("", tc.CreateSession)
	sessions.GET("/:id", tc.GetSession)
	sessions.PUT("/:id", tc.UpdateSession)
	sessions.DELETE("/:id", tc.DeleteSession)
	sessions.POST("/:id/location", tc.AppendLocation)

	snapshots := api.Group("/route-snapshots")
	snapshots.GET("", rc.ListSnapshots)
	snapshots.POST("", rc.CreateSnapshot)
	snapshots.GET("/:id", rc.GetSnapshot)
	snapshots.PUT("/:id", rc.UpdateSnapshot)
	snapshots.DELETE("/:id", rc.DeleteSnapshot)
}
