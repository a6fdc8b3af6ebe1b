package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/HSouheill/fieldtrack_backend/controllers"
	"github.com/HSouheill/fieldtrack_backend/websocket"
)

// Handlers bundles every controller the router needs.
type Handlers struct {
	Health    *controllers.HealthController
	Employees *controllers.EmployeeController
	Sessions  *controllers.TrackingSessionController
	Meetings  *controllers.MeetingController
	History   *controllers.MeetingHistoryController
	Analytics *controllers.AnalyticsController
	Snapshots *controllers.RouteSnapshotController
	Data      *controllers.DataController
	Hub       *websocket.Hub
}

// SetupRoutes configures all API routes by calling individual route registration functions
func SetupRoutes(e *echo.Echo, h Handlers) {
	e.Match([]string{"GET", "HEAD"}, "/health", h.Health.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.GET("/ws/locations", func(c echo.Context) error {
		return websocket.HandleWebSocket(c, h.Hub)
	})

	RegisterEmployeeRoutes(api, h.Employees)
	RegisterTrackingRoutes(api, h.Sessions, h.Snapshots)
	RegisterMeetingRoutes(api, h.Meetings, h.History)
	RegisterAnalyticsRoutes(api, h.Analytics, h.Data)
}
