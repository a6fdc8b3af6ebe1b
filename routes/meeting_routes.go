package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/controllers"
)

// RegisterMeetingRoutes registers meeting, meeting history and remark routes
func RegisterMeetingRoutes(api *echo.Group, mc *controllers.MeetingController, hc *controllers.MeetingHistoryController) {
	meetings := api.Group("/meetings")
	meetings.GET("", mc.ListMeetings)
	meetings.POST("", mc.CreateMeeting)
	meetings.GET("/active", mc.ActiveMeetings)
	meetings.GET("/:id", mc.GetMeeting)
	meetings.PUT("/:id", mc.UpdateMeeting)
	meetings.DELETE("/:id", mc.DeleteMeeting)

	api.GET("/meeting-history", hc.ListHistory)
	api.POST("/meeting-history", hc.CreateHistory)
	api.POST("/incomplete-meeting-remarks", hc.IncompleteMeetingRemark)
}
