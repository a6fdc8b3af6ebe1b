package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/controllers"
)

// RegisterAnalyticsRoutes registers analytics, attendance and storage maintenance routes
func RegisterAnalyticsRoutes(api *echo.Group, ac *controllers.AnalyticsController, dc *controllers.DataController) {
	analytics := api.Group("/analytics")
	analytics.GET("/employees", ac.EmployeeAnalytics)
	analytics.GET("/employee-details/:employeeId", ac.EmployeeDetails)
	analytics.POST("/save-attendance", ac.SaveAttendance)
	analytics.GET("/attendance", ac.ListAttendance)

	api.GET("/data-status", dc.DataStatus)
	api.POST("/data-sync", dc.DataSync)
}
