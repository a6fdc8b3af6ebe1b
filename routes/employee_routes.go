package routes

import (
	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/controllers"
)

// RegisterEmployeeRoutes registers the employee directory and geocoding routes
func RegisterEmployeeRoutes(api *echo.Group, ec *controllers.EmployeeController) {
	employees := api.Group("/employees")
	employees.GET("", ec.ListEmployees)
	// Static paths are registered before :id so they are never captured as an id.
	employees.POST("/refresh-locations", ec.RefreshLocations)
	employees.POST("/clear-cache", ec.ClearCache)
	employees.GET("/:id", ec.GetEmployee)
	employees.PUT("/:id/status", ec.UpdateStatus)

	api.GET("/geocode", ec.Geocode)
}
