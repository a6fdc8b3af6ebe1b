package controllers

import (
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/services"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

// EmployeeController serves the merged employee directory and its runtime state.
type EmployeeController struct {
	service  *services.EmployeeService
	geocoder *services.GeocodeCache
}

func NewEmployeeController(service *services.EmployeeService, geocoder *services.GeocodeCache) *EmployeeController {
	return &EmployeeController{service: service, geocoder: geocoder}
}

// ListEmployees handles GET /api/employees
func (ec *EmployeeController) ListEmployees(c echo.Context) error {
	employees, err := ec.service.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "Employees not found")
	}
	return respond(c, http.StatusOK, "Employees retrieved successfully", employees)
}

func (ec *EmployeeController) GetEmployee(c echo.Context) error {
	employee, err := ec.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Employee not found")
	}
	return respond(c, http.StatusOK, "Employee retrieved successfully", employee)
}

// UpdateStatus handles PUT /api/employees/:id/status
func (ec *EmployeeController) UpdateStatus(c echo.Context) error {
	var req models.UpdateEmployeeStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	employee, err := ec.service.UpdateStatus(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, err, "Employee not found")
	}
	return respond(c, http.StatusOK, "Employee status updated", employee)
}

// RefreshLocations handles POST /api/employees/refresh-locations
func (ec *EmployeeController) RefreshLocations(c echo.Context) error {
	refreshed, err := ec.service.RefreshLocations(c.Request().Context())
	if err != nil {
		return respondError(c, err, "")
	}
	return respond(c, http.StatusOK, "Employee locations refreshed", map[string]int{"refreshed": refreshed})
}

// ClearCache handles POST /api/employees/clear-cache
func (ec *EmployeeController) ClearCache(c echo.Context) error {
	ec.service.ClearCache(c.Request().Context())
	return respond(c, http.StatusOK, "Caches cleared", nil)
}

// Geocode handles GET /api/geocode?lat=&lng=
func (ec *EmployeeController) Geocode(c echo.Context) error {
	if c.QueryParam("lat") == "" || c.QueryParam("lng") == "" {
		return respond(c, http.StatusBadRequest, "lat and lng are required", nil)
	}
	lat, err := utils.ParseFloat(c.QueryParam("lat"))
	if err != nil || math.IsNaN(lat) || lat < -90 || lat > 90 {
		return respond(c, http.StatusBadRequest, "lat must be a number between -90 and 90", nil)
	}
	lng, err := utils.ParseFloat(c.QueryParam("lng"))
	if err != nil || math.IsNaN(lng) || lng < -180 || lng > 180 {
		return respond(c, http.StatusBadRequest, "lng must be a number between -180 and 180", nil)
	}

	address := ec.geocoder.Resolve(c.Request().Context(), lat, lng)
	return respond(c, http.StatusOK, "Address resolved", models.Location{Lat: lat, Lng: lng, Address: address})
}
