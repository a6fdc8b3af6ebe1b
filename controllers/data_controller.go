package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/services"
)

// DataController exposes the dual-path storage diagnostics and repair.
type DataController struct {
	service *services.DataService
}

func NewDataController(service *services.DataService) *DataController {
	return &DataController{service: service}
}

// DataStatus handles GET /api/data-status
func (dc *DataController) DataStatus(c echo.Context) error {
	return respond(c, http.StatusOK, "Data status retrieved successfully", dc.service.Status(c.Request().Context()))
}

// DataSync handles POST /api/data-sync
func (dc *DataController) DataSync(c echo.Context) error {
	return respond(c, http.StatusOK, "Data sync completed", dc.service.Sync(c.Request().Context()))
}
