package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/services"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

type RouteSnapshotController struct {
	service *services.RouteSnapshotService
}

func NewRouteSnapshotController(service *services.RouteSnapshotService) *RouteSnapshotController {
	return &RouteSnapshotController{service: service}
}

func (rc *RouteSnapshotController) ListSnapshots(c echo.Context) error {
	snapshots, err := rc.service.List(c.Request().Context(), models.SnapshotFilter{
		EmployeeID: c.QueryParam("employeeId"),
		SessionID:  c.QueryParam("sessionId"),
		StartDate:  c.QueryParam("startDate"),
		EndDate:    c.QueryParam("endDate"),
		Limit:      utils.ParseLimit(c.QueryParam("limit"), 0),
	})
	if err != nil {
		return respondError(c, err, "Route snapshots not found")
	}
	return respond(c, http.StatusOK, "Route snapshots retrieved successfully", snapshots)
}

func (rc *RouteSnapshotController) CreateSnapshot(c echo.Context) error {
	var req models.CreateRouteSnapshotRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	snapshot, err := rc.service.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Tracking session not found")
	}
	return respond(c, http.StatusCreated, "Route snapshot saved", snapshot)
}

func (rc *RouteSnapshotController) GetSnapshot(c echo.Context) error {
	snapshot, err := rc.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Route snapshot not found")
	}
	return respond(c, http.StatusOK, "Route snapshot retrieved successfully", snapshot)
}

func (rc *RouteSnapshotController) UpdateSnapshot(c echo.Context) error {
	var req models.UpdateRouteSnapshotRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	snapshot, err := rc.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, err, "Route snapshot not found")
	}
	return respond(c, http.StatusOK, "Route snapshot updated", snapshot)
}

func (rc *RouteSnapshotController) DeleteSnapshot(c echo.Context) error {
	if err := rc.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err, "Route snapshot not found")
	}
	return respond(c, http.StatusOK, "Route snapshot deleted", nil)
}
