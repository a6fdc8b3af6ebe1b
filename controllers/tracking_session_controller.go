package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/services"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

type TrackingSessionController struct {
	service *services.TrackingService
}

func NewTrackingSessionController(service *services.TrackingService) *TrackingSessionController {
	return &TrackingSessionController{service: service}
}

// ListSessions handles GET /api/tracking-sessions
func (tc *TrackingSessionController) ListSessions(c echo.Context) error {
	sessions, err := tc.service.List(c.Request().Context(), models.SessionFilter{
		EmployeeID: c.QueryParam("employeeId"),
		Status:     c.QueryParam("status"),
		StartDate:  c.QueryParam("startDate"),
		EndDate:    c.QueryParam("endDate"),
		Limit:      utils.ParseLimit(c.QueryParam("limit"), 0),
	})
	if err != nil {
		return respondError(c, err, "Tracking sessions not found")
	}
	return respond(c, http.StatusOK, "Tracking sessions retrieved successfully", sessions)
}

// CreateSession handles POST /api/tracking-sessions
func (tc *TrackingSessionController) CreateSession(c echo.Context) error {
	var req models.CreateTrackingSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	session, err := tc.service.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "")
	}
	return respond(c, http.StatusCreated, "Tracking session started", session)
}

func (tc *TrackingSessionController) GetSession(c echo.Context) error {
	session, err := tc.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Tracking session not found")
	}
	return respond(c, http.StatusOK, "Tracking session retrieved successfully", session)
}

// UpdateSession handles PUT /api/tracking-sessions/:id
func (tc *TrackingSessionController) UpdateSession(c echo.Context) error {
	var req models.UpdateTrackingSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	session, err := tc.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, err, "Tracking session not found")
	}
	return respond(c, http.StatusOK, "Tracking session updated", session)
}

// AppendLocation handles POST /api/tracking-sessions/:id/location
func (tc *TrackingSessionController) AppendLocation(c echo.Context) error {
	var req models.AppendLocationRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	session, err := tc.service.AppendLocation(c.Request().Context(), c.Param("id"), req.Location)
	if err != nil {
		return respondError(c, err, "Tracking session not found")
	}
	return respond(c, http.StatusOK, "Location added", session)
}

func (tc *TrackingSessionController) DeleteSession(c echo.Context) error {
	if err := tc.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err, "Tracking session not found")
	}
	return respond(c, http.StatusOK, "Tracking session deleted", nil)
}
