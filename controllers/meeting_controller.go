package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/services"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

type MeetingController struct {
	service *services.MeetingService
}

func NewMeetingController(service *services.MeetingService) *MeetingController {
	return &MeetingController{service: service}
}

// ListMeetings handles GET /api/meetings
func (mc *MeetingController) ListMeetings(c echo.Context) error {
	meetings, err := mc.service.List(c.Request().Context(), models.MeetingFilter{
		EmployeeID: c.QueryParam("employeeId"),
		Status:     c.QueryParam("status"),
		LeadID:     c.QueryParam("leadId"),
		StartDate:  c.QueryParam("startDate"),
		EndDate:    c.QueryParam("endDate"),
		Limit:      utils.ParseLimit(c.QueryParam("limit"), 0),
	})
	if err != nil {
		return respondError(c, err, "Meetings not found")
	}
	return respond(c, http.StatusOK, "Meetings retrieved successfully", meetings)
}

// ActiveMeetings handles GET /api/meetings/active
func (mc *MeetingController) ActiveMeetings(c echo.Context) error {
	meetings, err := mc.service.Active(c.Request().Context(), c.QueryParam("employeeId"))
	if err != nil {
		return respondError(c, err, "Meetings not found")
	}
	return respond(c, http.StatusOK, "Active meetings retrieved successfully", meetings)
}

// CreateMeeting handles POST /api/meetings
func (mc *MeetingController) CreateMeeting(c echo.Context) error {
	var req models.CreateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	meeting, err := mc.service.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "")
	}
	return respond(c, http.StatusCreated, "Meeting started", meeting)
}

func (mc *MeetingController) GetMeeting(c echo.Context) error {
	meeting, err := mc.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return respondError(c, err, "Meeting not found")
	}
	return respond(c, http.StatusOK, "Meeting retrieved successfully", meeting)
}

// UpdateMeeting handles PUT /api/meetings/:id
func (mc *MeetingController) UpdateMeeting(c echo.Context) error {
	var req models.UpdateMeetingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	meeting, err := mc.service.Update(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, err, "Meeting not found")
	}
	return respond(c, http.StatusOK, "Meeting updated", meeting)
}

func (mc *MeetingController) DeleteMeeting(c echo.Context) error {
	if err := mc.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return respondError(c, err, "Meeting not found")
	}
	return respond(c, http.StatusOK, "Meeting deleted", nil)
}
