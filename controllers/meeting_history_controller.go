package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/services"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

type MeetingHistoryController struct {
	history  *services.MeetingHistoryService
	meetings *services.MeetingService
}

func NewMeetingHistoryController(history *services.MeetingHistoryService, meetings *services.MeetingService) *MeetingHistoryController {
	return &MeetingHistoryController{history: history, meetings: meetings}
}

// ListHistory handles GET /api/meeting-history
func (hc *MeetingHistoryController) ListHistory(c echo.Context) error {
	records, err := hc.history.List(c.Request().Context(), models.HistoryFilter{
		EmployeeID: c.QueryParam("employeeId"),
		SessionID:  c.QueryParam("sessionId"),
		LeadID:     c.QueryParam("leadId"),
		Type:       c.QueryParam("type"),
		Limit:      utils.ParseLimit(c.QueryParam("limit"), 0),
	})
	if err != nil {
		return respondError(c, err, "Meeting history not found")
	}
	return respond(c, http.StatusOK, "Meeting history retrieved successfully", records)
}

// CreateHistory handles POST /api/meeting-history
func (hc *MeetingHistoryController) CreateHistory(c echo.Context) error {
	var req models.CreateMeetingHistoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	record, err := hc.history.Create(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "")
	}
	return respond(c, http.StatusCreated, "Meeting history saved", record)
}

// IncompleteMeetingRemark handles POST /api/incomplete-meeting-remarks
func (hc *MeetingHistoryController) IncompleteMeetingRemark(c echo.Context) error {
	var req models.IncompleteMeetingRemarkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	record, err := hc.meetings.RecordIncompleteRemark(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "Meeting not found")
	}
	return respond(c, http.StatusCreated, "Incomplete meeting remark saved", record)
}
