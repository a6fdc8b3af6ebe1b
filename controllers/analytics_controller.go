package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/services"
)

type AnalyticsController struct {
	analytics  *services.AnalyticsService
	attendance *services.AttendanceService
}

func NewAnalyticsController(analytics *services.AnalyticsService, attendance *services.AttendanceService) *AnalyticsController {
	return &AnalyticsController{analytics: analytics, attendance: attendance}
}

// EmployeeAnalytics handles GET /api/analytics/employees?dateRange=&startDate=&endDate=
func (ac *AnalyticsController) EmployeeAnalytics(c echo.Context) error {
	report, err := ac.analytics.ComputeForRange(c.Request().Context(),
		c.QueryParam("dateRange"), c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return respondError(c, err, "")
	}
	return respond(c, http.StatusOK, "Analytics retrieved successfully", report)
}

// EmployeeDetails handles GET /api/analytics/employee-details/:employeeId
func (ac *AnalyticsController) EmployeeDetails(c echo.Context) error {
	details, err := ac.analytics.EmployeeDetails(c.Request().Context(), c.Param("employeeId"),
		c.QueryParam("dateRange"), c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return respondError(c, err, "Employee not found")
	}
	return respond(c, http.StatusOK, "Employee details retrieved successfully", details)
}

// SaveAttendance handles POST /api/analytics/save-attendance
func (ac *AnalyticsController) SaveAttendance(c echo.Context) error {
	var req models.SaveAttendanceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return respondError(c, err, "")
	}

	record, err := ac.attendance.Save(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err, "")
	}
	return respond(c, http.StatusOK, "Attendance saved", record)
}

// ListAttendance handles GET /api/analytics/attendance?employeeId=&startDate=&endDate=
func (ac *AnalyticsController) ListAttendance(c echo.Context) error {
	records, err := ac.attendance.List(c.Request().Context(),
		c.QueryParam("employeeId"), c.QueryParam("startDate"), c.QueryParam("endDate"))
	if err != nil {
		return respondError(c, err, "")
	}
	return respond(c, http.StatusOK, "Attendance retrieved successfully", records)
}
