package models

// Request bodies are bound by Echo and checked with go-playground/validator
// before they reach a service.

type CreateTrackingSessionRequest struct {
	EmployeeID    string     `json:"employeeId" validate:"required"`
	StartLocation *Location  `json:"startLocation" validate:"required"`
	StartTime     string     `json:"startTime,omitempty"`
	Route         []Location `json:"route,omitempty" validate:"omitempty,dive"`
	TotalDistance *float64   `json:"totalDistance,omitempty"`
	Status        string     `json:"status,omitempty" validate:"omitempty,oneof=active completed paused"`
}

type UpdateTrackingSessionRequest struct {
	Status      string    `json:"status,omitempty" validate:"omitempty,oneof=active completed paused"`
	StartTime   string    `json:"startTime,omitempty"`
	EndTime     string    `json:"endTime,omitempty"`
	EndLocation *Location `json:"endLocation,omitempty"`
}

type AppendLocationRequest struct {
	Location *Location `json:"location" validate:"required"`
}

type CreateMeetingRequest struct {
	EmployeeID string           `json:"employeeId" validate:"required"`
	Location   *MeetingLocation `json:"location" validate:"required"`
	StartTime  string           `json:"startTime,omitempty"`
	Status     string           `json:"status,omitempty" validate:"omitempty,oneof=started in-progress"`
	LeadID     string           `json:"leadId,omitempty"`
	LeadInfo   *LeadInfo        `json:"leadInfo,omitempty"`
	FollowUpID string           `json:"followUpId,omitempty"`
}

type UpdateMeetingRequest struct {
	Status         string          `json:"status,omitempty" validate:"omitempty,oneof=started in-progress completed"`
	EndTime        string          `json:"endTime,omitempty"`
	EndLocation    *Location       `json:"endLocation,omitempty"`
	MeetingDetails *MeetingDetails `json:"meetingDetails,omitempty"`
	SessionID      string          `json:"sessionId,omitempty"`
}

type CreateMeetingHistoryRequest struct {
	EmployeeID string     `json:"employeeId" validate:"required"`
	SessionID  string     `json:"sessionId,omitempty"`
	MeetingID  string     `json:"meetingId,omitempty"`
	LeadID     string     `json:"leadId,omitempty"`
	Timestamp  string     `json:"timestamp,omitempty"`
	Customers  []Customer `json:"customers,omitempty" validate:"omitempty,dive"`
	Discussion string     `json:"discussion,omitempty"`
}

type IncompleteMeetingRemarkRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	MeetingID  string `json:"meetingId,omitempty"`
	SessionID  string `json:"sessionId,omitempty"`
	LeadID     string `json:"leadId,omitempty"`
	Remark     string `json:"remark" validate:"required"`
}

type SaveAttendanceRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
	Status     string `json:"status" validate:"required,oneof=present absent half-day leave holiday"`
	Reason     string `json:"reason,omitempty"`
}

type CreateRouteSnapshotRequest struct {
	EmployeeID  string     `json:"employeeId" validate:"required"`
	SessionID   string     `json:"sessionId,omitempty"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	CaptureType string     `json:"captureType,omitempty" validate:"omitempty,oneof=manual auto"`
	Route       []Location `json:"route,omitempty" validate:"omitempty,dive"`
	Meetings    []Meeting  `json:"meetings,omitempty"`
	Bounds      *Bounds    `json:"bounds,omitempty"`
	CapturedAt  string     `json:"capturedAt,omitempty"`
}

type UpdateRouteSnapshotRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Bounds      *Bounds `json:"bounds,omitempty"`
}

type UpdateEmployeeStatusRequest struct {
	Status      string    `json:"status" validate:"required,oneof=active idle offline in-meeting"`
	CurrentTask *string   `json:"currentTask,omitempty"`
	Location    *Location `json:"location,omitempty"`
}
