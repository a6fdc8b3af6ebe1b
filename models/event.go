package models

// Live feed event types pushed to websocket subscribers.
const (
	EventLocationUpdate   = "location_update"
	EventSessionStarted   = "session_started"
	EventSessionCompleted = "session_completed"
	EventMeetingStarted   = "meeting_started"
	EventMeetingCompleted = "meeting_completed"
	EventEmployeeStatus   = "employee_status"
)

// LiveEvent is one message on the live location feed.
type LiveEvent struct {
	Type       string      `json:"type"`
	EmployeeID string      `json:"employeeId"`
	Data       interface{} `json:"data,omitempty"`
	Timestamp  string      `json:"timestamp"`
}
