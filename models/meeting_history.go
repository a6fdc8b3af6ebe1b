package models

const (
	HistoryTypeMeeting    = "meeting"
	HistoryTypeIncomplete = "incomplete"
)

// MeetingHistory is a write-once snapshot of a finished (or abandoned) meeting.
type MeetingHistory struct {
	ID         string     `json:"_id" bson:"_id"`
	SessionID  string     `json:"sessionId,omitempty" bson:"sessionId,omitempty"`
	EmployeeID string     `json:"employeeId" bson:"employeeId"`
	MeetingID  string     `json:"meetingId,omitempty" bson:"meetingId,omitempty"`
	LeadID     string     `json:"leadId,omitempty" bson:"leadId,omitempty"`
	Timestamp  string     `json:"timestamp" bson:"timestamp"`
	Customers  []Customer `json:"customers,omitempty" bson:"customers,omitempty"`
	Discussion string     `json:"discussion,omitempty" bson:"discussion,omitempty"`
	Type       string     `json:"type" bson:"type"`
	Remark     string     `json:"remark,omitempty" bson:"remark,omitempty"`
	CreatedAt  string     `json:"createdAt" bson:"createdAt"`
}

func (h MeetingHistory) GetID() string { return h.ID }

// HistoryFilter narrows a meeting history listing.
type HistoryFilter struct {
	EmployeeID string
	SessionID  string
	LeadID     string
	Type       string
	Limit      int64
}
