package models

const (
	MeetingStatusStarted    = "started"
	MeetingStatusInProgress = "in-progress"
	MeetingStatusCompleted  = "completed"
)

// Meeting is a customer visit logged by an employee in the field.
type Meeting struct {
	ID             string          `json:"_id" bson:"_id"`
	EmployeeID     string          `json:"employeeId" bson:"employeeId"`
	Location       MeetingLocation `json:"location" bson:"location"`
	StartTime      string          `json:"startTime" bson:"startTime"`
	EndTime        string          `json:"endTime,omitempty" bson:"endTime,omitempty"`
	Status         string          `json:"status" bson:"status"`
	LeadID         string          `json:"leadId,omitempty" bson:"leadId,omitempty"`
	LeadInfo       *LeadInfo       `json:"leadInfo,omitempty" bson:"leadInfo,omitempty"`
	FollowUpID     string          `json:"followUpId,omitempty" bson:"followUpId,omitempty"`
	MeetingDetails *MeetingDetails `json:"meetingDetails,omitempty" bson:"meetingDetails,omitempty"`
	CreatedAt      string          `json:"createdAt" bson:"createdAt"`
	UpdatedAt      string          `json:"updatedAt" bson:"updatedAt"`
}

func (m Meeting) GetID() string { return m.ID }

// MeetingLocation is where the meeting started, plus where it ended once completed.
type MeetingLocation struct {
	Location    `bson:",inline"`
	EndLocation *Location `json:"endLocation,omitempty" bson:"endLocation,omitempty"`
}

// LeadInfo is the denormalized lead data copied from the external lead system.
type LeadInfo struct {
	Name        string `json:"name,omitempty" bson:"name,omitempty"`
	CompanyName string `json:"companyName,omitempty" bson:"companyName,omitempty"`
	Phone       string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email       string `json:"email,omitempty" bson:"email,omitempty"`
}

// MeetingDetails is captured when a meeting is completed.
type MeetingDetails struct {
	Discussion string     `json:"discussion" bson:"discussion"`
	Customers  []Customer `json:"customers,omitempty" bson:"customers,omitempty" validate:"dive"`
}

// Customer is a contact met during a meeting.
type Customer struct {
	Name        string `json:"name" bson:"name" validate:"required"`
	Designation string `json:"designation,omitempty" bson:"designation,omitempty"`
	Phone       string `json:"phone,omitempty" bson:"phone,omitempty"`
	Email       string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
}

// IsMeetingStatus reports whether s is a known meeting status.
func IsMeetingStatus(s string) bool {
	switch s {
	case MeetingStatusStarted, MeetingStatusInProgress, MeetingStatusCompleted:
		return true
	}
	return false
}

// MeetingFilter narrows a meeting listing.
type MeetingFilter struct {
	EmployeeID string
	Status     string
	LeadID     string
	StartDate  string
	EndDate    string
	Limit      int64
}
