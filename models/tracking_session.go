package models

const (
	SessionStatusActive    = "active"
	SessionStatusCompleted = "completed"
	SessionStatusPaused    = "paused"
)

// TrackingSession is one GPS tracking run of an employee. Route[0] is always the
// start location and TotalDistance is the sum of great-circle hops along Route, in meters.
type TrackingSession struct {
	ID            string     `json:"id" bson:"_id"`
	EmployeeID    string     `json:"employeeId" bson:"employeeId"`
	StartTime     string     `json:"startTime" bson:"startTime"`
	EndTime       string     `json:"endTime,omitempty" bson:"endTime,omitempty"`
	StartLocation Location   `json:"startLocation" bson:"startLocation"`
	EndLocation   *Location  `json:"endLocation,omitempty" bson:"endLocation,omitempty"`
	Route         []Location `json:"route" bson:"route"`
	TotalDistance float64    `json:"totalDistance" bson:"totalDistance"`
	Duration      int64      `json:"duration" bson:"duration"` // seconds, set on completion
	Status        string     `json:"status" bson:"status"`
	CreatedAt     string     `json:"createdAt" bson:"createdAt"`
	UpdatedAt     string     `json:"updatedAt" bson:"updatedAt"`
}

func (s TrackingSession) GetID() string { return s.ID }

// IsSessionStatus reports whether s is a known session status.
func IsSessionStatus(s string) bool {
	switch s {
	case SessionStatusActive, SessionStatusCompleted, SessionStatusPaused:
		return true
	}
	return false
}

// SessionFilter narrows a tracking session listing.
type SessionFilter struct {
	EmployeeID string
	Status     string
	StartDate  string
	EndDate    string
	Limit      int64
}
