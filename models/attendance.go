package models

const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceHalfDay = "half-day"
	AttendanceLeave   = "leave"
	AttendanceHoliday = "holiday"
)

// Attendance is the daily status of one employee; unique per (EmployeeID, Date).
type Attendance struct {
	ID         string `json:"_id" bson:"_id"`
	EmployeeID string `json:"employeeId" bson:"employeeId"`
	Date       string `json:"date" bson:"date"` // YYYY-MM-DD
	Status     string `json:"status" bson:"status"`
	Reason     string `json:"reason,omitempty" bson:"reason,omitempty"`
	CreatedAt  string `json:"createdAt" bson:"createdAt"`
	UpdatedAt  string `json:"updatedAt" bson:"updatedAt"`
}

func (a Attendance) GetID() string { return a.ID }
