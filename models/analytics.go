package models

// Date range buckets accepted by the analytics endpoints.
const (
	RangeAll       = "all"
	RangeToday     = "today"
	RangeYesterday = "yesterday"
	RangeWeek      = "week"
	RangeMonth     = "month"
	RangeCustom    = "custom"
)

// EmployeeAnalytics is one dashboard row.
//
// TotalMeetings counts every meeting of the employee regardless of the selected
// range; MeetingsInRange, TotalMeetingHours and TodayMeetings honour the range.
type EmployeeAnalytics struct {
	EmployeeID        string  `json:"employeeId"`
	Name              string  `json:"name"`
	Status            string  `json:"status"`
	TotalMeetings     int     `json:"totalMeetings"`
	MeetingsInRange   int     `json:"meetingsInRange"`
	TodayMeetings     int     `json:"todayMeetings"`
	TotalMeetingHours float64 `json:"totalMeetingHours"`
	TotalDutyHours    float64 `json:"totalDutyHours"`
}

// AnalyticsReport is the response of GET /api/analytics/employees.
type AnalyticsReport struct {
	DateRange string              `json:"dateRange"`
	Start     string              `json:"start,omitempty"`
	End       string              `json:"end,omitempty"`
	Employees []EmployeeAnalytics `json:"employees"`
}

// EmployeeDetails is the drill-down view of one employee.
type EmployeeDetails struct {
	Employee          *Employee         `json:"employee,omitempty"`
	Meetings          []Meeting         `json:"meetings"`
	Sessions          []TrackingSession `json:"sessions"`
	Attendance        []Attendance      `json:"attendance"`
	TotalMeetings     int               `json:"totalMeetings"`
	TotalMeetingHours float64           `json:"totalMeetingHours"`
	TotalDutyHours    float64           `json:"totalDutyHours"`
	TotalDistance     float64           `json:"totalDistance"`
}

// CollectionStatus describes one collection in both persistence backends.
type CollectionStatus struct {
	Collection       string `json:"collection"`
	PrimaryAvailable bool   `json:"primaryAvailable"`
	PrimaryCount     int64  `json:"primaryCount"`
	MemoryCount      int64  `json:"memoryCount"`
}

// SyncResult reports what a data sync copied from memory into MongoDB.
type SyncResult struct {
	Collection string `json:"collection"`
	Synced     int    `json:"synced"`
	Skipped    int    `json:"skipped"`
	Failed     int    `json:"failed"`
	Error      string `json:"error,omitempty"`
}
