package services

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/repositories"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

const (
	dutyHoursPerDay  = 8
	maxDutyHoursWeek = 40
)

// AnalyticsService builds the dashboard figures from stored meetings and sessions.
type AnalyticsService struct {
	meetings   repositories.Store[models.Meeting]
	sessions   repositories.Store[models.TrackingSession]
	employees  *EmployeeService
	attendance *AttendanceService
	now        func() time.Time
}

func NewAnalyticsService(meetings repositories.Store[models.Meeting], sessions repositories.Store[models.TrackingSession], employees *EmployeeService, attendance *AttendanceService) *AnalyticsService {
	return &AnalyticsService{
		meetings:   meetings,
		sessions:   sessions,
		employees:  employees,
		attendance: attendance,
		now:        time.Now,
	}
}

// DateRange is a resolved analytics window. Unbounded means "all".
type DateRange struct {
	Start     time.Time
	End       time.Time
	Unbounded bool
}

func (r DateRange) contains(t time.Time) bool {
	if r.Unbounded {
		return true
	}
	return !t.Before(r.Start) && !t.After(r.End)
}

// days is the number of calendar days the range touches. An unbounded range
// counts as a full week, which already hits the duty-hour cap.
func (r DateRange) days() int {
	if r.Unbounded {
		return 7
	}
	return int(math.Ceil(r.End.Sub(r.Start).Hours() / 24))
}

// ResolveRange turns a named bucket, or custom bounds, into a concrete window.
func ResolveRange(dateRange, startDate, endDate string, now time.Time) (DateRange, error) {
	switch dateRange {
	case "", models.RangeAll:
		return DateRange{Unbounded: true}, nil
	case models.RangeToday:
		return DateRange{Start: utils.StartOfDay(now), End: utils.EndOfDay(now)}, nil
	case models.RangeYesterday:
		y := now.AddDate(0, 0, -1)
		return DateRange{Start: utils.StartOfDay(y), End: utils.EndOfDay(y)}, nil
	case models.RangeWeek:
		return DateRange{Start: utils.StartOfDay(now.AddDate(0, 0, -6)), End: utils.EndOfDay(now)}, nil
	case models.RangeMonth:
		return DateRange{Start: utils.StartOfDay(now.AddDate(0, 0, -29)), End: utils.EndOfDay(now)}, nil
	case models.RangeCustom:
		start, err := utils.ParseTimestamp(startDate)
		if err != nil {
			return DateRange{}, models.NewValidationError("startDate", "startDate is required for a custom range")
		}
		end, err := utils.ParseTimestamp(endDate)
		if err != nil {
			return DateRange{}, models.NewValidationError("endDate", "endDate is required for a custom range")
		}
		if len(endDate) == len(utils.DateLayout) {
			end = utils.EndOfDay(end)
		}
		if end.Before(start) {
			return DateRange{}, models.NewValidationError("endDate", "endDate is before startDate")
		}
		return DateRange{Start: start, End: end}, nil
	}
	return DateRange{}, models.NewValidationError("dateRange", "unknown date range")
}

// ComputeForRange reports per-employee meeting figures. TotalMeetings ignores
// the range; the other meeting figures honour it.
func (s *AnalyticsService) ComputeForRange(ctx context.Context, dateRange, startDate, endDate string) (models.AnalyticsReport, error) {
	now := s.now()
	r, err := ResolveRange(dateRange, startDate, endDate, now)
	if err != nil {
		return models.AnalyticsReport{}, err
	}

	employees, err := s.employees.List(ctx)
	if err != nil {
		return models.AnalyticsReport{}, err
	}
	meetings, err := s.meetings.Find(ctx, repositories.Query{})
	if err != nil {
		return models.AnalyticsReport{}, err
	}

	byEmployee := make(map[string][]models.Meeting)
	for _, m := range meetings {
		byEmployee[m.EmployeeID] = append(byEmployee[m.EmployeeID], m)
	}

	report := models.AnalyticsReport{DateRange: dateRange, Employees: []models.EmployeeAnalytics{}}
	if report.DateRange == "" {
		report.DateRange = models.RangeAll
	}
	if !r.Unbounded {
		report.Start = utils.FormatTimestamp(r.Start)
		report.End = utils.FormatTimestamp(r.End)
	}

	dutyHours := float64(min(r.days()*dutyHoursPerDay, maxDutyHoursWeek))
	seen := make(map[string]bool, len(employees))
	for _, emp := range employees {
		seen[emp.ID] = true
		report.Employees = append(report.Employees, employeeFigures(emp.ID, emp.Name, emp.Status, byEmployee[emp.ID], r, now, dutyHours))
	}

	// Meetings of employees the directory no longer lists still count.
	var orphans []string
	for id := range byEmployee {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		report.Employees = append(report.Employees, employeeFigures(id, id, models.EmployeeOffline, byEmployee[id], r, now, dutyHours))
	}
	return report, nil
}

func employeeFigures(id, name, status string, meetings []models.Meeting, r DateRange, now time.Time, dutyHours float64) models.EmployeeAnalytics {
	row := models.EmployeeAnalytics{
		EmployeeID:     id,
		Name:           name,
		Status:         status,
		TotalMeetings:  len(meetings),
		TotalDutyHours: dutyHours,
	}
	hours := 0.0
	for _, m := range meetings {
		start, err := utils.ParseTimestamp(m.StartTime)
		if err != nil || !r.contains(start) {
			continue
		}
		row.MeetingsInRange++
		hours += meetingHours(m, start, now)
		if utils.SameDay(now, start) {
			row.TodayMeetings++
		}
	}
	row.TotalMeetingHours = round2(hours)
	return row
}

func meetingHours(m models.Meeting, start, now time.Time) float64 {
	end := now
	if m.EndTime != "" {
		if t, err := utils.ParseTimestamp(m.EndTime); err == nil {
			end = t
		}
	}
	if end.Before(start) {
		return 0
	}
	return end.Sub(start).Hours()
}

// EmployeeDetails is the drill-down for one employee. Duty hours here come from
// the employee's tracking sessions.
func (s *AnalyticsService) EmployeeDetails(ctx context.Context, employeeID, dateRange, startDate, endDate string) (models.EmployeeDetails, error) {
	if employeeID == "" {
		return models.EmployeeDetails{}, models.NewValidationError("employeeId", "employeeId is required")
	}
	now := s.now()
	r, err := ResolveRange(dateRange, startDate, endDate, now)
	if err != nil {
		return models.EmployeeDetails{}, err
	}

	details := models.EmployeeDetails{
		Meetings:   []models.Meeting{},
		Sessions:   []models.TrackingSession{},
		Attendance: []models.Attendance{},
	}
	if emp, err := s.employees.Get(ctx, employeeID); err == nil {
		details.Employee = &emp
	} else if !errors.Is(err, models.ErrNotFound) {
		return models.EmployeeDetails{}, err
	}

	q := repositories.Query{Equals: repositories.Eq("employeeId", employeeID), SortField: "startTime", SortDesc: true}
	if !r.Unbounded {
		q.TimeField = "startTime"
		q.From = utils.FormatTimestamp(r.Start)
		q.To = utils.FormatTimestamp(r.End)
	}

	meetings, err := s.meetings.Find(ctx, q)
	if err != nil {
		return models.EmployeeDetails{}, err
	}
	hours := 0.0
	for _, m := range meetings {
		if start, err := utils.ParseTimestamp(m.StartTime); err == nil {
			hours += meetingHours(m, start, now)
		}
	}
	details.Meetings = meetings
	details.TotalMeetings = len(meetings)
	details.TotalMeetingHours = round2(hours)

	sessions, err := s.sessions.Find(ctx, q)
	if err != nil {
		return models.EmployeeDetails{}, err
	}
	duty, distance := 0.0, 0.0
	for _, ts := range sessions {
		distance += ts.TotalDistance
		start, err := utils.ParseTimestamp(ts.StartTime)
		if err != nil {
			continue
		}
		end := now
		if ts.EndTime != "" {
			if t, err := utils.ParseTimestamp(ts.EndTime); err == nil {
				end = t
			}
		}
		if end.After(start) {
			duty += end.Sub(start).Hours()
		}
	}
	details.Sessions = sessions
	details.TotalDutyHours = round2(duty)
	details.TotalDistance = distance

	var from, to string
	if !r.Unbounded {
		from, to = r.Start.Format(utils.DateLayout), r.End.Format(utils.DateLayout)
	}
	attendance, err := s.attendance.List(ctx, employeeID, from, to)
	if err != nil {
		return models.EmployeeDetails{}, err
	}
	details.Attendance = attendance
	return details, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
