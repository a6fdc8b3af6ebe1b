package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/repositories"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

type AttendanceService struct {
	store repositories.Store[models.Attendance]
	now   func() time.Time
}

func NewAttendanceService(store repositories.Store[models.Attendance]) *AttendanceService {
	return &AttendanceService{store: store, now: time.Now}
}

// Save creates or overwrites the record for (employeeId, date).
func (s *AttendanceService) Save(ctx context.Context, req models.SaveAttendanceRequest) (models.Attendance, error) {
	employeeID := strings.TrimSpace(req.EmployeeID)
	if employeeID == "" {
		return models.Attendance{}, models.NewValidationError("employeeId", "employeeId is required")
	}
	if _, err := time.Parse(utils.DateLayout, req.Date); err != nil {
		return models.Attendance{}, models.NewValidationError("date", "date must be YYYY-MM-DD")
	}
	if !isAttendanceStatus(req.Status) {
		return models.Attendance{}, models.NewValidationError("status", "invalid attendance status")
	}

	match := repositories.Eq("employeeId", employeeID, "date", req.Date)
	now := utils.FormatTimestamp(s.now())
	record := models.Attendance{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Date:       req.Date,
		Status:     req.Status,
		Reason:     utils.SanitizeInput(req.Reason),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	existing, err := s.store.Find(ctx, repositories.Query{Equals: match, Limit: 1})
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return models.Attendance{}, err
	}
	if len(existing) > 0 {
		record.CreatedAt = existing[0].CreatedAt
	}
	return s.store.Upsert(ctx, match, record)
}

// List returns attendance newest day first, optionally bounded by date.
func (s *AttendanceService) List(ctx context.Context, employeeID, from, to string) ([]models.Attendance, error) {
	q := repositories.Query{
		Equals:    repositories.Eq("employeeId", employeeID),
		SortField: "date",
		SortDesc:  true,
	}
	if from != "" || to != "" {
		q.TimeField, q.From, q.To = "date", from, to
	}
	return s.store.Find(ctx, q)
}

func isAttendanceStatus(s string) bool {
	switch s {
	case models.AttendancePresent, models.AttendanceAbsent, models.AttendanceHalfDay,
		models.AttendanceLeave, models.AttendanceHoliday:
		return true
	}
	return false
}
