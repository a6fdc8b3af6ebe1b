package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/repositories"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

// MeetingHistoryService stores write-once meeting snapshots.
type MeetingHistoryService struct {
	store repositories.Store[models.MeetingHistory]
	now   func() time.Time
}

func NewMeetingHistoryService(store repositories.Store[models.MeetingHistory]) *MeetingHistoryService {
	return &MeetingHistoryService{store: store, now: time.Now}
}

func (s *MeetingHistoryService) Create(ctx context.Context, req models.CreateMeetingHistoryRequest) (models.MeetingHistory, error) {
	if strings.TrimSpace(req.EmployeeID) == "" {
		return models.MeetingHistory{}, models.NewValidationError("employeeId", "employeeId is required")
	}
	return s.record(ctx, models.MeetingHistory{
		SessionID:  req.SessionID,
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		MeetingID:  req.MeetingID,
		LeadID:     req.LeadID,
		Timestamp:  req.Timestamp,
		Customers:  req.Customers,
		Discussion: utils.SanitizeInput(req.Discussion),
		Type:       models.HistoryTypeMeeting,
	})
}

func (s *MeetingHistoryService) record(ctx context.Context, h models.MeetingHistory) (models.MeetingHistory, error) {
	now := utils.FormatTimestamp(s.now())
	h.ID = uuid.NewString()
	if h.Timestamp == "" {
		h.Timestamp = now
	}
	if h.Type == "" {
		h.Type = models.HistoryTypeMeeting
	}
	h.CreatedAt = now

	if err := s.store.Insert(ctx, h); err != nil {
		return models.MeetingHistory{}, err
	}
	return h, nil
}

// List returns history records newest first.
func (s *MeetingHistoryService) List(ctx context.Context, f models.HistoryFilter) ([]models.MeetingHistory, error) {
	return s.store.Find(ctx, repositories.Query{
		Equals:    repositories.Eq("employeeId", f.EmployeeID, "sessionId", f.SessionID, "leadId", f.LeadID, "type", f.Type),
		SortField: "timestamp",
		SortDesc:  true,
		Limit:     f.Limit,
	})
}
