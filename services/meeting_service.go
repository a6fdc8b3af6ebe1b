package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HSouheill/fieldtrack_backend/logging"
	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/repositories"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

// MeetingService drives the meeting lifecycle: start, complete, archive.
type MeetingService struct {
	store     repositories.Store[models.Meeting]
	history   *MeetingHistoryService
	geocoder  *GeocodeCache
	employees *EmployeeService
	followUps FollowUpNotifier
	events    EventPublisher
	now       func() time.Time
}

func NewMeetingService(store repositories.Store[models.Meeting], history *MeetingHistoryService, geocoder *GeocodeCache, employees *EmployeeService, followUps FollowUpNotifier, events EventPublisher) *MeetingService {
	return &MeetingService{
		store:     store,
		history:   history,
		geocoder:  geocoder,
		employees: employees,
		followUps: followUps,
		events:    events,
		now:       time.Now,
	}
}

func (s *MeetingService) Create(ctx context.Context, req models.CreateMeetingRequest) (models.Meeting, error) {
	employeeID := strings.TrimSpace(req.EmployeeID)
	if employeeID == "" {
		return models.Meeting{}, models.NewValidationError("employeeId", "employeeId is required")
	}
	if req.Location == nil {
		return models.Meeting{}, models.NewValidationError("location", "location is required")
	}
	status := req.Status
	if status == "" {
		status = models.MeetingStatusStarted
	}
	if status == models.MeetingStatusCompleted || !models.IsMeetingStatus(status) {
		return models.Meeting{}, models.NewValidationError("status", "a new meeting must be started or in-progress")
	}

	startTime, err := normaliseTimestamp("startTime", req.StartTime)
	if err != nil {
		return models.Meeting{}, err
	}

	now := s.now()
	nowStr := utils.FormatTimestamp(now)
	if startTime == "" {
		startTime = nowStr
	}

	location := *req.Location
	s.geocoder.Fill(ctx, &location.Location)
	if location.Timestamp == "" {
		location.Timestamp = startTime
	}

	meeting := models.Meeting{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Location:   location,
		StartTime:  startTime,
		Status:     status,
		LeadID:     req.LeadID,
		LeadInfo:   req.LeadInfo,
		FollowUpID: req.FollowUpID,
		CreatedAt:  nowStr,
		UpdatedAt:  nowStr,
	}
	if err := s.store.Insert(ctx, meeting); err != nil {
		return models.Meeting{}, err
	}

	if location.HasCoordinates() {
		s.employees.RecordLocation(ctx, employeeID, location.Location)
	}
	s.employees.SetStatus(ctx, employeeID, models.EmployeeInMeeting, meetingTask(meeting))
	notifyFollowUp(ctx, s.followUps, meeting.FollowUpID, models.MeetingStatusInProgress)
	publish(s.events, models.EventMeetingStarted, employeeID, meeting, now)
	return meeting, nil
}

func meetingTask(m models.Meeting) string {
	if m.LeadInfo != nil {
		if m.LeadInfo.CompanyName != "" {
			return "Meeting with " + m.LeadInfo.CompanyName
		}
		if m.LeadInfo.Name != "" {
			return "Meeting with " + m.LeadInfo.Name
		}
	}
	return "In meeting"
}

// Update applies a partial update. Completing a meeting requires a discussion,
// stamps endTime when missing and archives the meeting into history.
func (s *MeetingService) Update(ctx context.Context, id string, req models.UpdateMeetingRequest) (models.Meeting, error) {
	if req.Status != "" && !models.IsMeetingStatus(req.Status) {
		return models.Meeting{}, models.NewValidationError("status", "invalid meeting status")
	}
	endTime, err := normaliseTimestamp("endTime", req.EndTime)
	if err != nil {
		return models.Meeting{}, err
	}
	if req.EndLocation != nil && req.EndLocation.HasCoordinates() {
		s.geocoder.Fill(ctx, req.EndLocation)
	}

	now := s.now()
	completedNow := false
	meeting, err := s.store.Update(ctx, id, func(m *models.Meeting) error {
		wasCompleted := m.Status == models.MeetingStatusCompleted
		if wasCompleted && reopensFinished(req) {
			return models.NewValidationError("status", "meeting is already completed")
		}

		if req.Status != "" {
			m.Status = req.Status
		}
		if endTime != "" {
			if start, err := utils.ParseTimestamp(m.StartTime); err == nil {
				if end, _ := utils.ParseTimestamp(endTime); end.Before(start) {
					return models.NewValidationError("endTime", "endTime is before startTime")
				}
			}
			m.EndTime = endTime
		}
		if req.EndLocation != nil {
			loc := *req.EndLocation
			m.Location.EndLocation = &loc
		}
		if req.MeetingDetails != nil {
			details := *req.MeetingDetails
			details.Discussion = utils.SanitizeInput(details.Discussion)
			m.MeetingDetails = &details
		}

		if m.Status == models.MeetingStatusCompleted {
			if m.MeetingDetails == nil || strings.TrimSpace(m.MeetingDetails.Discussion) == "" {
				return models.NewValidationError("meetingDetails.discussion", "discussion is required to complete a meeting")
			}
			if m.EndTime == "" {
				m.EndTime = utils.FormatTimestamp(now)
			}
		}

		m.UpdatedAt = utils.FormatTimestamp(now)
		completedNow = !wasCompleted && m.Status == models.MeetingStatusCompleted
		return nil
	})
	if err != nil {
		return models.Meeting{}, err
	}

	if completedNow {
		s.finish(ctx, meeting, req.SessionID, now)
	}
	return meeting, nil
}

// reopensFinished reports whether req would move a completed meeting away from
// its archived state. Only the meeting details may still change.
func reopensFinished(req models.UpdateMeetingRequest) bool {
	return req.EndTime != "" || req.EndLocation != nil ||
		(req.Status != "" && req.Status != models.MeetingStatusCompleted)
}

func (s *MeetingService) finish(ctx context.Context, meeting models.Meeting, sessionID string, now time.Time) {
	h := models.MeetingHistory{
		SessionID:  sessionID,
		EmployeeID: meeting.EmployeeID,
		MeetingID:  meeting.ID,
		LeadID:     meeting.LeadID,
		Timestamp:  meeting.EndTime,
		Type:       models.HistoryTypeMeeting,
	}
	if meeting.MeetingDetails != nil {
		h.Customers = meeting.MeetingDetails.Customers
		h.Discussion = meeting.MeetingDetails.Discussion
	}
	if _, err := s.history.record(ctx, h); err != nil {
		logging.Warn().Err(err).Str("meeting_id", meeting.ID).Msg("failed to archive completed meeting")
	}

	if end := meeting.Location.EndLocation; end != nil && end.HasCoordinates() {
		s.employees.RecordLocation(ctx, meeting.EmployeeID, *end)
	}
	s.employees.SetStatus(ctx, meeting.EmployeeID, models.EmployeeActive, "")
	notifyFollowUp(ctx, s.followUps, meeting.FollowUpID, models.MeetingStatusCompleted)
	publish(s.events, models.EventMeetingCompleted, meeting.EmployeeID, meeting, now)
}

// RecordIncompleteRemark archives an abandoned meeting at logout. When the
// meeting id is known the meeting is closed with the remark as its discussion.
func (s *MeetingService) RecordIncompleteRemark(ctx context.Context, req models.IncompleteMeetingRemarkRequest) (models.MeetingHistory, error) {
	if strings.TrimSpace(req.EmployeeID) == "" {
		return models.MeetingHistory{}, models.NewValidationError("employeeId", "employeeId is required")
	}
	remark := utils.SanitizeInput(req.Remark)
	if remark == "" {
		return models.MeetingHistory{}, models.NewValidationError("remark", "remark is required")
	}

	leadID := req.LeadID
	if req.MeetingID != "" {
		now := s.now()
		closed := false
		meeting, err := s.store.Update(ctx, req.MeetingID, func(m *models.Meeting) error {
			if m.Status == models.MeetingStatusCompleted {
				return nil
			}
			m.Status = models.MeetingStatusCompleted
			if m.EndTime == "" {
				m.EndTime = utils.FormatTimestamp(now)
			}
			if m.MeetingDetails == nil {
				m.MeetingDetails = &models.MeetingDetails{}
			}
			if strings.TrimSpace(m.MeetingDetails.Discussion) == "" {
				m.MeetingDetails.Discussion = remark
			}
			m.UpdatedAt = utils.FormatTimestamp(now)
			closed = true
			return nil
		})
		if err != nil {
			return models.MeetingHistory{}, err
		}
		if leadID == "" {
			leadID = meeting.LeadID
		}
		if closed {
			s.employees.SetStatus(ctx, meeting.EmployeeID, models.EmployeeActive, "")
			notifyFollowUp(ctx, s.followUps, meeting.FollowUpID, models.MeetingStatusCompleted)
			publish(s.events, models.EventMeetingCompleted, meeting.EmployeeID, meeting, now)
		}
	}

	return s.history.record(ctx, models.MeetingHistory{
		SessionID:  req.SessionID,
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		MeetingID:  req.MeetingID,
		LeadID:     leadID,
		Type:       models.HistoryTypeIncomplete,
		Remark:     remark,
	})
}

func (s *MeetingService) Get(ctx context.Context, id string) (models.Meeting, error) {
	return s.store.FindByID(ctx, id)
}

// List returns meetings newest first.
func (s *MeetingService) List(ctx context.Context, f models.MeetingFilter) ([]models.Meeting, error) {
	q := repositories.Query{
		Equals:    repositories.Eq("employeeId", f.EmployeeID, "status", f.Status, "leadId", f.LeadID),
		SortField: "startTime",
		SortDesc:  true,
		Limit:     f.Limit,
	}
	timeRange(&q, "startTime", f.StartDate, f.EndDate)
	return s.store.Find(ctx, q)
}

// Active returns meetings that are not completed, optionally for one employee.
func (s *MeetingService) Active(ctx context.Context, employeeID string) ([]models.Meeting, error) {
	all, err := s.store.Find(ctx, repositories.Query{
		Equals:    repositories.Eq("employeeId", employeeID),
		SortField: "startTime",
		SortDesc:  true,
	})
	if err != nil {
		return nil, err
	}
	active := make([]models.Meeting, 0, len(all))
	for _, m := range all {
		if m.Status != models.MeetingStatusCompleted {
			active = append(active, m)
		}
	}
	return active, nil
}

func (s *MeetingService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
