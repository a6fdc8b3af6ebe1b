package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/HSouheill/fieldtrack_backend/logging"
	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/repositories"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

// RouteSnapshotService captures routes for later review. Snapshots copy their
// data, so they survive deletion of the session they came from.
type RouteSnapshotService struct {
	store    repositories.Store[models.RouteSnapshot]
	sessions repositories.Store[models.TrackingSession]
	meetings repositories.Store[models.Meeting]
	now      func() time.Time
}

func NewRouteSnapshotService(store repositories.Store[models.RouteSnapshot], sessions repositories.Store[models.TrackingSession], meetings repositories.Store[models.Meeting]) *RouteSnapshotService {
	return &RouteSnapshotService{store: store, sessions: sessions, meetings: meetings, now: time.Now}
}

// Create stores a snapshot. With a sessionId and no route, the session's route
// and the employee's meetings during it are captured.
func (s *RouteSnapshotService) Create(ctx context.Context, req models.CreateRouteSnapshotRequest) (models.RouteSnapshot, error) {
	employeeID := strings.TrimSpace(req.EmployeeID)
	if employeeID == "" {
		return models.RouteSnapshot{}, models.NewValidationError("employeeId", "employeeId is required")
	}
	captureType := req.CaptureType
	if captureType == "" {
		captureType = models.CaptureManual
	}
	if captureType != models.CaptureManual && captureType != models.CaptureAuto {
		return models.RouteSnapshot{}, models.NewValidationError("captureType", "captureType must be manual or auto")
	}

	now := s.now()
	nowStr := utils.FormatTimestamp(now)
	route := req.Route
	meetings := req.Meetings

	if req.SessionID != "" && len(route) == 0 {
		session, err := s.sessions.FindByID(ctx, req.SessionID)
		if err != nil {
			return models.RouteSnapshot{}, err
		}
		route = session.Route
		if meetings == nil {
			meetings = s.meetingsDuring(ctx, session, nowStr)
		}
	}

	capturedAt := req.CapturedAt
	if capturedAt == "" {
		capturedAt = nowStr
	}
	title := utils.SanitizeInput(req.Title)
	if title == "" {
		title = "Route " + now.Format(utils.DateLayout)
	}
	bounds := req.Bounds
	if bounds == nil {
		bounds = RouteBounds(route)
	}
	if route == nil {
		route = []models.Location{}
	}

	snapshot := models.RouteSnapshot{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		SessionID:     req.SessionID,
		Title:         title,
		Description:   utils.SanitizeInput(req.Description),
		CaptureType:   captureType,
		Route:         route,
		Meetings:      meetings,
		Bounds:        bounds,
		TotalDistance: RouteDistance(route),
		CapturedAt:    capturedAt,
		CreatedAt:     nowStr,
		UpdatedAt:     nowStr,
	}
	if err := s.store.Insert(ctx, snapshot); err != nil {
		return models.RouteSnapshot{}, err
	}
	return snapshot, nil
}

func (s *RouteSnapshotService) meetingsDuring(ctx context.Context, session models.TrackingSession, now string) []models.Meeting {
	end := session.EndTime
	if end == "" {
		end = now
	}
	meetings, err := s.meetings.Find(ctx, repositories.Query{
		Equals:    repositories.Eq("employeeId", session.EmployeeID),
		TimeField: "startTime",
		From:      session.StartTime,
		To:        end,
		SortField: "startTime",
	})
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		logging.Warn().Err(err).Str("session_id", session.ID).Msg("failed to load meetings for snapshot")
	}
	return meetings
}

func (s *RouteSnapshotService) Get(ctx context.Context, id string) (models.RouteSnapshot, error) {
	return s.store.FindByID(ctx, id)
}

// List returns snapshots newest capture first.
func (s *RouteSnapshotService) List(ctx context.Context, f models.SnapshotFilter) ([]models.RouteSnapshot, error) {
	q := repositories.Query{
		Equals:    repositories.Eq("employeeId", f.EmployeeID, "sessionId", f.SessionID),
		SortField: "capturedAt",
		SortDesc:  true,
		Limit:     f.Limit,
	}
	timeRange(&q, "capturedAt", f.StartDate, f.EndDate)
	return s.store.Find(ctx, q)
}

// Update edits the descriptive fields; the captured route is immutable.
func (s *RouteSnapshotService) Update(ctx context.Context, id string, req models.UpdateRouteSnapshotRequest) (models.RouteSnapshot, error) {
	now := utils.FormatTimestamp(s.now())
	return s.store.Update(ctx, id, func(r *models.RouteSnapshot) error {
		if req.Title != nil {
			title := utils.SanitizeInput(*req.Title)
			if title == "" {
				return models.NewValidationError("title", "title cannot be empty")
			}
			r.Title = title
		}
		if req.Description != nil {
			r.Description = utils.SanitizeInput(*req.Description)
		}
		if req.Bounds != nil {
			b := *req.Bounds
			r.Bounds = &b
		}
		r.UpdatedAt = now
		return nil
	})
}

func (s *RouteSnapshotService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
