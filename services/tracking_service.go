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

// TrackingService manages tracking sessions and their routes.
type TrackingService struct {
	store     repositories.Store[models.TrackingSession]
	geocoder  *GeocodeCache
	employees *EmployeeService
	events    EventPublisher
	locks     *keyedMutex
	now       func() time.Time
}

func NewTrackingService(store repositories.Store[models.TrackingSession], geocoder *GeocodeCache, employees *EmployeeService, events EventPublisher) *TrackingService {
	return &TrackingService{
		store:     store,
		geocoder:  geocoder,
		employees: employees,
		events:    events,
		locks:     newKeyedMutex(),
		now:       time.Now,
	}
}

// Create starts a session. The route always begins with the start location and
// the total distance is recomputed from it.
func (s *TrackingService) Create(ctx context.Context, req models.CreateTrackingSessionRequest) (models.TrackingSession, error) {
	employeeID := strings.TrimSpace(req.EmployeeID)
	if employeeID == "" {
		return models.TrackingSession{}, models.NewValidationError("employeeId", "employeeId is required")
	}
	if req.StartLocation == nil {
		return models.TrackingSession{}, models.NewValidationError("startLocation", "startLocation is required")
	}
	status := req.Status
	if status == "" {
		status = models.SessionStatusActive
	}
	if !models.IsSessionStatus(status) {
		return models.TrackingSession{}, models.NewValidationError("status", "invalid session status")
	}

	startTime, err := normaliseTimestamp("startTime", req.StartTime)
	if err != nil {
		return models.TrackingSession{}, err
	}

	now := s.now()
	nowStr := utils.FormatTimestamp(now)
	if startTime == "" {
		startTime = nowStr
	}

	start := *req.StartLocation
	s.geocoder.Fill(ctx, &start)
	if start.Timestamp == "" {
		start.Timestamp = startTime
	}
	route := routeFrom(start, req.Route)

	session := models.TrackingSession{
		ID:            uuid.NewString(),
		EmployeeID:    employeeID,
		StartTime:     startTime,
		StartLocation: start,
		Route:         route,
		TotalDistance: RouteDistance(route),
		Status:        status,
		CreatedAt:     nowStr,
		UpdatedAt:     nowStr,
	}
	if err := s.store.Insert(ctx, session); err != nil {
		return models.TrackingSession{}, err
	}

	if status == models.SessionStatusActive {
		s.employees.RecordLocation(ctx, employeeID, start)
		s.employees.SetStatus(ctx, employeeID, models.EmployeeActive, "Tracking")
		publish(s.events, models.EventSessionStarted, employeeID, session, now)
	}
	return session, nil
}

// routeFrom puts start at route[0], replacing a client-sent first point at the same position.
func routeFrom(start models.Location, route []models.Location) []models.Location {
	out := make([]models.Location, 0, len(route)+1)
	out = append(out, start)
	for i, p := range route {
		if i == 0 && p.Lat == start.Lat && p.Lng == start.Lng {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Update applies a partial update. Completing without an endTime stamps now,
// and duration is derived whenever both ends are known.
func (s *TrackingService) Update(ctx context.Context, id string, req models.UpdateTrackingSessionRequest) (models.TrackingSession, error) {
	if req.Status != "" && !models.IsSessionStatus(req.Status) {
		return models.TrackingSession{}, models.NewValidationError("status", "invalid session status")
	}
	startTime, err := normaliseTimestamp("startTime", req.StartTime)
	if err != nil {
		return models.TrackingSession{}, err
	}
	endTime, err := normaliseTimestamp("endTime", req.EndTime)
	if err != nil {
		return models.TrackingSession{}, err
	}
	if req.EndLocation != nil && req.EndLocation.HasCoordinates() {
		s.geocoder.Fill(ctx, req.EndLocation)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	now := s.now()
	completedNow := false
	session, err := s.store.Update(ctx, id, func(ts *models.TrackingSession) error {
		wasCompleted := ts.Status == models.SessionStatusCompleted
		if wasCompleted && ts.EndTime != "" && modifiesFinished(req) {
			return models.NewValidationError("status", "session is already completed")
		}

		if startTime != "" {
			ts.StartTime = startTime
		}
		if endTime != "" {
			ts.EndTime = endTime
		}
		if req.Status != "" {
			ts.Status = req.Status
		}
		if ts.Status == models.SessionStatusCompleted && ts.EndTime == "" {
			ts.EndTime = utils.FormatTimestamp(now)
		}
		if req.EndLocation != nil {
			loc := *req.EndLocation
			if loc.Timestamp == "" {
				loc.Timestamp = ts.EndTime
			}
			ts.EndLocation = &loc
		}

		if ts.StartTime != "" && ts.EndTime != "" {
			start, errStart := utils.ParseTimestamp(ts.StartTime)
			end, errEnd := utils.ParseTimestamp(ts.EndTime)
			if errStart == nil && errEnd == nil {
				if end.Before(start) {
					return models.NewValidationError("endTime", "endTime is before startTime")
				}
				ts.Duration = int64(end.Sub(start) / time.Second)
			}
		}

		ts.UpdatedAt = utils.FormatTimestamp(now)
		completedNow = !wasCompleted && ts.Status == models.SessionStatusCompleted
		return nil
	})
	if err != nil {
		return models.TrackingSession{}, err
	}

	if completedNow {
		if session.EndLocation != nil && session.EndLocation.HasCoordinates() {
			s.employees.RecordLocation(ctx, session.EmployeeID, *session.EndLocation)
		}
		s.employees.SetStatus(ctx, session.EmployeeID, models.EmployeeIdle, "")
		publish(s.events, models.EventSessionCompleted, session.EmployeeID, session, now)
	}
	return session, nil
}

func modifiesFinished(req models.UpdateTrackingSessionRequest) bool {
	return req.StartTime != "" || req.EndTime != "" || req.EndLocation != nil ||
		(req.Status != "" && req.Status != models.SessionStatusCompleted)
}

// AppendLocation adds a route point and the hop distance from the previous point.
func (s *TrackingService) AppendLocation(ctx context.Context, id string, loc *models.Location) (models.TrackingSession, error) {
	if loc == nil {
		return models.TrackingSession{}, models.NewValidationError("location", "location is required")
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	now := s.now()
	point := *loc
	if point.Timestamp == "" {
		point.Timestamp = utils.FormatTimestamp(now)
	}

	session, err := s.store.Update(ctx, id, func(ts *models.TrackingSession) error {
		if ts.Status == models.SessionStatusCompleted {
			return models.NewValidationError("status", "cannot append to a completed session")
		}
		ts.Route = append(ts.Route, point)
		if n := len(ts.Route); n > 1 {
			ts.TotalDistance += Haversine(ts.Route[n-2], ts.Route[n-1])
		}
		ts.UpdatedAt = utils.FormatTimestamp(now)
		return nil
	})
	if err != nil {
		return models.TrackingSession{}, err
	}

	s.employees.RecordLocation(ctx, session.EmployeeID, point)
	publish(s.events, models.EventLocationUpdate, session.EmployeeID, map[string]interface{}{
		"sessionId":     session.ID,
		"location":      point,
		"totalDistance": session.TotalDistance,
	}, now)
	return session, nil
}

func (s *TrackingService) Get(ctx context.Context, id string) (models.TrackingSession, error) {
	return s.store.FindByID(ctx, id)
}

// List returns sessions newest first.
func (s *TrackingService) List(ctx context.Context, f models.SessionFilter) ([]models.TrackingSession, error) {
	q := repositories.Query{
		Equals:    repositories.Eq("employeeId", f.EmployeeID, "status", f.Status),
		SortField: "startTime",
		SortDesc:  true,
		Limit:     f.Limit,
	}
	timeRange(&q, "startTime", f.StartDate, f.EndDate)
	return s.store.Find(ctx, q)
}

func (s *TrackingService) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
