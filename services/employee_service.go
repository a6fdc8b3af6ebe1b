package services

import (
	"context"
	"errors"
	"time"

	"github.com/HSouheill/fieldtrack_backend/logging"
	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/repositories"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

// EventPublisher receives live feed events. The websocket hub implements it.
type EventPublisher interface {
	Publish(event models.LiveEvent)
}

func publish(p EventPublisher, kind, employeeID string, data interface{}, now time.Time) {
	if p == nil {
		return
	}
	p.Publish(models.LiveEvent{
		Type:       kind,
		EmployeeID: employeeID,
		Data:       data,
		Timestamp:  utils.FormatTimestamp(now),
	})
}

// EmployeeService owns the employee runtime state and its mirror of the directory.
type EmployeeService struct {
	store     repositories.Store[models.Employee]
	directory UserDirectory
	geocoder  *GeocodeCache
	events    EventPublisher
	now       func() time.Time
}

func NewEmployeeService(store repositories.Store[models.Employee], directory UserDirectory, geocoder *GeocodeCache, events EventPublisher) *EmployeeService {
	return &EmployeeService{
		store:     store,
		directory: directory,
		geocoder:  geocoder,
		events:    events,
		now:       time.Now,
	}
}

// List merges the directory listing with stored runtime state and mirrors the
// result. An empty directory answer falls back to the stored employees.
func (s *EmployeeService) List(ctx context.Context) ([]models.Employee, error) {
	var users []models.ExternalUser
	if s.directory != nil {
		users = s.directory.FetchAll(ctx)
	}
	if len(users) == 0 {
		return s.store.Find(ctx, repositories.Query{SortField: "name"})
	}

	syncedAt := utils.FormatTimestamp(s.now())
	employees := make([]models.Employee, 0, len(users))
	for i, u := range users {
		id := externalID(u, i)

		var state *models.Employee
		existing, err := s.store.FindByID(ctx, id)
		switch {
		case err == nil:
			state = &existing
		case !errors.Is(err, models.ErrNotFound):
			logging.Warn().Err(err).Str("employee_id", id).Msg("failed to load employee state")
		}

		emp := MapToEmployee(u, i, state)
		emp.SyncedAt = syncedAt
		saved, err := s.store.Upsert(ctx, repositories.Eq("_id", emp.ID), emp)
		if err != nil {
			logging.Warn().Err(err).Str("employee_id", emp.ID).Msg("failed to mirror employee")
			saved = emp
		}
		employees = append(employees, saved)
	}
	return employees, nil
}

func (s *EmployeeService) Get(ctx context.Context, id string) (models.Employee, error) {
	return s.store.FindByID(ctx, id)
}

// UpdateStatus is the explicit status change made from the dashboard or the app.
func (s *EmployeeService) UpdateStatus(ctx context.Context, id string, req models.UpdateEmployeeStatusRequest) (models.Employee, error) {
	if !models.IsEmployeeStatus(req.Status) {
		return models.Employee{}, models.NewValidationError("status", "invalid employee status")
	}
	if req.Location != nil {
		s.geocoder.Fill(ctx, req.Location)
	}

	now := s.now()
	emp, err := s.store.Update(ctx, id, func(e *models.Employee) error {
		e.Status = req.Status
		if req.CurrentTask != nil {
			e.CurrentTask = *req.CurrentTask
		}
		if req.Location != nil {
			loc := *req.Location
			if loc.Timestamp == "" {
				loc.Timestamp = utils.FormatTimestamp(now)
			}
			e.Location = &loc
		}
		e.LastUpdate = utils.FormatTimestamp(now)
		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}
	publish(s.events, models.EventEmployeeStatus, emp.ID, emp, now)
	return emp, nil
}

// SetStatus records a status change caused by a session or meeting event.
// It creates a bare record for employees the directory has not listed yet.
func (s *EmployeeService) SetStatus(ctx context.Context, id, status, task string) {
	s.touch(ctx, id, func(e *models.Employee) {
		e.Status = status
		e.CurrentTask = task
	})
}

// RecordLocation stores the employee's last known fix.
func (s *EmployeeService) RecordLocation(ctx context.Context, id string, loc models.Location) {
	s.touch(ctx, id, func(e *models.Employee) {
		l := loc
		e.Location = &l
		if e.Status == "" || e.Status == models.EmployeeOffline {
			e.Status = models.EmployeeActive
		}
	})
}

func (s *EmployeeService) touch(ctx context.Context, id string, apply func(*models.Employee)) {
	if s == nil || id == "" {
		return
	}
	now := utils.FormatTimestamp(s.now())

	_, err := s.store.Update(ctx, id, func(e *models.Employee) error {
		apply(e)
		e.LastUpdate = now
		return nil
	})
	if errors.Is(err, models.ErrNotFound) {
		emp := models.Employee{ID: id, Name: id}
		apply(&emp)
		emp.LastUpdate = now
		err = s.store.Insert(ctx, emp)
	}
	if err != nil {
		logging.Warn().Err(err).Str("employee_id", id).Msg("failed to update employee state")
	}
}

// RefreshLocations re-resolves addresses of stored last-known locations and
// returns how many changed.
func (s *EmployeeService) RefreshLocations(ctx context.Context) (int, error) {
	employees, err := s.store.Find(ctx, repositories.Query{})
	if err != nil {
		return 0, err
	}

	refreshed := 0
	for _, emp := range employees {
		if emp.Location == nil || !emp.Location.HasCoordinates() {
			continue
		}
		address := s.geocoder.Resolve(ctx, emp.Location.Lat, emp.Location.Lng)
		if address == emp.Location.Address {
			continue
		}
		_, err := s.store.Update(ctx, emp.ID, func(e *models.Employee) error {
			if e.Location != nil {
				e.Location.Address = address
			}
			return nil
		})
		if err != nil {
			logging.Warn().Err(err).Str("employee_id", emp.ID).Msg("failed to refresh employee address")
			continue
		}
		refreshed++
	}
	return refreshed, nil
}

// ClearCache drops the cached directory listing and every cached address.
func (s *EmployeeService) ClearCache(ctx context.Context) {
	if s.directory != nil {
		s.directory.ClearCache()
	}
	s.geocoder.Clear(ctx)
}

// MarkInactive sets employees not heard from within threshold to offline.
func (s *EmployeeService) MarkInactive(ctx context.Context, threshold time.Duration) (int, error) {
	employees, err := s.store.Find(ctx, repositories.Query{})
	if err != nil {
		return 0, err
	}

	cutoff := s.now().Add(-threshold)
	marked := 0
	for _, emp := range employees {
		if emp.Status == models.EmployeeOffline || emp.LastUpdate == "" {
			continue
		}
		last, err := utils.ParseTimestamp(emp.LastUpdate)
		if err != nil || !last.Before(cutoff) {
			continue
		}
		_, err = s.store.Update(ctx, emp.ID, func(e *models.Employee) error {
			e.Status = models.EmployeeOffline
			return nil
		})
		if err != nil {
			logging.Warn().Err(err).Str("employee_id", emp.ID).Msg("failed to mark employee offline")
			continue
		}
		marked++
	}
	return marked, nil
}

// RunInactivityMonitor calls MarkInactive every interval until ctx is done.
func (s *EmployeeService) RunInactivityMonitor(ctx context.Context, interval, threshold time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		marked, err := s.MarkInactive(ctx, threshold)
		if err != nil {
			logging.Warn().Err(err).Msg("inactivity check failed")
		} else if marked > 0 {
			logging.Info().Int("count", marked).Msg("marked inactive employees offline")
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
