package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/repositories"
)

// fakeGeocoder counts upstream calls.
type fakeGeocoder struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeGeocoder) Reverse(_ context.Context, lat, lng float64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("Street at %.2f/%.2f", lat, lng), nil
}

func (f *fakeGeocoder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordedEvents struct {
	mu     sync.Mutex
	events []models.LiveEvent
}

func (r *recordedEvents) Publish(e models.LiveEvent) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recordedEvents) Types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type followUpCall struct{ id, status string }

type fakeFollowUps struct {
	mu    sync.Mutex
	calls []followUpCall
}

func (f *fakeFollowUps) UpdateStatus(_ context.Context, id, status string) error {
	f.mu.Lock()
	f.calls = append(f.calls, followUpCall{id, status})
	f.mu.Unlock()
	return nil
}

// testEnv wires every service over in-memory stores.
type testEnv struct {
	upstream *fakeGeocoder
	events   *recordedEvents
	follow   *fakeFollowUps

	employeeStore   *repositories.MemoryStore[models.Employee]
	sessionStore    *repositories.MemoryStore[models.TrackingSession]
	meetingStore    *repositories.MemoryStore[models.Meeting]
	historyStore    *repositories.MemoryStore[models.MeetingHistory]
	attendanceStore *repositories.MemoryStore[models.Attendance]
	snapshotStore   *repositories.MemoryStore[models.RouteSnapshot]

	geocoder   *GeocodeCache
	employees  *EmployeeService
	tracking   *TrackingService
	history    *MeetingHistoryService
	meetings   *MeetingService
	attendance *AttendanceService
	snapshots  *RouteSnapshotService
	analytics  *AnalyticsService
}

func newTestEnv(now time.Time) *testEnv {
	env := &testEnv{
		upstream:        &fakeGeocoder{},
		events:          &recordedEvents{},
		follow:          &fakeFollowUps{},
		employeeStore:   repositories.NewMemoryStore[models.Employee](repositories.EmployeesCollection),
		sessionStore:    repositories.NewMemoryStore[models.TrackingSession](repositories.TrackingSessionsCollection),
		meetingStore:    repositories.NewMemoryStore[models.Meeting](repositories.MeetingsCollection),
		historyStore:    repositories.NewMemoryStore[models.MeetingHistory](repositories.MeetingHistoryCollection),
		attendanceStore: repositories.NewMemoryStore[models.Attendance](repositories.AttendanceCollection),
		snapshotStore:   repositories.NewMemoryStore[models.RouteSnapshot](repositories.RouteSnapshotsCollection),
	}
	clock := func() time.Time { return now }

	env.geocoder = NewGeocodeCache(env.upstream, GeocodeOptions{MinInterval: time.Millisecond, Now: clock})
	env.employees = NewEmployeeService(env.employeeStore, nil, env.geocoder, env.events)
	env.employees.now = clock
	env.tracking = NewTrackingService(env.sessionStore, env.geocoder, env.employees, env.events)
	env.tracking.now = clock
	env.history = NewMeetingHistoryService(env.historyStore)
	env.history.now = clock
	env.meetings = NewMeetingService(env.meetingStore, env.history, env.geocoder, env.employees, env.follow, env.events)
	env.meetings.now = clock
	env.attendance = NewAttendanceService(env.attendanceStore)
	env.attendance.now = clock
	env.snapshots = NewRouteSnapshotService(env.snapshotStore, env.sessionStore, env.meetingStore)
	env.snapshots.now = clock
	env.analytics = NewAnalyticsService(env.meetingStore, env.sessionStore, env.employees, env.attendance)
	env.analytics.now = clock
	return env
}

func loc(lat, lng float64) *models.Location {
	return &models.Location{Lat: lat, Lng: lng}
}
