package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/utils"
)

const goldenRouteMeters = 222372.917

func TestCreateSessionRequiresEmployee(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Now())

	_, err := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{StartLocation: loc(1, 1)})
	require.Error(t, err)
	assert.True(t, models.IsValidation(err))

	_, err = env.tracking.Create(ctx, models.CreateTrackingSessionRequest{EmployeeID: "e1"})
	assert.True(t, models.IsValidation(err))

	n, _ := env.sessionStore.Count(ctx)
	assert.Zero(t, n, "nothing written")
}

func TestCreateSessionDefaults(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	env := newTestEnv(now)

	s, err := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{EmployeeID: "e1", StartLocation: loc(1, 1)})
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, models.SessionStatusActive, s.Status)
	assert.Equal(t, "2025-03-01T09:00:00.000Z", s.StartTime)
	assert.Equal(t, "Street at 1.00/1.00", s.StartLocation.Address)
	require.Len(t, s.Route, 1)
	assert.Equal(t, s.StartLocation, s.Route[0])
	assert.Zero(t, s.TotalDistance)

	emp, err := env.employeeStore.FindByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeActive, emp.Status)
	assert.Contains(t, env.events.Types(), models.EventSessionStarted)
}

func TestCreateSessionWithRouteGoldenDistance(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Now())

	s, err := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{
		EmployeeID:    "e1",
		StartLocation: loc(1, 1),
		Route:         []models.Location{{Lat: 1, Lng: 1}, {Lat: 1, Lng: 2}, {Lat: 2, Lng: 2}},
		TotalDistance: func() *float64 { v := 5.0; return &v }(),
	})
	require.NoError(t, err)

	assert.Len(t, s.Route, 3, "matching first point is replaced by the start location")
	assert.InDelta(t, goldenRouteMeters, s.TotalDistance, 0.01, "client total is ignored")
}

func TestCreateSessionPrependsStartToForeignRoute(t *testing.T) {
	s, err := newTestEnv(time.Now()).tracking.Create(context.Background(), models.CreateTrackingSessionRequest{
		EmployeeID:    "e1",
		StartLocation: &models.Location{Lat: 1, Lng: 1, Address: "Depot"},
		Route:         []models.Location{{Lat: 1, Lng: 2}},
	})
	require.NoError(t, err)
	require.Len(t, s.Route, 2)
	assert.Equal(t, "Depot", s.Route[0].Address)
}

func TestAppendLocationAccumulatesDistance(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Now())
	s, err := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{EmployeeID: "e1", StartLocation: loc(1, 1)})
	require.NoError(t, err)

	points := []models.Location{{Lat: 1, Lng: 2}, {Lat: 2, Lng: 2}, {Lat: 2, Lng: 3}, {Lat: 1.5, Lng: 2.5}}
	expected := 0.0
	prev := s.Route[0]
	for _, p := range points {
		p := p
		s, err = env.tracking.AppendLocation(ctx, s.ID, &p)
		require.NoError(t, err)
		expected += Haversine(prev, p)
		prev = p
		assert.InDelta(t, expected, s.TotalDistance, 1e-6)
	}
	assert.InDelta(t, RouteDistance(s.Route), s.TotalDistance, 1e-6)

	emp, _ := env.employeeStore.FindByID(ctx, "e1")
	assert.Equal(t, 2.5, emp.Location.Lng, "last known location follows the route")
	assert.Contains(t, env.events.Types(), models.EventLocationUpdate)
}

func TestAppendLocationValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Now())

	_, err := env.tracking.AppendLocation(ctx, "missing", loc(1, 1))
	assert.ErrorIs(t, err, models.ErrNotFound)

	s, _ := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{EmployeeID: "e1", StartLocation: loc(1, 1)})
	_, err = env.tracking.AppendLocation(ctx, s.ID, nil)
	assert.True(t, models.IsValidation(err))
}

func TestConcurrentAppendsAreNotLost(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Now())
	s, _ := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{EmployeeID: "e1", StartLocation: loc(1, 1)})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := env.tracking.AppendLocation(ctx, s.ID, &models.Location{Lat: 1, Lng: 1 + float64(i)/100, Address: "x"})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := env.tracking.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Len(t, got.Route, 21)
	assert.InDelta(t, RouteDistance(got.Route), got.TotalDistance, 1e-6)
}

func TestCompleteSessionSetsEndTimeAndDuration(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	env := newTestEnv(start)

	s, err := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{EmployeeID: "e1", StartLocation: loc(1, 1)})
	require.NoError(t, err)

	env.tracking.now = func() time.Time { return start.Add(90*time.Minute + 1500*time.Millisecond) }
	done, err := env.tracking.Update(ctx, s.ID, models.UpdateTrackingSessionRequest{Status: models.SessionStatusCompleted})
	require.NoError(t, err)

	assert.Equal(t, models.SessionStatusCompleted, done.Status)
	assert.Equal(t, "2025-03-01T10:30:01.500Z", done.EndTime)
	assert.GreaterOrEqual(t, utils.CompareTimestamps(done.EndTime, done.StartTime), 0)
	assert.Equal(t, int64(5401), done.Duration)

	emp, _ := env.employeeStore.FindByID(ctx, "e1")
	assert.Equal(t, models.EmployeeIdle, emp.Status)
	assert.Contains(t, env.events.Types(), models.EventSessionCompleted)

	_, err = env.tracking.AppendLocation(ctx, s.ID, loc(3, 3))
	assert.True(t, models.IsValidation(err), "completed sessions are immutable")

	_, err = env.tracking.Update(ctx, s.ID, models.UpdateTrackingSessionRequest{Status: models.SessionStatusActive})
	assert.True(t, models.IsValidation(err))
}

func TestUpdateSessionExplicitTimesAndEndLocation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Now())
	s, _ := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{
		EmployeeID:    "e1",
		StartLocation: loc(1, 1),
		StartTime:     "2025-03-01T08:00:00.000Z",
	})

	got, err := env.tracking.Update(ctx, s.ID, models.UpdateTrackingSessionRequest{
		EndTime:     "2025-03-01T08:10:00.999Z",
		EndLocation: loc(2, 2),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(600), got.Duration)
	assert.Equal(t, "Street at 2.00/2.00", got.EndLocation.Address)
	assert.Equal(t, models.SessionStatusActive, got.Status)

	_, err = env.tracking.Update(ctx, s.ID, models.UpdateTrackingSessionRequest{EndTime: "2025-03-01T07:00:00.000Z"})
	assert.True(t, models.IsValidation(err))

	_, err = env.tracking.Update(ctx, "nope", models.UpdateTrackingSessionRequest{Status: models.SessionStatusPaused})
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = env.tracking.Update(ctx, s.ID, models.UpdateTrackingSessionRequest{Status: "stopped"})
	assert.True(t, models.IsValidation(err))
}

func TestListSessionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Now())
	for _, st := range []string{"2025-03-01T08:00:00.000Z", "2025-03-03T08:00:00.000Z", "2025-03-02T08:00:00.000Z"} {
		_, err := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{EmployeeID: "e1", StartLocation: loc(1, 1), StartTime: st})
		require.NoError(t, err)
	}
	_, _ = env.tracking.Create(ctx, models.CreateTrackingSessionRequest{EmployeeID: "e2", StartLocation: loc(1, 1), StartTime: "2025-03-04T08:00:00.000Z"})

	list, err := env.tracking.List(ctx, models.SessionFilter{EmployeeID: "e1"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "2025-03-03T08:00:00.000Z", list[0].StartTime)
	assert.Equal(t, "2025-03-01T08:00:00.000Z", list[2].StartTime)

	ranged, err := env.tracking.List(ctx, models.SessionFilter{StartDate: "2025-03-02", EndDate: "2025-03-03"})
	require.NoError(t, err)
	assert.Len(t, ranged, 2)

	limited, _ := env.tracking.List(ctx, models.SessionFilter{Limit: 1})
	assert.Equal(t, "2025-03-04T08:00:00.000Z", limited[0].StartTime)
}

// Route includes the start point, so three appends give four route entries.
func TestTrackingEndToEnd(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	env := newTestEnv(start)

	s, err := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{EmployeeID: "e1", StartLocation: loc(1, 1)})
	require.NoError(t, err)

	for _, p := range []*models.Location{loc(1, 2), loc(2, 2), loc(2, 3)} {
		_, err := env.tracking.AppendLocation(ctx, s.ID, p)
		require.NoError(t, err)
	}

	env.tracking.now = func() time.Time { return start.Add(45 * time.Minute) }
	_, err = env.tracking.Update(ctx, s.ID, models.UpdateTrackingSessionRequest{Status: models.SessionStatusCompleted})
	require.NoError(t, err)

	got, err := env.tracking.Get(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SessionStatusCompleted, got.Status)
	assert.Greater(t, got.Duration, int64(0))
	assert.Len(t, got.Route, 4)
	assert.InDelta(t, 333500.105, got.TotalDistance, 0.01)

	require.NoError(t, env.tracking.Delete(ctx, s.ID))
	_, err = env.tracking.Get(ctx, s.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSessionTimestampsAreNormalised(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Now())

	s, err := env.tracking.Create(ctx, models.CreateTrackingSessionRequest{
		EmployeeID:    "e1",
		StartLocation: loc(1, 1),
		StartTime:     "2025-03-01T10:00:00+02:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T08:00:00.000Z", s.StartTime)

	_, err = env.tracking.Create(ctx, models.CreateTrackingSessionRequest{EmployeeID: "e1", StartLocation: loc(1, 1), StartTime: "soon"})
	assert.True(t, models.IsValidation(err))

	_, err = env.tracking.Update(ctx, s.ID, models.UpdateTrackingSessionRequest{
		Status:  models.SessionStatusCompleted,
		EndTime: "01/03/2025 09:00",
	})
	assert.True(t, models.IsValidation(err))

	got, _ := env.tracking.Get(ctx, s.ID)
	assert.Equal(t, models.SessionStatusActive, got.Status, "a rejected end time completes nothing")

	done, err := env.tracking.Update(ctx, s.ID, models.UpdateTrackingSessionRequest{
		Status:  models.SessionStatusCompleted,
		EndTime: "2025-03-01T11:30:00+02:00",
	})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01T09:30:00.000Z", done.EndTime)
	assert.Equal(t, int64(5400), done.Duration)
}
