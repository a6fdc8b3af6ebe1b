package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HSouheill/fieldtrack_backend/models"
)

func TestUserGatewayFetchAll(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[{"id":101,"name":"Rami Haddad","phone":96170123456},{"userId":"u-2","firstName":"Lea","lastName":"Khoury"}]`))
	}))
	defer srv.Close()

	g := NewUserGateway(srv.URL, "secret", time.Second)
	users := g.FetchAll(context.Background())
	require.Len(t, users, 2)
	assert.Equal(t, models.FlexString("101"), users[0].ID)
	assert.Equal(t, models.FlexString("96170123456"), users[0].Phone)
	assert.Equal(t, models.FlexString("u-2"), users[1].UserID)

	g.FetchAll(context.Background())
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits), "second call served from cache")

	g.ClearCache()
	g.FetchAll(context.Background())
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestUserGatewayWrappedPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":[{"id":"7","name":"Nour"}]}`))
	}))
	defer srv.Close()

	users := NewUserGateway(srv.URL, "", time.Second).FetchAll(context.Background())
	require.Len(t, users, 1)
	assert.Equal(t, "Nour", users[0].Name)
}

func TestDecodeUsersEscapedStrings(t *testing.T) {
	users, err := decodeUsers([]byte(`[{"id":"u1","name":"A\u00efda","phone":"+961\/123","mobile":null}]`))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.FlexString("+961/123"), users[0].Phone)
	assert.Equal(t, "Aïda", users[0].Name)
	assert.Equal(t, models.FlexString(""), users[0].Mobile)
}

func TestUserGatewayFailureReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := NewUserGateway(srv.URL, "", time.Second)
	assert.Empty(t, g.FetchAll(context.Background()))

	unreachable := NewUserGateway("http://127.0.0.1:1", "", 200*time.Millisecond)
	assert.Empty(t, unreachable.FetchAll(context.Background()))

	assert.Empty(t, NewUserGateway("", "", time.Second).FetchAll(context.Background()))
}

func TestUserGatewayBreakerOpens(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewUserGateway(srv.URL, "", time.Second)
	for i := 0; i < 6; i++ {
		assert.Empty(t, g.FetchAll(context.Background()))
	}
	assert.Equal(t, int32(3), atomic.LoadInt32(&hits), "breaker rejects calls after three failures")
}

func TestMapToEmployee(t *testing.T) {
	ext := models.ExternalUser{ID: "42", FirstName: "Maya", LastName: "Saad", Mobile: "555", CompanyName: "Acme"}

	t.Run("first sight seeds status from index", func(t *testing.T) {
		a := MapToEmployee(ext, 0, nil)
		b := MapToEmployee(ext, 0, nil)
		assert.Equal(t, a, b)
		assert.Equal(t, "42", a.ID)
		assert.Equal(t, "Maya Saad", a.Name)
		assert.Equal(t, "555", a.Phone)
		assert.Equal(t, "Acme", a.Company)
		assert.Equal(t, models.EmployeeActive, a.Status)
		assert.Equal(t, models.EmployeeIdle, MapToEmployee(ext, 1, nil).Status)
		assert.Nil(t, a.Location)
	})

	t.Run("stored state wins over seed", func(t *testing.T) {
		state := &models.Employee{
			Status:      models.EmployeeInMeeting,
			Location:    &models.Location{Lat: 1, Lng: 2},
			LastUpdate:  "2025-03-01T10:00:00.000Z",
			CurrentTask: "Meeting with Acme",
		}
		emp := MapToEmployee(ext, 0, state)
		assert.Equal(t, models.EmployeeInMeeting, emp.Status)
		assert.Equal(t, "Meeting with Acme", emp.CurrentTask)
		assert.Equal(t, 2.0, emp.Location.Lng)
	})

	t.Run("missing ids fall back to index", func(t *testing.T) {
		assert.Equal(t, "emp-3", MapToEmployee(models.ExternalUser{Name: "X"}, 2, nil).ID)
	})
}

type staticDirectory struct {
	users   []models.ExternalUser
	cleared bool
}

func (d *staticDirectory) FetchAll(context.Context) []models.ExternalUser { return d.users }
func (d *staticDirectory) ClearCache()                                   { d.cleared = true }

func TestEmployeeServiceListMirrorsAndKeepsState(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	dir := &staticDirectory{users: []models.ExternalUser{{ID: "1", Name: "Rami"}, {ID: "2", Name: "Lea"}}}
	env.employees.directory = dir

	first, err := env.employees.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)

	_, err = env.employees.UpdateStatus(ctx, "2", models.UpdateEmployeeStatusRequest{Status: models.EmployeeOffline})
	require.NoError(t, err)

	second, err := env.employees.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.EmployeeOffline, second[1].Status, "runtime state survives a directory refresh")

	dir.users = nil
	fallback, err := env.employees.List(ctx)
	require.NoError(t, err)
	assert.Len(t, fallback, 2, "empty directory answer falls back to stored employees")

	env.employees.ClearCache(ctx)
	assert.True(t, dir.cleared)
}

func TestEmployeeServiceMarkInactive(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	env := newTestEnv(now)

	require.NoError(t, env.employeeStore.Insert(ctx, models.Employee{ID: "old", Status: models.EmployeeActive, LastUpdate: "2025-03-01T11:00:00.000Z"}))
	require.NoError(t, env.employeeStore.Insert(ctx, models.Employee{ID: "fresh", Status: models.EmployeeActive, LastUpdate: "2025-03-01T11:50:00.000Z"}))

	marked, err := env.employees.MarkInactive(ctx, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, marked)

	old, _ := env.employeeStore.FindByID(ctx, "old")
	fresh, _ := env.employeeStore.FindByID(ctx, "fresh")
	assert.Equal(t, models.EmployeeOffline, old.Status)
	assert.Equal(t, models.EmployeeActive, fresh.Status)
}

func TestEmployeeServiceRefreshLocations(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(time.Now())
	require.NoError(t, env.employeeStore.Insert(ctx, models.Employee{ID: "1", Location: &models.Location{Lat: 3, Lng: 4, Address: "3.000000, 4.000000"}}))
	require.NoError(t, env.employeeStore.Insert(ctx, models.Employee{ID: "2"}))

	n, err := env.employees.RefreshLocations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	emp, _ := env.employeeStore.FindByID(ctx, "1")
	assert.Equal(t, "Street at 3.00/4.00", emp.Location.Address)
}
