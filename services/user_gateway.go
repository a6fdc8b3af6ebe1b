package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/HSouheill/fieldtrack_backend/logging"
	"github.com/HSouheill/fieldtrack_backend/metrics"
	"github.com/HSouheill/fieldtrack_backend/models"
)

const userDirectoryBreaker = "user-directory"

// UserDirectory is the read side of the external user directory.
type UserDirectory interface {
	FetchAll(ctx context.Context) []models.ExternalUser
	ClearCache()
}

// UserGateway fetches employees from the external directory. It never returns
// an error: an unreachable directory yields an empty list, which callers treat
// as "unknown" and answer from stored employees instead.
type UserGateway struct {
	url        string
	token      string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker[[]models.ExternalUser]
	cacheTTL   time.Duration
	now        func() time.Time

	mu       sync.Mutex
	cached   []models.ExternalUser
	cachedAt time.Time
}

func NewUserGateway(url, token string, timeout time.Duration) *UserGateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	metrics.CircuitBreakerState.WithLabelValues(userDirectoryBreaker).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]models.ExternalUser](gobreaker.Settings{
		Name:        userDirectoryBreaker,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
		},
	})

	return &UserGateway{
		url:        url,
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		cb:         cb,
		cacheTTL:   5 * time.Minute,
		now:        time.Now,
	}
}

// FetchAll returns the directory listing, served from a short-lived cache when fresh.
func (g *UserGateway) FetchAll(ctx context.Context) []models.ExternalUser {
	if g.url == "" {
		return nil
	}

	g.mu.Lock()
	if g.cached != nil && g.now().Sub(g.cachedAt) < g.cacheTTL {
		users := g.cached
		g.mu.Unlock()
		return users
	}
	g.mu.Unlock()

	users, err := g.cb.Execute(func() ([]models.ExternalUser, error) {
		return g.fetch(ctx)
	})
	if err != nil {
		result := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "rejected"
		}
		metrics.UserDirectoryRequests.WithLabelValues(result).Inc()
		logging.Warn().Err(err).Msg("user directory unavailable, falling back to stored employees")
		return nil
	}
	metrics.UserDirectoryRequests.WithLabelValues("success").Inc()

	g.mu.Lock()
	g.cached = users
	g.cachedAt = g.now()
	g.mu.Unlock()
	return users
}

// ClearCache forces the next FetchAll to hit the directory.
func (g *UserGateway) ClearCache() {
	g.mu.Lock()
	g.cached = nil
	g.cachedAt = time.Time{}
	g.mu.Unlock()
}

func (g *UserGateway) fetch(ctx context.Context) ([]models.ExternalUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if g.token != "" {
		req.Header.Set("Authorization", "Bearer "+g.token)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("user directory returned %d", resp.StatusCode)
	}
	return decodeUsers(body)
}

// decodeUsers accepts a bare array or an object wrapping it under data, users or employees.
func decodeUsers(body []byte) ([]models.ExternalUser, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var users []models.ExternalUser
		if err := json.Unmarshal(body, &users); err != nil {
			return nil, fmt.Errorf("failed to parse user list: %w", err)
		}
		return users, nil
	}

	var wrapped struct {
		Data      []models.ExternalUser `json:"data"`
		Users     []models.ExternalUser `json:"users"`
		Employees []models.ExternalUser `json:"employees"`
	}
	if err := json.Unmarshal(body, &wrapped); err != nil {
		return nil, fmt.Errorf("failed to parse user list: %w", err)
	}
	switch {
	case wrapped.Data != nil:
		return wrapped.Data, nil
	case wrapped.Users != nil:
		return wrapped.Users, nil
	default:
		return wrapped.Employees, nil
	}
}

var seedStatuses = []string{models.EmployeeActive, models.EmployeeIdle, models.EmployeeOffline}

// MapToEmployee merges a directory record with the runtime state held for it.
// A nil state means the employee has never been seen; its status is then seeded
// from the listing index so the same directory always produces the same result.
func MapToEmployee(ext models.ExternalUser, index int, state *models.Employee) models.Employee {
	emp := models.Employee{
		ID:          externalID(ext, index),
		Name:        strings.TrimSpace(ext.Name),
		Email:       ext.Email,
		Phone:       string(ext.Phone),
		Designation: ext.Designation,
		Company:     ext.Company,
	}
	if emp.Name == "" {
		emp.Name = strings.TrimSpace(ext.FirstName + " " + ext.LastName)
	}
	if emp.Name == "" {
		emp.Name = emp.ID
	}
	if emp.Phone == "" {
		emp.Phone = string(ext.Mobile)
	}
	if emp.Company == "" {
		emp.Company = ext.CompanyName
	}

	if state == nil {
		emp.Status = seedStatuses[index%len(seedStatuses)]
		return emp
	}
	emp.Status = state.Status
	emp.Location = state.Location
	emp.LastUpdate = state.LastUpdate
	emp.CurrentTask = state.CurrentTask
	return emp
}

func externalID(ext models.ExternalUser, index int) string {
	if ext.ID != "" {
		return string(ext.ID)
	}
	if ext.UserID != "" {
		return string(ext.UserID)
	}
	return fmt.Sprintf("emp-%d", index+1)
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
