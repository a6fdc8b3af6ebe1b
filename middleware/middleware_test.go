package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func okHandler(c echo.Context) error { return c.String(http.StatusOK, "ok") }

func TestRateLimiterBlocksAfterBurst(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter()
	rl.SetEndpointLimit("/api/meetings", rate.Every(time.Hour), 2)
	e.Use(rl.RateLimit())
	e.GET("/api/meetings", okHandler)
	e.GET("/health", okHandler)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		e.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{200, 200, 429, 429}, codes)

	other := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code, "limits are per IP")

	health := httptest.NewRequest(http.MethodGet, "/health", nil)
	health.RemoteAddr = "10.0.0.1:1234"
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, health)
	assert.Equal(t, http.StatusOK, rec.Code, "health is never limited")
}

func TestRateLimiterSweepReleasesLimiters(t *testing.T) {
	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e := echo.New()
	rl := NewRateLimiter()
	rl.now = func() time.Time { return clock }
	rl.SetEndpointLimit("/api/meetings", rate.Every(time.Hour), 1)
	e.Use(rl.RateLimit())
	e.GET("/api/meetings", okHandler)

	get := func(ip string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/meetings", nil)
		req.RemoteAddr = ip + ":1234"
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, get("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, get("10.0.0.1"))
	for i := 0; i < 1000; i++ {
		get(fmt.Sprintf("10.1.%d.%d", i/256, i%256))
	}
	assert.Equal(t, 1001, rl.limiterCount())

	clock = clock.Add(time.Hour)
	rl.sweep()
	assert.Zero(t, rl.limiterCount())
	assert.Empty(t, rl.blockedIPs)

	assert.Equal(t, http.StatusOK, get("10.0.0.1"), "a released IP starts with a fresh budget")
}

func TestRateLimiterUnblockDropsRouteLimiters(t *testing.T) {
	clock := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	e := echo.New()
	rl := NewRateLimiter()
	rl.now = func() time.Time { return clock }
	rl.SetEndpointLimit("/api/meetings", rate.Every(time.Hour), 1)
	e.Use(rl.RateLimit())
	e.GET("/api/meetings", okHandler)
	e.GET("/api/employees", okHandler)

	get := func(path string) int {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, get("/api/employees"))
	assert.Equal(t, http.StatusOK, get("/api/meetings"))
	assert.Equal(t, http.StatusTooManyRequests, get("/api/meetings"))
	assert.Equal(t, 2, rl.limiterCount())

	clock = clock.Add(6 * time.Minute)
	assert.Equal(t, http.StatusOK, get("/api/meetings"))
	assert.Equal(t, 1, rl.limiterCount(), "only the limiter recreated after the release remains")
}

func TestRequireJSON(t *testing.T) {
	e := echo.New()
	e.Use(RequireJSON())
	e.POST("/api/meetings", okHandler)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader("employeeId=1"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/meetings", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/meetings", nil))
	assert.Equal(t, http.StatusOK, rec.Code, "empty bodies pass")
}

func TestSecurityHeaders(t *testing.T) {
	e := echo.New()
	e.Use(SecurityHeadersWithConfig(SecurityConfig{ConnectSources: []string{"https://tile.openstreetmap.org"}}))
	e.GET("/", okHandler)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "connect-src 'self' https://tile.openstreetmap.org")
	assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "script-src 'self'")
}

func TestCORSConfigAddsOrigins(t *testing.T) {
	cfg := NewCORSConfig(" https://dash.example.com, ,https://ops.example.com")
	assert.Contains(t, cfg.AllowOrigins, "https://dash.example.com")
	assert.Contains(t, cfg.AllowOrigins, "https://ops.example.com")
	assert.NotContains(t, cfg.AllowOrigins, "")
}
