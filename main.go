package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/oklog/ulid"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/HSouheill/fieldtrack_backend/config"
	"github.com/HSouheill/fieldtrack_backend/controllers"
	"github.com/HSouheill/fieldtrack_backend/logging"
	"github.com/HSouheill/fieldtrack_backend/middleware"
	"github.com/HSouheill/fieldtrack_backend/models"
	"github.com/HSouheill/fieldtrack_backend/repositories"
	"github.com/HSouheill/fieldtrack_backend/routes"
	"github.com/HSouheill/fieldtrack_backend/services"
	"github.com/HSouheill/fieldtrack_backend/websocket"
)

// newStore pairs a Mongo collection with its in-memory mirror. A nil db runs memory-only.
func newStore[T repositories.Document](db *mongo.Database, name string, timeout time.Duration) *repositories.FallbackStore[T] {
	var primary repositories.Store[T]
	if db != nil {
		primary = repositories.NewMongoStore[T](db, name, timeout)
	}
	return repositories.NewFallbackStore[T](name, primary, repositories.NewMemoryStore[T](name))
}

func main() {
	settings, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: settings.LogLevel, Format: settings.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database; the service keeps running on memory stores without it
	var db *mongo.Database
	client := config.ConnectDB(settings.MongoURI, settings.MongoTimeout)
	if client != nil {
		db = client.Database(settings.DBName)
		config.SetupIndexes(db)
	} else {
		logging.Warn().Msg("running with in-memory storage only")
	}

	employeeStore := newStore[models.Employee](db, repositories.EmployeesCollection, settings.MongoTimeout)
	meetingStore := newStore[models.Meeting](db, repositories.MeetingsCollection, settings.MongoTimeout)
	historyStore := newStore[models.MeetingHistory](db, repositories.MeetingHistoryCollection, settings.MongoTimeout)
	sessionStore := newStore[models.TrackingSession](db, repositories.TrackingSessionsCollection, settings.MongoTimeout)
	attendanceStore := newStore[models.Attendance](db, repositories.AttendanceCollection, settings.MongoTimeout)
	snapshotStore := newStore[models.RouteSnapshot](db, repositories.RouteSnapshotsCollection, settings.MongoTimeout)

	geocodeOpts := services.GeocodeOptions{TTL: settings.GeocodeTTL}
	if rdb := config.ConnectRedis(settings.RedisAddr, settings.RedisPassword, settings.RedisDB); rdb != nil {
		geocodeOpts.Shared = services.NewRedisAddressCache(rdb)
		defer rdb.Close()
	}
	geocoder := services.NewGeocodeCache(
		services.NewNominatimClient(settings.GeocoderURL, settings.GeocoderUserAgent),
		geocodeOpts,
	)

	// Create WebSocket hub
	hub := websocket.NewHub()
	go hub.Run(ctx)

	directory := services.NewUserGateway(settings.UserAPIURL, settings.UserAPIToken, settings.UserAPITimeout)
	followUps := services.NewFollowUpClient(settings.FollowUpAPIURL, settings.FollowUpAPIToken)

	employeeService := services.NewEmployeeService(employeeStore, directory, geocoder, hub)
	historyService := services.NewMeetingHistoryService(historyStore)
	meetingService := services.NewMeetingService(meetingStore, historyService, geocoder, employeeService, followUps, hub)
	trackingService := services.NewTrackingService(sessionStore, geocoder, employeeService, hub)
	attendanceService := services.NewAttendanceService(attendanceStore)
	analyticsService := services.NewAnalyticsService(meetingStore, sessionStore, employeeService, attendanceService)
	snapshotService := services.NewRouteSnapshotService(snapshotStore, sessionStore, meetingStore)
	dataService := services.NewDataService(employeeStore, meetingStore, historyStore, sessionStore, attendanceStore, snapshotStore)

	// Create a new Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = controllers.NewCustomValidator()

	rateLimiter := middleware.NewRateLimiter()

	// Middleware
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.RequestIDWithConfig(echoMiddleware.RequestIDConfig{
		Generator: func() string {
			return ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
		},
	}))
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Metrics())
	e.Use(echoMiddleware.BodyLimit("2M"))
	e.Use(middleware.CORSWithConfig(middleware.NewCORSConfig(settings.CORSAllowedOrigins)))
	e.Use(echoMiddleware.Secure())
	e.Use(middleware.SecurityHeadersWithConfig(middleware.SecurityConfig{
		AllowInlineJS: settings.IsDevelopment(),
	}))
	e.Use(rateLimiter.RateLimit())
	e.Use(middleware.RequireJSON())

	routes.SetupRoutes(e, routes.Handlers{
		Health:    controllers.NewHealthController(client, hub.ClientCount),
		Employees: controllers.NewEmployeeController(employeeService, geocoder),
		Sessions:  controllers.NewTrackingSessionController(trackingService),
		Meetings:  controllers.NewMeetingController(meetingService),
		History:   controllers.NewMeetingHistoryController(historyService, meetingService),
		Analytics: controllers.NewAnalyticsController(analyticsService, attendanceService),
		Snapshots: controllers.NewRouteSnapshotController(snapshotService),
		Data:      controllers.NewDataController(dataService),
		Hub:       hub,
	})

	// Start the inactive employee checker in a goroutine
	go employeeService.RunInactivityMonitor(ctx, 5*time.Minute, settings.InactiveAfter)
	go rateLimiter.Cleanup(10*time.Minute, ctx.Done())

	go func() {
		logging.Info().Str("port", settings.Port).Msg("starting server")
		if err := e.Start(":" + settings.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
	if client != nil {
		if err := client.Disconnect(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}
}
