package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthController reports liveness and which storage path is in use.
type HealthController struct {
	client  *mongo.Client
	clients func() int
}

// NewHealthController accepts a nil client when the service runs memory-only.
func NewHealthController(client *mongo.Client, clients func() int) *HealthController {
	return &HealthController{client: client, clients: clients}
}

func (hc *HealthController) Health(c echo.Context) error {
	database := "memory"
	if hc.client != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := hc.client.Ping(ctx, readpref.Primary()); err != nil {
			database = "unreachable"
		} else {
			database = "connected"
		}
	}

	body := map[string]interface{}{
		"status":   "healthy",
		"database": database,
		"time":     time.Now().UTC().Format(time.RFC3339),
	}
	if hc.clients != nil {
		body["liveClients"] = hc.clients()
	}
	return c.JSON(http.StatusOK, body)
}
