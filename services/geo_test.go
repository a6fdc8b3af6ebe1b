package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/HSouheill/fieldtrack_backend/models"
)

func TestHaversine(t *testing.T) {
	tests := []struct {
		name      string
		a, b      models.Location
		expected  float64
		tolerance float64
	}{
		{"one degree of longitude at lat 1", models.Location{Lat: 1, Lng: 1}, models.Location{Lat: 1, Lng: 2}, 111177.99, 0.01},
		{"one degree of latitude", models.Location{Lat: 1, Lng: 2}, models.Location{Lat: 2, Lng: 2}, 111194.93, 0.01},
		{"NYC to London", models.Location{Lat: 40.7128, Lng: -74.0060}, models.Location{Lat: 51.5074, Lng: -0.1278}, 5570222, 50},
		{"same point", models.Location{Lat: 40.7128, Lng: -74.0060}, models.Location{Lat: 40.7128, Lng: -74.0060}, 0, 0.001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Haversine(tt.a, tt.b), tt.tolerance)
			assert.InDelta(t, Haversine(tt.a, tt.b), Haversine(tt.b, tt.a), 1e-6, "symmetric")
		})
	}
}

func TestRouteDistanceGolden(t *testing.T) {
	route := []models.Location{{Lat: 1, Lng: 1}, {Lat: 1, Lng: 2}, {Lat: 2, Lng: 2}}
	assert.InDelta(t, 222372.917, RouteDistance(route), 0.01)
	assert.Zero(t, RouteDistance(route[:1]))
	assert.Zero(t, RouteDistance(nil))
}

func TestRouteBounds(t *testing.T) {
	assert.Nil(t, RouteBounds(nil))

	b := RouteBounds([]models.Location{{Lat: 1, Lng: 5}, {Lat: -2, Lng: 7}, {Lat: 3, Lng: 4}})
	assert.Equal(t, &models.Bounds{North: 3, South: -2, East: 7, West: 4}, b)
}
