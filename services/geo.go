package services

import (
	"math"

	"github.com/HSouheill/fieldtrack_backend/models"
)

// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
const EarthRadiusMeters = 6371000.0

// Haversine returns the great-circle distance between two fixes in meters.
func Haversine(a, b models.Location) float64 {
	phi1 := a.Lat * math.Pi / 180
	phi2 := b.Lat * math.Pi / 180
	dPhi := (b.Lat - a.Lat) * math.Pi / 180
	dLambda := (a.Lng - b.Lng) * math.Pi / 180

	h := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)

	return 2 * EarthRadiusMeters * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// RouteDistance sums the hops between consecutive points of a route.
func RouteDistance(route []models.Location) float64 {
	total := 0.0
	for i := 1; i < len(route); i++ {
		total += Haversine(route[i-1], route[i])
	}
	return total
}

// RouteBounds returns the bounding box of a route, or nil for an empty route.
func RouteBounds(route []models.Location) *models.Bounds {
	if len(route) == 0 {
		return nil
	}
	b := &models.Bounds{North: route[0].Lat, South: route[0].Lat, East: route[0].Lng, West: route[0].Lng}
	for _, p := range route[1:] {
		b.North = math.Max(b.North, p.Lat)
		b.South = math.Min(b.South, p.Lat)
		b.East = math.Max(b.East, p.Lng)
		b.West = math.Min(b.West, p.Lng)
	}
	return b
}
