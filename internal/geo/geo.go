// Package geo holds small coordinate helpers shared by enrichment and merge.
package geo

import (
	"math"

	"stayfinder/internal/domain"
)

const earthRadiusKm = 6371.0

// HaversineKm is the great-circle distance between a and b, rounded to 10 m.
func HaversineKm(a, b domain.Coordinate) float64 {
	dLat := rad(b.Lat - a.Lat)
	dLon := rad(b.Lon - a.Lon)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	d := 2 * earthRadiusKm * math.Asin(math.Sqrt(h))
	return math.Round(d*100) / 100
}

// Bucket rounds a coordinate to 3 decimals (~100 m grid), as integers.
func Bucket(c domain.Coordinate) (int64, int64) {
	return int64(math.Round(c.Lat * 1000)), int64(math.Round(c.Lon * 1000))
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
