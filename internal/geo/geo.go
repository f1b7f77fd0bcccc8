package geo

import (
	"math"

	"github.com/mmcloughlin/geohash"
)

// EarthRadiusMeters is the mean earth radius used for all distance math.
const EarthRadiusMeters = 6371000

const geohashPrecision = 9

type Point struct {
	Lat float64
	Lon float64
}

// Valid reports whether p is a finite coordinate inside the WGS84 ranges.
func (p Point) Valid() bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lon) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lon, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// HaversineMeters calculates the great-circle distance between two points in meters.
func HaversineMeters(a, b Point) float64 {
	lat1Rad := a.Lat * math.Pi / 180
	lat2Rad := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return EarthRadiusMeters * c
}

// DistanceMeters is HaversineMeters truncated to whole meters.
func DistanceMeters(a, b Point) int {
	return int(HaversineMeters(a, b))
}

// Key identifies a point at 4 decimal places (~11m). Points sharing a key
// are treated as the same physical place.
type Key struct {
	Lat int64
	Lon int64
}

func KeyOf(p Point) Key {
	return Key{
		Lat: int64(math.Round(p.Lat * 1e4)),
		Lon: int64(math.Round(p.Lon * 1e4)),
	}
}

// Geohash encodes p as a base32 geohash cell of ~5m.
func Geohash(p Point) string {
	return geohash.EncodeWithPrecision(p.Lat, p.Lon, geohashPrecision)
}
