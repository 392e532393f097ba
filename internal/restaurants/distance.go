package restaurants

import "math"

const (
	earthRadiusKm   = 6371.0
	DefaultRadiusKm = 10.0
)

type Point struct {
	Lat, Lng float64
}

// DistanceKm is the haversine distance between a and b.
func DistanceKm(a, b Point) float64 {
	dLat := rad(b.Lat - a.Lat)
	dLng := rad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(rad(a.Lat))*math.Cos(rad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Nearby keeps the restaurants within radiusKm of p, preserving order.
func Nearby(rs []Restaurant, p Point, radiusKm float64) []Restaurant {
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	out := rs[:0:0]
	for _, r := range rs {
		if DistanceKm(p, Point{r.Latitude, r.Longitude}) <= radiusKm {
			out = append(out, r)
		}
	}
	return out
}

func rad(deg float64) float64 { return deg * math.Pi / 180 }
