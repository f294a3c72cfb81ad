package geo

import "github.com/umahmood/haversine"

// DistanceKm returns the great-circle surface distance in kilometers between
// two points given in degrees.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: lat1, Lon: lng1},
		haversine.Coord{Lat: lat2, Lon: lng2},
	)
	return km
}

// InBounds reports whether (lat, lng) lies within the closed rectangle
// [south, north] x [west, east]. A box crossing the antimeridian (west > east)
// matches nothing.
func InBounds(lat, lng, north, south, east, west float64) bool {
	return lat >= south && lat <= north && lng >= west && lng <= east
}
