// Package geo provides great-circle distance and the distance-based
// similarity scores used for travel endpoints.
package geo

import "math"

// EarthRadiusKm is the mean radius of Earth used for Haversine distance.
const EarthRadiusKm = 6371.0

// MaxGreatCircleKm is half of Earth's circumference, the largest possible
// great-circle distance. It is the canonical normalization constant for
// the linear and exponential similarity scores.
const MaxGreatCircleKm = 20037.5

// Haversine returns the great-circle distance in kilometers between two
// points specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Asin(math.Sqrt(a))

	return EarthRadiusKm * c
}

// Similarity returns the linear score max(0, (max-d)/max) and the
// exponential-decay score exp(-d/max), both in [0, 1]. Any NaN coordinate
// means the location is unknown and yields NaN ("no signal") for both
// scores rather than zero.
func Similarity(lat1, lon1, lat2, lon2, maxDistance float64) (linear, expDecay float64) {
	if anyNaN(lat1, lon1, lat2, lon2) || maxDistance <= 0 {
		return math.NaN(), math.NaN()
	}
	d := Haversine(lat1, lon1, lat2, lon2)
	linear = math.Max(0, (maxDistance-d)/maxDistance)
	expDecay = math.Exp(-d / maxDistance)
	return linear, expDecay
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func anyNaN(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
