package utils

import "math"

const (
	earthRadiusKm = 6371.0

	// метров в одном градусе широты (долготы на экваторе)
	metersPerDegree = 111320.0
)

// HaversineDistance вычисляет расстояние между двумя точками в километрах
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180.0
	dLng := (lng2 - lng1) * math.Pi / 180.0

	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLng/2)*math.Sin(dLng/2)*math.Cos(lat1Rad)*math.Cos(lat2Rad)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// LatDegreesToMeters переводит градусы широты в метры
func LatDegreesToMeters(deg float64) float64 {
	return deg * metersPerDegree
}

// LngDegreesToMeters переводит градусы долготы в метры на заданной широте.
// Метры на градус долготы сжимаются к полюсам пропорционально cos(широты).
func LngDegreesToMeters(deg, atLat float64) float64 {
	return deg * metersPerDegree * math.Cos(atLat*math.Pi/180.0)
}

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
