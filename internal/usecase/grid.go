package usecase

import (
	"github.com/barber-finder/internal/domain"
	"github.com/barber-finder/internal/pkg/utils"
)

const (
	// радиус одиночного поиска, когда геокодер не вернул viewport
	fallbackRadiusMeters = 40000.0

	// порог "большого города": span больше - сетка 4x4 вместо 3x3
	largeCitySpanDegrees = 0.35

	minCellRadiusMeters = 5000.0
	maxCellRadiusMeters = 40000.0

	// коэффициент перекрытия соседних ячеек
	cellOverlapFactor = 0.75

	maxGridPoints = 16
)

// BuildSearchGrid разбивает область поиска на перекрывающиеся круги.
// Чистая детерминированная функция: порядок точек стабильный (по рядам,
// сверху вниз, слева направо), результат усечён до maxGridPoints.
//
// Один поиск с фиксированным радиусом теряет результаты у краёв больших
// агломераций, потому что upstream ограничивает число хитов на запрос;
// сетка с перекрытием меняет дополнительные вызовы на покрытие.
func BuildSearchGrid(geo *domain.GeoResult) []domain.GridPoint {
	if geo.Viewport == nil {
		return []domain.GridPoint{{
			Lat:          geo.Center.Lat,
			Lng:          geo.Center.Lng,
			RadiusMeters: fallbackRadiusMeters,
		}}
	}

	ne := geo.Viewport.Northeast
	sw := geo.Viewport.Southwest

	latSpan := ne.Lat - sw.Lat
	lngSpan := ne.Lng - sw.Lng

	size := 3
	if latSpan > largeCitySpanDegrees || lngSpan > largeCitySpanDegrees {
		size = 4
	}

	avgLat := (ne.Lat + sw.Lat) / 2

	cellLatSpan := latSpan / float64(size)
	cellLngSpan := lngSpan / float64(size)

	// переводим размер ячейки в метры; долгота сжимается с широтой
	cellLatMeters := utils.LatDegreesToMeters(cellLatSpan)
	cellLngMeters := utils.LngDegreesToMeters(cellLngSpan, avgLat)

	radius := maxFloat(cellLatMeters, cellLngMeters) * cellOverlapFactor
	radius = clampFloat(radius, minCellRadiusMeters, maxCellRadiusMeters)

	points := make([]domain.GridPoint, 0, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			points = append(points, domain.GridPoint{
				Lat:          ne.Lat - (float64(row)+0.5)*cellLatSpan,
				Lng:          sw.Lng + (float64(col)+0.5)*cellLngSpan,
				RadiusMeters: radius,
			})
		}
	}

	if len(points) > maxGridPoints {
		points = points[:maxGridPoints]
	}

	return points
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
