package repository

import (
	"context"

	"github.com/barber-finder/internal/domain"
)

// PlacesRepository определяет методы для работы с Google Maps API
type PlacesRepository interface {
	// Geocode преобразует текстовый адрес в координаты центра и viewport
	Geocode(ctx context.Context, query string) (*domain.GeoResult, error)

	// TextSearch возвращает одну страницу результатов text search.
	// bias задаёт location bias (круг), pageToken - токен продолжения
	// предыдущей страницы (пустая строка для первой страницы).
	TextSearch(
		ctx context.Context,
		query string,
		bias domain.GridPoint,
		pageToken string,
	) (*domain.SearchPage, error)

	// PlaceDetails возвращает контактные данные места по его идентификатору
	PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetails, error)
}
