package repository

import (
	"context"
	"time"

	"github.com/barber-finder/internal/domain"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// GetGeoResult получает закешированный результат геокодирования
	GetGeoResult(ctx context.Context, query string) (*domain.GeoResult, error)

	// SetGeoResult сохраняет результат геокодирования с TTL
	SetGeoResult(ctx context.Context, query string, geo *domain.GeoResult, ttl time.Duration) error
}
