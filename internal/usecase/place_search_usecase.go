package usecase

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/barber-finder/internal/config"
	"github.com/barber-finder/internal/domain"
	"github.com/barber-finder/internal/domain/repository"
	"github.com/barber-finder/internal/pkg/errors"
	"github.com/barber-finder/internal/usecase/dto"
)

// strategyGrid - единственная поддерживаемая стратегия покрытия
const strategyGrid = "grid"

// WaitFunc - приостановка между сетевыми вызовами. Отмена контекста
// во время ожидания эквивалентна сбою upstream и прерывает поиск.
type WaitFunc func(ctx context.Context, d time.Duration) error

// DefaultWait блокирует на d с учётом отмены контекста
func DefaultWait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PlaceSearchUseCase - use case поиска барбершопов по городу.
// Все сетевые вызовы строго последовательны (тайл за тайлом, страница
// за страницей, деталь за деталью) - так расход квоты предсказуем.
type PlaceSearchUseCase struct {
	placesRepo repository.PlacesRepository
	cacheRepo  repository.CacheRepository
	logger     *zap.Logger
	cfg        config.SearchConfig
	geocodeTTL time.Duration
	wait       WaitFunc
}

// NewPlaceSearchUseCase - создание нового PlaceSearchUseCase.
// cacheRepo может быть nil (без кеша), wait nil - DefaultWait.
func NewPlaceSearchUseCase(
	placesRepo repository.PlacesRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	cfg config.SearchConfig,
	geocodeTTL time.Duration,
	wait WaitFunc,
) *PlaceSearchUseCase {
	if wait == nil {
		wait = DefaultWait
	}
	return &PlaceSearchUseCase{
		placesRepo: placesRepo,
		cacheRepo:  cacheRepo,
		logger:     logger,
		cfg:        cfg,
		geocodeTTL: geocodeTTL,
		wait:       wait,
	}
}

// Search выполняет полный цикл: геокодирование города, разбиение на
// сетку, постраничный поиск по каждому тайлу с общей дедупликацией и
// (опционально) обогащение контактами.
func (uc *PlaceSearchUseCase) Search(ctx context.Context, req dto.PlaceSearchRequest) (*dto.PlaceSearchResponse, error) {
	city := strings.TrimSpace(req.City)
	if city == "" {
		return nil, errors.ErrCityRequired
	}

	geo, err := uc.geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	grid := BuildSearchGrid(geo)
	query := uc.cfg.Keyword + " in " + city

	uc.logger.Info("Grid search started",
		zap.String("city", city),
		zap.Int("grid_points", len(grid)),
		zap.Float64("cell_radius_m", grid[0].RadiusMeters))

	acc := NewResultAccumulator(uc.cfg.MaxResults)
	pagesFetched := 0

	for i, pt := range grid {
		if acc.Full() {
			uc.logger.Warn("Result cap reached, skipping remaining tiles",
				zap.Int("tiles_skipped", len(grid)-i))
			break
		}

		fetched, err := uc.searchTile(ctx, query, pt, acc)
		pagesFetched += fetched
		if err != nil {
			// любой сбой тайла прерывает весь поиск
			return nil, err
		}
	}

	results := acc.Results()

	if req.IncludeDetails {
		if err := uc.enrich(ctx, results); err != nil {
			return nil, err
		}
	}

	uc.logger.Info("Grid search completed",
		zap.String("city", city),
		zap.Int("total", len(results)),
		zap.Int("pages_fetched", pagesFetched),
		zap.Int("warnings", len(acc.Warnings())))

	outcome := domain.SearchOutcome{
		Results:        results,
		PagesFetched:   pagesFetched,
		GridPointCount: len(grid),
		Warnings:       acc.Warnings(),
	}

	return convertOutcome(outcome), nil
}

// convertOutcome преобразует терминальный результат поиска в DTO ответа
func convertOutcome(outcome domain.SearchOutcome) *dto.PlaceSearchResponse {
	out := make([]dto.PlaceResult, 0, len(outcome.Results))
	for _, rec := range outcome.Results {
		out = append(out, dto.ConvertPlaceResult(rec))
	}

	warnings := outcome.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	return &dto.PlaceSearchResponse{
		Results: out,
		Meta: dto.SearchMeta{
			Total:      len(out),
			Pages:      outcome.PagesFetched,
			Strategy:   strategyGrid,
			GridPoints: outcome.GridPointCount,
			Warnings:   warnings,
		},
	}
}

// SearchCSV выполняет тот же поиск и сериализует результат в CSV
func (uc *PlaceSearchUseCase) SearchCSV(ctx context.Context, req dto.PlaceSearchRequest) ([]byte, error) {
	resp, err := uc.Search(ctx, req)
	if err != nil {
		return nil, err
	}
	return EncodePlacesCSV(resp.Results)
}

// geocode резолвит город через кеш, затем через API
func (uc *PlaceSearchUseCase) geocode(ctx context.Context, city string) (*domain.GeoResult, error) {
	if uc.cacheRepo != nil && uc.geocodeTTL > 0 {
		geo, err := uc.cacheRepo.GetGeoResult(ctx, city)
		if err != nil {
			uc.logger.Warn("Geocode cache read failed", zap.Error(err))
		} else if geo != nil {
			return geo, nil
		}
	}

	geo, err := uc.placesRepo.Geocode(ctx, city)
	if err != nil {
		return nil, err
	}

	if uc.cacheRepo != nil && uc.geocodeTTL > 0 {
		if err := uc.cacheRepo.SetGeoResult(ctx, city, geo, uc.geocodeTTL); err != nil {
			uc.logger.Warn("Geocode cache write failed", zap.Error(err))
		}
	}

	return geo, nil
}

// searchTile обходит страницы одного тайла и складывает хиты в acc.
// Возвращает число реально выполненных запросов страниц (включая
// пустые ретраи).
func (uc *PlaceSearchUseCase) searchTile(
	ctx context.Context,
	query string,
	pt domain.GridPoint,
	acc *ResultAccumulator,
) (int, error) {
	token := ""
	pages := 0
	fetched := 0

	for pages < uc.cfg.MaxPagesPerTile {
		if token != "" {
			// токену нужно время на распространение; без паузы upstream
			// отвечает пустыми или invalid-token страницами
			if err := uc.wait(ctx, uc.cfg.PageTokenDelay); err != nil {
				return fetched, err
			}
		}

		page, n, err := uc.fetchPage(ctx, query, pt, token)
		fetched += n
		if err != nil {
			return fetched, err
		}
		if page == nil {
			// бюджет пустых ретраев исчерпан - тайл брошен
			uc.logger.Warn("Tile abandoned after empty page retries",
				zap.Float64("lat", pt.Lat),
				zap.Float64("lng", pt.Lng))
			break
		}

		acc.AddPage(page)
		pages++

		if acc.Full() {
			break
		}

		token = page.NextPageToken
		if token == "" {
			break
		}
	}

	return fetched, nil
}

// fetchPage выполняет один запрос страницы. Пустая страница по токену -
// транзиентный сбой распространения, а не конец результатов: ждём и
// повторяем тот же токен. nil-страница означает брошенный тайл.
func (uc *PlaceSearchUseCase) fetchPage(
	ctx context.Context,
	query string,
	pt domain.GridPoint,
	token string,
) (*domain.SearchPage, int, error) {
	fetched := 0
	emptyAttempts := 0

	for {
		page, err := uc.placesRepo.TextSearch(ctx, query, pt, token)
		if err != nil {
			return nil, fetched, err
		}
		fetched++

		if token != "" && len(page.Places) == 0 {
			emptyAttempts++
			if emptyAttempts >= uc.cfg.EmptyPageRetries {
				return nil, fetched, nil
			}
			if err := uc.wait(ctx, uc.cfg.EmptyPageDelay); err != nil {
				return nil, fetched, err
			}
			continue
		}

		return page, fetched, nil
	}
}

// enrich дозаполняет телефон и сайт первым DetailsLimit записям.
// Сбой одного запроса прерывает всё обогащение и весь поиск.
func (uc *PlaceSearchUseCase) enrich(ctx context.Context, results []*domain.PlaceRecord) error {
	limit := uc.cfg.DetailsLimit
	if len(results) < limit {
		limit = len(results)
	}

	for _, rec := range results[:limit] {
		det, err := uc.placesRepo.PlaceDetails(ctx, rec.PlaceID)
		if err != nil {
			return err
		}

		if det.InternationalPhone != "" {
			rec.Phone = det.InternationalPhone
		} else if det.NationalPhone != "" {
			rec.Phone = det.NationalPhone
		}
		if det.Website != "" {
			rec.Website = det.Website
		}
	}

	uc.logger.Debug("Enrichment completed", zap.Int("enriched", limit))
	return nil
}
