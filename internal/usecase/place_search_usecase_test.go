package usecase_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/barber-finder/internal/config"
	"github.com/barber-finder/internal/domain"
	"github.com/barber-finder/internal/pkg/errors"
	"github.com/barber-finder/internal/usecase"
	"github.com/barber-finder/internal/usecase/dto"
)

// MockPlacesRepository is a mock of PlacesRepository
type MockPlacesRepository struct {
	mock.Mock
}

func (m *MockPlacesRepository) Geocode(ctx context.Context, query string) (*domain.GeoResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeoResult), args.Error(1)
}

func (m *MockPlacesRepository) TextSearch(
	ctx context.Context,
	query string,
	bias domain.GridPoint,
	pageToken string,
) (*domain.SearchPage, error) {
	args := m.Called(ctx, query, bias, pageToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SearchPage), args.Error(1)
}

func (m *MockPlacesRepository) PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetails, error) {
	args := m.Called(ctx, placeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PlaceDetails), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) GetGeoResult(ctx context.Context, query string) (*domain.GeoResult, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeoResult), args.Error(1)
}

func (m *MockCacheRepository) SetGeoResult(ctx context.Context, query string, geo *domain.GeoResult, ttl time.Duration) error {
	args := m.Called(ctx, query, geo, ttl)
	return args.Error(0)
}

// recordingWait копит запрошенные паузы вместо реального ожидания
type recordingWait struct {
	delays []time.Duration
}

func (r *recordingWait) wait(_ context.Context, d time.Duration) error {
	r.delays = append(r.delays, d)
	return nil
}

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		Keyword:          "barber shop",
		MaxResults:       500,
		MaxPagesPerTile:  3,
		PageTokenDelay:   2000 * time.Millisecond,
		EmptyPageDelay:   1500 * time.Millisecond,
		EmptyPageRetries: 3,
		DetailsLimit:     50,
	}
}

func newSearchUseCase(repo *MockPlacesRepository, wait *recordingWait) *usecase.PlaceSearchUseCase {
	return usecase.NewPlaceSearchUseCase(repo, nil, zap.NewNop(), testSearchConfig(), 0, wait.wait)
}

func springfieldGeo() *domain.GeoResult {
	return &domain.GeoResult{
		Center: domain.LatLng{Lat: 39.78, Lng: -89.65},
		Viewport: &domain.Viewport{
			Northeast: domain.LatLng{Lat: 39.83, Lng: -89.60},
			Southwest: domain.LatLng{Lat: 39.73, Lng: -89.70},
		},
	}
}

func pageWithHits(prefix string, n int, nextToken string) *domain.SearchPage {
	page := &domain.SearchPage{NextPageToken: nextToken}
	for i := 0; i < n; i++ {
		page.Places = append(page.Places, domain.PlaceRecord{
			PlaceID: fmt.Sprintf("%s-%d", prefix, i),
			Name:    fmt.Sprintf("Shop %s-%d", prefix, i),
			Lat:     39.78,
			Lng:     -89.65,
		})
	}
	return page
}

func TestPlaceSearchUseCase_Springfield(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)
	ctx := context.Background()

	repo.On("Geocode", ctx, "Springfield").Return(springfieldGeo(), nil)

	// 9 тайлов, каждый отдаёт одну страницу с 2 уникальными хитами без токена
	for i := 0; i < 9; i++ {
		repo.On("TextSearch", ctx, "barber shop in Springfield", mock.Anything, "").
			Return(pageWithHits(fmt.Sprintf("tile%d", i), 2, ""), nil).Once()
	}

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Springfield"})
	require.NoError(t, err)

	assert.Equal(t, 18, resp.Meta.Total)
	assert.Len(t, resp.Results, 18)
	assert.Equal(t, 9, resp.Meta.Pages)
	assert.Equal(t, 9, resp.Meta.GridPoints)
	assert.Equal(t, "grid", resp.Meta.Strategy)
	assert.Empty(t, resp.Meta.Warnings)

	// без токенов продолжения пауз быть не должно
	assert.Empty(t, wait.delays)

	// производная ссылка на карту строится из place_id
	assert.Equal(t,
		"https://www.google.com/maps/place/?q=place_id:tile0-0",
		resp.Results[0].GoogleMapsURL)

	repo.AssertExpectations(t)
}

func TestPlaceSearchUseCase_PaginationWaitsBeforeToken(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)
	ctx := context.Background()

	// без viewport - один тайл
	repo.On("Geocode", ctx, "Smalltown").Return(&domain.GeoResult{
		Center: domain.LatLng{Lat: 10, Lng: 10},
	}, nil)

	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("p1", 2, "token-1"), nil).Once()
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "token-1").
		Return(pageWithHits("p2", 2, ""), nil).Once()

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Smalltown"})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.Pages)
	assert.Equal(t, 1, resp.Meta.GridPoints)

	// пауза ровно одна - перед использованием токена, 2 секунды
	require.Len(t, wait.delays, 1)
	assert.Equal(t, 2000*time.Millisecond, wait.delays[0])
}

func TestPlaceSearchUseCase_PageCapPerTile(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)
	ctx := context.Background()

	repo.On("Geocode", ctx, "Smalltown").Return(&domain.GeoResult{
		Center: domain.LatLng{Lat: 10, Lng: 10},
	}, nil)

	// upstream всегда возвращает токен, но лимит - 3 страницы на тайл
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("p1", 2, "t1"), nil).Once()
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "t1").
		Return(pageWithHits("p2", 2, "t2"), nil).Once()
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "t2").
		Return(pageWithHits("p3", 2, "t3"), nil).Once()

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Smalltown"})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Meta.Pages)
	assert.Equal(t, 6, resp.Meta.Total)
	repo.AssertNumberOfCalls(t, "TextSearch", 3)
}

func TestPlaceSearchUseCase_EmptyTokenPageRetried(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)
	ctx := context.Background()

	repo.On("Geocode", ctx, "Smalltown").Return(&domain.GeoResult{
		Center: domain.LatLng{Lat: 10, Lng: 10},
	}, nil)

	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("p1", 2, "t1"), nil).Once()
	// токен ещё не "созрел": две пустые страницы, затем данные
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "t1").
		Return(&domain.SearchPage{NextPageToken: "t1"}, nil).Twice()
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "t1").
		Return(pageWithHits("p2", 2, ""), nil).Once()

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Smalltown"})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.Meta.Total)
	// 4 реально выполненных запроса страниц: 1 + 2 пустых ретрая + 1
	assert.Equal(t, 4, resp.Meta.Pages)

	// порядок пауз: 2s перед токеном, затем 1.5s перед каждым ретраем
	require.Len(t, wait.delays, 3)
	assert.Equal(t, 2000*time.Millisecond, wait.delays[0])
	assert.Equal(t, 1500*time.Millisecond, wait.delays[1])
	assert.Equal(t, 1500*time.Millisecond, wait.delays[2])
}

func TestPlaceSearchUseCase_TileAbandonedAfterEmptyRetries(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)
	ctx := context.Background()

	repo.On("Geocode", ctx, "Smalltown").Return(&domain.GeoResult{
		Center: domain.LatLng{Lat: 10, Lng: 10},
	}, nil)

	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("p1", 2, "t1"), nil).Once()
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "t1").
		Return(&domain.SearchPage{NextPageToken: "t1"}, nil).Times(3)

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Smalltown"})

	// тайл брошен, но поиск не падает
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Meta.Total)
	assert.Equal(t, 4, resp.Meta.Pages)
	repo.AssertNumberOfCalls(t, "TextSearch", 4)
}

func TestPlaceSearchUseCase_UpstreamErrorAbortsSearch(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)
	ctx := context.Background()

	repo.On("Geocode", ctx, "Springfield").Return(springfieldGeo(), nil)

	// новый словарь ошибок приводится к легаси-токену
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(nil, errors.NewUpstream("RESOURCE_EXHAUSTED", "quota exceeded"))

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Springfield"})
	require.Error(t, err)
	assert.Nil(t, resp)

	upErr, ok := err.(*errors.UpstreamError)
	require.True(t, ok)
	assert.Equal(t, "OVER_QUERY_LIMIT", upErr.StatusToken)
	assert.Equal(t, 429, errors.FromUpstream(upErr).StatusCode)
}

func TestPlaceSearchUseCase_GeocodeErrorPropagates(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)
	ctx := context.Background()

	repo.On("Geocode", ctx, "Nowhere").
		Return(nil, errors.NewUpstream("ZERO_RESULTS", "geocoding returned no results"))

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Nowhere"})
	require.Error(t, err)
	assert.Nil(t, resp)
	repo.AssertNotCalled(t, "TextSearch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPlaceSearchUseCase_BlankCityRejected(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)

	resp, err := uc.Search(context.Background(), dto.PlaceSearchRequest{City: "   "})
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Equal(t, errors.ErrCityRequired, err)
	repo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
}

func TestPlaceSearchUseCase_EnrichmentCappedAt50(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)
	ctx := context.Background()

	repo.On("Geocode", ctx, "Smalltown").Return(&domain.GeoResult{
		Center: domain.LatLng{Lat: 10, Lng: 10},
	}, nil)
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("p", 60, ""), nil).Once()

	// обогащаются только первые 50 записей в порядке перечисления
	for i := 0; i < 50; i++ {
		repo.On("PlaceDetails", ctx, fmt.Sprintf("p-%d", i)).
			Return(&domain.PlaceDetails{
				InternationalPhone: "+1 111",
				NationalPhone:      "111",
				Website:            "https://example.com",
			}, nil).Once()
	}

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Smalltown", IncludeDetails: true})
	require.NoError(t, err)
	require.Len(t, resp.Results, 60)

	repo.AssertNumberOfCalls(t, "PlaceDetails", 50)

	// международный номер в приоритете
	assert.Equal(t, "+1 111", resp.Results[0].Phone)
	assert.Equal(t, "https://example.com", resp.Results[49].Website)

	// остаток не тронут
	assert.Empty(t, resp.Results[50].Phone)
	assert.Empty(t, resp.Results[59].Website)
}

func TestPlaceSearchUseCase_EnrichmentFallsBackToNationalPhone(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)
	ctx := context.Background()

	repo.On("Geocode", ctx, "Smalltown").Return(&domain.GeoResult{
		Center: domain.LatLng{Lat: 10, Lng: 10},
	}, nil)
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("p", 2, ""), nil).Once()

	repo.On("PlaceDetails", ctx, "p-0").
		Return(&domain.PlaceDetails{NationalPhone: "217-555-0100"}, nil).Once()
	// ответ без контактов оставляет поля пустыми
	repo.On("PlaceDetails", ctx, "p-1").
		Return(&domain.PlaceDetails{}, nil).Once()

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Smalltown", IncludeDetails: true})
	require.NoError(t, err)

	assert.Equal(t, "217-555-0100", resp.Results[0].Phone)
	assert.Empty(t, resp.Results[1].Phone)
	assert.Empty(t, resp.Results[1].Website)
}

func TestPlaceSearchUseCase_EnrichmentFailureAborts(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	uc := newSearchUseCase(repo, wait)
	ctx := context.Background()

	repo.On("Geocode", ctx, "Smalltown").Return(&domain.GeoResult{
		Center: domain.LatLng{Lat: 10, Lng: 10},
	}, nil)
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("p", 3, ""), nil).Once()

	repo.On("PlaceDetails", ctx, "p-0").
		Return(nil, errors.NewUpstream("PERMISSION_DENIED", "key rejected")).Once()

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Smalltown", IncludeDetails: true})
	require.Error(t, err)
	assert.Nil(t, resp)
	repo.AssertNumberOfCalls(t, "PlaceDetails", 1)

	upErr, ok := err.(*errors.UpstreamError)
	require.True(t, ok)
	assert.Equal(t, "REQUEST_DENIED", upErr.StatusToken)
}

func TestPlaceSearchUseCase_GeocodeCacheHit(t *testing.T) {
	repo := &MockPlacesRepository{}
	cacheRepo := &MockCacheRepository{}
	wait := &recordingWait{}
	uc := usecase.NewPlaceSearchUseCase(repo, cacheRepo, zap.NewNop(), testSearchConfig(), time.Hour, wait.wait)
	ctx := context.Background()

	cacheRepo.On("GetGeoResult", ctx, "Smalltown").Return(&domain.GeoResult{
		Center: domain.LatLng{Lat: 10, Lng: 10},
	}, nil)
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("p", 1, ""), nil).Once()

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Smalltown"})
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Meta.Total)

	// при попадании в кеш геокодер не вызывается
	repo.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
	cacheRepo.AssertExpectations(t)
}

func TestPlaceSearchUseCase_GeocodeCacheMissPopulatesCache(t *testing.T) {
	repo := &MockPlacesRepository{}
	cacheRepo := &MockCacheRepository{}
	wait := &recordingWait{}
	uc := usecase.NewPlaceSearchUseCase(repo, cacheRepo, zap.NewNop(), testSearchConfig(), time.Hour, wait.wait)
	ctx := context.Background()

	geo := &domain.GeoResult{Center: domain.LatLng{Lat: 10, Lng: 10}}

	cacheRepo.On("GetGeoResult", ctx, "Smalltown").Return(nil, nil)
	cacheRepo.On("SetGeoResult", ctx, "Smalltown", geo, time.Hour).Return(nil)
	repo.On("Geocode", ctx, "Smalltown").Return(geo, nil)
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("p", 1, ""), nil).Once()

	_, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Smalltown"})
	require.NoError(t, err)

	cacheRepo.AssertExpectations(t)
}

func TestPlaceSearchUseCase_CapStopsRemainingTiles(t *testing.T) {
	repo := &MockPlacesRepository{}
	wait := &recordingWait{}
	cfg := testSearchConfig()
	cfg.MaxResults = 3
	uc := usecase.NewPlaceSearchUseCase(repo, nil, zap.NewNop(), cfg, 0, wait.wait)
	ctx := context.Background()

	repo.On("Geocode", ctx, "Springfield").Return(springfieldGeo(), nil)

	// первые два тайла дают 4 уникальных хита при лимите 3
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("a", 2, ""), nil).Once()
	repo.On("TextSearch", ctx, mock.Anything, mock.Anything, "").
		Return(pageWithHits("b", 2, ""), nil).Once()

	resp, err := uc.Search(ctx, dto.PlaceSearchRequest{City: "Springfield"})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.Meta.Total)
	require.Len(t, resp.Meta.Warnings, 1)
	// остальные 7 тайлов не запрашивались
	repo.AssertNumberOfCalls(t, "TextSearch", 2)
}
