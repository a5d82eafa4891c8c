package googlemaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/barber-finder/internal/config"
	"github.com/barber-finder/internal/domain"
	"github.com/barber-finder/internal/domain/repository"
	"github.com/barber-finder/internal/pkg/errors"
	"github.com/barber-finder/internal/pkg/utils"
)

const (
	geocodePath      = "/maps/api/geocode/json"
	textSearchPath   = "/maps/api/place/textsearch/json"
	placeDetailsPath = "/maps/api/place/details/json"

	detailsFields = "international_phone_number,formatted_phone_number,website"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

type client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *zap.Logger
}

// NewClient создает новый клиент для Google Maps API.
// Отсутствие ключа - ошибка предусловия, до любых сетевых вызовов.
func NewClient(cfg *config.GoogleMapsConfig, logger *zap.Logger) (repository.PlacesRepository, error) {
	if cfg.APIKey == "" {
		return nil, errors.ErrMissingAPIKey
	}

	return &client{
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		logger:  logger,
	}, nil
}

// Geocode преобразует текстовый запрос в координаты центра и viewport
func (c *client) Geocode(ctx context.Context, query string) (*domain.GeoResult, error) {
	params := url.Values{}
	params.Set("address", query)
	params.Set("key", c.apiKey)

	var resp geocodeResponse
	if err := c.getJSON(ctx, geocodePath, params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != statusOK {
		c.logger.Error("Geocoding returned non-OK status",
			zap.String("status", resp.Status),
			zap.String("message", resp.ErrorMessage))
		return nil, errors.NewUpstream(resp.Status, geocodeFailureMessage(resp.Status, resp.ErrorMessage))
	}

	if len(resp.Results) == 0 {
		return nil, errors.NewUpstream(statusZeroResults, "geocoding returned no results")
	}

	loc := resp.Results[0].Geometry.Location
	if !utils.ValidateCoordinates(loc.Lat, loc.Lng) {
		return nil, errors.NewUpstream("", "geocoding returned unusable coordinates")
	}

	geo := &domain.GeoResult{
		Center: domain.LatLng{
			Lat: loc.Lat,
			Lng: loc.Lng,
		},
	}
	if vp := resp.Results[0].Geometry.Viewport; vp != nil {
		geo.Viewport = &domain.Viewport{
			Northeast: domain.LatLng{Lat: vp.Northeast.Lat, Lng: vp.Northeast.Lng},
			Southwest: domain.LatLng{Lat: vp.Southwest.Lat, Lng: vp.Southwest.Lng},
		}
	}

	c.logger.Debug("Geocoding successful",
		zap.String("query", query),
		zap.Float64("lat", geo.Center.Lat),
		zap.Float64("lng", geo.Center.Lng),
		zap.Bool("has_viewport", geo.Viewport != nil))

	return geo, nil
}

// TextSearch возвращает одну страницу text search с location bias
func (c *client) TextSearch(
	ctx context.Context,
	query string,
	bias domain.GridPoint,
	pageToken string,
) (*domain.SearchPage, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("location", fmt.Sprintf("%f,%f", bias.Lat, bias.Lng))
	params.Set("radius", fmt.Sprintf("%.0f", bias.RadiusMeters))
	params.Set("key", c.apiKey)
	if pageToken != "" {
		params.Set("pagetoken", pageToken)
	}

	var resp textSearchResponse
	if err := c.getJSON(ctx, textSearchPath, params, &resp); err != nil {
		return nil, err
	}

	// ZERO_RESULTS - валидная пустая страница, не ошибка
	if resp.Status != statusOK && resp.Status != statusZeroResults {
		c.logger.Error("Text search returned non-OK status",
			zap.String("status", resp.Status),
			zap.String("message", resp.ErrorMessage))
		return nil, errors.NewUpstream(resp.Status, searchFailureMessage(resp.Status, resp.ErrorMessage))
	}

	page := &domain.SearchPage{
		Places:        make([]domain.PlaceRecord, 0, len(resp.Results)),
		NextPageToken: resp.NextPageToken,
	}
	for _, r := range resp.Results {
		page.Places = append(page.Places, domain.PlaceRecord{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			Lat:              r.Geometry.Location.Lat,
			Lng:              r.Geometry.Location.Lng,
			Rating:           r.Rating,
			UserRatingsTotal: r.UserRatingsTotal,
			Types:            r.Types,
		})
	}

	c.logger.Debug("Text search page fetched",
		zap.Int("hits", len(page.Places)),
		zap.Bool("has_next_page", page.NextPageToken != ""))

	return page, nil
}

// PlaceDetails возвращает контактные данные места
func (c *client) PlaceDetails(ctx context.Context, placeID string) (*domain.PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)
	params.Set("key", c.apiKey)

	var resp placeDetailsResponse
	if err := c.getJSON(ctx, placeDetailsPath, params, &resp); err != nil {
		return nil, err
	}

	if resp.Status != statusOK {
		c.logger.Error("Place details returned non-OK status",
			zap.String("status", resp.Status),
			zap.String("place_id", placeID),
			zap.String("message", resp.ErrorMessage))
		return nil, errors.NewUpstream(resp.Status, detailsFailureMessage(resp.Status, resp.ErrorMessage))
	}

	return &domain.PlaceDetails{
		InternationalPhone: resp.Result.InternationalPhoneNumber,
		NationalPhone:      resp.Result.FormattedPhoneNumber,
		Website:            resp.Result.Website,
	}, nil
}

// getJSON выполняет GET-запрос и декодирует JSON-ответ
func (c *client) getJSON(ctx context.Context, path string, params url.Values, out interface{}) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("Google Maps API returned HTTP error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return errors.NewUpstream("", fmt.Sprintf("google maps API HTTP %d", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func geocodeFailureMessage(status, message string) string {
	if message != "" {
		return message
	}
	return fmt.Sprintf("geocoding failed with status %s", status)
}

func searchFailureMessage(status, message string) string {
	if message != "" {
		return message
	}
	return fmt.Sprintf("text search failed with status %s", status)
}

func detailsFailureMessage(status, message string) string {
	if message != "" {
		return message
	}
	return fmt.Sprintf("place details failed with status %s", status)
}
