package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/barber-finder/internal/pkg/utils"
	"github.com/barber-finder/internal/pkg/validator"
	"github.com/barber-finder/internal/usecase"
	"github.com/barber-finder/internal/usecase/dto"
)

// PlaceHandler - обработчик поиска барбершопов
type PlaceHandler struct {
	searchUC *usecase.PlaceSearchUseCase
	logger   *zap.Logger
}

// NewPlaceHandler - создание нового PlaceHandler
func NewPlaceHandler(searchUC *usecase.PlaceSearchUseCase, logger *zap.Logger) *PlaceHandler {
	return &PlaceHandler{
		searchUC: searchUC,
		logger:   logger,
	}
}

// Search godoc
// @Summary Поиск барбершопов по городу
// @Description Геокодирует город, покрывает его сеткой поисковых кругов и
// @Description возвращает дедуплицированный список барбершопов. С details=true
// @Description первые 50 записей дополняются телефоном и сайтом.
// @Tags Places
// @Produce json
// @Param city query string true "Название города"
// @Param details query bool false "Обогащать контактами" default(false)
// @Success 200 {object} utils.SuccessResponse{data=dto.PlaceSearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 429 {object} utils.ErrorResponse
// @Router /api/v1/barbershops [get]
func (h *PlaceHandler) Search(c *fiber.Ctx) error {
	req := dto.PlaceSearchRequest{
		City:           strings.TrimSpace(c.Query("city")),
		IncludeDetails: c.QueryBool("details", false),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	start := time.Now()
	result, err := h.searchUC.Search(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    result.Meta.Total,
		Pages:    result.Meta.Pages,
		TimeMSec: float64(time.Since(start).Microseconds()) / 1000.0,
	})
}

// SearchPost godoc
// @Summary Поиск барбершопов (JSON body)
// @Tags Places
// @Accept json
// @Produce json
// @Param request body dto.PlaceSearchRequest true "Параметры поиска"
// @Success 200 {object} utils.SuccessResponse{data=dto.PlaceSearchResponse}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/barbershops/search [post]
func (h *PlaceHandler) SearchPost(c *fiber.Ctx) error {
	var req dto.PlaceSearchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid request body"})
	}
	req.City = strings.TrimSpace(req.City)

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.searchUC.Search(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total: result.Meta.Total,
		Pages: result.Meta.Pages,
	})
}

// ExportCSV godoc
// @Summary Экспорт результатов поиска в CSV
// @Tags Places
// @Produce text/csv
// @Param city query string true "Название города"
// @Param details query bool false "Обогащать контактами" default(false)
// @Success 200 {string} string "CSV file"
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/barbershops/export.csv [get]
func (h *PlaceHandler) ExportCSV(c *fiber.Ctx) error {
	req := dto.PlaceSearchRequest{
		City:           strings.TrimSpace(c.Query("city")),
		IncludeDetails: c.QueryBool("details", false),
	}

	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	data, err := h.searchUC.SearchCSV(c.Context(), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	filename := fmt.Sprintf("barbershops_%s.csv", sanitizeFilename(req.City))
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

func sanitizeFilename(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
