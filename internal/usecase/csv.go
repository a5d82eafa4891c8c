package usecase

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"

	"github.com/barber-finder/internal/usecase/dto"
)

// csvHeader - фиксированный порядок колонок, его ждут внешние потребители
var csvHeader = []string{
	"name",
	"formatted_address",
	"lat",
	"lng",
	"place_id",
	"rating",
	"user_ratings_total",
	"types",
	"google_maps_url",
	"formatted_phone_number",
	"website",
}

// EncodePlacesCSV сериализует результаты поиска в CSV (RFC 4180:
// поля с запятой, кавычкой или переводом строки оборачиваются в
// кавычки, внутренние кавычки удваиваются)
func EncodePlacesCSV(results []dto.PlaceResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(csvHeader); err != nil {
		return nil, err
	}

	for _, r := range results {
		rating := ""
		if r.Rating != nil {
			rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
		}
		ratingsTotal := ""
		if r.UserRatingsTotal != nil {
			ratingsTotal = strconv.Itoa(*r.UserRatingsTotal)
		}

		row := []string{
			r.Name,
			r.FormattedAddress,
			strconv.FormatFloat(r.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Lng, 'f', -1, 64),
			r.PlaceID,
			rating,
			ratingsTotal,
			strings.Join(r.Types, ";"),
			r.GoogleMapsURL,
			r.Phone,
			r.Website,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
