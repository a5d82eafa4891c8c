package dto

import "github.com/barber-finder/internal/domain"

// PlaceSearchResponse - ответ на поиск барбершопов
type PlaceSearchResponse struct {
	Results []PlaceResult `json:"results"`
	Meta    SearchMeta    `json:"meta"`
}

// PlaceResult - найденное место, дополненное ссылкой на Google Maps
type PlaceResult struct {
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	PlaceID          string   `json:"place_id"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	Types            []string `json:"types,omitempty"`
	GoogleMapsURL    string   `json:"google_maps_url"`
	Phone            string   `json:"formatted_phone_number,omitempty"`
	Website          string   `json:"website,omitempty"`
}

// SearchMeta - метаданные выполненного поиска
type SearchMeta struct {
	Total      int      `json:"total"`
	Pages      int      `json:"pages"`
	Strategy   string   `json:"strategy"`
	GridPoints int      `json:"grid_points"`
	Warnings   []string `json:"warnings"`
}

// ConvertPlaceResult преобразует доменную запись в DTO
func ConvertPlaceResult(rec *domain.PlaceRecord) PlaceResult {
	return PlaceResult{
		Name:             rec.Name,
		FormattedAddress: rec.FormattedAddress,
		Lat:              rec.Lat,
		Lng:              rec.Lng,
		PlaceID:          rec.PlaceID,
		Rating:           rec.Rating,
		UserRatingsTotal: rec.UserRatingsTotal,
		Types:            rec.Types,
		GoogleMapsURL:    rec.MapsURL(),
		Phone:            rec.Phone,
		Website:          rec.Website,
	}
}
