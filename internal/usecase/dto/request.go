package dto

// PlaceSearchRequest - запрос на поиск барбершопов в городе
type PlaceSearchRequest struct {
	City           string `json:"city" validate:"required,notblank,min=2"`
	IncludeDetails bool   `json:"include_details"`
}
