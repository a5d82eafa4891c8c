package domain

// MaxResults - глобальный лимит уникальных мест за один поиск
const MaxResults = 500

// GoogleMapsPlaceURL - шаблон ссылки на место в Google Maps.
// Формат фиксирован, его используют внешние потребители CSV.
const GoogleMapsPlaceURL = "https://www.google.com/maps/place/?q=place_id:"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Viewport - ограничивающий прямоугольник из ответа геокодера
type Viewport struct {
	Northeast LatLng `json:"northeast"`
	Southwest LatLng `json:"southwest"`
}

// GeoResult - результат геокодирования города: центр и (опционально) viewport.
// Создаётся один раз на поиск и дальше не изменяется.
type GeoResult struct {
	Center   LatLng    `json:"center"`
	Viewport *Viewport `json:"viewport,omitempty"`
}

// GridPoint - центр одной поисковой ячейки с радиусом location bias
type GridPoint struct {
	Lat          float64 `json:"lat"`
	Lng          float64 `json:"lng"`
	RadiusMeters float64 `json:"radius_meters"`
}

// PlaceRecord - одно найденное место. Идентичность определяется PlaceID;
// Phone и Website дозаполняются обогащением, остальные поля не мутируются.
type PlaceRecord struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Lat              float64  `json:"lat"`
	Lng              float64  `json:"lng"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	Types            []string `json:"types,omitempty"`
	Phone            string   `json:"formatted_phone_number,omitempty"`
	Website          string   `json:"website,omitempty"`
}

// MapsURL возвращает детерминированную ссылку на место в Google Maps
func (p *PlaceRecord) MapsURL() string {
	return GoogleMapsPlaceURL + p.PlaceID
}

// SearchPage - одна страница ответа text search
type SearchPage struct {
	Places        []PlaceRecord `json:"places"`
	NextPageToken string        `json:"next_page_token,omitempty"`
}

// PlaceDetails - контактные данные из place details
type PlaceDetails struct {
	InternationalPhone string `json:"international_phone_number,omitempty"`
	NationalPhone      string `json:"formatted_phone_number,omitempty"`
	Website            string `json:"website,omitempty"`
}

// SearchOutcome - терминальный результат поиска по сетке
type SearchOutcome struct {
	Results        []*PlaceRecord `json:"results"`
	PagesFetched   int            `json:"pages_fetched"`
	GridPointCount int            `json:"grid_point_count"`
	Warnings       []string       `json:"warnings"`
}
