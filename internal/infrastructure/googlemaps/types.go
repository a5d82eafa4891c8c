package googlemaps

// wire-структуры легаси Google Maps Web Service API

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type viewport struct {
	Northeast latLng `json:"northeast"`
	Southwest latLng `json:"southwest"`
}

type geometry struct {
	Location latLng    `json:"location"`
	Viewport *viewport `json:"viewport,omitempty"`
}

type geocodeResult struct {
	Geometry geometry `json:"geometry"`
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []geocodeResult `json:"results"`
}

type textSearchResult struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	Types            []string `json:"types,omitempty"`
}

type textSearchResponse struct {
	Status        string             `json:"status"`
	ErrorMessage  string             `json:"error_message,omitempty"`
	Results       []textSearchResult `json:"results"`
	NextPageToken string             `json:"next_page_token,omitempty"`
}

type placeDetailsResult struct {
	InternationalPhoneNumber string `json:"international_phone_number,omitempty"`
	FormattedPhoneNumber     string `json:"formatted_phone_number,omitempty"`
	Website                  string `json:"website,omitempty"`
}

type placeDetailsResponse struct {
	Status       string             `json:"status"`
	ErrorMessage string             `json:"error_message,omitempty"`
	Result       placeDetailsResult `json:"result"`
}
