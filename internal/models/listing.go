package models

// Listing is one rental unit from the dataset.
// Nullable fields use pointers so that missing cells stay distinguishable from zero.
type Listing struct {
	Geometry     *Point   `json:"geometry,omitempty"`
	Area         *float64 `json:"area"`
	Rooms        *int     `json:"quartos"`
	Bathrooms    *int     `json:"banheiros"`
	Parking      *int     `json:"vaga"`
	Rent         *float64 `json:"aluguel_num"`
	CondoFee     *float64 `json:"condominio"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Neighborhood string   `json:"bairro"`
	Row          int      `json:"row"`
}

// Mappable reports whether the listing carries a usable coordinate pair.
func (l Listing) Mappable() bool {
	if l.Latitude == nil || l.Longitude == nil {
		return false
	}
	lat, lng := *l.Latitude, *l.Longitude
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// Column names as they appear in the input file.
const (
	ColumnArea         = "area"
	ColumnRooms        = "quartos"
	ColumnBathrooms    = "banheiros"
	ColumnParking      = "vaga"
	ColumnRentDisplay  = "aluguel"
	ColumnRent         = "aluguel_num"
	ColumnCondoFee     = "condominio"
	ColumnNeighborhood = "bairro"
	ColumnLatitude     = "latitude"
	ColumnLongitude    = "longitude"
)
