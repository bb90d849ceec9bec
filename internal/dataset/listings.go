package dataset

import (
	"math"

	"github.com/stwalsh4118/rentscope/internal/models"
)

// Listings derives typed listing records from the table in row order.
// Malformed or absent cells become nil fields.
func Listings(t *Table) []models.Listing {
	listings := make([]models.Listing, 0, t.Len())
	for r := range t.Rows {
		listings = append(listings, models.Listing{
			Row:          r,
			Area:         floatPtr(t, r, models.ColumnArea),
			Rooms:        intPtr(t, r, models.ColumnRooms),
			Bathrooms:    intPtr(t, r, models.ColumnBathrooms),
			Parking:      intPtr(t, r, models.ColumnParking),
			Rent:         floatPtr(t, r, models.ColumnRent),
			CondoFee:     floatPtr(t, r, models.ColumnCondoFee),
			Neighborhood: t.Cell(r, models.ColumnNeighborhood),
			Latitude:     floatPtr(t, r, models.ColumnLatitude),
			Longitude:    floatPtr(t, r, models.ColumnLongitude),
		})
	}
	return listings
}

func floatPtr(t *Table, row int, column string) *float64 {
	v, ok := t.Float(row, column)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// intPtr accepts integral floats ("2.0") since count columns are often exported as floats.
func intPtr(t *Table, row int, column string) *int {
	v := floatPtr(t, row, column)
	if v == nil || *v != math.Trunc(*v) {
		return nil
	}
	n := int(*v)
	return &n
}
