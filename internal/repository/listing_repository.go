package repository

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/stwalsh4118/rentscope/internal/dataset"
	"github.com/stwalsh4118/rentscope/internal/models"
)

// Querier is the subset of pgxpool.Pool used by the repository.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// listingColumns is the header of the table built from the listings relation.
// Coordinates come from the geom column and are appended after the stored columns.
var listingColumns = []string{
	models.ColumnArea,
	models.ColumnRooms,
	models.ColumnBathrooms,
	models.ColumnParking,
	models.ColumnRentDisplay,
	models.ColumnRent,
	models.ColumnCondoFee,
	models.ColumnNeighborhood,
	models.ColumnLatitude,
	models.ColumnLongitude,
}

// Numeric columns are selected as text so that every cell reaches the table
// exactly as Postgres renders it, the same way the CSV loader sees it.
const selectListings = `
	SELECT
		area::text,
		quartos::text,
		banheiros::text,
		vaga::text,
		aluguel,
		aluguel_num::text,
		condominio::text,
		bairro,
		ST_AsGeoJSON(geom)
	FROM listings
	ORDER BY id
`

// ListingRepository reads the listing table from Postgres/PostGIS.
// It implements dataset.Source.
type ListingRepository struct {
	db Querier
}

// NewListingRepository creates a repository over db.
func NewListingRepository(db Querier) *ListingRepository {
	return &ListingRepository{db: db}
}

// Load selects every listing in id order and returns it as a raw table.
// Any query or scan failure is reported as dataset.ErrDataUnavailable.
func (r *ListingRepository) Load(ctx context.Context) (*dataset.Table, error) {
	rows, err := r.db.Query(ctx, selectListings)
	if err != nil {
		return nil, fmt.Errorf("%w: query listings: %v", dataset.ErrDataUnavailable, err)
	}
	defer rows.Close()

	var records [][]string
	for rows.Next() {
		var (
			cells [8]*string
			geom  *string
		)
		dest := make([]any, 0, len(cells)+1)
		for i := range cells {
			dest = append(dest, &cells[i])
		}
		dest = append(dest, &geom)

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%w: scan listing row %d: %v", dataset.ErrDataUnavailable, len(records)+1, err)
		}

		record, err := toRecord(cells, geom)
		if err != nil {
			return nil, fmt.Errorf("%w: listing row %d: %v", dataset.ErrDataUnavailable, len(records)+1, err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate listings: %v", dataset.ErrDataUnavailable, err)
	}

	return dataset.NewTable(listingColumns, records), nil
}

// toRecord flattens one scanned row into table cells. NULLs become empty cells
// and the point geometry is split into latitude and longitude.
func toRecord(cells [8]*string, geom *string) ([]string, error) {
	record := make([]string, len(listingColumns))
	for i, cell := range cells {
		if cell != nil {
			record[i] = *cell
		}
	}

	if geom == nil {
		return record, nil
	}
	var point models.Point
	if err := point.Scan(*geom); err != nil {
		return nil, err
	}
	record[len(cells)] = strconv.FormatFloat(point.Lat(), 'f', -1, 64)
	record[len(cells)+1] = strconv.FormatFloat(point.Lon(), 'f', -1, 64)
	return record, nil
}
