package geo

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stwalsh4118/rentscope/internal/models"
)

func fp(v float64) *float64 { return &v }
func ip(v int) *int         { return &v }

func TestIndex(t *testing.T) {
	listings := []models.Listing{
		{Row: 0, Latitude: fp(-23.56), Longitude: fp(-46.65)},
		{Row: 1, Latitude: fp(-23.56)},
		{Row: 2, Latitude: fp(95), Longitude: fp(-46.65)},
		{Row: 3},
	}

	indexed := Index(listings)
	require.Len(t, indexed, len(listings))

	require.NotNil(t, indexed[0].Geometry)
	assert.Equal(t, orb.Point{-46.65, -23.56}, indexed[0].Geometry.Coordinates)
	assert.InDelta(t, -23.56, indexed[0].Geometry.Lat(), 1e-12)
	assert.InDelta(t, -46.65, indexed[0].Geometry.Lon(), 1e-12)

	assert.Nil(t, indexed[1].Geometry, "missing longitude")
	assert.Nil(t, indexed[2].Geometry, "latitude out of range")
	assert.Nil(t, indexed[3].Geometry, "no coordinates")

	for i := range listings {
		assert.Equal(t, listings[i].Row, indexed[i].Row)
		assert.Nil(t, listings[i].Geometry, "input must not be modified")
	}
}

func TestIndex_ResetsStaleGeometry(t *testing.T) {
	stale := models.NewPoint(1, 1)
	indexed := Index([]models.Listing{{Geometry: &stale}})
	assert.Nil(t, indexed[0].Geometry)
}

func TestMappable(t *testing.T) {
	indexed := Index([]models.Listing{
		{Row: 0, Latitude: fp(-23.5), Longitude: fp(-46.6)},
		{Row: 1},
		{Row: 2, Latitude: fp(-23.6), Longitude: fp(-46.7)},
	})

	got := Mappable(indexed)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].Row)
	assert.Equal(t, 2, got[1].Row)

	assert.Empty(t, Mappable(nil))
}

func TestFeatureCollection(t *testing.T) {
	indexed := Index([]models.Listing{
		{
			Row:          4,
			Neighborhood: "Pinheiros",
			Area:         fp(70),
			Rooms:        ip(2),
			Rent:         fp(3500),
			Latitude:     fp(-23.56),
			Longitude:    fp(-46.69),
		},
		{Row: 5, Neighborhood: "Sé"},
	})

	fc := FeatureCollection(indexed)
	require.Len(t, fc.Features, 1)

	f := fc.Features[0]
	assert.Equal(t, orb.Point{-46.69, -23.56}, f.Geometry)
	assert.Equal(t, 4, f.Properties["row"])
	assert.Equal(t, "Pinheiros", f.Properties["bairro"])
	assert.Equal(t, 70.0, f.Properties["area"])
	assert.Equal(t, 2, f.Properties["quartos"])
	assert.Equal(t, 3500.0, f.Properties["aluguel_num"])

	_, hasParking := f.Properties["vaga"]
	assert.False(t, hasParking, "missing values are omitted")
	_, hasCondo := f.Properties["condominio"]
	assert.False(t, hasCondo)
}

func TestFeatureCollection_Empty(t *testing.T) {
	fc := FeatureCollection(nil)
	require.NotNil(t, fc)
	assert.Empty(t, fc.Features)

	data, err := fc.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"FeatureCollection"`)
}

func TestCell(t *testing.T) {
	center := orb.Point{-46.633347, -23.550559}

	cell := Cell(center, 6)
	assert.Len(t, cell, 6)
	assert.Equal(t, cell[:4], Cell(center, 4))

	nearby := orb.Point{-46.633340, -23.550550}
	assert.Equal(t, cell, Cell(nearby, 6))

	far := orb.Point{-46.70, -23.60}
	assert.NotEqual(t, cell, Cell(far, 6))
}
