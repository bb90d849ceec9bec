// Package geo attaches WGS84 point geometry to listings and exports it.
package geo

import (
	"github.com/mmcloughlin/geohash"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stwalsh4118/rentscope/internal/models"
)

// CRS is the coordinate reference system of every point produced here.
const CRS = "EPSG:4326"

// Index returns a copy of listings with Geometry set for every mappable row.
// Rows without a usable coordinate pair keep a nil geometry; no row is dropped.
func Index(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, len(listings))
	for i, l := range listings {
		l.Geometry = nil
		if l.Mappable() {
			p := models.NewPoint(*l.Latitude, *l.Longitude)
			l.Geometry = &p
		}
		out[i] = l
	}
	return out
}

// Mappable returns the listings that carry a point geometry, in order.
func Mappable(listings []models.Listing) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if l.Geometry != nil {
			out = append(out, l)
		}
	}
	return out
}

// FeatureCollection exports mappable listings as GeoJSON point features.
func FeatureCollection(listings []models.Listing) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, l := range listings {
		if l.Geometry == nil {
			continue
		}
		f := geojson.NewFeature(l.Geometry.Coordinates)
		f.Properties["row"] = l.Row
		f.Properties["bairro"] = l.Neighborhood
		setIfPresent(f.Properties, "area", l.Area)
		setIfPresent(f.Properties, "quartos", l.Rooms)
		setIfPresent(f.Properties, "banheiros", l.Bathrooms)
		setIfPresent(f.Properties, "vaga", l.Parking)
		setIfPresent(f.Properties, "aluguel_num", l.Rent)
		setIfPresent(f.Properties, "condominio", l.CondoFee)
		fc.Append(f)
	}
	return fc
}

// Cell returns the geohash cell containing p at the given precision (characters).
func Cell(p orb.Point, precision uint) string {
	return geohash.EncodeWithPrecision(p.Lat(), p.Lon(), precision)
}

func setIfPresent[T int | float64](props geojson.Properties, key string, v *T) {
	if v != nil {
		props[key] = *v
	}
}
