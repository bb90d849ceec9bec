package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// SRIDWGS84 is the spatial reference ID for WGS84 lat/lng coordinates (EPSG:4326).
const SRIDWGS84 = 4326

// Point represents a PostGIS Point geometry.
// Coordinates follow GeoJSON order: [lon, lat].
type Point struct {
	Coordinates orb.Point
	SRID        int
}

// NewPoint builds a WGS84 point from a latitude/longitude pair.
func NewPoint(lat, lng float64) Point {
	return Point{
		Coordinates: orb.Point{lng, lat},
		SRID:        SRIDWGS84,
	}
}

// Lat returns the latitude of the point.
func (p Point) Lat() float64 {
	return p.Coordinates.Lat()
}

// Lon returns the longitude of the point.
func (p Point) Lon() float64 {
	return p.Coordinates.Lon()
}

// Scan implements sql.Scanner for reading point geometry selected with ST_AsGeoJSON.
func (p *Point) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("failed to scan Point: expected []byte or string, got %T", value)
	}

	return p.UnmarshalJSON(raw)
}

// Value implements driver.Valuer. Returns GeoJSON for use with ST_GeomFromGeoJSON.
func (p Point) Value() (driver.Value, error) {
	if p.SRID == 0 {
		return nil, nil
	}

	geoJSON, err := p.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal point to GeoJSON: %w", err)
	}
	return string(geoJSON), nil
}

// MarshalJSON implements json.Marshaler and emits a GeoJSON Point geometry.
func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal(geojson.NewGeometry(p.Coordinates))
}

// UnmarshalJSON implements json.Unmarshaler for GeoJSON Point input.
func (p *Point) UnmarshalJSON(data []byte) error {
	geom, err := geojson.UnmarshalGeometry(data)
	if err != nil {
		return fmt.Errorf("failed to unmarshal point: %w", err)
	}

	pt, ok := geom.Geometry().(orb.Point)
	if !ok {
		return fmt.Errorf("expected Point type, got %s", geom.Type)
	}

	p.Coordinates = pt
	p.SRID = SRIDWGS84
	return nil
}
