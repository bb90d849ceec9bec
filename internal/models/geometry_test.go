package models

import (
	"database/sql/driver"
	"encoding/json"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPointImplementsInterfaces verifies Point implements required interfaces
func TestPointImplementsInterfaces(t *testing.T) {
	var _ driver.Valuer = Point{}
	var _ json.Marshaler = Point{}
	var _ json.Unmarshaler = (*Point)(nil)

	var p Point
	var scanner interface{} = &p
	_, ok := scanner.(interface{ Scan(interface{}) error })
	assert.True(t, ok, "Point does not implement sql.Scanner interface")
}

func TestNewPoint(t *testing.T) {
	p := NewPoint(-23.550559, -46.633347)

	assert.Equal(t, orb.Point{-46.633347, -23.550559}, p.Coordinates)
	assert.Equal(t, SRIDWGS84, p.SRID)
	assert.Equal(t, -23.550559, p.Lat())
	assert.Equal(t, -46.633347, p.Lon())
}

func TestPointValue(t *testing.T) {
	tests := []struct {
		name    string
		point   Point
		wantNil bool
	}{
		{name: "valid point", point: NewPoint(-23.5, -46.6)},
		{name: "zero SRID is NULL", point: Point{Coordinates: orb.Point{1, 2}}, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := tt.point.Value()
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, value)
				return
			}
			str, ok := value.(string)
			require.True(t, ok, "Value() should return a string")
			assert.JSONEq(t, `{"type":"Point","coordinates":[-46.6,-23.5]}`, str)
		})
	}
}

func TestPointScan(t *testing.T) {
	tests := []struct {
		name    string
		input   interface{}
		want    orb.Point
		wantErr bool
	}{
		{name: "bytes", input: []byte(`{"type":"Point","coordinates":[-46.6,-23.5]}`), want: orb.Point{-46.6, -23.5}},
		{name: "string", input: `{"type":"Point","coordinates":[-46.7,-23.6]}`, want: orb.Point{-46.7, -23.6}},
		{name: "nil leaves zero value", input: nil},
		{name: "unsupported type", input: 42, wantErr: true},
		{name: "invalid JSON", input: []byte(`{invalid`), wantErr: true},
		{name: "wrong geometry type", input: `{"type":"LineString","coordinates":[[0,0],[1,1]]}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Point
			err := p.Scan(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, p.Coordinates)
			if tt.input != nil {
				assert.Equal(t, SRIDWGS84, p.SRID)
			}
		})
	}
}

func TestPointJSONRoundTrip(t *testing.T) {
	original := NewPoint(-23.561, -46.655)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Point
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, original, decoded)
}

func TestListingMappable(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		listing Listing
		want    bool
	}{
		{"both coordinates", Listing{Latitude: f(-23.5), Longitude: f(-46.6)}, true},
		{"missing latitude", Listing{Longitude: f(-46.6)}, false},
		{"missing longitude", Listing{Latitude: f(-23.5)}, false},
		{"latitude out of range", Listing{Latitude: f(95), Longitude: f(-46.6)}, false},
		{"longitude out of range", Listing{Latitude: f(-23.5), Longitude: f(-181)}, false},
		{"boundary values", Listing{Latitude: f(-90), Longitude: f(180)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.listing.Mappable())
		})
	}
}
