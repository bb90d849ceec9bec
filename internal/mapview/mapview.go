// Package mapview builds the interactive map artifact for a listing subset.
package mapview

import (
	"html/template"
	"strings"

	"github.com/stwalsh4118/rentscope/internal/geo"
	"github.com/stwalsh4118/rentscope/internal/models"
	"github.com/umahmood/haversine"
)

// Fixed map framing: São Paulo city center.
const (
	CenterLat = -23.550559
	CenterLon = -46.633347
	Zoom      = 13

	// ClusterPrecision is the geohash length used to group markers at the initial zoom.
	ClusterPrecision = 6

	HeatRadius = 15
	HeatName   = "Mapa de Calor"

	TileURL         = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	TileAttribution = "&copy; OpenStreetMap contributors"
)

// HeatGradient maps relative intensity to color.
var HeatGradient = map[string]string{
	"0.4":  "blue",
	"0.65": "lime",
	"1":    "red",
}

// LatLon is a coordinate pair in map order.
type LatLon struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Marker is one clustered point with its popup content.
type Marker struct {
	Popup string  `json:"popup"`
	Cell  string  `json:"cell"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Row   int     `json:"row"`
}

// Cluster summarizes the markers sharing one geohash cell.
type Cluster struct {
	Cell  string  `json:"cell"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
	Count int     `json:"count"`
}

// HeatLayer holds weighted [lat, lon, weight] samples.
type HeatLayer struct {
	Gradient map[string]string `json:"gradient"`
	Name     string            `json:"name"`
	Points   [][3]float64      `json:"points"`
	Radius   int               `json:"radius"`
}

// TileLayer is the base layer of the map.
type TileLayer struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// Map is the complete, client-renderable map artifact.
type Map struct {
	Tiles    TileLayer `json:"tiles"`
	Markers  []Marker  `json:"markers"`
	Clusters []Cluster `json:"clusters"`
	Heat     HeatLayer `json:"heat"`
	Center   LatLon    `json:"center"`
	Zoom     int       `json:"zoom"`

	// Count is the size of the subset the map was built from, mappable or not.
	Count int `json:"count"`
}

var popupTemplate = template.Must(template.New("popup").Parse(
	`<b>Área:</b> {{.Area}}<br>` +
		`<b>Quartos:</b> {{.Rooms}}<br>` +
		`<b>Banheiros:</b> {{.Bathrooms}}<br>` +
		`<b>Vaga:</b> {{.Parking}}<br>` +
		`<b>Aluguel:</b> {{.Rent}}<br>` +
		`<b>Condomínio:</b> {{.CondoFee}}` +
		`{{if .Neighborhood}}<br><b>Bairro:</b> {{.Neighborhood}}{{end}}` +
		`<br><b>Distância do centro:</b> {{printf "%.1f" .DistanceKm}} km`,
))

type popupData struct {
	Area         string
	Rooms        string
	Bathrooms    string
	Parking      string
	Rent         string
	CondoFee     string
	Neighborhood string
	DistanceKm   float64
}

// Build renders the map for the given listings. Listings without geometry
// are skipped; listings without rent get a marker but no heat sample.
// An empty subset yields a valid map with no markers.
func Build(listings []models.Listing) Map {
	m := Map{
		Center:   LatLon{Lat: CenterLat, Lon: CenterLon},
		Zoom:     Zoom,
		Count:    len(listings),
		Tiles:    TileLayer{URL: TileURL, Attribution: TileAttribution},
		Markers:  []Marker{},
		Clusters: []Cluster{},
		Heat: HeatLayer{
			Name:     HeatName,
			Radius:   HeatRadius,
			Gradient: HeatGradient,
			Points:   [][3]float64{},
		},
	}

	var cellOrder []string
	members := make(map[string][]Marker)
	for _, l := range geo.Mappable(listings) {
		pt := l.Geometry.Coordinates
		marker := Marker{
			Row:   l.Row,
			Lat:   pt.Lat(),
			Lon:   pt.Lon(),
			Cell:  geo.Cell(pt, ClusterPrecision),
			Popup: Popup(l),
		}
		m.Markers = append(m.Markers, marker)
		if _, ok := members[marker.Cell]; !ok {
			cellOrder = append(cellOrder, marker.Cell)
		}
		members[marker.Cell] = append(members[marker.Cell], marker)

		if l.Rent != nil {
			m.Heat.Points = append(m.Heat.Points, [3]float64{pt.Lat(), pt.Lon(), *l.Rent})
		}
	}

	for _, cell := range cellOrder {
		m.Clusters = append(m.Clusters, newCluster(cell, members[cell]))
	}
	return m
}

// Popup renders the popup HTML of a listing.
func Popup(l models.Listing) string {
	data := popupData{
		Area:         formatArea(l.Area),
		Rooms:        formatInt(l.Rooms),
		Bathrooms:    formatInt(l.Bathrooms),
		Parking:      formatInt(l.Parking),
		Rent:         FormatBRL(l.Rent),
		CondoFee:     FormatBRL(l.CondoFee),
		Neighborhood: l.Neighborhood,
	}
	if l.Geometry != nil {
		data.DistanceKm = DistanceToCenterKm(l.Geometry.Lat(), l.Geometry.Lon())
	}

	var b strings.Builder
	if err := popupTemplate.Execute(&b, data); err != nil {
		// the template only formats strings and a float
		return ""
	}
	return b.String()
}

// DistanceToCenterKm returns the great-circle distance from the map center.
func DistanceToCenterKm(lat, lon float64) float64 {
	_, km := haversine.Distance(
		haversine.Coord{Lat: CenterLat, Lon: CenterLon},
		haversine.Coord{Lat: lat, Lon: lon},
	)
	return km
}

func newCluster(cell string, markers []Marker) Cluster {
	var sumLat, sumLon float64
	for _, mk := range markers {
		sumLat += mk.Lat
		sumLon += mk.Lon
	}
	n := float64(len(markers))
	return Cluster{
		Cell:  cell,
		Lat:   sumLat / n,
		Lon:   sumLon / n,
		Count: len(markers),
	}
}
