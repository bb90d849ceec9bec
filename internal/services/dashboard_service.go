package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/paulmach/orb/geojson"
	"github.com/stwalsh4118/rentscope/internal/charts"
	"github.com/stwalsh4118/rentscope/internal/filter"
	"github.com/stwalsh4118/rentscope/internal/geo"
	"github.com/stwalsh4118/rentscope/internal/logger"
	"github.com/stwalsh4118/rentscope/internal/mapview"
	"github.com/stwalsh4118/rentscope/internal/models"
	"github.com/stwalsh4118/rentscope/internal/stats"
)

// ErrMissingColumn is returned when a column needed past the summary is absent.
var ErrMissingColumn = errors.New("missing required column")

// RequiredColumns must exist for anything beyond the summary to be rendered.
var RequiredColumns = []string{models.ColumnRent, models.ColumnNeighborhood}

// ColumnError names the missing column. It matches ErrMissingColumn with errors.Is
// and its message is shown to the user as is.
type ColumnError struct {
	Column string
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("A coluna '%s' não existe no DataFrame.", e.Column)
}

func (e *ColumnError) Unwrap() error {
	return ErrMissingColumn
}

// Summary is the overview section: shape, sample rows and describe.
type Summary struct {
	ColumnNames       []string            `json:"column_names"`
	Head              [][]string          `json:"head"`
	Describe          []stats.ColumnStats `json:"describe"`
	Rows              int                 `json:"rows"`
	Columns           int                 `json:"columns"`
	DuplicatesRemoved int                 `json:"duplicates_removed"`
}

// Dashboard is one full render for a set of filter ranges. When a required
// column is missing only Summary and Halted are populated.
type Dashboard struct {
	Summary Summary         `json:"summary"`
	Charts  *charts.Data    `json:"charts,omitempty"`
	Ranges  *filter.Ranges  `json:"ranges,omitempty"`
	Map     *mapview.Map    `json:"map,omitempty"`
	Halted  string          `json:"halted,omitempty"`
	Sliders []filter.Slider `json:"sliders,omitempty"`
	Count   int             `json:"count"`
}

// DashboardService computes every dashboard section from the loaded dataset.
// All operations are pure functions of (dataset, ranges) and recompute on each call.
type DashboardService interface {
	// Summary returns shape, sample rows and descriptive statistics.
	Summary() Summary

	// CheckColumns returns a *ColumnError for the first required column that is absent.
	CheckColumns() error

	// Charts returns the histogram, boxplot and correlation data.
	Charts(ctx context.Context) (charts.Data, error)

	// Sliders returns the filter controls with their bounds and defaults.
	Sliders() ([]filter.Slider, error)

	// Ranges overlays client bounds onto the default ranges.
	Ranges(bounds map[filter.Field]filter.Bound) filter.Ranges

	// Filter returns the listings inside every range, in dataset order.
	Filter(ctx context.Context, ranges filter.Ranges) ([]models.Listing, error)

	// Map builds the map artifact for the filtered listings.
	Map(ctx context.Context, ranges filter.Ranges) (mapview.Map, error)

	// GeoJSON exports the mappable filtered listings as a FeatureCollection.
	GeoJSON(ctx context.Context, ranges filter.Ranges) (*geojson.FeatureCollection, error)

	// Render composes every section in page order.
	Render(ctx context.Context, ranges filter.Ranges) (*Dashboard, error)
}

type dashboardService struct {
	data       *Dataset
	log        *logger.Logger
	sampleRows int
}

// NewDashboardService creates a DashboardService over data. sampleRows is the
// number of head rows shown in the summary.
func NewDashboardService(data *Dataset, sampleRows int, log *logger.Logger) DashboardService {
	return &dashboardService{
		data:       data,
		log:        log.WithComponent("dashboard"),
		sampleRows: sampleRows,
	}
}

func (s *dashboardService) Summary() Summary {
	t := s.data.Table
	return Summary{
		Rows:              t.Len(),
		Columns:           len(t.Columns),
		ColumnNames:       t.Columns,
		Head:              t.Head(s.sampleRows),
		Describe:          stats.Describe(t),
		DuplicatesRemoved: s.data.DuplicatesRemoved,
	}
}

func (s *dashboardService) CheckColumns() error {
	for _, column := range RequiredColumns {
		if !s.data.Table.HasColumn(column) {
			return &ColumnError{Column: column}
		}
	}
	return nil
}

func (s *dashboardService) Charts(ctx context.Context) (charts.Data, error) {
	if err := s.CheckColumns(); err != nil {
		return charts.Data{}, err
	}
	if err := ctx.Err(); err != nil {
		return charts.Data{}, err
	}

	return charts.Data{
		Histogram:   stats.NewHistogram(s.data.Table.Column(models.ColumnRent), stats.HistogramBins),
		BoxPlot:     stats.BoxPlot(s.data.Listings),
		Correlation: stats.Correlation(s.data.Table),
	}, nil
}

func (s *dashboardService) Sliders() ([]filter.Slider, error) {
	if err := s.CheckColumns(); err != nil {
		return nil, err
	}
	return filter.Sliders(s.data.Listings), nil
}

func (s *dashboardService) Ranges(bounds map[filter.Field]filter.Bound) filter.Ranges {
	return filter.Defaults(s.data.Listings).Merge(bounds)
}

func (s *dashboardService) Filter(ctx context.Context, ranges filter.Ranges) ([]models.Listing, error) {
	if err := s.CheckColumns(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matched := filter.Apply(s.data.Listings, ranges)
	s.log.Debug("Listings filtered", logger.Fields{
		"matched": len(matched),
		"total":   len(s.data.Listings),
	})
	return matched, nil
}

func (s *dashboardService) Map(ctx context.Context, ranges filter.Ranges) (mapview.Map, error) {
	matched, err := s.Filter(ctx, ranges)
	if err != nil {
		return mapview.Map{}, err
	}
	return mapview.Build(matched), nil
}

func (s *dashboardService) GeoJSON(ctx context.Context, ranges filter.Ranges) (*geojson.FeatureCollection, error) {
	matched, err := s.Filter(ctx, ranges)
	if err != nil {
		return nil, err
	}
	return geo.FeatureCollection(matched), nil
}

func (s *dashboardService) Render(ctx context.Context, ranges filter.Ranges) (*Dashboard, error) {
	d := &Dashboard{Summary: s.Summary()}

	if err := s.CheckColumns(); err != nil {
		s.log.Warn("Rendering halted", logger.Fields{"error": err.Error()})
		d.Halted = err.Error()
		return d, err
	}

	chartData, err := s.Charts(ctx)
	if err != nil {
		return nil, err
	}
	sliders, err := s.Sliders()
	if err != nil {
		return nil, err
	}
	matched, err := s.Filter(ctx, ranges)
	if err != nil {
		return nil, err
	}
	m := mapview.Build(matched)

	d.Charts = &chartData
	d.Sliders = sliders
	d.Ranges = &ranges
	d.Count = len(matched)
	d.Map = &m
	return d, nil
}
