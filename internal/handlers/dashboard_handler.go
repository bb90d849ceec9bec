package handlers

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stwalsh4118/rentscope/internal/charts"
	"github.com/stwalsh4118/rentscope/internal/dataset"
	apierrors "github.com/stwalsh4118/rentscope/internal/errors"
	"github.com/stwalsh4118/rentscope/internal/filter"
	"github.com/stwalsh4118/rentscope/internal/middleware"
	"github.com/stwalsh4118/rentscope/internal/models"
	"github.com/stwalsh4118/rentscope/internal/services"
)

// DashboardHandler serves the dashboard JSON API and chart pages.
type DashboardHandler struct {
	service services.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler instance.
func NewDashboardHandler(service services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		service: service,
	}
}

// RangeQuery holds the optional filter bounds sent by the sidebar sliders.
// Omitted bounds fall back to the dataset defaults.
type RangeQuery struct {
	AreaMin      *float64 `form:"area_min" binding:"omitempty,gte=0"`
	AreaMax      *float64 `form:"area_max" binding:"omitempty,gte=0"`
	RoomsMin     *float64 `form:"rooms_min" binding:"omitempty,gte=0"`
	RoomsMax     *float64 `form:"rooms_max" binding:"omitempty,gte=0"`
	BathroomsMin *float64 `form:"bathrooms_min" binding:"omitempty,gte=0"`
	BathroomsMax *float64 `form:"bathrooms_max" binding:"omitempty,gte=0"`
	ParkingMin   *float64 `form:"parking_min" binding:"omitempty,gte=0"`
	ParkingMax   *float64 `form:"parking_max" binding:"omitempty,gte=0"`
	RentMin      *float64 `form:"rent_min" binding:"omitempty,gte=0"`
	RentMax      *float64 `form:"rent_max" binding:"omitempty,gte=0"`
}

// Bounds converts the query into per-field overrides.
func (q RangeQuery) Bounds() map[filter.Field]filter.Bound {
	return map[filter.Field]filter.Bound{
		filter.FieldArea:      {Min: q.AreaMin, Max: q.AreaMax},
		filter.FieldRooms:     {Min: q.RoomsMin, Max: q.RoomsMax},
		filter.FieldBathrooms: {Min: q.BathroomsMin, Max: q.BathroomsMax},
		filter.FieldParking:   {Min: q.ParkingMin, Max: q.ParkingMax},
		filter.FieldRent:      {Min: q.RentMin, Max: q.RentMax},
	}
}

// FiltersResponse describes the slider controls and the ranges in effect.
type FiltersResponse struct {
	Sliders []filter.Slider `json:"sliders"`
	Ranges  filter.Ranges   `json:"ranges"`
}

// ListingsResponse is the filtered listing subset.
type ListingsResponse struct {
	Listings []models.Listing `json:"listings"`
	Ranges   filter.Ranges    `json:"ranges"`
	Count    int              `json:"count"`
}

// bindRanges binds the range query and merges it onto the defaults.
// It writes the error response and returns false when the query is invalid.
func (h *DashboardHandler) bindRanges(c *gin.Context) (filter.Ranges, bool) {
	var req RangeQuery
	if err := c.ShouldBindQuery(&req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			apierrors.ValidationError(c, validationErrors)
			return filter.Ranges{}, false
		}
		apierrors.BadRequest(c, "Invalid query parameters", nil)
		return filter.Ranges{}, false
	}
	return h.service.Ranges(req.Bounds()), true
}

// respondError maps service errors to API error responses.
func respondError(c *gin.Context, err error, message string) {
	var colErr *services.ColumnError
	if errors.As(err, &colErr) {
		apierrors.MissingColumn(c, colErr.Column, colErr.Error())
		return
	}
	if errors.Is(err, dataset.ErrDataUnavailable) {
		apierrors.DataUnavailable(c, "Dataset is unavailable", err)
		return
	}
	apierrors.InternalServerError(c, message, err)
}

// Summary handles GET /api/v1/summary.
func (h *DashboardHandler) Summary(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Summary())
}

// Charts handles GET /api/v1/charts.
func (h *DashboardHandler) Charts(c *gin.Context) {
	data, err := h.service.Charts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute chart data")
		return
	}
	c.JSON(http.StatusOK, data)
}

// Filters handles GET /api/v1/filters.
func (h *DashboardHandler) Filters(c *gin.Context) {
	ranges, ok := h.bindRanges(c)
	if !ok {
		return
	}

	sliders, err := h.service.Sliders()
	if err != nil {
		respondError(c, err, "Failed to build filters")
		return
	}
	c.JSON(http.StatusOK, FiltersResponse{Sliders: sliders, Ranges: ranges})
}

// Listings handles GET /api/v1/listings.
func (h *DashboardHandler) Listings(c *gin.Context) {
	ranges, ok := h.bindRanges(c)
	if !ok {
		return
	}

	listings, err := h.service.Filter(c.Request.Context(), ranges)
	if err != nil {
		respondError(c, err, "Failed to filter listings")
		return
	}

	if log := middleware.GetLogger(c); log != nil {
		log.Debug("Listings filtered", map[string]interface{}{
			"count": len(listings),
		})
	}

	c.JSON(http.StatusOK, ListingsResponse{
		Listings: listings,
		Ranges:   ranges,
		Count:    len(listings),
	})
}

// GeoJSON handles GET /api/v1/listings.geojson.
func (h *DashboardHandler) GeoJSON(c *gin.Context) {
	ranges, ok := h.bindRanges(c)
	if !ok {
		return
	}

	fc, err := h.service.GeoJSON(c.Request.Context(), ranges)
	if err != nil {
		respondError(c, err, "Failed to export listings")
		return
	}
	c.Header("Content-Type", "application/geo+json")
	c.JSON(http.StatusOK, fc)
}

// Map handles GET /api/v1/map.
func (h *DashboardHandler) Map(c *gin.Context) {
	ranges, ok := h.bindRanges(c)
	if !ok {
		return
	}

	m, err := h.service.Map(c.Request.Context(), ranges)
	if err != nil {
		respondError(c, err, "Failed to build map")
		return
	}
	c.JSON(http.StatusOK, m)
}

// Dashboard handles GET /api/v1/dashboard.
func (h *DashboardHandler) Dashboard(c *gin.Context) {
	ranges, ok := h.bindRanges(c)
	if !ok {
		return
	}

	d, err := h.service.Render(c.Request.Context(), ranges)
	if err != nil {
		respondError(c, err, "Failed to render dashboard")
		return
	}
	c.JSON(http.StatusOK, d)
}

// Chart handles GET /charts/:name and returns a standalone chart page.
func (h *DashboardHandler) Chart(c *gin.Context) {
	name := c.Param("name")
	switch name {
	case charts.Histogram, charts.BoxPlot, charts.Correlation:
	default:
		apierrors.NotFound(c, "Chart not found")
		return
	}

	data, err := h.service.Charts(c.Request.Context())
	if err != nil {
		respondError(c, err, "Failed to compute chart data")
		return
	}

	var buf bytes.Buffer
	if err := charts.Render(&buf, name, data); err != nil {
		apierrors.InternalServerError(c, "Failed to render chart", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
