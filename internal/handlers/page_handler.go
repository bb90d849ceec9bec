package handlers

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apierrors "github.com/stwalsh4118/rentscope/internal/errors"
	"github.com/stwalsh4118/rentscope/internal/mapview"
	"github.com/stwalsh4118/rentscope/internal/middleware"
	"github.com/stwalsh4118/rentscope/internal/services"
	"github.com/stwalsh4118/rentscope/internal/stats"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTemplate = template.Must(
	template.New("dashboard.html").
		Funcs(template.FuncMap{"num": formatStat}).
		ParseFS(templateFS, "templates/dashboard.html"),
)

type pageData struct {
	Dashboard   *services.Dashboard
	Attribution template.HTML
}

// formatStat prints a describe value with two decimals, or NaN when undefined.
func formatStat(f stats.Float) string {
	if !f.Valid() {
		return "NaN"
	}
	return strconv.FormatFloat(float64(f), 'f', 2, 64)
}

// Index handles GET / and renders the full dashboard page. A missing required
// column still renders the summary, followed by the halt message.
func (h *DashboardHandler) Index(c *gin.Context) {
	ranges, ok := h.bindRanges(c)
	if !ok {
		return
	}

	d, err := h.service.Render(c.Request.Context(), ranges)
	if err != nil && !errors.Is(err, services.ErrMissingColumn) {
		apierrors.InternalServerError(c, "Failed to render dashboard", err)
		return
	}
	if err != nil {
		if log := middleware.GetLogger(c); log != nil {
			log.Warn("Dashboard halted", map[string]interface{}{
				"reason": d.Halted,
			})
		}
	}

	var buf bytes.Buffer
	data := pageData{
		Dashboard:   d,
		Attribution: template.HTML(mapview.TileAttribution),
	}
	if err := dashboardTemplate.Execute(&buf, data); err != nil {
		apierrors.InternalServerError(c, "Failed to render dashboard", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}
