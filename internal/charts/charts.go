// Package charts renders dashboard chart data as standalone ECharts pages.
package charts

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/stwalsh4118/rentscope/internal/stats"
)

// Chart names accepted by Render.
const (
	Histogram   = "histogram"
	BoxPlot     = "boxplot"
	Correlation = "correlation"
)

// coolwarm endpoints and midpoint
var divergingPalette = []string{"#3b4cc0", "#f7f7f7", "#b40426"}

// Data bundles the three chart datasets.
type Data struct {
	Histogram   stats.Histogram         `json:"histogram"`
	BoxPlot     []stats.BoxGroup        `json:"boxplot"`
	Correlation stats.CorrelationMatrix `json:"correlation"`
}

// Renderer is implemented by every go-echarts chart.
type Renderer interface {
	Render(w io.Writer) error
}

// ErrUnknownChart is returned by Render for an unsupported chart name.
var ErrUnknownChart = errors.New("unknown chart")

// Render writes the named chart page to w.
func Render(w io.Writer, name string, data Data) error {
	var r Renderer
	switch name {
	case Histogram:
		r = HistogramChart(data.Histogram)
	case BoxPlot:
		r = BoxPlotChart(data.BoxPlot)
	case Correlation:
		r = CorrelationChart(data.Correlation)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChart, name)
	}
	return r.Render(w)
}

// HistogramChart draws the rent histogram with the density overlay.
func HistogramChart(h stats.Histogram) *charts.Bar {
	labels := make([]string, len(h.Bins))
	bars := make([]opts.BarData, len(h.Bins))
	density := make([]opts.LineData, len(h.BinDensity))
	for i, b := range h.Bins {
		labels[i] = fmt.Sprintf("%.0f", (b.Start+b.End)/2)
		bars[i] = opts.BarData{Value: b.Count}
	}
	for i, y := range h.BinDensity {
		density[i] = opts.LineData{Value: round2(y)}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Distribuição de Preços", Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Distribuição dos Preços dos Imóveis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Preço"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Frequência"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
	)
	bar.SetXAxis(labels).AddSeries("Frequência", bars)

	if len(density) > 0 {
		line := charts.NewLine()
		line.SetXAxis(labels).AddSeries("Densidade", density,
			charts.WithLineChartOpts(opts.LineChart{Smooth: true}),
		)
		bar.Overlap(line)
	}
	return bar
}

// BoxPlotChart draws rent per neighborhood in the given (median) order.
func BoxPlotChart(groups []stats.BoxGroup) *charts.BoxPlot {
	names := stats.NeighborhoodOrder(groups)
	items := make([]opts.BoxPlotData, len(groups))
	for i, g := range groups {
		items[i] = opts.BoxPlotData{
			Name:  g.Neighborhood,
			Value: []float64{g.LowerWhisker, g.Q1, g.Median, g.Q3, g.UpperWhisker},
		}
	}

	bp := charts.NewBoxPlot()
	bp.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Preços por Bairro", Width: "100%", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{Title: "Distribuição de Preços de Aluguel por Bairro"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Bairro", AxisLabel: &opts.AxisLabel{Show: true, Rotate: 45}}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Preço"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true}),
	)
	bp.SetXAxis(names).AddSeries("Aluguel", items)
	return bp
}

// CorrelationChart draws the annotated correlation heatmap.
func CorrelationChart(m stats.CorrelationMatrix) *charts.HeatMap {
	items := make([]opts.HeatMapData, 0, len(m.Columns)*len(m.Columns))
	for i := range m.Columns {
		for j := range m.Columns {
			var v interface{} = "-"
			if m.Values[i][j].Valid() {
				v = round2(float64(m.Values[i][j]))
			}
			items = append(items, opts.HeatMapData{Value: [3]interface{}{i, j, v}})
		}
	}

	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Correlações", Width: "100%", Height: "640px"}),
		charts.WithTitleOpts(opts.Title{Title: "Mapa de Calor das Correlações"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", SplitArea: &opts.SplitArea{Show: true}}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: m.Columns, SplitArea: &opts.SplitArea{Show: true}}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: true,
			Min:        -1,
			Max:        1,
			InRange:    &opts.VisualMapInRange{Color: divergingPalette},
		}),
	)
	hm.SetXAxis(m.Columns).AddSeries("Correlação", items,
		charts.WithLabelOpts(opts.Label{Show: true}),
	)
	return hm
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
