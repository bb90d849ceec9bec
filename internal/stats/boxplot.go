package stats

import (
	"sort"

	"github.com/stwalsh4118/rentscope/internal/models"
)

// BoxGroup is the five-number summary of rent for one neighborhood.
type BoxGroup struct {
	Neighborhood string    `json:"bairro"`
	Outliers     []float64 `json:"outliers"`
	Count        int       `json:"count"`
	Min          float64   `json:"min"`
	Q1           float64   `json:"q1"`
	Median       float64   `json:"median"`
	Q3           float64   `json:"q3"`
	Max          float64   `json:"max"`
	LowerWhisker float64   `json:"lower_whisker"`
	UpperWhisker float64   `json:"upper_whisker"`
}

// BoxPlot groups rent by neighborhood and orders the groups ascending by
// median rent. Equal medians keep first-appearance order. Listings without
// rent or neighborhood are skipped.
func BoxPlot(listings []models.Listing) []BoxGroup {
	var order []string
	groups := make(map[string][]float64)
	for _, l := range listings {
		if l.Rent == nil || l.Neighborhood == "" {
			continue
		}
		if _, ok := groups[l.Neighborhood]; !ok {
			order = append(order, l.Neighborhood)
		}
		groups[l.Neighborhood] = append(groups[l.Neighborhood], *l.Rent)
	}

	out := make([]BoxGroup, 0, len(order))
	for _, name := range order {
		out = append(out, newBoxGroup(name, groups[name]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Median < out[j].Median
	})
	return out
}

// NeighborhoodOrder returns the neighborhood names in boxplot order.
func NeighborhoodOrder(groups []BoxGroup) []string {
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Neighborhood
	}
	return names
}

func newBoxGroup(name string, values []float64) BoxGroup {
	sorted := sortedCopy(values)
	g := BoxGroup{
		Neighborhood: name,
		Outliers:     []float64{},
		Count:        len(sorted),
		Min:          sorted[0],
		Q1:           Quantile(sorted, 0.25),
		Median:       Quantile(sorted, 0.5),
		Q3:           Quantile(sorted, 0.75),
		Max:          sorted[len(sorted)-1],
	}

	iqr := g.Q3 - g.Q1
	lowFence, highFence := g.Q1-1.5*iqr, g.Q3+1.5*iqr
	g.LowerWhisker, g.UpperWhisker = g.Q1, g.Q3
	for _, v := range sorted {
		if v < lowFence || v > highFence {
			g.Outliers = append(g.Outliers, v)
			continue
		}
		if v < g.LowerWhisker {
			g.LowerWhisker = v
		}
		if v > g.UpperWhisker {
			g.UpperWhisker = v
		}
	}
	return g
}
