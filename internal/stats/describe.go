// Package stats computes the descriptive statistics and chart data shown on
// the dashboard. All functions are pure and skip missing values.
package stats

import (
	"math"
	"sort"

	"github.com/stwalsh4118/rentscope/internal/dataset"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ColumnStats is the describe() row for one numeric column.
type ColumnStats struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
	Mean   Float  `json:"mean"`
	Std    Float  `json:"std"`
	Min    Float  `json:"min"`
	Q1     Float  `json:"p25"`
	Median Float  `json:"p50"`
	Q3     Float  `json:"p75"`
	Max    Float  `json:"max"`
}

// Describe returns descriptive statistics for every numeric column, in header order.
func Describe(t *dataset.Table) []ColumnStats {
	columns := t.NumericColumns()
	out := make([]ColumnStats, 0, len(columns))
	for _, name := range columns {
		out = append(out, DescribeValues(name, t.Column(name)))
	}
	return out
}

// DescribeValues computes count, mean, sample standard deviation, min, quartiles and max.
func DescribeValues(name string, values []float64) ColumnStats {
	cs := ColumnStats{
		Column: name,
		Count:  len(values),
		Mean:   NaN(),
		Std:    NaN(),
		Min:    NaN(),
		Q1:     NaN(),
		Median: NaN(),
		Q3:     NaN(),
		Max:    NaN(),
	}
	if len(values) == 0 {
		return cs
	}

	sorted := sortedCopy(values)
	mean, std := stat.MeanStdDev(sorted, nil)
	cs.Mean = Float(mean)
	if len(sorted) > 1 {
		cs.Std = Float(std)
	}
	cs.Min = Float(floats.Min(sorted))
	cs.Max = Float(floats.Max(sorted))
	cs.Q1 = Float(Quantile(sorted, 0.25))
	cs.Median = Float(Quantile(sorted, 0.5))
	cs.Q3 = Float(Quantile(sorted, 0.75))
	return cs
}

// Quantile returns the p-quantile of sorted data using linear interpolation
// between closest ranks at position (n-1)*p. sorted must be ascending.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}
	pos := float64(n-1) * p
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// Median returns the median of values without modifying them.
func Median(values []float64) float64 {
	return Quantile(sortedCopy(values), 0.5)
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}
