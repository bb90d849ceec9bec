package stats

import (
	"math"

	"github.com/stwalsh4118/rentscope/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// CorrelationMatrix is a symmetric Pearson correlation matrix over numeric columns.
type CorrelationMatrix struct {
	Columns []string  `json:"columns"`
	Values  [][]Float `json:"values"`
}

// Correlation computes pairwise-complete Pearson correlations between the
// table's numeric columns. Undefined coefficients are NaN.
func Correlation(t *dataset.Table) CorrelationMatrix {
	columns := t.NumericColumns()
	m := CorrelationMatrix{
		Columns: columns,
		Values:  make([][]Float, len(columns)),
	}
	for i := range columns {
		m.Values[i] = make([]Float, len(columns))
	}

	for i := range columns {
		for j := i; j < len(columns); j++ {
			x, y := completePairs(t, columns[i], columns[j])
			r := Float(Pearson(x, y))
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// Pearson returns the Pearson correlation of x and y, or NaN when it is undefined.
func Pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return math.NaN()
	}
	if stat.Variance(x, nil) == 0 || stat.Variance(y, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(x, y, nil)
	// rounding can push |r| a hair past 1
	return math.Max(-1, math.Min(1, r))
}

func completePairs(t *dataset.Table, a, b string) ([]float64, []float64) {
	x := make([]float64, 0, t.Len())
	y := make([]float64, 0, t.Len())
	for r := 0; r < t.Len(); r++ {
		va, okA := t.Float(r, a)
		vb, okB := t.Float(r, b)
		if okA && okB {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}
