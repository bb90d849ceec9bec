package stats

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// HistogramBins is the fixed bin count of the rent histogram.
	HistogramBins = 30
	// densityPoints is the number of grid points of the density overlay.
	densityPoints = 200
)

// Bin is one histogram bar. Bins are half-open [Start, End) except the last, which is closed.
type Bin struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Count int     `json:"count"`
}

// DensityPoint is one sample of the smoothed density overlay, scaled to bar counts.
type DensityPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Histogram holds equal-width bins and a kernel density overlay.
type Histogram struct {
	Bins    []Bin          `json:"bins"`
	Density []DensityPoint `json:"density"`

	// BinDensity is the overlay evaluated at each bin midpoint.
	BinDensity []float64 `json:"bin_density"`
	BinWidth   float64   `json:"bin_width"`
	Bandwidth  Float     `json:"bandwidth"`
	Count      int       `json:"count"`
}

// NewHistogram bins values into n equal-width bins spanning [min, max].
// A constant sample is spread over [v-0.5, v+0.5].
func NewHistogram(values []float64, n int) Histogram {
	h := Histogram{
		Bins:       []Bin{},
		Density:    []DensityPoint{},
		BinDensity: []float64{},
		Bandwidth:  NaN(),
		Count:      len(values),
	}
	if len(values) == 0 || n <= 0 {
		return h
	}

	lo, hi := floats.Min(values), floats.Max(values)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	width := (hi - lo) / float64(n)
	h.BinWidth = width

	h.Bins = make([]Bin, n)
	for i := range h.Bins {
		h.Bins[i] = Bin{
			Start: lo + float64(i)*width,
			End:   lo + float64(i+1)*width,
		}
	}
	h.Bins[n-1].End = hi

	for _, v := range values {
		i := int((v - lo) / width)
		if i >= n {
			i = n - 1
		}
		if i < 0 {
			i = 0
		}
		h.Bins[i].Count++
	}

	bw, ok := scottBandwidth(values)
	if !ok {
		return h
	}
	h.Bandwidth = Float(bw)
	dataLo, dataHi := floats.Min(values), floats.Max(values)
	grid := make([]float64, densityPoints)
	floats.Span(grid, dataLo, dataHi)
	scale := float64(len(values)) * width
	h.Density = make([]DensityPoint, 0, densityPoints)
	for _, x := range grid {
		h.Density = append(h.Density, DensityPoint{X: x, Y: gaussianKDE(values, bw, x) * scale})
	}
	h.BinDensity = make([]float64, len(h.Bins))
	for i, b := range h.Bins {
		h.BinDensity[i] = gaussianKDE(values, bw, (b.Start+b.End)/2) * scale
	}
	return h
}

// scottBandwidth returns the Gaussian kernel width std * n^(-1/5).
func scottBandwidth(values []float64) (float64, bool) {
	if len(values) < 2 {
		return 0, false
	}
	std := stat.StdDev(values, nil)
	if std == 0 || math.IsNaN(std) {
		return 0, false
	}
	return std * math.Pow(float64(len(values)), -0.2), true
}

func gaussianKDE(values []float64, bw, x float64) float64 {
	norm := 1 / (float64(len(values)) * bw * math.Sqrt(2*math.Pi))
	var sum float64
	for _, v := range values {
		z := (x - v) / bw
		sum += math.Exp(-0.5 * z * z)
	}
	return sum * norm
}
