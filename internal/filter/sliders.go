package filter

import (
	"math"

	"github.com/stwalsh4118/rentscope/internal/models"
)

// Slider describes one range-slider control of the sidebar.
type Slider struct {
	Field   Field   `json:"field"`
	Label   string  `json:"label"`
	Default Range   `json:"default"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Step    float64 `json:"step"`
}

type sliderDef struct {
	label string
	step  float64

	// upper bound used when the field has no observed values
	fallback float64
}

var sliderDefs = map[Field]sliderDef{
	FieldArea:      {label: "Área (m²)", step: 1, fallback: 1000},
	FieldRooms:     {label: "Quartos", step: 1, fallback: 10},
	FieldBathrooms: {label: "Banheiros", step: 1, fallback: 10},
	FieldParking:   {label: "Vagas", step: 1, fallback: 10},
	FieldRent:      {label: "Aluguel (R$)", step: 100, fallback: 10000},
}

// Sliders returns the slider controls for the dataset. Each slider spans
// [0, observed max] rounded outward to its step, and defaults to the full span.
func Sliders(listings []models.Listing) []Slider {
	out := make([]Slider, 0, len(Fields))
	for _, f := range Fields {
		def := sliderDefs[f]
		lo, hi, ok := observed(listings, f)
		lower, upper := 0.0, def.fallback
		if ok {
			upper = math.Ceil(hi/def.step) * def.step
			if lo < 0 {
				lower = math.Floor(lo/def.step) * def.step
			}
			if upper < lower {
				upper = lower
			}
		}
		out = append(out, Slider{
			Field:   f,
			Label:   def.label,
			Min:     lower,
			Max:     upper,
			Step:    def.step,
			Default: Range{Min: lower, Max: upper},
		})
	}
	return out
}

// Defaults returns the ranges that leave every fully-populated listing selected.
func Defaults(listings []models.Listing) Ranges {
	var r Ranges
	for _, s := range Sliders(listings) {
		r = r.Set(s.Field, s.Default)
	}
	return r
}

func observed(listings []models.Listing, f Field) (float64, float64, bool) {
	lo, hi := math.Inf(1), math.Inf(-1)
	seen := false
	for _, l := range listings {
		v, ok := Value(l, f)
		if !ok {
			continue
		}
		seen = true
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi, seen
}
