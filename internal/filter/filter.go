// Package filter narrows listings by five inclusive numeric ranges.
package filter

import (
	"math"

	"github.com/stwalsh4118/rentscope/internal/models"
)

// Field identifies one filterable listing attribute.
type Field string

// Filterable fields, in sidebar order.
const (
	FieldArea      Field = "area"
	FieldRooms     Field = "rooms"
	FieldBathrooms Field = "bathrooms"
	FieldParking   Field = "parking"
	FieldRent      Field = "rent"
)

// Fields lists the filterable fields in sidebar order.
var Fields = []Field{FieldArea, FieldRooms, FieldBathrooms, FieldParking, FieldRent}

// Range is a closed interval [Min, Max].
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies in the closed interval.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Ranges holds one range per filterable field.
type Ranges struct {
	Area      Range `json:"area"`
	Rooms     Range `json:"rooms"`
	Bathrooms Range `json:"bathrooms"`
	Parking   Range `json:"parking"`
	Rent      Range `json:"rent"`
}

// Get returns the range for a field.
func (r Ranges) Get(f Field) Range {
	switch f {
	case FieldArea:
		return r.Area
	case FieldRooms:
		return r.Rooms
	case FieldBathrooms:
		return r.Bathrooms
	case FieldParking:
		return r.Parking
	default:
		return r.Rent
	}
}

// Set returns a copy of r with the range for f replaced.
func (r Ranges) Set(f Field, v Range) Ranges {
	switch f {
	case FieldArea:
		r.Area = v
	case FieldRooms:
		r.Rooms = v
	case FieldBathrooms:
		r.Bathrooms = v
	case FieldParking:
		r.Parking = v
	case FieldRent:
		r.Rent = v
	}
	return r
}

// Bound is an optional client-supplied override of one side of a range.
type Bound struct {
	Min *float64
	Max *float64
}

// Merge overlays the supplied bounds onto r. Nil sides keep r's value.
func (r Ranges) Merge(bounds map[Field]Bound) Ranges {
	for f, b := range bounds {
		cur := r.Get(f)
		if b.Min != nil {
			cur.Min = *b.Min
		}
		if b.Max != nil {
			cur.Max = *b.Max
		}
		r = r.Set(f, cur)
	}
	return r
}

// Apply returns the listings whose five fields are all present and inside
// their ranges, preserving order. No match yields an empty, non-nil slice.
func Apply(listings []models.Listing, r Ranges) []models.Listing {
	out := make([]models.Listing, 0, len(listings))
	for _, l := range listings {
		if Match(l, r) {
			out = append(out, l)
		}
	}
	return out
}

// Match reports whether a single listing satisfies every range.
// A missing value never satisfies a range.
func Match(l models.Listing, r Ranges) bool {
	for _, f := range Fields {
		v, ok := Value(l, f)
		if !ok || !r.Get(f).Contains(v) {
			return false
		}
	}
	return true
}

// Value extracts the numeric value of a field from a listing.
func Value(l models.Listing, f Field) (float64, bool) {
	switch f {
	case FieldArea:
		return deref(l.Area)
	case FieldRooms:
		return derefInt(l.Rooms)
	case FieldBathrooms:
		return derefInt(l.Bathrooms)
	case FieldParking:
		return derefInt(l.Parking)
	case FieldRent:
		return deref(l.Rent)
	}
	return 0, false
}

func deref(v *float64) (float64, bool) {
	if v == nil || math.IsNaN(*v) {
		return 0, false
	}
	return *v, true
}

func derefInt(v *int) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return float64(*v), true
}
