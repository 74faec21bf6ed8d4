package domain

import (
	"math"
	"sort"
	"strings"
)

// FilterState is the current search text plus the amenity toggles. The zero value
// is the cleared state and matches every restroom.
type FilterState struct {
	Search  string
	Require Amenities
}

// IsZero reports whether the filter imposes no constraint.
func (f FilterState) IsZero() bool {
	return f.Search == "" && f.Require == (Amenities{})
}

// Matches applies the AND-of-enabled-filters policy: the name must contain the
// search text case-insensitively, and every required amenity must be present.
// The search text is compared as typed; only "" is unconstrained. Unset toggles impose nothing.
func (f FilterState) Matches(r Restroom) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Name), strings.ToLower(f.Search)) {
		return false
	}
	for _, amenity := range AllAmenities {
		if f.Require.Has(amenity) && !r.Amenities.Has(amenity) {
			return false
		}
	}
	return true
}

// ApplyFilter returns the displayed subset in catalog order.
func ApplyFilter(records []Restroom, filter FilterState) []Restroom {
	result := make([]Restroom, 0, len(records))
	for _, record := range records {
		if filter.Matches(record) {
			result = append(result, record)
		}
	}
	return result
}

const earthRadiusMeters = 6371000.0

// DistanceMeters is the haversine great-circle distance between two coordinates.
func DistanceMeters(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}

// SortByDistance orders restrooms nearest-first from origin. Ties keep catalog order.
func SortByDistance(records []Restroom, origin Coordinate) {
	sort.SliceStable(records, func(i, j int) bool {
		return DistanceMeters(origin, records[i].Location) < DistanceMeters(origin, records[j].Location)
	})
}
