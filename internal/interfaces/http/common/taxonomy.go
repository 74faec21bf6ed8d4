package common

import (
	"net/url"
	"strings"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
)

var amenityAliases = map[string]domain.Amenity{
	"women":      domain.AmenityWomen,
	"female":     domain.AmenityWomen,
	"men":        domain.AmenityMen,
	"male":       domain.AmenityMen,
	"accessible": domain.AmenityAccessible,
	"wheelchair": domain.AmenityAccessible,
	"disabled":   domain.AmenityAccessible,
	"bidet":      domain.AmenityBidet,
	"spray":      domain.AmenityBidet,
	"tissue":     domain.AmenityTissue,
	"paper":      domain.AmenityTissue,
	"free":       domain.AmenityFree,
}

// CanonicalAmenity maps a query alias onto an amenity.
func CanonicalAmenity(input string) (domain.Amenity, bool) {
	amenity, ok := amenityAliases[strings.ToLower(strings.TrimSpace(input))]
	return amenity, ok
}

// FilterFromQuery reads the search text from q and the amenity toggles either as
// individual flags (?women=true) or as a repeated amenity list (?amenity=bidet).
// Unknown names are ignored.
func FilterFromQuery(query url.Values) domain.FilterState {
	filter := domain.FilterState{Search: query.Get("q")}
	for key, values := range query {
		amenity, ok := CanonicalAmenity(key)
		if !ok || len(values) == 0 {
			continue
		}
		if ParseFlag(values[0]) {
			filter.Require = filter.Require.Set(amenity, true)
		}
	}
	for _, raw := range query["amenity"] {
		for _, name := range strings.Split(raw, ",") {
			if amenity, ok := CanonicalAmenity(name); ok {
				filter.Require = filter.Require.Set(amenity, true)
			}
		}
	}
	return filter
}
