package ui

import "github.com/sngm3741/ku-toilet-map/web/internal/public/domain"

// DefaultCenter frames the Bangkhen campus.
var DefaultCenter = domain.Coordinate{Lat: 13.84599, Lng: 100.571218}

const (
	DefaultZoom  = 13
	RecenterZoom = 18
)

type Viewport struct {
	Center       domain.Coordinate
	Zoom         int
	RecenterZoom int
}

func DefaultViewport() Viewport {
	return Viewport{Center: DefaultCenter, Zoom: DefaultZoom, RecenterZoom: RecenterZoom}
}

// Marker is one pin on the map.
type Marker struct {
	ID       string
	Name     string
	Position domain.Coordinate
	Rating   float64
}

// BuildMarkers emits one marker per displayed restroom, in display order.
func BuildMarkers(records []domain.Restroom) []Marker {
	markers := make([]Marker, 0, len(records))
	for _, record := range records {
		markers = append(markers, Marker{
			ID:       record.ID,
			Name:     record.Name,
			Position: record.Location,
			Rating:   record.Rating,
		})
	}
	return markers
}
