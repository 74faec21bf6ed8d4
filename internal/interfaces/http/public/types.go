package public

import (
	"time"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
	"github.com/sngm3741/ku-toilet-map/web/internal/session"
	"github.com/sngm3741/ku-toilet-map/web/internal/ui"
)

type coordinatePayload struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type amenitiesPayload struct {
	Women      bool `json:"women"`
	Men        bool `json:"men"`
	Accessible bool `json:"accessible"`
	Bidet      bool `json:"bidet"`
	Tissue     bool `json:"tissue"`
	Free       bool `json:"free"`
}

type restroomSummaryResponse struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Floor          string            `json:"floor,omitempty"`
	Location       coordinatePayload `json:"location"`
	Rating         float64           `json:"rating"`
	ReviewCount    int               `json:"reviewCount"`
	Amenities      amenitiesPayload  `json:"amenities"`
	PhotoURLs      []string          `json:"photoUrls"`
	DistanceMeters *float64          `json:"distanceMeters,omitempty"`
}

type filterPayload struct {
	Search  string           `json:"q"`
	Require amenitiesPayload `json:"require"`
}

type restroomListResponse struct {
	Items    []restroomSummaryResponse `json:"items"`
	Total    int                       `json:"total"`
	Filter   filterPayload             `json:"filter"`
	LoadedAt *time.Time                `json:"loadedAt,omitempty"`
}

type viewportPayload struct {
	Center       coordinatePayload `json:"center"`
	Zoom         int               `json:"zoom"`
	RecenterZoom int               `json:"recenterZoom"`
}

type markerPayload struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Position coordinatePayload `json:"position"`
	Rating   float64           `json:"rating"`
}

type markerListResponse struct {
	Viewport viewportPayload `json:"viewport"`
	Markers  []markerPayload `json:"markers"`
}

type checklistPayload struct {
	Amenity   string `json:"amenity"`
	Label     string `json:"label"`
	Available bool   `json:"available"`
}

type hoursPayload struct {
	Day   string `json:"day"`
	Label string `json:"label"`
	Hours string `json:"hours"`
}

type reviewResponse struct {
	ID           string    `json:"id"`
	RestroomID   string    `json:"restroomId,omitempty"`
	RestroomName string    `json:"restroomName,omitempty"`
	Author       string    `json:"author"`
	Comment      string    `json:"comment"`
	Rating       int       `json:"rating"`
	PhotoURL     string    `json:"photoUrl,omitempty"`
	Date         string    `json:"date"`
	CreatedAt    time.Time `json:"createdAt"`
}

type affordancePayload struct {
	CanSubmit     bool   `json:"canSubmit"`
	RequiresLogin bool   `json:"requiresLogin"`
	Submitting    bool   `json:"submitting"`
	SubmitLabel   string `json:"submitLabel"`
}

type restroomDetailResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Floor       string             `json:"floor,omitempty"`
	Location    coordinatePayload  `json:"location"`
	Rating      float64            `json:"rating"`
	ReviewCount int                `json:"reviewCount"`
	Checklist   []checklistPayload `json:"checklist"`
	Hours       []hoursPayload     `json:"hours"`
	Carousel    ui.Carousel        `json:"carousel"`
	Reviews     []reviewResponse   `json:"reviews"`
	Affordance  affordancePayload  `json:"affordance"`
}

type createReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
	// Photo is a data URL (data:image/...;base64,...).
	Photo     string `json:"photo,omitempty"`
	PhotoName string `json:"photoName,omitempty"`
}

type attemptPayload struct {
	Transport   string `json:"transport"`
	Outcome     string `json:"outcome"`
	Unreachable bool   `json:"unreachable,omitempty"`
	Message     string `json:"message,omitempty"`
	DurationMS  int64  `json:"durationMs"`
}

type submissionResponse struct {
	Outcome     string           `json:"outcome"`
	Review      *reviewResponse  `json:"review,omitempty"`
	Attempts    []attemptPayload `json:"attempts"`
	Unreachable bool             `json:"unreachable,omitempty"`
	Message     string           `json:"message,omitempty"`
}

type reviewListResponse struct {
	Items []reviewResponse `json:"items"`
	Total int              `json:"total"`
}

type googleSignInRequest struct {
	Token string `json:"token"`
}

type sessionResponse struct {
	Authenticated bool                 `json:"authenticated"`
	DisplayName   string               `json:"displayName"`
	User          *session.User        `json:"user,omitempty"`
	Capabilities  session.Capabilities `json:"capabilities"`
}

type transitionRequest struct {
	View  ui.View  `json:"view"`
	Event ui.Event `json:"event"`
}

type transitionResponse struct {
	View ui.View `json:"view"`
}

func toAmenitiesPayload(a domain.Amenities) amenitiesPayload {
	return amenitiesPayload{
		Women:      a.Women,
		Men:        a.Men,
		Accessible: a.Accessible,
		Bidet:      a.Bidet,
		Tissue:     a.Tissue,
		Free:       a.Free,
	}
}

func toCoordinatePayload(c domain.Coordinate) coordinatePayload {
	return coordinatePayload{Lat: c.Lat, Lng: c.Lng}
}
