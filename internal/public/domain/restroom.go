package domain

// NotSpecified is shown for any opening-hours entry the backend left empty.
const NotSpecified = "Not specified"

// Amenity identifies one of the six fixed restroom features.
type Amenity string

const (
	AmenityWomen      Amenity = "women"
	AmenityMen        Amenity = "men"
	AmenityAccessible Amenity = "accessible"
	AmenityBidet      Amenity = "bidet"
	AmenityTissue     Amenity = "tissue"
	AmenityFree       Amenity = "free"
)

// AllAmenities lists amenities in checklist order.
var AllAmenities = []Amenity{
	AmenityWomen,
	AmenityMen,
	AmenityAccessible,
	AmenityBidet,
	AmenityTissue,
	AmenityFree,
}

// Weekday is an opening-hours key.
type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// AllWeekdays lists the seven opening-hours rows in display order.
var AllWeekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// Coordinate is a WGS84 position.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Amenities holds the six amenity flags of a restroom.
type Amenities struct {
	Women      bool
	Men        bool
	Accessible bool
	Bidet      bool
	Tissue     bool
	Free       bool
}

// Has reports whether the given amenity flag is set.
func (a Amenities) Has(amenity Amenity) bool {
	switch amenity {
	case AmenityWomen:
		return a.Women
	case AmenityMen:
		return a.Men
	case AmenityAccessible:
		return a.Accessible
	case AmenityBidet:
		return a.Bidet
	case AmenityTissue:
		return a.Tissue
	case AmenityFree:
		return a.Free
	}
	return false
}

// Set returns a copy with the given amenity flag changed.
func (a Amenities) Set(amenity Amenity, value bool) Amenities {
	switch amenity {
	case AmenityWomen:
		a.Women = value
	case AmenityMen:
		a.Men = value
	case AmenityAccessible:
		a.Accessible = value
	case AmenityBidet:
		a.Bidet = value
	case AmenityTissue:
		a.Tissue = value
	case AmenityFree:
		a.Free = value
	}
	return a
}

// OpeningHours maps each weekday to a display string. It always has seven entries
// when built with NewOpeningHours.
type OpeningHours map[Weekday]string

// NewOpeningHours fills every missing or blank weekday with NotSpecified.
func NewOpeningHours(raw map[Weekday]string) OpeningHours {
	hours := make(OpeningHours, len(AllWeekdays))
	for _, day := range AllWeekdays {
		value := raw[day]
		if trimmed := trimSpace(value); trimmed != "" {
			hours[day] = trimmed
			continue
		}
		hours[day] = NotSpecified
	}
	return hours
}

// Get returns the hours for a weekday, NotSpecified when absent.
func (h OpeningHours) Get(day Weekday) string {
	if value, ok := h[day]; ok && value != "" {
		return value
	}
	return NotSpecified
}

// Restroom is one catalog entry. Records are replaced wholesale on reload and
// never mutated in place.
type Restroom struct {
	ID          string
	Name        string
	Floor       string
	Location    Coordinate
	Rating      float64
	ReviewCount int
	Amenities   Amenities
	Hours       OpeningHours
	PhotoURLs   []string
}

// CatalogEntry bundles a restroom with the reviews delivered alongside it.
type CatalogEntry struct {
	Restroom Restroom
	Reviews  []Review
}
