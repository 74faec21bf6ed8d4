package ui

import (
	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

var amenityLabels = map[domain.Amenity]string{
	domain.AmenityWomen:      "Women",
	domain.AmenityMen:        "Men",
	domain.AmenityAccessible: "Wheelchair accessible",
	domain.AmenityBidet:      "Bidet spray",
	domain.AmenityTissue:     "Tissue",
	domain.AmenityFree:       "Free of charge",
}

var weekdayLabels = map[domain.Weekday]string{
	domain.Monday:    "Monday",
	domain.Tuesday:   "Tuesday",
	domain.Wednesday: "Wednesday",
	domain.Thursday:  "Thursday",
	domain.Friday:    "Friday",
	domain.Saturday:  "Saturday",
	domain.Sunday:    "Sunday",
}

type ChecklistItem struct {
	Amenity   domain.Amenity
	Label     string
	Available bool
}

type HoursRow struct {
	Day   domain.Weekday
	Label string
	Hours string
}

type ReviewItem struct {
	ID       string
	Author   string
	Comment  string
	Rating   int
	Date     string
	PhotoURL string
}

// Affordance drives the rating/comment form of the detail sheet.
type Affordance struct {
	CanSubmit     bool
	RequiresLogin bool
	Submitting    bool
	SubmitLabel   string
}

// Detail is the expanded view of the selected restroom.
type Detail struct {
	ID          string
	Name        string
	Floor       string
	Location    domain.Coordinate
	Rating      float64
	ReviewCount int
	Checklist   []ChecklistItem
	Hours       []HoursRow
	Carousel    Carousel
	Reviews     []ReviewItem
	Affordance  Affordance
}

// DetailOptions carries the presentation dependencies of BuildDetail.
type DetailOptions struct {
	Capabilities session.Capabilities
	PhotoSource  PhotoSource
	Placeholder  string
	Submitting   bool
}

// BuildDetail always yields six checklist rows and seven hours rows.
func BuildDetail(record domain.Restroom, reviews []domain.Review, opts DetailOptions) Detail {
	checklist := make([]ChecklistItem, 0, len(domain.AllAmenities))
	for _, amenity := range domain.AllAmenities {
		checklist = append(checklist, ChecklistItem{
			Amenity:   amenity,
			Label:     amenityLabels[amenity],
			Available: record.Amenities.Has(amenity),
		})
	}

	hours := make([]HoursRow, 0, len(domain.AllWeekdays))
	for _, day := range domain.AllWeekdays {
		hours = append(hours, HoursRow{Day: day, Label: weekdayLabels[day], Hours: record.Hours.Get(day)})
	}

	items := make([]ReviewItem, 0, len(reviews))
	for _, review := range reviews {
		photo := review.PhotoURL
		if photo != "" && opts.PhotoSource != nil {
			photo = opts.PhotoSource(photo)
		}
		items = append(items, ReviewItem{
			ID:       review.ID,
			Author:   review.Author,
			Comment:  review.Comment,
			Rating:   review.Rating,
			Date:     review.DisplayDate(),
			PhotoURL: photo,
		})
	}

	label := "Submit"
	if opts.Submitting {
		label = "Submitting..."
	}

	return Detail{
		ID:          record.ID,
		Name:        record.Name,
		Floor:       record.Floor,
		Location:    record.Location,
		Rating:      record.Rating,
		ReviewCount: record.ReviewCount,
		Checklist:   checklist,
		Hours:       hours,
		Carousel:    NewCarousel(record.PhotoURLs, opts.PhotoSource, opts.Placeholder),
		Reviews:     items,
		Affordance: Affordance{
			CanSubmit:     opts.Capabilities.CanReview && !opts.Submitting,
			RequiresLogin: !opts.Capabilities.CanReview,
			Submitting:    opts.Submitting,
			SubmitLabel:   label,
		},
	}
}
