package domain

import (
	"sort"
	"strings"
	"time"
)

// Review is a review as seen by the moderator, across all restrooms.
type Review struct {
	ID         string
	RestroomID string
	// Location is the display name of the reviewed restroom.
	Location  string
	Author    string
	Email     Email
	Comment   string
	Rating    Rating
	PhotoURL  string
	CreatedAt time.Time
}

// ReviewFilter narrows the moderation list. Text matches author, email, location
// and comment case-insensitively; Location must match exactly when set.
type ReviewFilter struct {
	Text     string
	Location string
}

func (f ReviewFilter) Matches(r Review) bool {
	if f.Location != "" && r.Location != f.Location {
		return false
	}
	text := strings.ToLower(strings.TrimSpace(f.Text))
	if text == "" {
		return true
	}
	for _, field := range []string{r.Author, r.Email.String(), r.Location, r.Comment} {
		if strings.Contains(strings.ToLower(field), text) {
			return true
		}
	}
	return false
}

// Apply returns the matching reviews in their original order.
func (f ReviewFilter) Apply(reviews []Review) []Review {
	result := make([]Review, 0, len(reviews))
	for _, review := range reviews {
		if f.Matches(review) {
			result = append(result, review)
		}
	}
	return result
}

// Locations lists the distinct non-empty locations, sorted, for the location selector.
func Locations(reviews []Review) []string {
	seen := map[string]struct{}{}
	result := make([]string, 0)
	for _, review := range reviews {
		if review.Location == "" {
			continue
		}
		if _, ok := seen[review.Location]; ok {
			continue
		}
		seen[review.Location] = struct{}{}
		result = append(result, review.Location)
	}
	sort.Strings(result)
	return result
}
