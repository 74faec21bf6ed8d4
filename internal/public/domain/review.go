package domain

import (
	"math"
	"strings"
	"time"
)

// DisplayDateLayout renders review dates as dd/mm/yyyy.
const DisplayDateLayout = "02/01/2006"

// Review is a single rating/comment left on a restroom.
type Review struct {
	ID           string
	RestroomID   string
	RestroomName string
	UserID       string
	Author       string
	Email        string
	Comment      string
	Rating       int
	PhotoURL     string
	CreatedAt    time.Time
}

// DisplayDate returns the formatted submission date. CreatedAt stays the sort key.
func (r Review) DisplayDate() string {
	if r.CreatedAt.IsZero() {
		return ""
	}
	return r.CreatedAt.Format(DisplayDateLayout)
}

// Author identifies the signed-in user submitting a review.
type Author struct {
	ID   string
	Name string
}

// Photo is a binary image attachment.
type Photo struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReviewSubmission carries the fields sent to the backend for a new review.
type ReviewSubmission struct {
	RestroomID string
	UserID     string
	Rating     int
	Comment    string
}

// AverageRating is the mean rating rounded to one decimal place; zero without ratings.
func AverageRating(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, rating := range ratings {
		sum += rating
	}
	mean := float64(sum) / float64(len(ratings))
	return math.Round(mean*10) / 10
}

// ReviewRatings extracts the rating of each review.
func ReviewRatings(reviews []Review) []int {
	ratings := make([]int, 0, len(reviews))
	for _, review := range reviews {
		ratings = append(ratings, review.Rating)
	}
	return ratings
}

func trimSpace(value string) string {
	return strings.TrimSpace(value)
}
