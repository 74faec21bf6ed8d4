package admin

import (
	"time"

	admindomain "github.com/sngm3741/ku-toilet-map/web/internal/admin/domain"
	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
)

type adminReviewResponse struct {
	ID         string    `json:"id"`
	RestroomID string    `json:"restroomId,omitempty"`
	Location   string    `json:"location"`
	Author     string    `json:"author"`
	Email      string    `json:"email,omitempty"`
	Comment    string    `json:"comment"`
	Rating     int       `json:"rating"`
	PhotoURL   string    `json:"photoUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

type adminReviewListResponse struct {
	Items     []adminReviewResponse `json:"items"`
	Locations []string              `json:"locations"`
	Matched   int                   `json:"matched"`
	Total     int                   `json:"total"`
}

type deleteConfirmationResponse struct {
	ReviewID  string    `json:"reviewId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type catalogRefreshResponse struct {
	Status   string    `json:"status"`
	Count    int       `json:"count"`
	LoadedAt time.Time `json:"loadedAt"`
}

type submissionFailureResponse struct {
	ID           string    `json:"id"`
	RestroomID   string    `json:"restroomId"`
	RestroomName string    `json:"restroomName"`
	UserID       string    `json:"userId"`
	Attempts     int       `json:"attempts"`
	HasPhoto     bool      `json:"hasPhoto"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toAdminReviewResponse(review admindomain.Review) adminReviewResponse {
	return adminReviewResponse{
		ID:         review.ID,
		RestroomID: review.RestroomID,
		Location:   review.Location,
		Author:     review.Author,
		Email:      review.Email.String(),
		Comment:    review.Comment,
		Rating:     int(review.Rating),
		PhotoURL:   review.PhotoURL,
		CreatedAt:  review.CreatedAt,
	}
}

func toSubmissionFailureResponse(record publicapp.SubmissionRecord) submissionFailureResponse {
	return submissionFailureResponse{
		ID:           record.ID,
		RestroomID:   record.RestroomID,
		RestroomName: record.RestroomName,
		UserID:       record.UserID,
		Attempts:     len(record.Attempts),
		HasPhoto:     record.HasPhoto,
		Message:      record.Message,
		CreatedAt:    record.CreatedAt,
	}
}
