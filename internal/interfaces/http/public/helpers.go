package public

import (
	"net/http"
	"net/url"

	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
	"github.com/sngm3741/ku-toilet-map/web/internal/ui"
)

const (
	photoProxyPath  = "/api/photos"
	placeholderPath = "/api/photos/placeholder.svg"
)

// proxiedPhoto routes every upstream photo through the proxy so a broken image
// degrades to the placeholder instead of a browser error.
func proxiedPhoto(original string) string {
	if original == "" {
		return ""
	}
	return photoProxyPath + "?src=" + url.QueryEscape(original)
}

func toRestroomSummary(ranked publicapp.RankedRestroom) restroomSummaryResponse {
	photos := make([]string, 0, len(ranked.PhotoURLs))
	for _, photo := range ranked.PhotoURLs {
		photos = append(photos, proxiedPhoto(photo))
	}
	return restroomSummaryResponse{
		ID:             ranked.ID,
		Name:           ranked.Name,
		Floor:          ranked.Floor,
		Location:       toCoordinatePayload(ranked.Location),
		Rating:         ranked.Rating,
		ReviewCount:    ranked.ReviewCount,
		Amenities:      toAmenitiesPayload(ranked.Amenities),
		PhotoURLs:      photos,
		DistanceMeters: ranked.DistanceMeters,
	}
}

func toReviewResponse(review domain.Review) reviewResponse {
	return reviewResponse{
		ID:           review.ID,
		RestroomID:   review.RestroomID,
		RestroomName: review.RestroomName,
		Author:       review.Author,
		Comment:      review.Comment,
		Rating:       review.Rating,
		PhotoURL:     proxiedPhoto(review.PhotoURL),
		Date:         review.DisplayDate(),
		CreatedAt:    review.CreatedAt,
	}
}

func toReviewResponses(reviews []domain.Review) []reviewResponse {
	items := make([]reviewResponse, 0, len(reviews))
	for _, review := range reviews {
		items = append(items, toReviewResponse(review))
	}
	return items
}

func toDetailResponse(detail ui.Detail) restroomDetailResponse {
	checklist := make([]checklistPayload, 0, len(detail.Checklist))
	for _, item := range detail.Checklist {
		checklist = append(checklist, checklistPayload{Amenity: string(item.Amenity), Label: item.Label, Available: item.Available})
	}
	hours := make([]hoursPayload, 0, len(detail.Hours))
	for _, row := range detail.Hours {
		hours = append(hours, hoursPayload{Day: string(row.Day), Label: row.Label, Hours: row.Hours})
	}
	reviews := make([]reviewResponse, 0, len(detail.Reviews))
	for _, item := range detail.Reviews {
		reviews = append(reviews, reviewResponse{
			ID:       item.ID,
			Author:   item.Author,
			Comment:  item.Comment,
			Rating:   item.Rating,
			PhotoURL: item.PhotoURL,
			Date:     item.Date,
		})
	}
	return restroomDetailResponse{
		ID:          detail.ID,
		Name:        detail.Name,
		Floor:       detail.Floor,
		Location:    toCoordinatePayload(detail.Location),
		Rating:      detail.Rating,
		ReviewCount: detail.ReviewCount,
		Checklist:   checklist,
		Hours:       hours,
		Carousel:    detail.Carousel,
		Reviews:     reviews,
		Affordance: affordancePayload{
			CanSubmit:     detail.Affordance.CanSubmit,
			RequiresLogin: detail.Affordance.RequiresLogin,
			Submitting:    detail.Affordance.Submitting,
			SubmitLabel:   detail.Affordance.SubmitLabel,
		},
	}
}

func toSubmissionResponse(result publicapp.SubmissionResult) submissionResponse {
	attempts := make([]attemptPayload, 0, len(result.Attempts))
	for _, attempt := range result.Attempts {
		attempts = append(attempts, attemptPayload{
			Transport:   string(attempt.Transport),
			Outcome:     attempt.Outcome.String(),
			Unreachable: attempt.Unreachable,
			Message:     attempt.Message,
			DurationMS:  attempt.Duration.Milliseconds(),
		})
	}
	resp := submissionResponse{
		Outcome:     result.Outcome.String(),
		Attempts:    attempts,
		Unreachable: result.Unreachable,
		Message:     result.Message,
	}
	if result.Review != nil {
		review := toReviewResponse(*result.Review)
		resp.Review = &review
	}
	return resp
}

// upstreamStatus maps a gateway failure onto the BFF status code.
func upstreamStatus(unreachable bool) int {
	if unreachable {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}
