package backend

import (
	"context"
	"net/http"
	"net/url"

	admindomain "github.com/sngm3741/ku-toilet-map/web/internal/admin/domain"
)

// AdminEmailHeader carries the caller's email alongside the ?email= query parameter.
const AdminEmailHeader = "X-User-Email"

func adminHeader(email string) http.Header {
	header := http.Header{}
	header.Set(AdminEmailHeader, email)
	return header
}

// ListAllReviews calls GET /admin/reviews.
func (c *Client) ListAllReviews(ctx context.Context, email string) ([]admindomain.Review, error) {
	var payloads []ReviewPayload
	err := c.do(ctx, request{
		op:     "list all reviews",
		method: http.MethodGet,
		path:   "/admin/reviews?email=" + url.QueryEscape(email),
		header: adminHeader(email),
	}, &payloads)
	if err != nil {
		return nil, err
	}
	reviews := make([]admindomain.Review, 0, len(payloads))
	for _, payload := range payloads {
		reviews = append(reviews, toAdminReview(payload))
	}
	return reviews, nil
}

// DeleteReview calls DELETE /admin/reviews/:id.
func (c *Client) DeleteReview(ctx context.Context, email, reviewID string) error {
	return c.do(ctx, request{
		op:     "delete review",
		method: http.MethodDelete,
		path:   "/admin/reviews/" + url.PathEscape(reviewID) + "?email=" + url.QueryEscape(email),
		header: adminHeader(email),
	}, nil)
}
