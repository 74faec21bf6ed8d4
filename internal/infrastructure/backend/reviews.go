package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
)

// CreateReviewBase64 calls POST /review/base64 with the photo embedded as a data URL.
func (c *Client) CreateReviewBase64(ctx context.Context, sub domain.ReviewSubmission, dataURL string) (domain.Review, error) {
	body, err := jsonBody(Base64ReviewRequest{
		RestroomID:  sub.RestroomID,
		UserID:      sub.UserID,
		Rating:      sub.Rating,
		Comment:     sub.Comment,
		PhotoBase64: dataURL,
	})
	if err != nil {
		return domain.Review{}, &Error{Kind: KindDecode, Op: "create review (base64)", Err: err}
	}

	var resp CreateReviewResponse
	err = c.do(ctx, request{
		op:          "create review (base64)",
		method:      http.MethodPost,
		path:        "/review/base64",
		body:        body,
		contentType: "application/json",
	}, &resp)
	if err != nil {
		return domain.Review{}, err
	}
	return toCreatedReview(resp), nil
}

// CreateReviewMultipart calls POST /review. photo may be nil.
func (c *Client) CreateReviewMultipart(ctx context.Context, sub domain.ReviewSubmission, photo *domain.Photo) (domain.Review, error) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	fields := [][2]string{
		{"restroom_id", sub.RestroomID},
		{"user_id", sub.UserID},
		{"rating", strconv.Itoa(sub.Rating)},
		{"comment", sub.Comment},
	}
	for _, field := range fields {
		if err := writer.WriteField(field[0], field[1]); err != nil {
			return domain.Review{}, &Error{Kind: KindDecode, Op: "create review (multipart)", Err: err}
		}
	}
	if photo != nil {
		if err := writePhotoPart(writer, *photo); err != nil {
			return domain.Review{}, &Error{Kind: KindDecode, Op: "create review (multipart)", Err: err}
		}
	}
	if err := writer.Close(); err != nil {
		return domain.Review{}, &Error{Kind: KindDecode, Op: "create review (multipart)", Err: err}
	}

	var resp CreateReviewResponse
	err := c.do(ctx, request{
		op:          "create review (multipart)",
		method:      http.MethodPost,
		path:        "/review",
		body:        buf,
		contentType: writer.FormDataContentType(),
	}, &resp)
	if err != nil {
		return domain.Review{}, err
	}
	return toCreatedReview(resp), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func writePhotoPart(writer *multipart.Writer, photo domain.Photo) error {
	filename := strings.TrimSpace(photo.Filename)
	if filename == "" {
		filename = "photo"
	}
	contentType := photo.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(photo.Data)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="photo"; filename="%s"`, quoteEscaper.Replace(filename)))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = part.Write(photo.Data)
	return err
}

// ListByUser calls GET /reviews/user/:userId.
func (c *Client) ListByUser(ctx context.Context, userID string) ([]domain.Review, error) {
	var payloads []ReviewPayload
	err := c.do(ctx, request{
		op:     "list user reviews",
		method: http.MethodGet,
		path:   "/reviews/user/" + url.PathEscape(userID),
	}, &payloads)
	if err != nil {
		return nil, err
	}
	reviews := make([]domain.Review, 0, len(payloads))
	for _, payload := range payloads {
		reviews = append(reviews, toReview(payload))
	}
	return reviews, nil
}
