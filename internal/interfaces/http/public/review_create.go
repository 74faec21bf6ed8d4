package public

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/ku-toilet-map/web/internal/infrastructure/observability"
	"github.com/sngm3741/ku-toilet-map/web/internal/interfaces/http/common"
	publicapp "github.com/sngm3741/ku-toilet-map/web/internal/public/application"
	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
)

const submissionTimeout = 60 * time.Second

var (
	errPhotoTooLarge = errors.New("photo must be 10 MB or smaller")
	errInvalidRating = errors.New("rating must be a number")
)

// reviewCreateHandler は評価・コメント・写真を受け取り投稿フローを実行する。
// multipart/form-data と JSON (写真は data URL) の両方を受け付ける。
func (h *Handler) reviewCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := common.SessionFromContext(r.Context())
		if !sess.Authenticated() {
			common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]any{
				"error":       common.MessageLoginRequired,
				"loginPrompt": true,
			})
			return
		}

		cmd, err := parseReviewCommand(w, r)
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, errPhotoTooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			common.WriteError(h.logger, w, status, err.Error())
			return
		}
		cmd.RestroomID = strings.TrimSpace(chi.URLParam(r, "id"))
		cmd.Author = &domain.Author{ID: sess.User.ID, Name: sess.DisplayName()}

		ctx, cancel := context.WithTimeout(r.Context(), submissionTimeout)
		defer cancel()

		result, err := h.submissions.Submit(ctx, cmd)
		if err != nil {
			h.writeSubmissionError(w, r, err)
			return
		}
		logger := observability.RequestScoped(r.Context(), h.logger)
		logger.Info().
			Str("restroomId", cmd.RestroomID).
			Str("userId", cmd.Author.ID).
			Str("outcome", result.Outcome.String()).
			Int("attempts", len(result.Attempts)).
			Msg("review submission finished")

		status := http.StatusCreated
		if result.Outcome != publicapp.OutcomeSuccess {
			status = upstreamStatus(result.Unreachable)
		}
		common.WriteJSON(h.logger, w, status, toSubmissionResponse(result))
	}
}

func (h *Handler) writeSubmissionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, publicapp.ErrLoginRequired):
		common.WriteJSON(h.logger, w, http.StatusUnauthorized, map[string]any{
			"error":       common.MessageLoginRequired,
			"loginPrompt": true,
		})
	case errors.Is(err, publicapp.ErrRatingRequired):
		common.WriteError(h.logger, w, http.StatusBadRequest, "Please select a rating")
	case errors.Is(err, publicapp.ErrRatingOutOfRange):
		common.WriteError(h.logger, w, http.StatusBadRequest, "Rating must be between 1 and 5")
	case errors.Is(err, publicapp.ErrCommentRequired):
		common.WriteError(h.logger, w, http.StatusBadRequest, "Please write a comment")
	case errors.Is(err, publicapp.ErrRestroomNotFound):
		common.WriteError(h.logger, w, http.StatusNotFound, "Restroom not found")
	case errors.Is(err, publicapp.ErrSubmissionInFlight):
		common.WriteError(h.logger, w, http.StatusConflict, "Your previous review is still being submitted")
	default:
		logger := observability.RequestScoped(r.Context(), h.logger)
		logger.Error().Err(err).Msg("review submission failed")
		common.WriteError(h.logger, w, http.StatusInternalServerError, "Failed to submit review")
	}
}

func parseReviewCommand(w http.ResponseWriter, r *http.Request) (publicapp.SubmitReviewCommand, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(mediaType, "multipart/") {
		return parseMultipartReview(w, r)
	}
	return parseJSONReview(w, r)
}

func parseMultipartReview(w http.ResponseWriter, r *http.Request) (publicapp.SubmitReviewCommand, error) {
	r.Body = http.MaxBytesReader(w, r.Body, common.MaxPhotoBytes+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return publicapp.SubmitReviewCommand{}, errPhotoTooLarge
		}
		return publicapp.SubmitReviewCommand{}, errors.New(common.MessageInvalidBody)
	}

	rating, err := parseRating(r.FormValue("rating"))
	if err != nil {
		return publicapp.SubmitReviewCommand{}, err
	}
	cmd := publicapp.SubmitReviewCommand{Rating: rating, Comment: r.FormValue("comment")}

	file, header, err := r.FormFile("photo")
	if errors.Is(err, http.ErrMissingFile) {
		return cmd, nil
	}
	if err != nil {
		return publicapp.SubmitReviewCommand{}, errors.New(common.MessageInvalidBody)
	}
	defer file.Close()

	if header.Size > common.MaxPhotoBytes {
		return publicapp.SubmitReviewCommand{}, errPhotoTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, common.MaxPhotoBytes+1))
	if err != nil {
		return publicapp.SubmitReviewCommand{}, errors.New(common.MessageInvalidBody)
	}
	if len(data) > common.MaxPhotoBytes {
		return publicapp.SubmitReviewCommand{}, errPhotoTooLarge
	}
	if len(data) > 0 {
		cmd.Photo = &domain.Photo{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
		if cmd.Photo.ContentType == "" || cmd.Photo.ContentType == "application/octet-stream" {
			cmd.Photo.ContentType = http.DetectContentType(data)
		}
	}
	return cmd, nil
}

func parseJSONReview(w http.ResponseWriter, r *http.Request) (publicapp.SubmitReviewCommand, error) {
	r.Body = http.MaxBytesReader(w, r.Body, common.MaxReviewRequestBody)
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return publicapp.SubmitReviewCommand{}, errPhotoTooLarge
		}
		return publicapp.SubmitReviewCommand{}, errors.New(common.MessageInvalidBody)
	}

	cmd := publicapp.SubmitReviewCommand{Rating: req.Rating, Comment: req.Comment}
	if strings.TrimSpace(req.Photo) == "" {
		return cmd, nil
	}
	filename := strings.TrimSpace(req.PhotoName)
	if filename == "" {
		filename = "photo"
	}
	photo, err := domain.DecodeDataURL(strings.TrimSpace(req.Photo), filename)
	if err != nil {
		return publicapp.SubmitReviewCommand{}, errors.New("photo must be a base64 data URL")
	}
	if len(photo.Data) > common.MaxPhotoBytes {
		return publicapp.SubmitReviewCommand{}, errPhotoTooLarge
	}
	cmd.Photo = &photo
	return cmd, nil
}

// parseRating treats a missing rating as zero so validation reports it as unset.
func parseRating(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	rating, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errInvalidRating
	}
	return rating, nil
}
