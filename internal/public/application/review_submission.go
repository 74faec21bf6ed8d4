package application

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
)

// Outcome classifies a single attempt or a whole submission.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomeRecoverableFailure はフォールバックで回復できる失敗（base64 経路の失敗）。
	OutcomeRecoverableFailure
	OutcomeFatalFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeRecoverableFailure:
		return "recoverable_failure"
	case OutcomeFatalFailure:
		return "fatal_failure"
	}
	return "unknown"
}

// ParseOutcome reverses Outcome.String. Unknown values map to OutcomeFatalFailure.
func ParseOutcome(value string) Outcome {
	switch value {
	case "success":
		return OutcomeSuccess
	case "recoverable_failure":
		return OutcomeRecoverableFailure
	}
	return OutcomeFatalFailure
}

// Transport names the upstream endpoint an attempt used.
type Transport string

const (
	TransportBase64    Transport = "base64"
	TransportMultipart Transport = "multipart"
)

// Attempt records one upstream call made during a submission.
type Attempt struct {
	Transport   Transport
	Outcome     Outcome
	Unreachable bool
	Message     string
	Duration    time.Duration
}

// SubmissionResult is the terminal result of a submission: Success or FatalFailure.
// A recovered base64 failure appears as an OutcomeRecoverableFailure attempt.
type SubmissionResult struct {
	Outcome     Outcome
	Review      *domain.Review
	Attempts    []Attempt
	Unreachable bool
	Message     string
}

// SubmitReviewCommand captures the inputs of the submission form.
type SubmitReviewCommand struct {
	RestroomID string
	// Author が nil の場合は未ログイン扱い。
	Author  *domain.Author
	Rating  int
	Comment string
	Photo   *domain.Photo
}

// ReviewSubmissionService は前提条件の検証、base64 優先・multipart フォールバックの投稿、
// 成功時のレビュー追記を担うユースケース。
type ReviewSubmissionService struct {
	catalog *CatalogService
	book    *ReviewBook
	gateway ReviewGateway
	log     SubmissionLog
	logger  zerolog.Logger
	now     func() time.Time

	inFlight sync.Map
}

func NewReviewSubmissionService(catalog *CatalogService, book *ReviewBook, gateway ReviewGateway, log SubmissionLog, logger zerolog.Logger) *ReviewSubmissionService {
	if log == nil {
		log = NopSubmissionLog{}
	}
	return &ReviewSubmissionService{
		catalog: catalog,
		book:    book,
		gateway: gateway,
		log:     log,
		logger:  logger.With().Str("component", "review_submission").Logger(),
		now:     time.Now,
	}
}

// Validate checks the preconditions that must hold before any network call.
func Validate(cmd SubmitReviewCommand) error {
	if cmd.Author == nil || strings.TrimSpace(cmd.Author.ID) == "" {
		return ErrLoginRequired
	}
	if cmd.Rating == 0 {
		return ErrRatingRequired
	}
	if cmd.Rating < 1 || cmd.Rating > 5 {
		return ErrRatingOutOfRange
	}
	if strings.TrimSpace(cmd.Comment) == "" {
		return ErrCommentRequired
	}
	return nil
}

// Submit runs the submission flow. A returned error means the flow never reached the
// upstream (validation, unknown restroom, concurrent submission); upstream failures
// are reported through the result instead.
func (s *ReviewSubmissionService) Submit(ctx context.Context, cmd SubmitReviewCommand) (SubmissionResult, error) {
	if err := Validate(cmd); err != nil {
		return SubmissionResult{}, err
	}
	restroom, ok := s.catalog.Find(cmd.RestroomID)
	if !ok {
		return SubmissionResult{}, ErrRestroomNotFound
	}

	if _, busy := s.inFlight.LoadOrStore(cmd.Author.ID, struct{}{}); busy {
		return SubmissionResult{}, ErrSubmissionInFlight
	}
	defer s.inFlight.Delete(cmd.Author.ID)

	sub := domain.ReviewSubmission{
		RestroomID: restroom.ID,
		UserID:     cmd.Author.ID,
		Rating:     cmd.Rating,
		Comment:    strings.TrimSpace(cmd.Comment),
	}

	var result SubmissionResult
	if cmd.Photo != nil {
		result = s.submitWithPhoto(ctx, sub, *cmd.Photo)
	} else {
		result = s.attemptMultipart(ctx, sub, nil, result)
	}

	if result.Outcome == OutcomeSuccess {
		review := s.completeReview(*result.Review, restroom, cmd)
		result.Review = &review
		s.book.Append(restroom.Name, review)
	}

	s.record(ctx, restroom, cmd, result)
	return result, nil
}

func (s *ReviewSubmissionService) submitWithPhoto(ctx context.Context, sub domain.ReviewSubmission, photo domain.Photo) SubmissionResult {
	dataURL := domain.EncodeDataURL(photo)

	started := s.now()
	review, err := s.gateway.CreateReviewBase64(ctx, sub, dataURL)
	if err == nil {
		return SubmissionResult{
			Outcome:  OutcomeSuccess,
			Review:   &review,
			Attempts: []Attempt{{Transport: TransportBase64, Outcome: OutcomeSuccess, Duration: s.now().Sub(started)}},
		}
	}

	result := SubmissionResult{Attempts: []Attempt{{
		Transport:   TransportBase64,
		Outcome:     OutcomeRecoverableFailure,
		Unreachable: IsUnreachable(err),
		Message:     UserMessage(err),
		Duration:    s.now().Sub(started),
	}}}
	s.logger.Warn().Err(err).Str("restroomId", sub.RestroomID).Msg("base64 submission failed, falling back to multipart")

	// フォールバックは埋め込んだ data URL からバイナリを復元して送る。
	decoded, decodeErr := domain.DecodeDataURL(dataURL, photo.Filename)
	if decodeErr != nil {
		result.Outcome = OutcomeFatalFailure
		result.Message = decodeErr.Error()
		return result
	}
	return s.attemptMultipart(ctx, sub, &decoded, result)
}

func (s *ReviewSubmissionService) attemptMultipart(ctx context.Context, sub domain.ReviewSubmission, photo *domain.Photo, result SubmissionResult) SubmissionResult {
	started := s.now()
	review, err := s.gateway.CreateReviewMultipart(ctx, sub, photo)
	attempt := Attempt{Transport: TransportMultipart, Duration: s.now().Sub(started)}
	if err == nil {
		attempt.Outcome = OutcomeSuccess
		result.Attempts = append(result.Attempts, attempt)
		result.Outcome = OutcomeSuccess
		result.Review = &review
		return result
	}

	attempt.Outcome = OutcomeFatalFailure
	attempt.Unreachable = IsUnreachable(err)
	attempt.Message = UserMessage(err)
	result.Attempts = append(result.Attempts, attempt)
	result.Outcome = OutcomeFatalFailure
	result.Unreachable = attempt.Unreachable
	result.Message = attempt.Message
	s.logger.Error().Err(err).Str("restroomId", sub.RestroomID).Msg("review submission failed")
	return result
}

// completeReview fills fields the upstream response may omit.
func (s *ReviewSubmissionService) completeReview(review domain.Review, restroom domain.Restroom, cmd SubmitReviewCommand) domain.Review {
	review.RestroomID = restroom.ID
	review.RestroomName = restroom.Name
	if review.UserID == "" {
		review.UserID = cmd.Author.ID
	}
	if review.Author == "" {
		review.Author = cmd.Author.Name
	}
	if review.Rating == 0 {
		review.Rating = cmd.Rating
	}
	if review.Comment == "" {
		review.Comment = strings.TrimSpace(cmd.Comment)
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = s.now().UTC()
	}
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	review.PhotoURL = domain.NormalizePhotoURL(review.PhotoURL)
	return review
}

func (s *ReviewSubmissionService) record(ctx context.Context, restroom domain.Restroom, cmd SubmitReviewCommand, result SubmissionResult) {
	rec := SubmissionRecord{
		ID:           uuid.NewString(),
		RestroomID:   restroom.ID,
		RestroomName: restroom.Name,
		UserID:       cmd.Author.ID,
		Outcome:      result.Outcome,
		Attempts:     result.Attempts,
		HasPhoto:     cmd.Photo != nil,
		Message:      result.Message,
		CreatedAt:    s.now().UTC(),
	}
	if result.Review != nil {
		rec.ReviewID = result.Review.ID
	}
	if err := s.log.Record(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record submission outcome")
	}
}

// InFlight reports whether the user has a submission in progress.
func (s *ReviewSubmissionService) InFlight(userID string) bool {
	_, busy := s.inFlight.Load(userID)
	return busy
}

// History returns the reviews the given user has written ("My review").
func (s *ReviewSubmissionService) History(ctx context.Context, userID string) ([]domain.Review, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrLoginRequired
	}
	reviews, err := s.gateway.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range reviews {
		reviews[i].PhotoURL = domain.NormalizePhotoURL(reviews[i].PhotoURL)
		if reviews[i].RestroomName == "" {
			if record, ok := s.catalog.Find(reviews[i].RestroomID); ok {
				reviews[i].RestroomName = record.Name
			}
		}
	}
	return reviews, nil
}
