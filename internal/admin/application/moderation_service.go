package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	admindomain "github.com/sngm3741/ku-toilet-map/web/internal/admin/domain"
)

var (
	// ErrForbidden is returned before any upstream call when the moderator is not the administrator.
	ErrForbidden           = errors.New("administrator access required")
	ErrReviewIDRequired    = errors.New("review id is required")
	ErrConfirmationInvalid = errors.New("delete confirmation is missing, expired or for another review")
)

// DefaultConfirmationTTL bounds the gap between the two delete steps.
const DefaultConfirmationTTL = 2 * time.Minute

// ModerationService はレビュー一覧・絞り込み・二段階削除を提供する管理者向けユースケース。
type ModerationService struct {
	repo    ReviewRepository
	signer  ConfirmationSigner
	remover ReviewRemover
	ttl     time.Duration
	logger  zerolog.Logger
}

func NewModerationService(repo ReviewRepository, signer ConfirmationSigner, remover ReviewRemover, ttl time.Duration, logger zerolog.Logger) *ModerationService {
	if ttl <= 0 {
		ttl = DefaultConfirmationTTL
	}
	return &ModerationService{
		repo:    repo,
		signer:  signer,
		remover: remover,
		ttl:     ttl,
		logger:  logger.With().Str("component", "moderation").Logger(),
	}
}

// List fetches every review and applies the text and location filters locally.
func (s *ModerationService) List(ctx context.Context, moderator Moderator, filter admindomain.ReviewFilter) (ListResult, error) {
	if !moderator.IsAdmin {
		return ListResult{}, ErrForbidden
	}
	reviews, err := s.repo.ListAllReviews(ctx, moderator.Email)
	if err != nil {
		return ListResult{}, fmt.Errorf("list reviews: %w", err)
	}
	return ListResult{
		Reviews:   filter.Apply(reviews),
		Locations: admindomain.Locations(reviews),
		Total:     len(reviews),
	}, nil
}

// Confirm issues the token required by Delete.
func (s *ModerationService) Confirm(moderator Moderator, reviewID string) (Confirmation, error) {
	if !moderator.IsAdmin {
		return Confirmation{}, ErrForbidden
	}
	reviewID = strings.TrimSpace(reviewID)
	if reviewID == "" {
		return Confirmation{}, ErrReviewIDRequired
	}
	token, expires, err := s.signer.IssueConfirmation(reviewID, moderator.Email, s.ttl)
	if err != nil {
		return Confirmation{}, err
	}
	return Confirmation{ReviewID: reviewID, Token: token, ExpiresAt: expires}, nil
}

// Delete removes the review upstream, then from the local review index without re-fetching.
func (s *ModerationService) Delete(ctx context.Context, moderator Moderator, reviewID, confirmation string) error {
	if !moderator.IsAdmin {
		return ErrForbidden
	}
	reviewID = strings.TrimSpace(reviewID)
	if reviewID == "" {
		return ErrReviewIDRequired
	}
	if err := s.signer.VerifyConfirmation(confirmation, reviewID, moderator.Email); err != nil {
		return fmt.Errorf("%w: %v", ErrConfirmationInvalid, err)
	}
	if err := s.repo.DeleteReview(ctx, moderator.Email, reviewID); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if s.remover != nil {
		s.remover.Remove(reviewID)
	}
	s.logger.Info().Str("reviewId", reviewID).Msg("review deleted by administrator")
	return nil
}
