package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/ku-toilet-map/web/internal/admin/application"
	admindomain "github.com/sngm3741/ku-toilet-map/web/internal/admin/domain"
	"github.com/sngm3741/ku-toilet-map/web/internal/session"
)

type fakeRepo struct {
	reviews  []admindomain.Review
	listErr  error
	deleted  []string
	calls    int
	lastMail string
}

func (f *fakeRepo) ListAllReviews(_ context.Context, email string) ([]admindomain.Review, error) {
	f.calls++
	f.lastMail = email
	return f.reviews, f.listErr
}

func (f *fakeRepo) DeleteReview(_ context.Context, email, reviewID string) error {
	f.calls++
	f.lastMail = email
	f.deleted = append(f.deleted, reviewID)
	return nil
}

type fakeRemover struct{ removed []string }

func (f *fakeRemover) Remove(id string) bool {
	f.removed = append(f.removed, id)
	return true
}

var admin = application.Moderator{Email: session.AdminEmail, IsAdmin: true}

func newModeration(t *testing.T, repo *fakeRepo, remover *fakeRemover) *application.ModerationService {
	t.Helper()
	codec, err := session.NewCodec([]byte("secret"))
	require.NoError(t, err)
	return application.NewModerationService(repo, codec, remover, time.Minute, zerolog.Nop())
}

func TestModeration_NonAdminNeverCallsUpstream(t *testing.T) {
	repo := &fakeRepo{}
	svc := newModeration(t, repo, &fakeRemover{})
	student := application.Moderator{Email: "student@ku.th"}

	_, err := svc.List(context.Background(), student, admindomain.ReviewFilter{})
	assert.ErrorIs(t, err, application.ErrForbidden)
	_, err = svc.Confirm(student, "r1")
	assert.ErrorIs(t, err, application.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(context.Background(), student, "r1", "token"), application.ErrForbidden)
	assert.Zero(t, repo.calls)
}

func TestModeration_ListFilters(t *testing.T) {
	repo := &fakeRepo{reviews: []admindomain.Review{
		{ID: "1", Location: "Library", Author: "Somchai", Comment: "clean"},
		{ID: "2", Location: "Canteen", Author: "Malee", Comment: "dirty"},
	}}
	svc := newModeration(t, repo, &fakeRemover{})

	result, err := svc.List(context.Background(), admin, admindomain.ReviewFilter{Location: "Canteen"})
	require.NoError(t, err)
	require.Len(t, result.Reviews, 1)
	assert.Equal(t, "2", result.Reviews[0].ID)
	assert.Equal(t, []string{"Canteen", "Library"}, result.Locations)
	assert.Equal(t, 2, result.Total)
	assert.Equal(t, session.AdminEmail, repo.lastMail)

	repo.listErr = errors.New("boom")
	_, err = svc.List(context.Background(), admin, admindomain.ReviewFilter{})
	assert.Error(t, err)
}

func TestModeration_TwoStepDelete(t *testing.T) {
	repo := &fakeRepo{}
	remover := &fakeRemover{}
	svc := newModeration(t, repo, remover)

	err := svc.Delete(context.Background(), admin, "r1", "")
	assert.ErrorIs(t, err, application.ErrConfirmationInvalid)
	assert.Empty(t, repo.deleted)

	other, err := svc.Confirm(admin, "r2")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Delete(context.Background(), admin, "r1", other.Token), application.ErrConfirmationInvalid)

	confirmation, err := svc.Confirm(admin, "r1")
	require.NoError(t, err)
	assert.Equal(t, "r1", confirmation.ReviewID)
	require.NoError(t, svc.Delete(context.Background(), admin, "r1", confirmation.Token))
	assert.Equal(t, []string{"r1"}, repo.deleted)
	assert.Equal(t, []string{"r1"}, remover.removed)

	_, err = svc.Confirm(admin, "  ")
	assert.ErrorIs(t, err, application.ErrReviewIDRequired)
}
