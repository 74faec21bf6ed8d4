package application_test

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/application"
	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
)

type stubCatalogRepo struct {
	entries []domain.CatalogEntry
	err     error
}

func (s *stubCatalogRepo) FetchCatalog(context.Context) ([]domain.CatalogEntry, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]domain.CatalogEntry(nil), s.entries...), nil
}

type gatewayError struct {
	unreachable bool
	message     string
}

func (e *gatewayError) Error() string { return "gateway: " + e.message }
func (e *gatewayError) Unreachable() bool { return e.unreachable }
func (e *gatewayError) ServerMessage() string { return e.message }

type multipartCall struct {
	sub   domain.ReviewSubmission
	photo *domain.Photo
}

type fakeGateway struct {
	mu             sync.Mutex
	base64Calls    []domain.ReviewSubmission
	base64DataURLs []string
	multipartCalls []multipartCall
	base64Err      error
	multipartErr   error
	block          chan struct{}
	waiting        atomic.Int32
}

func (g *fakeGateway) CreateReviewBase64(_ context.Context, sub domain.ReviewSubmission, dataURL string) (domain.Review, error) {
	g.mu.Lock()
	g.base64Calls = append(g.base64Calls, sub)
	g.base64DataURLs = append(g.base64DataURLs, dataURL)
	g.mu.Unlock()
	if g.base64Err != nil {
		return domain.Review{}, g.base64Err
	}
	return domain.Review{ID: "b64", Rating: sub.Rating, Comment: sub.Comment, PhotoURL: "https://drive.google.com/file/d/NEW1/view"}, nil
}

func (g *fakeGateway) CreateReviewMultipart(_ context.Context, sub domain.ReviewSubmission, photo *domain.Photo) (domain.Review, error) {
	if g.block != nil {
		g.waiting.Add(1)
		<-g.block
	}
	g.mu.Lock()
	g.multipartCalls = append(g.multipartCalls, multipartCall{sub: sub, photo: photo})
	g.mu.Unlock()
	if g.multipartErr != nil {
		return domain.Review{}, g.multipartErr
	}
	return domain.Review{ID: "mp", Rating: sub.Rating, Comment: sub.Comment}, nil
}

func (g *fakeGateway) ListByUser(_ context.Context, userID string) ([]domain.Review, error) {
	return []domain.Review{{ID: "r1", RestroomID: "1", UserID: userID, Rating: 4}}, nil
}

func (g *fakeGateway) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.base64Calls) + len(g.multipartCalls)
}

type memorySubmissionLog struct {
	mu      sync.Mutex
	records []application.SubmissionRecord
}

func (l *memorySubmissionLog) Record(_ context.Context, rec application.SubmissionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}
