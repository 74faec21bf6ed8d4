package application

import (
	"context"
	"time"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/domain"
)

// CatalogRepository は上流 API からレストルーム一覧（レビュー・写真付き）を取得するポート。
type CatalogRepository interface {
	FetchCatalog(ctx context.Context) ([]domain.CatalogEntry, error)
}

// ReviewGateway は上流 API へのレビュー投稿・参照を抽象化するポート。
type ReviewGateway interface {
	// CreateReviewBase64 は写真を data URL として埋め込んだ JSON で投稿する。
	CreateReviewBase64(ctx context.Context, sub domain.ReviewSubmission, dataURL string) (domain.Review, error)
	// CreateReviewMultipart は multipart で投稿する。photo が nil ならフィールドのみ。
	CreateReviewMultipart(ctx context.Context, sub domain.ReviewSubmission, photo *domain.Photo) (domain.Review, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Review, error)
}

// SubmissionLog は投稿結果を記録するポート。未設定時は NopSubmissionLog を使う。
type SubmissionLog interface {
	Record(ctx context.Context, record SubmissionRecord) error
}

// SubmissionFailureReader lists recent fatal submissions for the administrator.
type SubmissionFailureReader interface {
	RecentFailures(ctx context.Context, limit int64) ([]SubmissionRecord, error)
}

// SubmissionRecord is one terminal submission outcome.
type SubmissionRecord struct {
	ID           string
	RestroomID   string
	RestroomName string
	UserID       string
	ReviewID     string
	Outcome      Outcome
	Attempts     []Attempt
	HasPhoto     bool
	Message      string
	CreatedAt    time.Time
}

// NopSubmissionLog discards every record.
type NopSubmissionLog struct{}

func (NopSubmissionLog) Record(context.Context, SubmissionRecord) error { return nil }

// CatalogQuery expresses what the map currently displays.
type CatalogQuery struct {
	Filter domain.FilterState
	// Origin が指定されると距離順（Near Me）に並べ替える。
	Origin *domain.Coordinate
}

// RankedRestroom is a displayed record plus its distance from the query origin.
type RankedRestroom struct {
	domain.Restroom
	DistanceMeters *float64
}
