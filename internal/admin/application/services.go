package application

import (
	"context"
	"time"

	admindomain "github.com/sngm3741/ku-toilet-map/web/internal/admin/domain"
)

// ReviewRepository は上流の管理用エンドポイントを抽象化するポート。
// 認証は管理者メールアドレスをクエリとヘッダーの両方で渡す方式。
type ReviewRepository interface {
	ListAllReviews(ctx context.Context, email string) ([]admindomain.Review, error)
	DeleteReview(ctx context.Context, email, reviewID string) error
}

// ConfirmationSigner は削除確認トークンを発行・検証する。
type ConfirmationSigner interface {
	IssueConfirmation(reviewID, email string, ttl time.Duration) (string, time.Time, error)
	VerifyConfirmation(token, reviewID, email string) error
}

// ReviewRemover は削除成功後にローカルのレビュー索引から取り除く。
type ReviewRemover interface {
	Remove(reviewID string) bool
}

// Moderator identifies the signed-in user attempting an admin action.
type Moderator struct {
	Email   string
	IsAdmin bool
}

// ListResult is the filtered moderation list plus the location selector options.
type ListResult struct {
	Reviews   []admindomain.Review
	Locations []string
	Total     int
}

// Confirmation is the first step of a two-step delete.
type Confirmation struct {
	ReviewID  string
	Token     string
	ExpiresAt time.Time
}
