package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SubmissionDocument はレビュー投稿 1 件の最終結果を表すドキュメント。
type SubmissionDocument struct {
	ID           primitive.ObjectID   `bson:"_id"`
	SubmissionID string               `bson:"submissionId"`
	RestroomID   string               `bson:"restroomId"`
	RestroomName string               `bson:"restroomName"`
	UserID       string               `bson:"userId"`
	ReviewID     string               `bson:"reviewId,omitempty"`
	Outcome      string               `bson:"outcome"`
	HasPhoto     bool                 `bson:"hasPhoto"`
	Message      string               `bson:"message,omitempty"`
	Attempts     []AttemptSubdocument `bson:"attempts"`
	CreatedAt    time.Time            `bson:"createdAt"`
}

// AttemptSubdocument は上流への 1 回の送信試行。
type AttemptSubdocument struct {
	Transport   string `bson:"transport"`
	Outcome     string `bson:"outcome"`
	Unreachable bool   `bson:"unreachable"`
	Message     string `bson:"message,omitempty"`
	DurationMS  int64  `bson:"durationMs"`
}
