package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/ku-toilet-map/web/internal/public/application"
)

// SubmissionLogRepository は投稿結果を MongoDB に記録する。
type SubmissionLogRepository struct {
	collection *mongo.Collection
}

func NewSubmissionLogRepository(db *mongo.Database, collectionName string) *SubmissionLogRepository {
	return &SubmissionLogRepository{collection: db.Collection(collectionName)}
}

// Record inserts one outcome document.
func (r *SubmissionLogRepository) Record(ctx context.Context, record application.SubmissionRecord) error {
	if _, err := r.collection.InsertOne(ctx, toSubmissionDocument(record)); err != nil {
		return fmt.Errorf("insert submission log: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes used when investigating a user's failures.
func (r *SubmissionLogRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "outcome", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "submissionId", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	return err
}

// RecentFailures returns the latest fatal outcomes, newest first.
func (r *SubmissionLogRepository) RecentFailures(ctx context.Context, limit int64) ([]application.SubmissionRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"outcome": application.OutcomeFatalFailure.String()}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []SubmissionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	records := make([]application.SubmissionRecord, 0, len(docs))
	for _, doc := range docs {
		records = append(records, fromSubmissionDocument(doc))
	}
	return records, nil
}

func toSubmissionDocument(record application.SubmissionRecord) SubmissionDocument {
	attempts := make([]AttemptSubdocument, 0, len(record.Attempts))
	for _, attempt := range record.Attempts {
		attempts = append(attempts, AttemptSubdocument{
			Transport:   string(attempt.Transport),
			Outcome:     attempt.Outcome.String(),
			Unreachable: attempt.Unreachable,
			Message:     attempt.Message,
			DurationMS:  attempt.Duration.Milliseconds(),
		})
	}
	return SubmissionDocument{
		ID:           primitive.NewObjectID(),
		SubmissionID: record.ID,
		RestroomID:   record.RestroomID,
		RestroomName: record.RestroomName,
		UserID:       record.UserID,
		ReviewID:     record.ReviewID,
		Outcome:      record.Outcome.String(),
		HasPhoto:     record.HasPhoto,
		Message:      record.Message,
		Attempts:     attempts,
		CreatedAt:    record.CreatedAt,
	}
}

func fromSubmissionDocument(doc SubmissionDocument) application.SubmissionRecord {
	attempts := make([]application.Attempt, 0, len(doc.Attempts))
	for _, attempt := range doc.Attempts {
		attempts = append(attempts, application.Attempt{
			Transport:   application.Transport(attempt.Transport),
			Outcome:     application.ParseOutcome(attempt.Outcome),
			Unreachable: attempt.Unreachable,
			Message:     attempt.Message,
			Duration:    time.Duration(attempt.DurationMS) * time.Millisecond,
		})
	}
	return application.SubmissionRecord{
		ID:           doc.SubmissionID,
		RestroomID:   doc.RestroomID,
		RestroomName: doc.RestroomName,
		UserID:       doc.UserID,
		ReviewID:     doc.ReviewID,
		Outcome:      application.ParseOutcome(doc.Outcome),
		Attempts:     attempts,
		HasPhoto:     doc.HasPhoto,
		Message:      doc.Message,
		CreatedAt:    doc.CreatedAt,
	}
}
