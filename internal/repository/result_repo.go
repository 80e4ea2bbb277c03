package repository

import (
	"adaptivequiz/internal/model"
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ResultRepo archives completed quiz sessions
type ResultRepo interface {
	Save(ctx context.Context, result *model.QuizResult) error
	GetBySession(ctx context.Context, sessionID string) (*model.QuizResult, error)
	ListRecent(ctx context.Context, limit int64) ([]*model.QuizResult, error)
}

type resultRepo struct {
	collection *mongo.Collection
}

// NewResultRepo creates a new result repository
func NewResultRepo(db *mongo.Database) ResultRepo {
	return &resultRepo{
		collection: db.Collection("quiz_results"),
	}
}

// Save upserts by session id, so completing twice keeps one record
func (r *resultRepo) Save(ctx context.Context, result *model.QuizResult) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": result.SessionID}, result, opts)
	return err
}

func (r *resultRepo) GetBySession(ctx context.Context, sessionID string) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&result)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepo) ListRecent(ctx context.Context, limit int64) ([]*model.QuizResult, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "completedAt", Value: -1}}).
		SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	results := []*model.QuizResult{}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
