package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lifeweavers/caseflow/internal/core/domain"
)

const collectionThreads = "message_threads"

type ThreadRepository struct {
	col *mongo.Collection
}

func NewThreadRepository(db *mongo.Database) *ThreadRepository {
	return &ThreadRepository{col: db.Collection(collectionThreads)}
}

// ListByParticipant returns the user's threads, most recent activity first.
func (r *ThreadRepository) ListByParticipant(ctx context.Context, userID string) ([]*domain.MessageThread, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx,
		bson.M{"participant_ids": userID},
		options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var threads []*domain.MessageThread
	if err := cur.All(ctx, &threads); err != nil {
		return nil, err
	}
	return threads, nil
}

func (r *ThreadRepository) Create(ctx context.Context, thread *domain.MessageThread) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, thread)
	return err
}
