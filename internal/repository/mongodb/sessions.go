package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository"
)

// SessionRepository keeps session records; expired ones are reaped by the
// TTL index on expiresAt.
type SessionRepository struct {
	coll *mongo.Collection
}

var _ repository.Sessions = (*SessionRepository)(nil)

func NewSessionRepository(s *Store) *SessionRepository {
	return &SessionRepository{coll: s.db.Collection(sessionsCollection)}
}

func (r *SessionRepository) Find(ctx context.Context, id string) (*models.SessionRecord, error) {
	var rec models.SessionRecord
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}
	return &rec, nil
}

func (r *SessionRepository) Save(ctx context.Context, rec *models.SessionRecord) error {
	_, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: rec.ID}}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
