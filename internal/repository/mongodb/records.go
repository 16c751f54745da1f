package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository"
)

// RecordRepository persists one record kind in its own collection.
type RecordRepository[T any, PT models.Record[T]] struct {
	coll      *mongo.Collection
	kind      models.Kind
	dateField string
}

var _ repository.Records[models.Hive, *models.Hive] = (*RecordRepository[models.Hive, *models.Hive])(nil)

// NewRecordRepository returns the repository for kind k.
func NewRecordRepository[T any, PT models.Record[T]](s *Store, k models.Kind) *RecordRepository[T, PT] {
	info := models.Info(k)
	return &RecordRepository[T, PT]{
		coll:      s.db.Collection(info.Collection),
		kind:      k,
		dateField: info.DateField,
	}
}

func ownedFilter(id, owner primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}, {Key: "userId", Value: owner}}
}

// Insert assigns an id when missing and stores the record.
func (r *RecordRepository[T, PT]) Insert(ctx context.Context, rec PT) error {
	if rec.RecordID().IsZero() {
		rec.SetRecordID(primitive.NewObjectID())
	}
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert %s: %w", r.kind, err)
	}
	return nil
}

// ListByOwner returns the owner's records, newest first.
func (r *RecordRepository[T, PT]) ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]PT, error) {
	opts := options.Find().SetSort(bson.D{{Key: r.dateField, Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, bson.D{{Key: "userId", Value: owner}}, opts)
}

// ListBetween returns every owner's records dated in [from, until).
// A zero until leaves the range open ended.
func (r *RecordRepository[T, PT]) ListBetween(ctx context.Context, from, until time.Time) ([]PT, error) {
	bounds := bson.D{{Key: "$gte", Value: from}}
	if !until.IsZero() {
		bounds = append(bounds, bson.E{Key: "$lt", Value: until})
	}
	return r.find(ctx, bson.D{{Key: r.dateField, Value: bounds}}, options.Find())
}

func (r *RecordRepository[T, PT]) find(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]PT, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", r.kind, err)
	}

	out := make([]PT, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", r.kind, err)
	}
	return out, nil
}

// FindOwned loads a record by id when it belongs to owner.
func (r *RecordRepository[T, PT]) FindOwned(ctx context.Context, id, owner primitive.ObjectID) (PT, error) {
	rec := PT(new(T))
	err := r.coll.FindOne(ctx, ownedFilter(id, owner)).Decode(rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %s: %w", r.kind, id.Hex(), err)
	}
	return rec, nil
}

// UpdateOwned applies set to the owner's record.
func (r *RecordRepository[T, PT]) UpdateOwned(ctx context.Context, id, owner primitive.ObjectID, set bson.D) error {
	res, err := r.coll.UpdateOne(ctx, ownedFilter(id, owner), bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("update %s %s: %w", r.kind, id.Hex(), err)
	}
	if res.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// DeleteOwned removes the owner's record.
func (r *RecordRepository[T, PT]) DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, ownedFilter(id, owner))
	if err != nil {
		return fmt.Errorf("delete %s %s: %w", r.kind, id.Hex(), err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
