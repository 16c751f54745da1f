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

// UserRepository persists accounts in the users collection.
type UserRepository struct {
	coll *mongo.Collection
}

var _ repository.Users = (*UserRepository)(nil)

// NewUserRepository returns the users repository.
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{coll: s.db.Collection(usersCollection)}
}

// Create stores a new user. A taken email yields repository.ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return repository.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id}})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

// UpsertFederated finds the user by email or inserts it in one round trip,
// so concurrent callbacks for a new email still produce a single account.
func (r *UserRepository) UpsertFederated(ctx context.Context, identity models.Identity, now time.Time) (*models.User, error) {
	filter := bson.D{{Key: "email", Value: identity.Email}}
	update := bson.D{
		{Key: "$setOnInsert", Value: bson.D{
			{Key: "username", Value: identity.Email},
			{Key: "createdAt", Value: now},
		}},
		{Key: "$set", Value: bson.D{{Key: "googleId", Value: identity.Subject}}},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var user models.User
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&user)
	if err != nil {
		return nil, fmt.Errorf("upsert federated user: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*models.User, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "email", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*models.User, 0)
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}
