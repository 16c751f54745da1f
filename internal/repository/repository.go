// Package repository declares the persistence contracts shared by the
// MongoDB and in-memory stores.
package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/hivetool/internal/domain/models"
)

var (
	// ErrNotFound is returned when no document matches the lookup, including
	// documents that exist but belong to another user.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate record")
)

// Records stores one kind of beekeeping record. Every lookup and mutation
// by id is scoped to the owning user.
type Records[T any, PT models.Record[T]] interface {
	Insert(ctx context.Context, rec PT) error
	ListByOwner(ctx context.Context, owner primitive.ObjectID) ([]PT, error)
	FindOwned(ctx context.Context, id, owner primitive.ObjectID) (PT, error)
	UpdateOwned(ctx context.Context, id, owner primitive.ObjectID, set bson.D) error
	DeleteOwned(ctx context.Context, id, owner primitive.ObjectID) error
	// ListBetween returns records of every owner dated in [from, until).
	// A zero until means no upper bound.
	ListBetween(ctx context.Context, from, until time.Time) ([]PT, error)
}

// Users stores accounts.
type Users interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// UpsertFederated returns the user with the identity's email, creating
	// it atomically when absent.
	UpsertFederated(ctx context.Context, identity models.Identity, now time.Time) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
}

// Sessions stores server-side session records.
type Sessions interface {
	Find(ctx context.Context, id string) (*models.SessionRecord, error)
	Save(ctx context.Context, rec *models.SessionRecord) error
	Delete(ctx context.Context, id string) error
}
