package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/domain/models"
)

const (
	usersCollection    = "users"
	sessionsCollection = "sessions"
)

// Store owns the MongoDB client and hands out per-collection repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

// Connect dials MongoDB, verifies the connection and returns a Store bound
// to dbName.
func Connect(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*Store, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return NewStore(client.Database(dbName), logger), nil
}

// NewStore wraps an existing database handle.
func NewStore(db *mongo.Database, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{client: db.Client(), db: db, logger: logger}
}

// EnsureIndexes creates the unique email index, the per-owner record indexes
// and the session expiry index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.db.Collection(usersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create users email index: %w", err)
	}

	for _, k := range models.Kinds() {
		info := models.Info(k)
		_, err := s.db.Collection(info.Collection).Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: info.DateField, Value: -1}},
		})
		if err != nil {
			return fmt.Errorf("create %s owner index: %w", info.Collection, err)
		}
	}

	_, err = s.db.Collection(sessionsCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expiresAt", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		return fmt.Errorf("create sessions ttl index: %w", err)
	}

	s.logger.Debug("mongodb indexes ensured")
	return nil
}

// Ping checks the connection, used by the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// Close closes the MongoDB connection.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
