package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository"
)

var (
	// ErrInvalidCredentials covers unknown emails, wrong passwords and
	// accounts without a local password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingFields      = errors.New("email and password are required")
	ErrMissingEmail       = errors.New("identity provider returned no email")
	ErrUnverifiedEmail    = errors.New("identity provider email is not verified")
	ErrPasswordTooLong    = errors.New("password must be at most 72 bytes")
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

// Service verifies credentials and resolves session identities.
type Service struct {
	users  repository.Users
	logger *zap.Logger
	now    func() time.Time
	cost   int
}

func NewService(users repository.Users, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, logger: logger, now: time.Now, cost: bcrypt.DefaultCost}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a local account. The username is the email.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) > maxPasswordBytes {
		return nil, ErrPasswordTooLong
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		Username:     email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// Login checks email and password against the stored bcrypt hash.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !user.HasPassword() {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// FederatedLogin maps a provider identity to a local user by email,
// creating the user on first sign-in. The email must be verified by the
// provider since it links onto existing local accounts.
func (s *Service) FederatedLogin(ctx context.Context, identity models.Identity) (*models.User, error) {
	identity.Email = normalizeEmail(identity.Email)
	if identity.Email == "" {
		return nil, ErrMissingEmail
	}
	if !identity.EmailVerified {
		return nil, ErrUnverifiedEmail
	}

	user, err := s.users.UpsertFederated(ctx, identity, s.now().UTC())
	if err != nil {
		return nil, err
	}

	s.logger.Info("federated sign-in",
		zap.String("provider", identity.Provider),
		zap.String("user_id", user.ID.Hex()))
	return user, nil
}

// Resolve returns the user bound to a session, or repository.ErrNotFound
// when the account no longer exists.
func (s *Service) Resolve(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}
