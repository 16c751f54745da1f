package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository"
)

type mockUsers struct{ mock.Mock }

func (m *mockUsers) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	args := m.Called(ctx, id)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) UpsertFederated(ctx context.Context, identity models.Identity, now time.Time) (*models.User, error) {
	args := m.Called(ctx, identity, now)
	if u, ok := args.Get(0).(*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsers) List(ctx context.Context) ([]*models.User, error) {
	args := m.Called(ctx)
	if u, ok := args.Get(0).([]*models.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repository.Users = (*mockUsers)(nil)

func newTestService(m *mockUsers) *Service {
	svc := NewService(m, nil)
	svc.cost = bcrypt.MinCost
	return svc
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password and uses email as username", func(t *testing.T) {
		m := new(mockUsers)
		m.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
			return u.Email == "keeper@example.com" &&
				u.Username == "keeper@example.com" &&
				bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("hunter2")) == nil
		})).Return(nil).Once()

		user, err := newTestService(m).Register(ctx, "  Keeper@Example.com ", "hunter2")
		require.NoError(t, err)
		assert.Equal(t, "keeper@example.com", user.Email)
		m.AssertExpectations(t)
	})

	t.Run("duplicate email", func(t *testing.T) {
		m := new(mockUsers)
		m.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, err := newTestService(m).Register(ctx, "keeper@example.com", "pw")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := newTestService(new(mockUsers)).Register(ctx, "", "pw")
		assert.ErrorIs(t, err, ErrMissingFields)
	})

	t.Run("password longer than bcrypt accepts", func(t *testing.T) {
		m := new(mockUsers)
		_, err := newTestService(m).Register(ctx, "keeper@example.com", strings.Repeat("x", 73))
		assert.ErrorIs(t, err, ErrPasswordTooLong)
		m.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	stored := &models.User{ID: primitive.NewObjectID(), Email: "alice@example.com", PasswordHash: string(hash)}

	t.Run("valid credentials", func(t *testing.T) {
		m := new(mockUsers)
		m.On("FindByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Once()

		user, err := newTestService(m).Login(ctx, "Alice@example.com", "secret")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, user.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		m := new(mockUsers)
		m.On("FindByEmail", mock.Anything, "alice@example.com").Return(stored, nil).Once()

		_, err := newTestService(m).Login(ctx, "alice@example.com", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		m := new(mockUsers)
		m.On("FindByEmail", mock.Anything, "bob@example.com").Return(nil, repository.ErrNotFound).Once()

		_, err := newTestService(m).Login(ctx, "bob@example.com", "secret")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("federated account has no password", func(t *testing.T) {
		m := new(mockUsers)
		m.On("FindByEmail", mock.Anything, "fed@example.com").
			Return(&models.User{ID: primitive.NewObjectID(), Email: "fed@example.com", GoogleID: "g"}, nil).Once()

		_, err := newTestService(m).Login(ctx, "fed@example.com", "")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		m := new(mockUsers)
		boom := errors.New("boom")
		m.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, boom).Once()

		_, err := newTestService(m).Login(ctx, "alice@example.com", "secret")
		assert.ErrorIs(t, err, boom)
	})
}

func TestService_FederatedLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes email before upsert", func(t *testing.T) {
		m := new(mockUsers)
		want := &models.User{ID: primitive.NewObjectID(), Email: "fed@example.com"}
		m.On("UpsertFederated", mock.Anything, mock.MatchedBy(func(id models.Identity) bool {
			return id.Email == "fed@example.com" && id.Subject == "g-42"
		}), mock.Anything).Return(want, nil).Once()

		user, err := newTestService(m).FederatedLogin(ctx, models.Identity{Provider: "google", Subject: "g-42", Email: "Fed@Example.com", EmailVerified: true})
		require.NoError(t, err)
		assert.Equal(t, want.ID, user.ID)
		m.AssertExpectations(t)
	})

	t.Run("missing email", func(t *testing.T) {
		_, err := newTestService(new(mockUsers)).FederatedLogin(ctx, models.Identity{Provider: "google", Subject: "g"})
		assert.ErrorIs(t, err, ErrMissingEmail)
	})

	t.Run("unverified email", func(t *testing.T) {
		m := new(mockUsers)
		_, err := newTestService(m).FederatedLogin(ctx, models.Identity{Provider: "google", Subject: "g", Email: "fed@example.com"})
		assert.ErrorIs(t, err, ErrUnverifiedEmail)
		m.AssertNotCalled(t, "UpsertFederated", mock.Anything, mock.Anything, mock.Anything)
	})
}
