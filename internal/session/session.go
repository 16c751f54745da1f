// Package session implements server-side sessions referenced by a signed
// cookie. The cookie carries an HS256 token whose jti is the session id;
// everything else lives in the session store.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository"
)

// CookieName is the name of the session cookie.
const CookieName = "hivetool.sid"

// ErrInvalidCookie is returned when the cookie signature or claims do not verify.
var ErrInvalidCookie = errors.New("invalid session cookie")

// Session is the request-scoped view of a session record. Mutations mark it
// dirty so Commit knows whether a write is needed.
type Session struct {
	rec     models.SessionRecord
	isNew   bool
	dirty   bool
	rotated string
}

func (s *Session) ID() string { return s.rec.ID }

// UserID returns the bound user, or the zero id when unauthenticated.
func (s *Session) UserID() primitive.ObjectID { return s.rec.UserID }

func (s *Session) Authenticated() bool { return !s.rec.UserID.IsZero() }

// Bind associates the session with a user under a fresh session id.
func (s *Session) Bind(user primitive.ObjectID) {
	if !s.isNew {
		s.rotated = s.rec.ID
	}
	s.rec.ID = uuid.NewString()
	s.rec.UserID = user
	s.rec.OAuthState = ""
	s.isNew = true
	s.dirty = true
}

func (s *Session) AddFlash(level, message string) {
	s.rec.Flashes = append(s.rec.Flashes, models.Flash{Level: level, Message: message})
	s.dirty = true
}

// Flashes returns and clears the pending flash messages.
func (s *Session) Flashes() []models.Flash {
	if len(s.rec.Flashes) == 0 {
		return nil
	}
	out := s.rec.Flashes
	s.rec.Flashes = nil
	s.dirty = true
	return out
}

func (s *Session) SetOAuthState(state string) {
	s.rec.OAuthState = state
	s.dirty = true
}

// PopOAuthState returns the stored OAuth state and clears it.
func (s *Session) PopOAuthState() string {
	state := s.rec.OAuthState
	if state != "" {
		s.rec.OAuthState = ""
		s.dirty = true
	}
	return state
}

func (s *Session) empty() bool {
	return s.rec.UserID.IsZero() && len(s.rec.Flashes) == 0 && s.rec.OAuthState == ""
}

// Options configures a Manager.
type Options struct {
	Secret     string
	TTL        time.Duration
	TouchAfter time.Duration
	Secure     bool
}

// Manager loads and commits sessions against a repository.Sessions store.
type Manager struct {
	store  repository.Sessions
	secret []byte
	opts   Options
	logger *zap.Logger
	now    func() time.Time
}

func NewManager(store repository.Sessions, opts Options, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		secret: []byte(opts.Secret),
		opts:   opts,
		logger: logger,
		now:    time.Now,
	}
}

// Load resolves the session referenced by the request cookie. A missing,
// tampered or expired cookie yields a fresh, unsaved session.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return m.fresh(), nil
	}

	id, err := m.parse(cookie.Value)
	if err != nil {
		m.logger.Debug("ignoring session cookie", zap.Error(err))
		return m.fresh(), nil
	}

	rec, err := m.store.Find(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return m.fresh(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !rec.ExpiresAt.After(m.now()) {
		return m.fresh(), nil
	}

	return &Session{rec: *rec}, nil
}

func (m *Manager) fresh() *Session {
	now := m.now().UTC()
	return &Session{
		rec: models.SessionRecord{
			ID:        uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		isNew: true,
	}
}

// Commit persists the session when it changed or has not been touched for
// TouchAfter, and writes the cookie. Empty new sessions are never stored.
func (m *Manager) Commit(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if s.rotated != "" {
		if err := m.store.Delete(ctx, s.rotated); err != nil {
			m.logger.Warn("failed to drop rotated session", zap.Error(err))
		}
		s.rotated = ""
	}

	if s.isNew && s.empty() {
		return nil
	}

	now := m.now().UTC()
	if !s.dirty && !s.isNew && now.Sub(s.rec.UpdatedAt) < m.opts.TouchAfter {
		return nil
	}

	s.rec.UpdatedAt = now
	s.rec.ExpiresAt = now.Add(m.opts.TTL)
	if err := m.store.Save(ctx, &s.rec); err != nil {
		return fmt.Errorf("commit session: %w", err)
	}

	token, err := m.sign(s.rec.ID, s.rec.ExpiresAt)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  s.rec.ExpiresAt,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	s.isNew = false
	s.dirty = false
	return nil
}

// Destroy removes the session from the store and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if err := m.store.Delete(ctx, s.rec.ID); err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	*s = *m.fresh()
	return nil
}

func (m *Manager) sign(id string, expires time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        id,
		IssuedAt:  jwt.NewNumericDate(m.now()),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session cookie: %w", err)
	}
	return token, nil
}

func (m *Manager) parse(value string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(value, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCookie
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid || claims.ID == "" {
		return "", ErrInvalidCookie
	}
	return claims.ID, nil
}
