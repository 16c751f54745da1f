// Package web carries the per-request state handed to every HTML handler:
// the loaded session and, once signed in, the user.
package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository"
	"github.com/mamadbah2/hivetool/internal/session"
)

// LoginPath is where unauthenticated requests are sent.
const LoginPath = "/login"

// Context is the explicit request context. Handlers must respond through
// Page, RedirectTo or Fail so the session is committed before the headers go out.
type Context struct {
	*gin.Context
	Session *session.Session
	User    *models.User

	gate *Gate
}

// HandlerFunc is a handler receiving the request context.
type HandlerFunc func(*Context)

// UserID returns the signed-in user's id.
func (c *Context) UserID() primitive.ObjectID {
	if c.User == nil {
		return primitive.NilObjectID
	}
	return c.User.ID
}

// Flash queues a message for the next rendered page.
func (c *Context) Flash(level, message string) {
	c.Session.AddFlash(level, message)
}

func (c *Context) commit() {
	if err := c.gate.sessions.Commit(c.Request.Context(), c.Writer, c.Session); err != nil {
		c.gate.logger.Error("failed to commit session", zap.Error(err))
	}
}

// Page renders a template with the user and pending flashes added to data.
func (c *Context) Page(status int, view string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = c.User
	data["flashes"] = c.Session.Flashes()
	c.commit()
	c.HTML(status, view, data)
}

// RedirectTo answers a form submission with 303 See Other.
func (c *Context) RedirectTo(path string) {
	c.commit()
	c.Redirect(http.StatusSeeOther, path)
}

// Fail answers with the generic JSON error object.
func (c *Context) Fail(status int, message string) {
	c.commit()
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": message})
}

// Logout destroys the session.
func (c *Context) Logout() error {
	c.User = nil
	return c.gate.sessions.Destroy(c.Request.Context(), c.Writer, c.Session)
}

// UserResolver loads the user bound to a session.
type UserResolver interface {
	Resolve(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Gate builds Contexts and enforces authentication on protected routes.
type Gate struct {
	sessions *session.Manager
	users    UserResolver
	logger   *zap.Logger
}

func NewGate(sessions *session.Manager, users UserResolver, logger *zap.Logger) *Gate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gate{sessions: sessions, users: users, logger: logger}
}

func (g *Gate) load(c *gin.Context) (*Context, bool) {
	sess, err := g.sessions.Load(c.Request.Context(), c.Request)
	if err != nil {
		g.logger.Error("failed to load session", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "session unavailable"})
		return nil, false
	}

	rc := &Context{Context: c, Session: sess, gate: g}
	if !sess.Authenticated() {
		return rc, true
	}

	user, err := g.users.Resolve(c.Request.Context(), sess.UserID())
	switch {
	case errors.Is(err, repository.ErrNotFound):
		g.logger.Warn("session bound to missing user", zap.String("user_id", sess.UserID().Hex()))
	case err != nil:
		g.logger.Error("failed to resolve session user", zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "session unavailable"})
		return nil, false
	default:
		rc.User = user
	}
	return rc, true
}

// Public wraps a handler reachable without signing in.
func (g *Gate) Public(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := g.load(c)
		if !ok {
			return
		}
		fn(rc)
	}
}

// Protected wraps a handler that requires a signed-in user. Anonymous
// requests are redirected to the login page before fn runs.
func (g *Gate) Protected(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		rc, ok := g.load(c)
		if !ok {
			return
		}
		if rc.User == nil {
			rc.commit()
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		fn(rc)
	}
}
