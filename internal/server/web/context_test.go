package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/repository"
	"github.com/mamadbah2/hivetool/internal/repository/memory"
	"github.com/mamadbah2/hivetool/internal/session"
)

type stubResolver struct {
	users map[primitive.ObjectID]*models.User
	err   error
	calls int
}

func (s *stubResolver) Resolve(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func newTestGate(t *testing.T, resolver *stubResolver) (*gin.Engine, *memory.Sessions) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewSessions()
	mgr := session.NewManager(store, session.Options{Secret: "gate-secret", TTL: time.Hour, TouchAfter: time.Hour}, nil)
	gate := NewGate(mgr, resolver, nil)

	r := gin.New()
	r.GET("/login-as/:id", gate.Public(func(c *Context) {
		id, _ := primitive.ObjectIDFromHex(c.Param("id"))
		c.Session.Bind(id)
		c.RedirectTo("/")
	}))
	r.GET("/private", gate.Protected(func(c *Context) {
		c.String(http.StatusOK, c.User.Email)
	}))
	r.GET("/fail", gate.Public(func(c *Context) {
		c.Fail(http.StatusBadRequest, "nope")
	}))
	return r, store
}

func serve(r http.Handler, path string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestProtectedRedirectsAnonymous(t *testing.T) {
	resolver := &stubResolver{}
	r, store := newTestGate(t, resolver)

	rr := serve(r, "/private", nil)
	assert.Equal(t, http.StatusFound, rr.Code)
	assert.Equal(t, LoginPath, rr.Header().Get("Location"))
	assert.Zero(t, resolver.calls)
	assert.Zero(t, store.Len())
}

func TestProtectedLoadsBoundUser(t *testing.T) {
	id := primitive.NewObjectID()
	resolver := &stubResolver{users: map[primitive.ObjectID]*models.User{id: {ID: id, Email: "keeper@example.com"}}}
	r, _ := newTestGate(t, resolver)

	login := serve(r, "/login-as/"+id.Hex(), nil)
	require.Equal(t, http.StatusSeeOther, login.Code)

	rr := serve(r, "/private", login.Result().Cookies())
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "keeper@example.com", rr.Body.String())
}

func TestSessionOfDeletedUserIsAnonymous(t *testing.T) {
	resolver := &stubResolver{users: map[primitive.ObjectID]*models.User{}}
	r, _ := newTestGate(t, resolver)

	login := serve(r, "/login-as/"+primitive.NewObjectID().Hex(), nil)
	rr := serve(r, "/private", login.Result().Cookies())
	assert.Equal(t, http.StatusFound, rr.Code)
}

func TestResolverErrorIsServerError(t *testing.T) {
	resolver := &stubResolver{err: errors.New("mongo down")}
	r, _ := newTestGate(t, resolver)

	login := serve(r, "/login-as/"+primitive.NewObjectID().Hex(), nil)
	rr := serve(r, "/private", login.Result().Cookies())
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestFailWritesGenericError(t *testing.T) {
	r, _ := newTestGate(t, &stubResolver{})
	rr := serve(r, "/fail", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"nope"}`, rr.Body.String())
}
