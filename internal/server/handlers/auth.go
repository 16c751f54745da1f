package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/hivetool/internal/domain/models"
	"github.com/mamadbah2/hivetool/internal/server/views"
	"github.com/mamadbah2/hivetool/internal/server/web"
	authsvc "github.com/mamadbah2/hivetool/internal/service/auth"
)

const (
	homePath           = "/"
	invalidCredentials = "Invalid email or password."
	federatedFailed    = "Google sign-in failed, please try again."
)

// Authenticator is the subset of the auth service used by the handlers.
type Authenticator interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, error)
	FederatedLogin(ctx context.Context, identity models.Identity) (*models.User, error)
}

type credentials struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// AuthHandler serves local login, signup, logout and the Google code flow.
// A nil provider disables the /auth/google routes.
type AuthHandler struct {
	auth     Authenticator
	provider authsvc.IdentityProvider
	logger   *zap.Logger
}

func NewAuthHandler(auth Authenticator, provider authsvc.IdentityProvider, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{auth: auth, provider: provider, logger: logger}
}

func (h *AuthHandler) Register(r gin.IRoutes, gate *web.Gate) {
	r.GET(web.LoginPath, gate.Public(h.LoginForm))
	r.POST(web.LoginPath, gate.Public(h.Login))
	r.GET("/signup", gate.Public(h.SignupForm))
	r.POST("/signup", gate.Public(h.Signup))
	r.GET("/logout", gate.Public(h.Logout))
	r.GET("/auth/google", gate.Public(h.GoogleStart))
	r.GET("/auth/google/callback", gate.Public(h.GoogleCallback))
}

func (h *AuthHandler) LoginForm(c *web.Context) {
	if c.User != nil {
		c.RedirectTo(homePath)
		return
	}
	c.Page(http.StatusOK, views.Login, gin.H{
		"title":  "Log in",
		"google": h.provider != nil,
	})
}

func (h *AuthHandler) Login(c *web.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		c.Flash("error", invalidCredentials)
		c.RedirectTo(web.LoginPath)
		return
	}

	user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, authsvc.ErrInvalidCredentials) {
		c.Flash("error", invalidCredentials)
		c.RedirectTo(web.LoginPath)
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		c.Fail(http.StatusInternalServerError, "Could not log in.")
		return
	}

	c.Session.Bind(user.ID)
	c.User = user
	c.RedirectTo(homePath)
}

func (h *AuthHandler) SignupForm(c *web.Context) {
	c.Page(http.StatusOK, views.Signup, gin.H{"title": "Sign up"})
}

func (h *AuthHandler) Signup(c *web.Context) {
	var req credentials
	if err := c.ShouldBind(&req); err != nil {
		c.Fail(http.StatusBadRequest, "Your account could not be saved. Error: "+authsvc.ErrMissingFields.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, authsvc.ErrEmailTaken) || errors.Is(err, authsvc.ErrMissingFields) || errors.Is(err, authsvc.ErrPasswordTooLong) {
			status = http.StatusBadRequest
		} else {
			h.logger.Error("signup failed", zap.Error(err))
		}
		c.Fail(status, "Your account could not be saved. Error: "+err.Error())
		return
	}

	c.Session.Bind(user.ID)
	c.User = user
	c.RedirectTo(web.LoginPath)
}

func (h *AuthHandler) Logout(c *web.Context) {
	if err := c.Logout(); err != nil {
		h.logger.Error("logout failed", zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, web.LoginPath)
}

func (h *AuthHandler) GoogleStart(c *web.Context) {
	if h.provider == nil {
		c.Fail(http.StatusNotFound, "Google sign-in is not configured.")
		return
	}
	state := uuid.NewString()
	c.Session.SetOAuthState(state)
	c.RedirectTo(h.provider.AuthCodeURL(state))
}

func (h *AuthHandler) GoogleCallback(c *web.Context) {
	if h.provider == nil {
		c.Fail(http.StatusNotFound, "Google sign-in is not configured.")
		return
	}

	expected := c.Session.PopOAuthState()
	if expected == "" || c.Query("state") != expected {
		h.logger.Warn("oauth state mismatch")
		h.federatedFailure(c)
		return
	}
	if msg := c.Query("error"); msg != "" {
		h.logger.Info("oauth consent denied", zap.String("error", msg))
		h.federatedFailure(c)
		return
	}

	ctx := c.Request.Context()
	identity, err := h.provider.Exchange(ctx, c.Query("code"))
	if err != nil {
		h.logger.Warn("oauth exchange failed", zap.Error(err))
		h.federatedFailure(c)
		return
	}

	user, err := h.auth.FederatedLogin(ctx, identity)
	if errors.Is(err, authsvc.ErrUnverifiedEmail) {
		h.logger.Warn("federated email not verified", zap.String("provider", identity.Provider))
		h.federatedFailure(c)
		return
	}
	if err != nil {
		h.logger.Error("federated login failed", zap.Error(err))
		h.federatedFailure(c)
		return
	}

	c.Session.Bind(user.ID)
	c.User = user
	c.RedirectTo(homePath)
}

func (h *AuthHandler) federatedFailure(c *web.Context) {
	c.Flash("error", federatedFailed)
	c.RedirectTo(web.LoginPath)
}
