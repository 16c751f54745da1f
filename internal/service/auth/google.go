package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/mamadbah2/hivetool/internal/config"
	"github.com/mamadbah2/hivetool/internal/domain/models"
)

// IdentityProvider is a federated sign-in backend using the OAuth2 code flow.
type IdentityProvider interface {
	Name() string
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (models.Identity, error)
}

// GoogleProvider signs users in with their Google account.
type GoogleProvider struct {
	oauth   *oauth2.Config
	apiOpts []option.ClientOption
}

// NewGoogleProvider builds the provider from the configured OAuth client.
func NewGoogleProvider(cfg config.GoogleConfig) *GoogleProvider {
	return &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes: []string{
				"openid",
				oauth2api.UserinfoEmailScope,
				oauth2api.UserinfoProfileScope,
			},
			Endpoint: google.Endpoint,
		},
	}
}

func (p *GoogleProvider) Name() string { return "google" }

func (p *GoogleProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("prompt", "select_account"))
}

// Exchange trades the callback code for a token and reads the userinfo.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (models.Identity, error) {
	if code == "" {
		return models.Identity{}, errors.New("missing authorization code")
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return models.Identity{}, fmt.Errorf("exchange code: %w", err)
	}

	opts := append([]option.ClientOption{option.WithTokenSource(p.oauth.TokenSource(ctx, token))}, p.apiOpts...)
	svc, err := oauth2api.NewService(ctx, opts...)
	if err != nil {
		return models.Identity{}, fmt.Errorf("init userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return models.Identity{}, fmt.Errorf("fetch userinfo: %w", err)
	}

	return models.Identity{
		Provider:      p.Name(),
		Subject:       info.Id,
		Email:         info.Email,
		Name:          info.Name,
		EmailVerified: info.VerifiedEmail != nil && *info.VerifiedEmail,
	}, nil
}
