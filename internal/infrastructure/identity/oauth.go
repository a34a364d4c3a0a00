package identity

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

// ErrOAuthConfigIncomplete indicates required OAuth settings are missing
var ErrOAuthConfigIncomplete = errors.New("identity: oauth config incomplete")

// OAuthConfig contains configuration for the OAuth provider
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	AuthURL      string
	TokenURL     string
	RedirectURL  string
	Scopes       []string
	Logger       *zap.Logger
}

// Validate checks the configuration
func (c *OAuthConfig) Validate() error {
	if c.ClientID == "" || c.AuthURL == "" || c.TokenURL == "" {
		return ErrOAuthConfigIncomplete
	}
	if len(c.Scopes) == 0 {
		c.Scopes = []string{"openid", "email", "profile"}
	}
	return nil
}

// OAuthAdapter runs the authorization-code flow against the identity
// provider. The resulting provider access token is forwarded to the
// backend's oauth endpoint; the backend issues its own token pair.
type OAuthAdapter struct {
	config *OAuthConfig
	oauth  *oauth2.Config
	logger *zap.Logger
}

// NewOAuthAdapter creates an OAuth adapter
func NewOAuthAdapter(config *OAuthConfig) (*OAuthAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OAuthAdapter{
		config: config,
		oauth: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       config.Scopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  config.AuthURL,
				TokenURL: config.TokenURL,
			},
		},
		logger: logger,
	}, nil
}

// AuthURL returns the provider URL the user visits to authorize
func (a *OAuthAdapter) AuthURL(state string) string {
	return a.oauth.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades the authorization code for a provider access token
func (a *OAuthAdapter) Exchange(ctx context.Context, code string) (string, error) {
	tok, err := a.oauth.Exchange(ctx, code)
	if err != nil {
		a.logger.Warn("oauth code exchange failed", zap.Error(err))
		return "", fmt.Errorf("identity: oauth exchange failed: %w", err)
	}
	return tok.AccessToken, nil
}
