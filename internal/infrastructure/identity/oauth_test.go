package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAuthConfig_Validate(t *testing.T) {
	t.Run("missing client id", func(t *testing.T) {
		cfg := &OAuthConfig{AuthURL: "https://p/auth", TokenURL: "https://p/token"}
		assert.ErrorIs(t, cfg.Validate(), ErrOAuthConfigIncomplete)
	})

	t.Run("default scopes applied", func(t *testing.T) {
		cfg := &OAuthConfig{ClientID: "id", AuthURL: "https://p/auth", TokenURL: "https://p/token"}
		require.NoError(t, cfg.Validate())
		assert.Equal(t, []string{"openid", "email", "profile"}, cfg.Scopes)
	})
}

func TestOAuthAdapter_AuthURL(t *testing.T) {
	adapter, err := NewOAuthAdapter(&OAuthConfig{
		ClientID:    "client-1",
		AuthURL:     "https://provider.example/auth",
		TokenURL:    "https://provider.example/token",
		RedirectURL: "https://app.example/callback",
	})
	require.NoError(t, err)

	url := adapter.AuthURL("state-123")
	assert.Contains(t, url, "https://provider.example/auth")
	assert.Contains(t, url, "client_id=client-1")
	assert.Contains(t, url, "state=state-123")
}

func TestOAuthAdapter_Exchange(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "code-abc", r.FormValue("code"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"provider-token","token_type":"bearer"}`))
	}))
	defer server.Close()

	adapter, err := NewOAuthAdapter(&OAuthConfig{
		ClientID: "client-1",
		AuthURL:  server.URL + "/auth",
		TokenURL: server.URL + "/token",
	})
	require.NoError(t, err)

	token, err := adapter.Exchange(context.Background(), "code-abc")
	require.NoError(t, err)
	assert.Equal(t, "provider-token", token)
}

func TestOAuthAdapter_ExchangeRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	adapter, err := NewOAuthAdapter(&OAuthConfig{
		ClientID: "client-1",
		AuthURL:  server.URL + "/auth",
		TokenURL: server.URL + "/token",
	})
	require.NoError(t, err)

	_, err = adapter.Exchange(context.Background(), "bad-code")
	assert.Error(t, err)
}
