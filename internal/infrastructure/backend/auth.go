package backend

import (
	"context"

	"github.com/maison/storefront/internal/domain/session"
)

// Credentials is the email/password login request
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the account creation request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

// AuthResponse is the backend's answer to any successful sign-in
type AuthResponse struct {
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
	User         session.User `json:"user"`
}

// Login exchanges credentials for a token pair and profile
func (c *Client) Login(ctx context.Context, creds Credentials) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account and signs it in
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var resp AuthResponse
	if err := c.post(ctx, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// OAuthLogin forwards a provider access token obtained from the OAuth flow
func (c *Client) OAuthLogin(ctx context.Context, providerToken string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"accessToken": providerToken}
	if err := c.post(ctx, "/auth/oauth", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// PhoneLogin forwards the ID token obtained from the phone OTP flow
func (c *Client) PhoneLogin(ctx context.Context, idToken string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"idToken": idToken}
	if err := c.post(ctx, "/auth/phone", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout asks the backend to invalidate the refresh token. Callers treat
// this as best-effort; the local session is cleared regardless.
func (c *Client) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"refreshToken": refreshToken}
	return c.post(ctx, "/auth/logout", body, nil)
}

// RequestPasswordReset triggers the reset email
func (c *Client) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.post(ctx, "/auth/password-reset", body, nil)
}

// ResetPassword completes the reset with the emailed token
func (c *Client) ResetPassword(ctx context.Context, resetToken, newPassword string) error {
	body := map[string]string{"token": resetToken, "password": newPassword}
	return c.post(ctx, "/auth/password-reset/confirm", body, nil)
}

// Profile fetches the signed-in user's profile
func (c *Client) Profile(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.get(ctx, "/profile", &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile forwards edited profile fields
func (c *Client) UpdateProfile(ctx context.Context, user session.User) (*session.User, error) {
	var updated session.User
	if err := c.put(ctx, "/profile", user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
