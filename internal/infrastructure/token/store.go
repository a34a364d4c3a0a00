package token

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Pair is the opaque access/refresh token pair issued by the backend.
// These two strings are the only state that survives an application restart.
type Pair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// IsZero reports whether no tokens are stored
func (p Pair) IsZero() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// Store persists the token pair to a JSON file. All methods are safe for
// concurrent use.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store backed by the given file path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Load reads the stored pair. A missing file yields an empty pair, not an
// error, so a fresh install starts logged out.
func (s *Store) Load() (Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Pair{}, nil
		}
		return Pair{}, fmt.Errorf("token: failed to read store: %w", err)
	}

	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		// A corrupt store is treated as empty; the user just signs in again
		return Pair{}, nil
	}
	return pair, nil
}

// Save writes the pair durably with owner-only permissions
func (s *Store) Save(pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("token: failed to marshal pair: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("token: failed to create store directory: %w", err)
		}
	}

	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("token: failed to write store: %w", err)
	}
	return nil
}

// Clear removes the stored pair. Clearing an already-empty store is a no-op.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("token: failed to clear store: %w", err)
	}
	return nil
}

// AccessToken returns the currently stored access token, or empty when none
// is stored. Read immediately before each outgoing request so a logout in
// one part of the app is reflected everywhere.
func (s *Store) AccessToken() string {
	pair, err := s.Load()
	if err != nil {
		return ""
	}
	return pair.AccessToken
}

// ExpiresAt returns the expiry claim of the stored access token without
// verifying the signature. Signature verification is the backend's job; the
// client only inspects expiry to skip a bootstrap that is certain to fail.
func (s *Store) ExpiresAt() (time.Time, bool) {
	pair, err := s.Load()
	if err != nil || pair.AccessToken == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(pair.AccessToken, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the stored access token carries an expiry claim
// in the past. Tokens without a parseable expiry are not considered expired;
// the backend remains the authority.
func (s *Store) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	if !ok {
		return false
	}
	return exp.Before(now)
}
