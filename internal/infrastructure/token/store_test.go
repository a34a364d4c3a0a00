package token

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "tokens.json"))
}

// signedToken builds a real JWT with the given expiry. The signing key is
// irrelevant: the store never verifies signatures.
func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-key"))
	require.NoError(t, err)
	return signed
}

func TestStore_RoundTrip(t *testing.T) {
	s := tempStore(t)

	pair := Pair{AccessToken: "access", RefreshToken: "refresh"}
	require.NoError(t, s.Save(pair))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, pair, got)
	assert.Equal(t, "access", s.AccessToken())
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := tempStore(t)

	got, err := s.Load()
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestStore_LoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	s := NewStore(path)
	got, err := s.Load()
	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestStore_SavePermissions(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(Pair{AccessToken: "a"}))

	info, err := os.Stat(s.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestStore_Clear(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(Pair{AccessToken: "a", RefreshToken: "r"}))

	require.NoError(t, s.Clear())
	got, err := s.Load()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// Clearing twice is fine
	require.NoError(t, s.Clear())
}

func TestStore_ExpiresAt(t *testing.T) {
	s := tempStore(t)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	require.NoError(t, s.Save(Pair{AccessToken: signedToken(t, exp)}))

	got, ok := s.ExpiresAt()
	require.True(t, ok)
	assert.True(t, got.Equal(exp))
}

func TestStore_ExpiresAt_NotAJWT(t *testing.T) {
	s := tempStore(t)
	require.NoError(t, s.Save(Pair{AccessToken: "opaque-token"}))

	_, ok := s.ExpiresAt()
	assert.False(t, ok)
}

func TestStore_Expired(t *testing.T) {
	now := time.Now()

	t.Run("future expiry", func(t *testing.T) {
		s := tempStore(t)
		require.NoError(t, s.Save(Pair{AccessToken: signedToken(t, now.Add(time.Hour))}))
		assert.False(t, s.Expired(now))
	})

	t.Run("past expiry", func(t *testing.T) {
		s := tempStore(t)
		require.NoError(t, s.Save(Pair{AccessToken: signedToken(t, now.Add(-time.Hour))}))
		assert.True(t, s.Expired(now))
	})

	t.Run("unparseable token is not treated as expired", func(t *testing.T) {
		s := tempStore(t)
		require.NoError(t, s.Save(Pair{AccessToken: "opaque"}))
		assert.False(t, s.Expired(now))
	})
}
