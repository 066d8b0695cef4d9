package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	s := NewTokenStore(filepath.Join(t.TempDir(), "secrets"))

	require.NoError(t, s.Save("eyJhbGciOi.token"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "eyJhbGciOi.token", got)

	raw, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "eyJhbGciOi.token")

	info, err := os.Stat(filepath.Join(s.dir, tokenFile))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestTokenStore_LoadEmpty(t *testing.T) {
	s := NewTokenStore(t.TempDir())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTokenStore_Overwrite(t *testing.T) {
	s := NewTokenStore(t.TempDir())
	require.NoError(t, s.Save("first"))
	require.NoError(t, s.Save("second"))

	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestTokenStore_Clear(t *testing.T) {
	s := NewTokenStore(t.TempDir())
	require.NoError(t, s.Save("tok"))
	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())

	got, err := s.Load()
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestTokenStore_OtherHostCannotOpen(t *testing.T) {
	dir := t.TempDir()
	s := NewTokenStore(dir)
	s.hostname = func() (string, error) { return "laptop", nil }
	require.NoError(t, s.Save("tok"))

	other := NewTokenStore(dir)
	other.hostname = func() (string, error) { return "server", nil }
	_, err := other.Load()
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestTokenStore_TamperedFile(t *testing.T) {
	s := NewTokenStore(t.TempDir())
	require.NoError(t, s.Save("tok"))

	path := filepath.Join(s.dir, tokenFile)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	_, err = s.Load()
	assert.ErrorIs(t, err, ErrCorrupt)
}
