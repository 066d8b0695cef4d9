// Package secrets keeps the API bearer token on disk, sealed with AES-GCM.
//
// The key is derived with HKDF-SHA256 from a random per-install seed and
// the host name, so a token file copied to another machine does not open.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/hkdf"
)

const (
	seedFile  = "seed"
	tokenFile = "token"
	seedSize  = 32
)

// ErrCorrupt indicates the token file could not be opened with this
// install's key.
var ErrCorrupt = errors.New("stored token is unreadable")

// TokenStore persists a single bearer token under dir.
type TokenStore struct {
	dir      string
	hostname func() (string, error)
}

// NewTokenStore creates a store rooted at dir.
func NewTokenStore(dir string) *TokenStore {
	return &TokenStore{dir: dir, hostname: os.Hostname}
}

// Save seals and writes the token, replacing any previous one.
func (s *TokenStore) Save(token string) error {
	key, err := s.key(true)
	if err != nil {
		return err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("nonce: %w", err)
	}
	sealed := gcm.Seal(nonce, nonce, []byte(token), nil)

	if err := os.WriteFile(filepath.Join(s.dir, tokenFile), sealed, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// Load returns the stored token, or "" if none has been saved.
func (s *TokenStore) Load() (string, error) {
	sealed, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}

	key, err := s.key(false)
	if err != nil {
		return "", err
	}
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	if len(sealed) < gcm.NonceSize() {
		return "", ErrCorrupt
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	plain, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", ErrCorrupt
	}
	return string(plain), nil
}

// Clear removes the stored token. Clearing an empty store is not an error.
func (s *TokenStore) Clear() error {
	err := os.Remove(filepath.Join(s.dir, tokenFile))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// key derives the AES-256 key, creating the seed when create is set.
func (s *TokenStore) key(create bool) ([]byte, error) {
	seed, err := s.seed(create)
	if err != nil {
		return nil, err
	}
	host, err := s.hostname()
	if err != nil {
		host = "localhost"
	}

	h := hkdf.New(sha256.New, seed, []byte(host), []byte("leap-token-v1"))
	key := make([]byte, 32)
	if _, err := io.ReadFull(h, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func (s *TokenStore) seed(create bool) ([]byte, error) {
	path := filepath.Join(s.dir, seedFile)
	seed, err := os.ReadFile(path)
	if err == nil && len(seed) == seedSize {
		return seed, nil
	}
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	if !create {
		return nil, ErrCorrupt
	}

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return nil, fmt.Errorf("create secrets dir: %w", err)
	}
	seed = make([]byte, seedSize)
	if _, err := io.ReadFull(rand.Reader, seed); err != nil {
		return nil, fmt.Errorf("generate seed: %w", err)
	}
	if err := os.WriteFile(path, seed, 0o600); err != nil {
		return nil, fmt.Errorf("write seed: %w", err)
	}
	return seed, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("gcm: %w", err)
	}
	return gcm, nil
}
