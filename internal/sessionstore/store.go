// Package sessionstore persists the single access-token slot between runs,
// encrypted at rest with a key derived from the configured vault key.
package sessionstore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/eventify/eventify-desk/internal/domain"
	"golang.org/x/crypto/argon2"
)

const saltSize = 16

// State is the persisted session: the token plus a cached copy of the
// identity it belonged to. The cache may be stale; the remote API is
// re-queried at startup.
type State struct {
	AccessToken string          `json:"access_token"`
	Identity    domain.Identity `json:"identity"`
}

type Store struct {
	Path string
}

func (s Store) Save(state State, vaultKey string) error {
	if s.Path == "" {
		return fmt.Errorf("store path is required")
	}
	plaintext, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("salt: %w", err)
	}
	key := deriveKey(vaultKey, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return fmt.Errorf("gcm: %w", err)
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("nonce: %w", err)
	}
	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)
	blob := append(append(salt, nonce...), ciphertext...)
	if err := os.WriteFile(s.Path, blob, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

func (s Store) Load(vaultKey string) (State, error) {
	if s.Path == "" {
		return State{}, fmt.Errorf("store path is required")
	}
	blob, err := os.ReadFile(s.Path)
	if err != nil {
		return State{}, fmt.Errorf("read session: %w", err)
	}
	if len(blob) < saltSize {
		return State{}, fmt.Errorf("invalid encrypted session")
	}
	salt := blob[:saltSize]
	key := deriveKey(vaultKey, salt)
	block, err := aes.NewCipher(key)
	if err != nil {
		return State{}, fmt.Errorf("cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return State{}, fmt.Errorf("gcm: %w", err)
	}
	if len(blob) < saltSize+gcm.NonceSize() {
		return State{}, fmt.Errorf("invalid encrypted session")
	}
	nonce := blob[saltSize : saltSize+gcm.NonceSize()]
	ciphertext := blob[saltSize+gcm.NonceSize():]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return State{}, fmt.Errorf("decrypt session: %w", err)
	}
	var state State
	if err := json.Unmarshal(plaintext, &state); err != nil {
		return State{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return state, nil
}

// Clear removes the persisted slot. Missing files are not an error.
func (s Store) Clear() error {
	if s.Path == "" {
		return fmt.Errorf("store path is required")
	}
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func deriveKey(vaultKey string, salt []byte) []byte {
	return argon2.IDKey([]byte(vaultKey), salt, 3, 64*1024, 4, 32)
}
