// Package auth persists the CLI session and answers the "who is logged in"
// question that the web client used to answer with a DOM marker.
package auth

import (
	"errors"
	"fmt"

	"github.com/99designs/keyring"
)

const (
	serviceName = "barbearia"
	tokenKey    = "session-token"
)

// ErrNoSession means no stored session token was found.
var ErrNoSession = errors.New("no stored session")

// Store keeps the session token in the OS keyring, falling back to an
// encrypted file on headless systems.
type Store struct {
	open func() (keyring.Keyring, error)
}

// NewStore returns the default keyring-backed store.
func NewStore() *Store {
	return &Store{open: openKeyring}
}

func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/barbearia/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("barbearia-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Token returns the stored session token.
func (s *Store) Token() (string, error) {
	ring, err := s.open()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("getting session token: %w", err)
	}
	return string(item.Data), nil
}

// SaveToken stores the session token after a successful login.
func (s *Store) SaveToken(token string) error {
	ring, err := s.open()
	if err != nil {
		return err
	}

	if err := ring.Set(keyring.Item{Key: tokenKey, Data: []byte(token)}); err != nil {
		return fmt.Errorf("saving session token: %w", err)
	}
	return nil
}

// Clear removes the stored session, e.g. on logout or after a 401.
func (s *Store) Clear() error {
	ring, err := s.open()
	if err != nil {
		return err
	}

	if err := ring.Remove(tokenKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("clearing session token: %w", err)
	}
	return nil
}
