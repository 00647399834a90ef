package config

import (
	"fmt"
	"strings"
)

// TokenKey is the fixed storage key holding the bearer token
const TokenKey = "token"

// TokenStore persists a single bearer token. It has no expiry logic; the
// backend decides validity.
type TokenStore struct {
	storage Storage
}

// NewTokenStore wraps storage
func NewTokenStore(storage Storage) *TokenStore {
	return &TokenStore{storage: storage}
}

// DefaultTokenStore returns a TokenStore over the standard storage file
func DefaultTokenStore() (*TokenStore, error) {
	storage, err := DefaultFileStorage()
	if err != nil {
		return nil, err
	}
	return NewTokenStore(storage), nil
}

// Get returns the stored token. A blank value counts as absent.
func (t *TokenStore) Get() (string, bool) {
	token, ok := t.storage.Get(TokenKey)
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return token, true
}

// Set persists token
func (t *TokenStore) Set(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("refusing to store empty token")
	}
	if err := t.storage.Set(TokenKey, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// Clear removes the token
func (t *TokenStore) Clear() error {
	if err := t.storage.Delete(TokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}
