package session

import (
	"context"
	"errors"
	"sync"
)

// ErrTokenNotFound is returned by TokenStore.Lookup for unknown tokens.
var ErrTokenNotFound = errors.New("session token not found")

// TokenStore is the durable token -> user id map used to resume sessions.
type TokenStore interface {
	Save(ctx context.Context, token, userID string) error
	Lookup(ctx context.Context, token string) (string, error)
	Delete(ctx context.Context, token string) error
	Close() error
}

// MemoryTokenStore keeps tokens for the lifetime of the process.
type MemoryTokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

// NewMemoryTokenStore returns an empty MemoryTokenStore.
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{tokens: make(map[string]string)}
}

func (m *MemoryTokenStore) Save(_ context.Context, token, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[token] = userID
	return nil
}

func (m *MemoryTokenStore) Lookup(_ context.Context, token string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	userID, ok := m.tokens[token]
	if !ok {
		return "", ErrTokenNotFound
	}
	return userID, nil
}

func (m *MemoryTokenStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

func (m *MemoryTokenStore) Close() error { return nil }
