// Package memory provides in-memory adapter implementations.
//
// These are used in tests and for ephemeral runs where nothing should
// touch the filesystem.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore is an in-memory implementation of driven.TokenStore.
type TokenStore struct {
	mu     sync.RWMutex
	tokens map[domain.CalendarSource]domain.TokenData
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{
		tokens: make(map[domain.CalendarSource]domain.TokenData),
	}
}

// GetToken retrieves the stored token for a provider.
func (s *TokenStore) GetToken(_ context.Context, provider domain.CalendarSource) (*domain.TokenData, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[provider]
	if !ok {
		return nil, nil
	}
	return &token, nil
}

// SaveToken stores or replaces the token for a provider.
func (s *TokenStore) SaveToken(_ context.Context, provider domain.CalendarSource, token domain.TokenData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[provider] = token
	return nil
}

// RemoveToken deletes the token for a provider.
func (s *TokenStore) RemoveToken(_ context.Context, provider domain.CalendarSource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, provider)
	return nil
}
