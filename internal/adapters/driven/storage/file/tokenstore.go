// Package file persists OAuth tokens as JSON files on disk, one file
// per provider, readable only by the owning user.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore is a file-based implementation of driven.TokenStore.
// Tokens live under a root directory as <provider>.json. Saves go
// through a temp file and rename so readers never observe a partial
// token.
type TokenStore struct {
	dir string
}

// NewTokenStore creates a token store rooted at dir.
// If dir is empty, defaults to ~/.calbridge/tokens.
func NewTokenStore(dir string) (*TokenStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, domain.WrapError(domain.KindTokenStorage, err, "Failed to resolve home directory")
		}
		dir = filepath.Join(home, ".calbridge", "tokens")
	}

	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, domain.WrapError(domain.KindTokenStorage, err, "Failed to create token directory")
	}

	return &TokenStore{dir: dir}, nil
}

// GetToken reads the stored token for a provider. Returns (nil, nil)
// when no token file exists.
func (s *TokenStore) GetToken(_ context.Context, provider domain.CalendarSource) (*domain.TokenData, error) {
	data, err := os.ReadFile(s.path(provider))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, domain.WrapError(domain.KindTokenStorage, err, "Failed to read token file")
	}

	var token domain.TokenData
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, domain.WrapError(domain.KindTokenStorage, err, "Failed to parse token file")
	}
	return &token, nil
}

// SaveToken writes the token for a provider, replacing any previous one.
func (s *TokenStore) SaveToken(_ context.Context, provider domain.CalendarSource, token domain.TokenData) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return domain.WrapError(domain.KindTokenStorage, err, "Failed to encode token")
	}

	tmp, err := os.CreateTemp(s.dir, string(provider)+".*.tmp")
	if err != nil {
		return domain.WrapError(domain.KindTokenStorage, err, "Failed to write token file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return domain.WrapError(domain.KindTokenStorage, err, "Failed to write token file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return domain.WrapError(domain.KindTokenStorage, err, "Failed to write token file")
	}
	if err := os.Rename(tmp.Name(), s.path(provider)); err != nil {
		os.Remove(tmp.Name())
		return domain.WrapError(domain.KindTokenStorage, err, "Failed to write token file")
	}
	return nil
}

// RemoveToken deletes the token file for a provider. Removing an absent
// token is not an error.
func (s *TokenStore) RemoveToken(_ context.Context, provider domain.CalendarSource) error {
	if err := os.Remove(s.path(provider)); err != nil && !os.IsNotExist(err) {
		return domain.WrapError(domain.KindTokenStorage, err, "Failed to remove token file")
	}
	return nil
}

// Dir returns the directory tokens are stored under.
func (s *TokenStore) Dir() string {
	return s.dir
}

func (s *TokenStore) path(provider domain.CalendarSource) string {
	return filepath.Join(s.dir, string(provider)+".json")
}
