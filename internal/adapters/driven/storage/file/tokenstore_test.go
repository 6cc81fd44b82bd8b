package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

func newTestStore(t *testing.T) *TokenStore {
	t.Helper()
	store, err := NewTokenStore(filepath.Join(t.TempDir(), "tokens"))
	require.NoError(t, err)
	return store
}

func strptr(s string) *string { return &s }

// TestTokenStore_SaveAndGet tests the round trip through disk
func TestTokenStore_SaveAndGet(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	expiry := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	saved := domain.TokenData{
		AccessToken:  "access_123",
		RefreshToken: strptr("refresh_456"),
		ExpiresAt:    &expiry,
		TokenType:    "Bearer",
		Scope:        strptr("https://www.googleapis.com/auth/calendar"),
	}
	require.NoError(t, store.SaveToken(ctx, domain.SourceGoogle, saved))

	got, err := store.GetToken(ctx, domain.SourceGoogle)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "access_123", got.AccessToken)
	require.NotNil(t, got.RefreshToken)
	assert.Equal(t, "refresh_456", *got.RefreshToken)
	require.NotNil(t, got.ExpiresAt)
	assert.True(t, expiry.Equal(*got.ExpiresAt))
	assert.Equal(t, "Bearer", got.TokenType)
	require.NotNil(t, got.Scope)
	assert.Equal(t, "https://www.googleapis.com/auth/calendar", *got.Scope)
}

// TestTokenStore_Get_Absent tests that a missing token file is not an
// error
func TestTokenStore_Get_Absent(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetToken(context.Background(), domain.SourceGoogle)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// TestTokenStore_Save_Replaces tests that saving overwrites the
// previous token
func TestTokenStore_Save_Replaces(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, domain.SourceGoogle, domain.TokenData{AccessToken: "old"}))
	require.NoError(t, store.SaveToken(ctx, domain.SourceGoogle, domain.TokenData{AccessToken: "new"}))

	got, err := store.GetToken(ctx, domain.SourceGoogle)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "new", got.AccessToken)
}

// TestTokenStore_Remove tests deletion and its idempotency
func TestTokenStore_Remove(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, domain.SourceGoogle, domain.TokenData{AccessToken: "gone"}))
	require.NoError(t, store.RemoveToken(ctx, domain.SourceGoogle))

	got, err := store.GetToken(ctx, domain.SourceGoogle)
	require.NoError(t, err)
	assert.Nil(t, got)

	// Removing again is fine.
	assert.NoError(t, store.RemoveToken(ctx, domain.SourceGoogle))
}

// TestTokenStore_DataIsolation tests that providers get separate files
func TestTokenStore_DataIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, domain.SourceGoogle, domain.TokenData{AccessToken: "google_token"}))
	require.NoError(t, store.SaveToken(ctx, domain.SourceOutlook, domain.TokenData{AccessToken: "outlook_token"}))
	require.NoError(t, store.RemoveToken(ctx, domain.SourceOutlook))

	got, err := store.GetToken(ctx, domain.SourceGoogle)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "google_token", got.AccessToken)

	_, err = os.Stat(filepath.Join(store.Dir(), "google.json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(store.Dir(), "outlook.json"))
	assert.True(t, os.IsNotExist(err))
}

// TestTokenStore_MalformedFile tests that unparseable token files map
// to a storage error
func TestTokenStore_MalformedFile(t *testing.T) {
	store := newTestStore(t)

	path := filepath.Join(store.Dir(), "google.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	_, err := store.GetToken(context.Background(), domain.SourceGoogle)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrTokenStorage)
}

// TestTokenStore_Permissions tests that tokens are readable only by
// the owner
func TestTokenStore_Permissions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveToken(ctx, domain.SourceGoogle, domain.TokenData{AccessToken: "secret"}))

	dirInfo, err := os.Stat(store.Dir())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0700), dirInfo.Mode().Perm())

	fileInfo, err := os.Stat(filepath.Join(store.Dir(), "google.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), fileInfo.Mode().Perm())
}

// TestTokenStore_InterfaceCompliance tests the store satisfies the port
func TestTokenStore_InterfaceCompliance(t *testing.T) {
	var _ driven.TokenStore = newTestStore(t)
}
