package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calbridge/internal/adapters/driven/storage/memory"
)

func writeTestConfig(t *testing.T, dir, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600)
	require.NoError(t, err)
}

func TestWire_NoCredentials(t *testing.T) {
	restore := swapServices(Services{})
	defer restore()
	t.Setenv(envClientID, "")
	t.Setenv(envClientSecret, "")

	cleanup, err := Wire(t.TempDir(), "memory")

	require.NoError(t, err)
	require.NotNil(t, cleanup)
	defer cleanup()

	assert.NotNil(t, configStore)
	assert.NotNil(t, tokenStore)
	assert.NotNil(t, sourceRegistry)
	assert.Nil(t, calendarProvider)
	assert.Nil(t, webhookProvider)
	assert.Nil(t, authFlow)
}

func TestWire_WithConfigCredentials(t *testing.T) {
	restore := swapServices(Services{})
	defer restore()
	t.Setenv(envClientID, "")
	t.Setenv(envClientSecret, "")

	dir := t.TempDir()
	writeTestConfig(t, dir, `[google]
client_id = "client_123"
client_secret = "secret_456"
`)

	cleanup, err := Wire(dir, "memory")

	require.NoError(t, err)
	defer cleanup()

	require.NotNil(t, calendarProvider)
	assert.Equal(t, "google", calendarProvider.Name())
	assert.NotNil(t, webhookProvider)
	assert.NotNil(t, authFlow)
}

func TestWire_EnvCredentials(t *testing.T) {
	restore := swapServices(Services{})
	defer restore()
	t.Setenv(envClientID, "env_client")
	t.Setenv(envClientSecret, "env_secret")

	cleanup, err := Wire(t.TempDir(), "memory")

	require.NoError(t, err)
	defer cleanup()

	assert.NotNil(t, calendarProvider)
	assert.NotNil(t, authFlow)
}

func TestWire_UnknownBackend(t *testing.T) {
	restore := swapServices(Services{})
	defer restore()

	_, err := Wire(t.TempDir(), "etcd")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown token store backend")
}

func TestWire_SQLiteBackend(t *testing.T) {
	restore := swapServices(Services{})
	defer restore()
	t.Setenv(envClientID, "")
	t.Setenv(envClientSecret, "")

	dir := t.TempDir()
	writeTestConfig(t, dir, `[storage]
path = "`+filepath.ToSlash(filepath.Join(dir, "data"))+`"
`)

	cleanup, err := Wire(dir, "sqlite")

	require.NoError(t, err)
	require.NotNil(t, cleanup)
	cleanup()

	assert.FileExists(t, filepath.Join(dir, "data", "tokens.db"))
}

func TestBuildTokenStore_Memory(t *testing.T) {
	store, cleanup, err := buildTokenStore(&mockConfigStore{}, "memory")

	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &memory.TokenStore{}, store)
}

func TestBuildTokenStore_FileDefaultsBackend(t *testing.T) {
	dir := t.TempDir()
	store, cleanup, err := buildTokenStore(&mockConfigStore{
		values: map[string]any{keyStoragePath: dir},
	}, "")

	require.NoError(t, err)
	defer cleanup()
	assert.NotNil(t, store)
}

func TestBuildTokenStore_Unknown(t *testing.T) {
	_, _, err := buildTokenStore(&mockConfigStore{}, "redis")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown token store backend "redis"`)
}

func TestProviderConfig_Defaults(t *testing.T) {
	cfg := providerConfig(&mockConfigStore{})

	assert.True(t, cfg.CacheEnabled)
	assert.Positive(t, cfg.TimeoutSeconds)
	assert.Positive(t, cfg.MaxRetries)
}

func TestProviderConfig_Overrides(t *testing.T) {
	cfg := providerConfig(&mockConfigStore{values: map[string]any{
		keyCacheTTL:     int64(600),
		keyCacheEnabled: false,
		keyHTTPTimeout:  int64(5),
		keyHTTPRetries:  int64(7),
	}})

	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 5, cfg.TimeoutSeconds)
	assert.Equal(t, 7, cfg.MaxRetries)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
	assert.Equal(t, "c", firstNonEmpty("", "", "c"))
}
