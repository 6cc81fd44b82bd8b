package cli

import (
	"fmt"
	"os"
	"time"

	configfile "github.com/custodia-labs/calbridge/internal/adapters/driven/config/file"
	filestore "github.com/custodia-labs/calbridge/internal/adapters/driven/storage/file"
	"github.com/custodia-labs/calbridge/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/calbridge/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/calbridge/internal/connectors/google"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/core/services"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// Configuration keys understood by the CLI.
const (
	keyClientID        = "google.client_id"
	keyClientSecret    = "google.client_secret"
	keyRedirectURI     = "google.redirect_uri"
	keyWebhookEndpoint = "webhook.endpoint"
	keyWebhookToken    = "webhook.token"
	keyStoragePath     = "storage.path"
	keyCacheTTL        = "cache.ttl_seconds"
	keyCacheEnabled    = "cache.enabled"
	keyHTTPTimeout     = "http.timeout_seconds"
	keyHTTPRetries     = "http.max_retries"
)

// Environment overrides for credentials, so secrets can stay out of
// the config file.
const (
	envClientID     = "CALBRIDGE_GOOGLE_CLIENT_ID"
	envClientSecret = "CALBRIDGE_GOOGLE_CLIENT_SECRET"
)

const defaultRedirectURI = "http://127.0.0.1:8484/callback"

// Wire loads configuration and injects concrete services into the
// command tree. The returned cleanup releases any held resources and
// is safe to call exactly once.
func Wire(configDir, storeBackend string) (func(), error) {
	store, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	tokens, cleanup, err := buildTokenStore(store, storeBackend)
	if err != nil {
		return nil, err
	}

	svc := Services{
		Tokens:   tokens,
		Config:   store,
		Registry: services.NewRegistry(),
	}

	clientID := firstNonEmpty(os.Getenv(envClientID), store.GetString(keyClientID))
	clientSecret := firstNonEmpty(os.Getenv(envClientSecret), store.GetString(keyClientSecret))

	if clientID != "" && clientSecret != "" {
		redirect := firstNonEmpty(store.GetString(keyRedirectURI), defaultRedirectURI)

		var opts []google.Option
		if endpoint := store.GetString(keyWebhookEndpoint); endpoint != "" {
			var secret *string
			if token := store.GetString(keyWebhookToken); token != "" {
				secret = &token
			}
			opts = append(opts, google.WithWebhookEndpoint(endpoint, secret))
		}

		provider := google.NewProvider(
			clientID, clientSecret, redirect, tokens, providerConfig(store), opts...)
		svc.Provider = provider
		svc.Webhooks = provider
		svc.Auth = provider.Auth()
	} else {
		logger.Debug("google credentials not configured; provider commands disabled")
	}

	SetServices(svc)
	return cleanup, nil
}

// buildTokenStore selects the token persistence backend. The cleanup
// is a no-op for backends without resources to release.
func buildTokenStore(store driven.ConfigStore, backend string) (driven.TokenStore, func(), error) {
	noop := func() {}
	dir := store.GetString(keyStoragePath)

	switch backend {
	case "memory":
		return memory.NewTokenStore(), noop, nil
	case "file", "":
		ts, err := filestore.NewTokenStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open token store: %w", err)
		}
		return ts, noop, nil
	case "sqlite":
		db, err := sqlite.NewStore(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open token store: %w", err)
		}
		cleanup := func() {
			if err := db.Close(); err != nil {
				logger.Warn("failed to close token store: %v", err)
			}
		}
		return db.TokenStore(), cleanup, nil
	default:
		return nil, nil, fmt.Errorf("unknown token store backend %q (want memory, file, or sqlite)", backend)
	}
}

// providerConfig applies config file tuning on top of the defaults.
func providerConfig(store driven.ConfigStore) google.Config {
	cfg := google.DefaultConfig()

	if secs := store.GetInt(keyCacheTTL); secs > 0 {
		cfg = cfg.WithCacheTTL(time.Duration(secs) * time.Second)
	}
	// GetBool cannot distinguish false from unset, so inspect the raw
	// value before turning the cache off.
	if v, ok := store.Get(keyCacheEnabled); ok {
		if enabled, isBool := v.(bool); isBool && !enabled {
			cfg = cfg.WithoutCache()
		}
	}
	if secs := store.GetInt(keyHTTPTimeout); secs > 0 {
		cfg = cfg.WithTimeoutSeconds(secs)
	}
	if n := store.GetInt(keyHTTPRetries); n > 0 {
		cfg = cfg.WithMaxRetries(n)
	}

	return cfg
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
