package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/calbridge/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

// Store owns the SQLite database holding token material.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.calbridge/data/tokens.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".calbridge", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "tokens.db")

	// Open database with WAL mode so refresh persistence does not block
	// concurrent readers
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// TokenStore returns a TokenStore interface backed by this store.
func (s *Store) TokenStore() driven.TokenStore {
	return &tokenStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Token Store ====================

// tokenStore implements driven.TokenStore.
type tokenStore struct {
	store *Store
}

var _ driven.TokenStore = (*tokenStore)(nil)

// GetToken retrieves the stored token for a provider. Returns (nil, nil)
// when no row exists.
func (s *tokenStore) GetToken(ctx context.Context, provider domain.CalendarSource) (*domain.TokenData, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, expires_at, token_type, scope
		FROM tokens WHERE provider = ?
	`, string(provider))

	var token domain.TokenData
	var refreshToken, scope sql.NullString
	var expiresAt sql.NullTime
	if err := row.Scan(&token.AccessToken, &refreshToken, &expiresAt, &token.TokenType, &scope); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, domain.WrapError(domain.KindTokenStorage, err, "Failed to read token")
	}

	if refreshToken.Valid {
		token.RefreshToken = &refreshToken.String
	}
	if expiresAt.Valid {
		t := expiresAt.Time.UTC()
		token.ExpiresAt = &t
	}
	if scope.Valid {
		token.Scope = &scope.String
	}

	return &token, nil
}

// SaveToken stores a token, replacing any previous row for the provider.
func (s *tokenStore) SaveToken(ctx context.Context, provider domain.CalendarSource, token domain.TokenData) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tokens (provider, access_token, refresh_token, expires_at, token_type, scope, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(provider) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			token_type = excluded.token_type,
			scope = excluded.scope,
			updated_at = excluded.updated_at
	`, string(provider), token.AccessToken, nullString(token.RefreshToken),
		nullTime(token.ExpiresAt), token.TokenType, nullString(token.Scope), time.Now().UTC())

	if err != nil {
		return domain.WrapError(domain.KindTokenStorage, err, "Failed to save token")
	}
	return nil
}

// RemoveToken deletes the row for a provider. Removing an absent token
// is not an error.
func (s *tokenStore) RemoveToken(ctx context.Context, provider domain.CalendarSource) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM tokens WHERE provider = ?", string(provider))
	if err != nil {
		return domain.WrapError(domain.KindTokenStorage, err, "Failed to remove token")
	}
	return nil
}

// ==================== Helper Functions ====================

// nullString maps an optional string to its SQL NULL form.
func nullString(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// nullTime maps an optional time to its SQL NULL form.
func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
