package driven

import (
	"context"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// TokenStore persists OAuth token material per calendar source.
// Implementations must be safe for concurrent use. Storage failures
// surface as domain.KindTokenStorage errors.
//
// Application code never touches this interface directly; token access
// goes through the provider's token manager, which owns refresh.
type TokenStore interface {
	// GetToken retrieves the stored token for a provider.
	// Returns (nil, nil) when no token is stored.
	GetToken(ctx context.Context, provider domain.CalendarSource) (*domain.TokenData, error)

	// SaveToken stores a token. Creates if new, replaces if exists.
	SaveToken(ctx context.Context, provider domain.CalendarSource, token domain.TokenData) error

	// RemoveToken deletes the stored token for a provider.
	// Removing an absent token is not an error.
	RemoveToken(ctx context.Context, provider domain.CalendarSource) error
}
