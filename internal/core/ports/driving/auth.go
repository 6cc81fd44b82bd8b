package driving

import "context"

// AuthFlow drives an interactive OAuth2 authorization for one provider.
// The provider's token manager implements it; the CLI consumes it.
type AuthFlow interface {
	// AuthorizationURLWithState builds the consent page URL carrying the
	// given CSRF state. The caller validates the state on callback.
	AuthorizationURLWithState(state string) (string, error)

	// ExchangeCode trades the authorization code for tokens and persists
	// them in the provider's token store.
	ExchangeCode(ctx context.Context, code string) error

	// RevokeToken invalidates the stored token with the provider and
	// removes it locally.
	RevokeToken(ctx context.Context) error
}
