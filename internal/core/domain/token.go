package domain

import "time"

// TokenData is the OAuth2 token material stored for one provider.
type TokenData struct {
	// AccessToken is the bearer token presented to the provider API.
	AccessToken string `json:"access_token"`

	// RefreshToken allows minting new access tokens. Some flows never
	// issue one; refresh is then impossible and the user must re-authorize.
	RefreshToken *string `json:"refresh_token,omitempty"`

	// ExpiresAt is when the access token stops being valid. Absent means
	// the provider did not communicate an expiry.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	// TokenType is the authorization scheme, typically "Bearer".
	TokenType string `json:"token_type"`

	// Scope is the space-joined granted scope set, when reported.
	Scope *string `json:"scope,omitempty"`
}

// IsExpired reports whether the access token has passed its expiry.
// A token without an expiry is never considered expired.
func (t TokenData) IsExpired() bool {
	if t.ExpiresAt == nil {
		return false
	}
	return !t.ExpiresAt.After(time.Now())
}

// AuthMethod is how a provider authenticates.
type AuthMethod string

const (
	// AuthMethodOAuth uses the OAuth2 authorization code flow.
	AuthMethodOAuth AuthMethod = "oauth"

	// AuthMethodSystem relies on OS-level calendar permissions
	// (mobile sources only).
	AuthMethodSystem AuthMethod = "system"
)
