package google

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenSourceAdapter adapts the TokenManager to oauth2.TokenSource.
// This lets generated Google API clients reuse our token management,
// including transparent refresh, via option.WithTokenSource().
type TokenSourceAdapter struct {
	manager *TokenManager
	ctx     context.Context
}

// NewTokenSource creates an oauth2.TokenSource backed by the token
// manager. The context bounds every token acquisition the source makes.
func NewTokenSource(ctx context.Context, manager *TokenManager) oauth2.TokenSource {
	return &TokenSourceAdapter{
		manager: manager,
		ctx:     ctx,
	}
}

// Token implements oauth2.TokenSource.
// Called by Google API clients when they need an access token.
func (t *TokenSourceAdapter) Token() (*oauth2.Token, error) {
	accessToken, err := t.manager.AccessToken(t.ctx)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
