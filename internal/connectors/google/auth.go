package google

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// Google OAuth2 endpoints.
const (
	authEndpoint   = "https://accounts.google.com/o/oauth2/v2/auth"
	tokenEndpoint  = "https://oauth2.googleapis.com/token"
	revokeEndpoint = "https://oauth2.googleapis.com/revoke"
)

// oauthScopes covers calendar reads, event writes, and the read-only
// fallback some Workspace policies require.
var oauthScopes = []string{
	"https://www.googleapis.com/auth/calendar",
	"https://www.googleapis.com/auth/calendar.events",
	"https://www.googleapis.com/auth/calendar.readonly",
}

// TokenManager owns the OAuth2 token lifecycle for one Google account:
// authorization URL generation with PKCE, code exchange, transparent
// refresh, and revocation. Tokens live in the injected TokenStore; the
// store is never exposed to callers.
type TokenManager struct {
	oauth     oauth2.Config
	store     driven.TokenStore
	client    *http.Client
	revokeURL string

	// verifierMu guards the single PKCE verifier slot. Interleaving two
	// authorization flows overwrites the first verifier; see
	// AuthorizationURL.
	verifierMu sync.Mutex
	verifier   string

	// refresh collapses concurrent refreshes into one upstream call.
	refresh singleflight.Group
}

// NewTokenManager creates a token manager for the given OAuth client.
func NewTokenManager(clientID, clientSecret, redirectURI string, store driven.TokenStore, client *http.Client) *TokenManager {
	return &TokenManager{
		oauth: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       oauthScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  authEndpoint,
				TokenURL: tokenEndpoint,
			},
		},
		store:     store,
		client:    client,
		revokeURL: revokeEndpoint,
	}
}

// AuthorizationURL builds the consent page URL with a fresh PKCE
// challenge. The embedded CSRF state is random but not retained;
// callers running a browser flow should use AuthorizationURLWithState
// and validate the state themselves.
//
// Only one authorization flow can be in flight per manager: generating
// a second URL overwrites the stored verifier, so the first flow's code
// can no longer be exchanged.
func (m *TokenManager) AuthorizationURL() (string, error) {
	state, err := generateState()
	if err != nil {
		return "", domain.WrapError(domain.KindInternal, err, "Failed to generate state")
	}
	return m.AuthorizationURLWithState(state)
}

// AuthorizationURLWithState is AuthorizationURL with a caller-supplied
// CSRF state.
func (m *TokenManager) AuthorizationURLWithState(state string) (string, error) {
	verifier, err := generateCodeVerifier()
	if err != nil {
		return "", domain.WrapError(domain.KindInternal, err, "Failed to generate PKCE verifier")
	}
	challenge := generateCodeChallenge(verifier)

	m.verifierMu.Lock()
	m.verifier = verifier
	m.verifierMu.Unlock()

	return m.oauth.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.SetAuthURLParam("code_challenge", challenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	), nil
}

// ExchangeCode trades an authorization code for tokens and persists
// them. The PKCE verifier stored by AuthorizationURL is consumed.
func (m *TokenManager) ExchangeCode(ctx context.Context, code string) error {
	m.verifierMu.Lock()
	verifier := m.verifier
	m.verifier = ""
	m.verifierMu.Unlock()

	if verifier == "" {
		return domain.NewError(domain.KindAuthentication, "No PKCE verifier found")
	}

	tok, err := m.oauth.Exchange(m.httpContext(ctx), code,
		oauth2.SetAuthURLParam("code_verifier", verifier))
	if err != nil {
		return domain.WrapError(domain.KindAuthentication, err, "Token exchange failed")
	}

	data := domain.TokenData{
		AccessToken: tok.AccessToken,
		TokenType:   tok.Type(),
	}
	if tok.RefreshToken != "" {
		rt := tok.RefreshToken
		data.RefreshToken = &rt
	}
	if !tok.Expiry.IsZero() {
		exp := tok.Expiry
		data.ExpiresAt = &exp
	}
	if scope, ok := tok.Extra("scope").(string); ok && scope != "" {
		data.Scope = &scope
	}

	if err := m.store.SaveToken(ctx, domain.SourceGoogle, data); err != nil {
		return err
	}
	logger.Debug("google: authorization complete, token stored")
	return nil
}

// AccessToken returns a valid bearer token, refreshing first when the
// stored one has expired.
func (m *TokenManager) AccessToken(ctx context.Context) (string, error) {
	stored, err := m.store.GetToken(ctx, domain.SourceGoogle)
	if err != nil {
		return "", err
	}
	if stored == nil {
		return "", domain.NewError(domain.KindAuthentication, "No token found; authorization required")
	}
	if !stored.IsExpired() {
		return stored.AccessToken, nil
	}
	return m.refreshAccessToken(ctx)
}

// refreshAccessToken mints a fresh access token through the refresh
// grant. Concurrent callers share one upstream request; the winner
// persists the new token before anyone returns.
func (m *TokenManager) refreshAccessToken(ctx context.Context) (string, error) {
	v, err, _ := m.refresh.Do("google", func() (any, error) {
		// Re-read inside the flight: a caller that lost the race may
		// find the winner already persisted a fresh token.
		current, err := m.store.GetToken(ctx, domain.SourceGoogle)
		if err != nil {
			return nil, err
		}
		if current == nil {
			return nil, domain.NewError(domain.KindAuthentication, "No token found; authorization required")
		}
		if !current.IsExpired() {
			return current.AccessToken, nil
		}
		if current.RefreshToken == nil {
			return nil, domain.NewError(domain.KindAuthentication, "No refresh token available; re-authorization required")
		}

		logger.Debug("google: refreshing access token")
		source := m.oauth.TokenSource(m.httpContext(ctx), &oauth2.Token{
			RefreshToken: *current.RefreshToken,
		})
		tok, err := source.Token()
		if err != nil {
			return nil, domain.WrapError(domain.KindAuthentication, err, "Token refresh failed")
		}

		refreshed := domain.TokenData{
			AccessToken: tok.AccessToken,
			TokenType:   tok.Type(),
			// The refresh response rarely repeats the scope; keep what
			// was granted at authorization time.
			Scope: current.Scope,
		}
		if tok.RefreshToken != "" {
			rt := tok.RefreshToken
			refreshed.RefreshToken = &rt
		} else {
			refreshed.RefreshToken = current.RefreshToken
		}
		if !tok.Expiry.IsZero() {
			exp := tok.Expiry
			refreshed.ExpiresAt = &exp
		}

		if err := m.store.SaveToken(ctx, domain.SourceGoogle, refreshed); err != nil {
			return nil, err
		}
		return refreshed.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// RevokeToken invalidates the token with Google and removes it from the
// store. When Google rejects the revocation the local copy is kept so
// the user can retry.
func (m *TokenManager) RevokeToken(ctx context.Context) error {
	stored, err := m.store.GetToken(ctx, domain.SourceGoogle)
	if err != nil {
		return err
	}
	if stored == nil {
		return nil
	}

	target := m.revokeURL + "?token=" + url.QueryEscape(stored.AccessToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, nil)
	if err != nil {
		return domain.WrapError(domain.KindInternal, err, "Failed to build request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := m.client.Do(req)
	if err != nil {
		return domain.WrapError(domain.KindNetwork, err, "Network error")
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return domain.NewError(domain.KindAuthentication, "Failed to revoke token")
	}

	logger.Debug("google: token revoked")
	return m.store.RemoveToken(ctx, domain.SourceGoogle)
}

// httpContext routes x/oauth2's internal HTTP calls through the
// manager's client.
func (m *TokenManager) httpContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, m.client)
}
