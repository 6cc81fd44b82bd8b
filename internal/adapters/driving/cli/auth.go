package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/calbridge/internal/adapters/driving/oauth"
	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// authLoginTimeout bounds how long the login command waits for the
// browser round trip.
const authLoginTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage provider authorization",
	Long: `Authorize calbridge with a calendar provider, inspect token state,
or revoke access.

The login flow opens a browser to the provider's consent page and runs a
local server to catch the redirect. The OAuth client credentials come from
the config file ([google] client_id / client_secret) or the
CALBRIDGE_GOOGLE_CLIENT_ID / CALBRIDGE_GOOGLE_CLIENT_SECRET environment
variables.

Examples:
  # Authorize with Google
  calbridge auth login

  # Show token state per provider
  calbridge auth status

  # Revoke and forget the Google token
  calbridge auth revoke`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize with Google via the browser",
	RunE:  runAuthLogin,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show token state per provider",
	RunE:  runAuthStatus,
}

var authRevokeCmd = &cobra.Command{
	Use:   "revoke",
	Short: "Revoke the stored Google token",
	RunE:  runAuthRevoke,
}

func init() {
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRevokeCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authFlow == nil {
		return errors.New("google provider not configured; set google.client_id and google.client_secret")
	}

	ctx := context.Background()

	state, err := oauth.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state: %w", err)
	}

	port, err := callbackPort()
	if err != nil {
		return err
	}

	server := oauth.NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	defer server.Stop()

	authURL, err := authFlow.AuthorizationURLWithState(state)
	if err != nil {
		return fmt.Errorf("failed to build authorization URL: %w", err)
	}

	cmd.Println("Opening browser for Google authorization...")
	cmd.Printf("If the browser does not open, visit:\n\n  %s\n\n", authURL)
	if err := oauth.OpenBrowser(authURL); err != nil {
		logger.Debug("browser launch failed: %v", err)
	}

	cmd.Println("Waiting for authorization...")
	code, err := server.WaitForCode(authLoginTimeout)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	if err := authFlow.ExchangeCode(ctx, code); err != nil {
		return fmt.Errorf("token exchange failed: %w", err)
	}

	cmd.Println("Authorization complete. Token stored.")
	return nil
}

// callbackPort extracts the port of the configured redirect URI so the
// local server binds where the provider will send the browser.
func callbackPort() (int, error) {
	redirect := defaultRedirectURI
	if configStore != nil {
		if v := configStore.GetString(keyRedirectURI); v != "" {
			redirect = v
		}
	}

	parsed, err := url.Parse(redirect)
	if err != nil {
		return 0, fmt.Errorf("invalid redirect URI %q: %w", redirect, err)
	}
	raw := parsed.Port()
	if raw == "" {
		return 0, fmt.Errorf("redirect URI %q must carry an explicit port", redirect)
	}
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid redirect URI port %q: %w", raw, err)
	}
	return port, nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if sourceRegistry == nil || tokenStore == nil {
		return errors.New("token store not configured")
	}

	ctx := context.Background()

	cmd.Println("Provider authorization status:")
	cmd.Println()
	for _, source := range sourceRegistry.Sources() {
		line, err := sourceStatusLine(ctx, source)
		if err != nil {
			return fmt.Errorf("failed to read token for %s: %w", source, err)
		}
		cmd.Printf("  %-10s %s\n", source, line)
	}

	return nil
}

// sourceStatusLine renders one provider's row for auth status.
func sourceStatusLine(ctx context.Context, source domain.CalendarSource) (string, error) {
	if !sourceRegistry.Implemented(source) {
		if sourceRegistry.AuthMethod(source) == domain.AuthMethodSystem {
			return "not implemented (uses system permissions)", nil
		}
		return "not implemented", nil
	}

	token, err := tokenStore.GetToken(ctx, source)
	if err != nil {
		return "", err
	}
	return tokenStatusLine(token), nil
}

// tokenStatusLine summarizes stored token state for display.
func tokenStatusLine(token *domain.TokenData) string {
	if token == nil {
		return "not authorized"
	}

	if token.IsExpired() {
		if token.RefreshToken != nil {
			return "expired (refresh available)"
		}
		return "expired (re-authorization required)"
	}

	if token.ExpiresAt != nil {
		return fmt.Sprintf("authorized (expires %s)", token.ExpiresAt.Local().Format("2006-01-02 15:04:05"))
	}
	return "authorized"
}

func runAuthRevoke(cmd *cobra.Command, _ []string) error {
	if authFlow == nil {
		return errors.New("google provider not configured; set google.client_id and google.client_secret")
	}

	ctx := context.Background()

	if err := authFlow.RevokeToken(ctx); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	cmd.Println("Google token revoked and removed.")
	return nil
}
