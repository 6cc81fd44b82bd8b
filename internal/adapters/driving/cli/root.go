// Package cli implements the calbridge command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/core/ports/driving"
	"github.com/custodia-labs/calbridge/internal/core/services"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// version is overridden at build time via ldflags.
var version = "dev"

// Service handles the commands call into. The composition root injects
// them through SetServices; any left nil makes the commands that need it
// fail with a "not configured" error instead of panicking, so a partially
// configured installation (e.g. no OAuth client yet) still runs
// version, help, and auth status.
var (
	calendarProvider driven.CalendarProvider
	webhookProvider  driven.WebhookProvider
	authFlow         driving.AuthFlow
	tokenStore       driven.TokenStore
	configStore      driven.ConfigStore
	sourceRegistry   *services.Registry
)

// Services bundles the dependencies the CLI commands operate on.
type Services struct {
	Provider driven.CalendarProvider
	Webhooks driven.WebhookProvider
	Auth     driving.AuthFlow
	Tokens   driven.TokenStore
	Config   driven.ConfigStore
	Registry *services.Registry
}

// SetServices injects the service graph built by the composition root.
func SetServices(s Services) {
	calendarProvider = s.Provider
	webhookProvider = s.Webhooks
	authFlow = s.Auth
	tokenStore = s.Tokens
	configStore = s.Config
	sourceRegistry = s.Registry
}

// Global flags.
var (
	flagVerbose bool
	flagConfig  string
	flagStore   string
)

var rootCmd = &cobra.Command{
	Use:   "calbridge",
	Short: "Unified calendar access from the command line",
	Long: `Calbridge talks to calendar providers through one normalized model:
calendars, events, free/busy queries, and push notification channels.
Google Calendar is implemented; Outlook is planned.

Credentials live in the config file (default ~/.calbridge/config.toml,
section [google] with client_id, client_secret, redirect_uri). Tokens are
persisted in the backend selected with --store.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&flagVerbose, "verbose", "v", false, "Enable verbose debug output")
	rootCmd.PersistentFlags().StringVar(
		&flagConfig, "config", "", "Config directory (default ~/.calbridge)")
	rootCmd.PersistentFlags().StringVar(
		&flagStore, "store", "file", "Token store backend (memory, file, sqlite)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
