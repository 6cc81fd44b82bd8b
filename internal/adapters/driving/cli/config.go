package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage calbridge configuration",
	Long: `View and change configuration values, or run the interactive setup.

Values persist to the config file immediately. Keys use dot notation
and map to TOML tables, e.g. google.client_id lands in the [google]
section.

Examples:
  calbridge config
  calbridge config set google.client_id 1234.apps.googleusercontent.com
  calbridge config get google.redirect_uri
  calbridge config setup`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Long:  `Prompt for the Google OAuth client and webhook settings step by step.`,
	RunE:  runConfigSetup,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configSetupCmd)
	rootCmd.AddCommand(configCmd)
}

// secretKeys are masked in show output.
var secretKeys = map[string]bool{
	keyClientSecret: true,
	keyWebhookToken: true,
}

// shownKeys drives the show layout, grouped by config file section.
var shownKeys = []struct {
	section string
	keys    []string
}{
	{"google", []string{keyClientID, keyClientSecret, keyRedirectURI}},
	{"webhook", []string{keyWebhookEndpoint, keyWebhookToken}},
	{"storage", []string{keyStoragePath}},
	{"cache", []string{keyCacheTTL, keyCacheEnabled}},
	{"http", []string{keyHTTPTimeout, keyHTTPRetries}},
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()

	for _, group := range shownKeys {
		cmd.Printf("[%s]\n", group.section)
		for _, key := range group.keys {
			name := strings.TrimPrefix(key, group.section+".")
			cmd.Printf("  %s: %s\n", name, displayValue(key))
		}
		cmd.Println()
	}

	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	value, ok := configStore.Get(args[0])
	if !ok {
		return fmt.Errorf("key %q is not set", args[0])
	}

	cmd.Printf("%v\n", value)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if err := configStore.Set(key, coerceValue(args[1])); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("%s set.\n", key)
	return nil
}

func runConfigSetup(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Calbridge Setup")
	cmd.Println("===============")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)

	cmd.Println("Step 1: Google OAuth client")
	cmd.Println("---------------------------")
	cmd.Println("Create a Desktop app OAuth client in the Google Cloud console")
	cmd.Println("and paste its credentials here. Blank keeps the stored value.")
	cmd.Println()

	if err := promptString(cmd, reader, "Client ID", keyClientID); err != nil {
		return err
	}
	if err := promptSecret(cmd, "Client secret", keyClientSecret); err != nil {
		return err
	}
	if err := promptStringDefault(cmd, reader, "Redirect URI", keyRedirectURI, defaultRedirectURI); err != nil {
		return err
	}
	cmd.Println()

	cmd.Println("Step 2: Webhook delivery (optional)")
	cmd.Println("-----------------------------------")
	cmd.Println("Push notifications need an HTTPS endpoint the provider can")
	cmd.Println("reach. Leave blank to skip.")
	cmd.Println()

	if err := promptString(cmd, reader, "Endpoint URL", keyWebhookEndpoint); err != nil {
		return err
	}
	if configStore.GetString(keyWebhookEndpoint) != "" {
		if err := promptSecret(cmd, "Channel token", keyWebhookToken); err != nil {
			return err
		}
	}
	cmd.Println()

	cmd.Println("Setup complete.")
	cmd.Println("Run 'calbridge auth login' to authorize.")
	return nil
}

// displayValue renders one key for show output, masking secrets.
func displayValue(key string) string {
	value, ok := configStore.Get(key)
	if !ok {
		return "(not set)"
	}
	if secretKeys[key] {
		if s, isString := value.(string); isString {
			return maskSecret(s)
		}
	}
	return fmt.Sprintf("%v", value)
}

// coerceValue turns command line input into the type the config file
// round-trips: bools and integers stay typed, everything else is a
// string.
func coerceValue(raw string) any {
	if raw == "true" {
		return true
	}
	if raw == "false" {
		return false
	}
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}

// promptString asks for one value, keeping the stored value on a blank
// answer.
func promptString(cmd *cobra.Command, reader *bufio.Reader, label, key string) error {
	if current := configStore.GetString(key); current != "" {
		cmd.Printf("%s [%s]: ", label, current)
	} else {
		cmd.Printf("%s: ", label)
	}

	input := readLine(reader)
	if input == "" {
		return nil
	}
	if err := configStore.Set(key, input); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// promptStringDefault is promptString with a fallback shown and stored
// when nothing is configured yet.
func promptStringDefault(cmd *cobra.Command, reader *bufio.Reader, label, key, fallback string) error {
	current := configStore.GetString(key)
	if current == "" {
		current = fallback
	}
	cmd.Printf("%s [%s]: ", label, current)

	input := readLine(reader)
	if input == "" {
		input = current
	}
	if err := configStore.Set(key, input); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// promptSecret reads a value without echo when attached to a terminal.
func promptSecret(cmd *cobra.Command, label, key string) error {
	if current := configStore.GetString(key); current != "" {
		cmd.Printf("%s [%s]: ", label, maskSecret(current))
	} else {
		cmd.Printf("%s: ", label)
	}

	input := readPassword()
	cmd.Println()
	if input == "" {
		return nil
	}
	if err := configStore.Set(key, input); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func maskSecret(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
