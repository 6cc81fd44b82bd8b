package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Manage calendar change subscriptions",
	Long: `Manage push notification channels for calendar changes.

Starting a watch requires a publicly reachable webhook endpoint,
configured as webhook.endpoint. Deliveries arrive at the receiver
started with "calbridge serve".

Examples:
  calbridge watch start primary
  calbridge watch start primary --ttl 48h
  calbridge watch stop chan_abc123 resource_xyz`,
}

var watchStartCmd = &cobra.Command{
	Use:   "start [calendar-id]",
	Short: "Subscribe to change notifications for a calendar",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatchStart,
}

var watchStopCmd = &cobra.Command{
	Use:   "stop [channel-id] [resource-id]",
	Short: "Cancel a change subscription",
	Args:  cobra.ExactArgs(2),
	RunE:  runWatchStop,
}

var watchTTL time.Duration

func init() {
	watchStartCmd.Flags().DurationVar(
		&watchTTL, "ttl", 0, "Channel lifetime (e.g. 24h; 0 uses the provider default)")

	watchCmd.AddCommand(watchStartCmd)
	watchCmd.AddCommand(watchStopCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatchStart(cmd *cobra.Command, args []string) error {
	if webhookProvider == nil {
		return errors.New("google provider not configured; set google.client_id and google.client_secret")
	}

	calendarID := args[0]
	ctx := context.Background()

	var ttl *time.Duration
	if watchTTL > 0 {
		ttl = &watchTTL
	}

	channel, err := webhookProvider.WatchCalendar(ctx, calendarID, ttl)
	if err != nil {
		return fmt.Errorf("failed to start watch: %w", err)
	}

	cmd.Printf("Watch started for %s:\n\n", calendarID)
	cmd.Printf("  Channel ID: %s\n", channel.ID)
	cmd.Printf("  Resource ID: %s\n", channel.ResourceID)
	cmd.Printf("  Expires: %s\n", channel.Expiration.Local().Format("2006-01-02 15:04:05"))
	cmd.Println()
	cmd.Println("Keep both IDs; stopping the watch requires them.")
	return nil
}

func runWatchStop(cmd *cobra.Command, args []string) error {
	if webhookProvider == nil {
		return errors.New("google provider not configured; set google.client_id and google.client_secret")
	}

	channelID, resourceID := args[0], args[1]
	ctx := context.Background()

	if err := webhookProvider.StopWatch(ctx, channelID, resourceID); err != nil {
		return fmt.Errorf("failed to stop watch: %w", err)
	}

	cmd.Printf("Watch %s stopped.\n", channelID)
	return nil
}
