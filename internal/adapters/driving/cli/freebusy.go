package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var freebusyCmd = &cobra.Command{
	Use:   "freebusy [calendar-id]...",
	Short: "Query availability across calendars",
	Long: `Query busy periods for one or more calendars over a time range.

Examples:
  calbridge freebusy primary --from 2026-08-22 --to 2026-08-23
  calbridge freebusy primary team@example.com \
    --from 2026-08-22T09:00:00Z --to 2026-08-22T18:00:00Z`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFreeBusy,
}

// Flags for freebusy.
var (
	freebusyFrom string
	freebusyTo   string
)

func init() {
	freebusyCmd.Flags().StringVar(
		&freebusyFrom, "from", "", "Range start (RFC3339 or YYYY-MM-DD, required)")
	freebusyCmd.Flags().StringVar(
		&freebusyTo, "to", "", "Range end (RFC3339 or YYYY-MM-DD, required)")
	_ = freebusyCmd.MarkFlagRequired("from")
	_ = freebusyCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(freebusyCmd)
}

func runFreeBusy(cmd *cobra.Command, args []string) error {
	if calendarProvider == nil {
		return errors.New("google provider not configured; set google.client_id and google.client_secret")
	}

	ctx := context.Background()

	from, err := parseTimeFlag(freebusyFrom)
	if err != nil {
		return err
	}
	to, err := parseTimeFlag(freebusyTo)
	if err != nil {
		return err
	}
	if !to.After(*from) {
		return fmt.Errorf("range end %s is not after start %s", freebusyTo, freebusyFrom)
	}

	availability, err := calendarProvider.GetFreeBusy(ctx, args, *from, *to)
	if err != nil {
		return fmt.Errorf("failed to query free/busy: %w", err)
	}

	cmd.Printf("Availability %s - %s:\n\n",
		from.Local().Format("2006-01-02 15:04"), to.Local().Format("2006-01-02 15:04"))

	// Iterate the requested IDs so output order matches the arguments.
	for _, calendarID := range args {
		cmd.Printf("  %s:\n", calendarID)
		periods := availability[calendarID]
		if len(periods) == 0 {
			cmd.Println("    free")
			cmd.Println()
			continue
		}
		for _, p := range periods {
			cmd.Printf("    %s - %s  %s\n",
				p.Start.Local().Format("2006-01-02 15:04"),
				p.End.Local().Format("2006-01-02 15:04"),
				p.Status)
		}
		cmd.Println()
	}

	return nil
}
