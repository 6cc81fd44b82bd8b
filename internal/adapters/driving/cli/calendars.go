package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var calendarsCmd = &cobra.Command{
	Use:   "calendars",
	Short: "Work with calendars",
}

var calendarsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List calendars visible to the account",
	RunE:  runCalendarsList,
}

func init() {
	calendarsCmd.AddCommand(calendarsListCmd)
	rootCmd.AddCommand(calendarsCmd)
}

func runCalendarsList(cmd *cobra.Command, _ []string) error {
	if calendarProvider == nil {
		return errors.New("google provider not configured; set google.client_id and google.client_secret")
	}

	ctx := context.Background()

	calendars, err := calendarProvider.ListCalendars(ctx)
	if err != nil {
		return fmt.Errorf("failed to list calendars: %w", err)
	}

	if len(calendars) == 0 {
		cmd.Println("No calendars visible to this account.")
		return nil
	}

	cmd.Printf("Calendars (%s):\n\n", calendarProvider.Name())
	for i := range calendars {
		cmd.Printf("  %s\n", calendars[i].ID)
		cmd.Printf("    Name: %s\n", calendars[i].Name)
		if calendars[i].IsPrimary {
			cmd.Println("    Primary: yes")
		}
		cmd.Printf("    Writable: %s\n", boolWord(calendars[i].CanWrite))
		if calendars[i].Description != nil && *calendars[i].Description != "" {
			cmd.Printf("    Description: %s\n", *calendars[i].Description)
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d calendars\n", len(calendars))
	return nil
}

// boolWord renders a boolean for display.
func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
