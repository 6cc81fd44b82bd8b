package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Work with calendar events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list [calendar-id]",
	Short: "List events in a calendar",
	Long: `List events in a calendar, optionally bounded by a time range.
Recurring events are expanded into instances.

Examples:
  calbridge events list primary
  calbridge events list primary --from 2026-08-01 --to 2026-09-01
  calbridge events list team@example.com --from 2026-08-22T09:00:00Z`,
	Args: cobra.ExactArgs(1),
	RunE: runEventsList,
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create [calendar-id]",
	Short: "Create an event",
	Long: `Create an event in a calendar.

Examples:
  calbridge events create primary --title "Planning" \
    --from 2026-08-22T14:00:00Z --to 2026-08-22T15:00:00Z

  # All-day event (end date exclusive)
  calbridge events create primary --title "Offsite" --all-day \
    --from 2026-09-01 --to 2026-09-03`,
	Args: cobra.ExactArgs(1),
	RunE: runEventsCreate,
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete [calendar-id] [event-id]",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(2),
	RunE:  runEventsDelete,
}

// Flags for events list.
var (
	eventsListFrom string
	eventsListTo   string
)

// Flags for events create.
var (
	eventsCreateTitle       string
	eventsCreateFrom        string
	eventsCreateTo          string
	eventsCreateAllDay      bool
	eventsCreateLocation    string
	eventsCreateDescription string
)

func init() {
	eventsListCmd.Flags().StringVar(
		&eventsListFrom, "from", "", "Range start (RFC3339 or YYYY-MM-DD)")
	eventsListCmd.Flags().StringVar(
		&eventsListTo, "to", "", "Range end (RFC3339 or YYYY-MM-DD)")

	eventsCreateCmd.Flags().StringVar(
		&eventsCreateTitle, "title", "", "Event title (required)")
	eventsCreateCmd.Flags().StringVar(
		&eventsCreateFrom, "from", "", "Start time (RFC3339 or YYYY-MM-DD; defaults to now)")
	eventsCreateCmd.Flags().StringVar(
		&eventsCreateTo, "to", "", "End time (RFC3339 or YYYY-MM-DD; defaults to start + 1h)")
	eventsCreateCmd.Flags().BoolVar(
		&eventsCreateAllDay, "all-day", false, "Create an all-day event")
	eventsCreateCmd.Flags().StringVar(
		&eventsCreateLocation, "location", "", "Event location")
	eventsCreateCmd.Flags().StringVar(
		&eventsCreateDescription, "description", "", "Event description")
	_ = eventsCreateCmd.MarkFlagRequired("title")

	eventsCmd.AddCommand(eventsListCmd)
	eventsCmd.AddCommand(eventsCreateCmd)
	eventsCmd.AddCommand(eventsDeleteCmd)
	rootCmd.AddCommand(eventsCmd)
}

func runEventsList(cmd *cobra.Command, args []string) error {
	if calendarProvider == nil {
		return errors.New("google provider not configured; set google.client_id and google.client_secret")
	}

	calendarID := args[0]
	ctx := context.Background()

	from, err := parseTimeFlag(eventsListFrom)
	if err != nil {
		return err
	}
	to, err := parseTimeFlag(eventsListTo)
	if err != nil {
		return err
	}

	events, err := calendarProvider.ListEvents(ctx, calendarID, from, to)
	if err != nil {
		return fmt.Errorf("failed to list events: %w", err)
	}

	if len(events) == 0 {
		cmd.Printf("No events found in calendar: %s\n", calendarID)
		return nil
	}

	cmd.Printf("Events in %s:\n\n", calendarID)
	for i := range events {
		printEvent(cmd, events[i])
		cmd.Println()
	}

	cmd.Printf("Total: %d events\n", len(events))
	return nil
}

func runEventsCreate(cmd *cobra.Command, args []string) error {
	if calendarProvider == nil {
		return errors.New("google provider not configured; set google.client_id and google.client_secret")
	}

	calendarID := args[0]
	ctx := context.Background()

	event, err := buildCreateEvent(time.Now())
	if err != nil {
		return err
	}

	created, err := calendarProvider.CreateEvent(ctx, calendarID, event)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}

	cmd.Printf("Event created in %s:\n\n", calendarID)
	printEvent(cmd, *created)
	return nil
}

func runEventsDelete(cmd *cobra.Command, args []string) error {
	if calendarProvider == nil {
		return errors.New("google provider not configured; set google.client_id and google.client_secret")
	}

	calendarID, eventID := args[0], args[1]
	ctx := context.Background()

	if err := calendarProvider.DeleteEvent(ctx, calendarID, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}

	cmd.Printf("Event %s deleted from %s.\n", eventID, calendarID)
	return nil
}

// buildCreateEvent assembles the event payload from the create flags.
func buildCreateEvent(now time.Time) (domain.Event, error) {
	start := now
	if eventsCreateFrom != "" {
		t, err := parseTimeFlag(eventsCreateFrom)
		if err != nil {
			return domain.Event{}, err
		}
		start = *t
	}

	var end time.Time
	switch {
	case eventsCreateTo != "":
		t, err := parseTimeFlag(eventsCreateTo)
		if err != nil {
			return domain.Event{}, err
		}
		end = *t
	case eventsCreateAllDay:
		end = start.Add(24 * time.Hour)
	default:
		end = start.Add(time.Hour)
	}

	if eventsCreateAllDay {
		start = midnightUTC(start)
		end = midnightUTC(end)
	}

	if !end.After(start) {
		return domain.Event{}, fmt.Errorf("event end %s is not after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}

	title := eventsCreateTitle
	event := domain.Event{
		Source: domain.SourceGoogle,
		Title:  &title,
		Start:  domain.EventMoment{DateTime: start},
		End:    domain.EventMoment{DateTime: end},
	}
	if eventsCreateAllDay {
		yes := true
		event.Start.AllDay = &yes
		event.End.AllDay = &yes
	}
	if eventsCreateLocation != "" {
		location := eventsCreateLocation
		event.Location = &location
	}
	if eventsCreateDescription != "" {
		description := eventsCreateDescription
		event.Description = &description
	}

	return event, nil
}

// parseTimeFlag parses a --from/--to value. Accepts RFC3339 or a bare
// date, interpreted as midnight UTC. Empty input means unbounded.
func parseTimeFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	return nil, fmt.Errorf("invalid time %q (expected RFC3339 or YYYY-MM-DD)", value)
}

// midnightUTC truncates a time to its UTC calendar date.
func midnightUTC(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// printEvent renders one event as an indented block.
func printEvent(cmd *cobra.Command, e domain.Event) {
	cmd.Printf("  %s\n", e.ID)
	if e.Title != nil && *e.Title != "" {
		cmd.Printf("    Title: %s\n", *e.Title)
	}
	cmd.Printf("    When: %s\n", formatEventSpan(e))
	if e.Location != nil && *e.Location != "" {
		cmd.Printf("    Location: %s\n", *e.Location)
	}
	if e.Status != nil {
		cmd.Printf("    Status: %s\n", *e.Status)
	}
}

// formatEventSpan renders an event's time range for display. All-day
// spans print as dates (end exclusive); timed spans print in local time.
func formatEventSpan(e domain.Event) string {
	if e.Start.IsAllDay() {
		start := e.Start.DateTime.UTC()
		lastDay := e.End.DateTime.UTC().Add(-24 * time.Hour)
		if lastDay.After(start) {
			return fmt.Sprintf("%s - %s (all day)",
				start.Format("2006-01-02"), lastDay.Format("2006-01-02"))
		}
		return start.Format("2006-01-02") + " (all day)"
	}

	start := e.Start.DateTime.Local()
	end := e.End.DateTime.Local()
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return fmt.Sprintf("%s - %s", start.Format("2006-01-02 15:04"), end.Format("15:04"))
	}
	return fmt.Sprintf("%s - %s",
		start.Format("2006-01-02 15:04"), end.Format("2006-01-02 15:04"))
}
