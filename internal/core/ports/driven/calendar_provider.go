package driven

import (
	"context"
	"time"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// CalendarProvider is the unified calendar surface over one backend.
// All operations honour context cancellation; none hold locks across
// network calls.
type CalendarProvider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// ListCalendars returns every calendar visible to the account.
	ListCalendars(ctx context.Context) ([]domain.Calendar, error)

	// ListEvents returns events in a calendar, optionally bounded by
	// a time range. Nil bounds mean unbounded on that side. Recurring
	// events are expanded into instances.
	ListEvents(ctx context.Context, calendarID string, start, end *time.Time) ([]domain.Event, error)

	// CreateEvent creates an event and returns it with the
	// provider-assigned ID.
	CreateEvent(ctx context.Context, calendarID string, event domain.Event) (*domain.Event, error)

	// UpdateEvent replaces an existing event.
	UpdateEvent(ctx context.Context, calendarID, eventID string, event domain.Event) (*domain.Event, error)

	// DeleteEvent removes an event.
	DeleteEvent(ctx context.Context, calendarID, eventID string) error

	// GetFreeBusy returns availability windows per calendar for a range.
	GetFreeBusy(ctx context.Context, calendarIDs []string, start, end time.Time) (map[string][]domain.FreeBusyPeriod, error)
}

// WebhookProvider is the optional push notification capability.
// Providers constructed without a public endpoint report
// HasWebhookSupport() == false and fail WatchCalendar and StopWatch
// with a domain.KindConfiguration error. ProcessNotification needs no
// endpoint; it verifies against the caller's expected token.
type WebhookProvider interface {
	// HasWebhookSupport reports whether a webhook endpoint is configured.
	HasWebhookSupport() bool

	// WatchCalendar subscribes to change notifications for a calendar.
	// A nil ttl uses the provider default; providers cap excessive values.
	WatchCalendar(ctx context.Context, calendarID string, ttl *time.Duration) (*domain.WatchChannel, error)

	// StopWatch cancels a subscription. Stopping an already-expired
	// channel is not an error.
	StopWatch(ctx context.Context, channelID, resourceID string) error

	// ProcessNotification validates a delivered notification and returns
	// the events changed around now. Sync confirmations return an empty
	// slice.
	ProcessNotification(ctx context.Context, n domain.Notification, expectedToken *string) ([]domain.Event, error)
}
