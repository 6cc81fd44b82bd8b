package google

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// Interface compliance checks.
var (
	_ driven.CalendarProvider = (*Provider)(nil)
	_ driven.WebhookProvider  = (*Provider)(nil)
)

// resourceCalendarPattern pulls the calendar ID out of a notification's
// resource URI.
var resourceCalendarPattern = regexp.MustCompile(`/calendars/([^/]+)/events`)

// notificationWindow bounds the event listing returned after a change
// notification, centred on now.
const notificationWindow = 24 * time.Hour

// Provider is the Google Calendar backend. It composes the OAuth token
// manager, the rate-limited gateway, an optional response cache and,
// when a public endpoint is configured, webhook channel management.
type Provider struct {
	auth     *TokenManager
	gateway  *Gateway
	cache    *CalendarCache
	webhooks *WebhookManager
}

type providerOptions struct {
	baseURL         string
	webhookEndpoint string
	webhookSecret   *string
}

// Option adjusts provider construction.
type Option func(*providerOptions)

// WithWebhookEndpoint enables push notifications. Registered channels
// point at endpoint; a non-nil secret is sent as the channel token and
// verified on delivery.
func WithWebhookEndpoint(endpoint string, secret *string) Option {
	return func(o *providerOptions) {
		o.webhookEndpoint = endpoint
		o.webhookSecret = secret
	}
}

// WithBaseURL points the provider at a different API host. Tests use
// this to stand in a local server.
func WithBaseURL(baseURL string) Option {
	return func(o *providerOptions) {
		o.baseURL = baseURL
	}
}

// NewProvider wires the full Google connector against the given OAuth
// client and token store.
func NewProvider(clientID, clientSecret, redirectURI string, store driven.TokenStore, cfg Config, opts ...Option) *Provider {
	var options providerOptions
	for _, opt := range opts {
		opt(&options)
	}

	client := &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	auth := NewTokenManager(clientID, clientSecret, redirectURI, store, client)
	limiter := NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	gateway := NewGateway(client, limiter, auth, options.baseURL, cfg)

	p := &Provider{
		auth:    auth,
		gateway: gateway,
	}
	if cfg.CacheEnabled {
		p.cache = NewCalendarCache(cfg.CacheTTL)
	}
	if options.webhookEndpoint != "" {
		p.webhooks = NewWebhookManager(gateway, options.webhookEndpoint, options.webhookSecret)
	}
	return p
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return string(domain.SourceGoogle)
}

// Auth exposes the OAuth flow for driving adapters.
func (p *Provider) Auth() *TokenManager {
	return p.auth
}

// CacheStats reports cache occupancy. Zero-valued when caching is off.
func (p *Provider) CacheStats() domain.CacheStats {
	return p.cache.Stats()
}

// ListCalendars returns every calendar on the account's calendar list,
// following pagination.
func (p *Provider) ListCalendars(ctx context.Context) ([]domain.Calendar, error) {
	if cached, ok := p.cache.Calendars(); ok {
		logger.Debug("google: calendar list served from cache")
		return cached, nil
	}

	calendars := make([]domain.Calendar, 0)
	pageToken := ""
	for {
		query := url.Values{}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page calendarListResponse
		if err := p.gateway.GetJSON(ctx, "/users/me/calendarList", query, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			calendars = append(calendars, calendarFromAPI(item))
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	p.cache.SetCalendars(calendars)
	return calendars, nil
}

// ListEvents returns a calendar's events, expanded to single instances
// and ordered by start time. Nil bounds leave that side of the range
// open.
func (p *Provider) ListEvents(ctx context.Context, calendarID string, start, end *time.Time) ([]domain.Event, error) {
	key := eventsKey(calendarID, start, end)
	if cached, ok := p.cache.Events(key); ok {
		logger.Debug("google: events for %s served from cache", calendarID)
		return cached, nil
	}

	events := make([]domain.Event, 0)
	pageToken := ""
	for {
		query := url.Values{}
		query.Set("singleEvents", "true")
		query.Set("orderBy", "startTime")
		if start != nil {
			query.Set("timeMin", start.UTC().Format(time.RFC3339))
		}
		if end != nil {
			query.Set("timeMax", end.UTC().Format(time.RFC3339))
		}
		if pageToken != "" {
			query.Set("pageToken", pageToken)
		}

		var page eventListResponse
		if err := p.gateway.GetJSON(ctx, "/calendars/"+url.PathEscape(calendarID)+"/events", query, &page); err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			events = append(events, eventFromAPI(item, calendarID))
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	p.cache.SetEvents(key, events)
	return events, nil
}

// CreateEvent creates an event and returns it with the server-assigned
// ID. Cached listings for the calendar are invalidated.
func (p *Provider) CreateEvent(ctx context.Context, calendarID string, event domain.Event) (*domain.Event, error) {
	var res apiEvent
	path := "/calendars/" + url.PathEscape(calendarID) + "/events"
	if err := p.gateway.PostJSON(ctx, path, eventToAPI(event), &res); err != nil {
		return nil, err
	}

	p.cache.InvalidateEvents(calendarID)
	created := eventFromAPI(res, calendarID)
	return &created, nil
}

// UpdateEvent replaces an event and returns the stored version.
func (p *Provider) UpdateEvent(ctx context.Context, calendarID, eventID string, event domain.Event) (*domain.Event, error) {
	var res apiEvent
	path := "/calendars/" + url.PathEscape(calendarID) + "/events/" + url.PathEscape(eventID)
	if err := p.gateway.PutJSON(ctx, path, eventToAPI(event), &res); err != nil {
		return nil, err
	}

	p.cache.InvalidateEvents(calendarID)
	updated := eventFromAPI(res, calendarID)
	return &updated, nil
}

// DeleteEvent removes an event and invalidates the calendar's cached
// listings.
func (p *Provider) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	path := "/calendars/" + url.PathEscape(calendarID) + "/events/" + url.PathEscape(eventID)
	if err := p.gateway.Delete(ctx, path); err != nil {
		return err
	}

	p.cache.InvalidateEvents(calendarID)
	return nil
}

// GetFreeBusy queries availability for the calendars over the range.
// Google only distinguishes busy windows, so every period carries
// BusyStatusBusy.
func (p *Provider) GetFreeBusy(ctx context.Context, calendarIDs []string, start, end time.Time) (map[string][]domain.FreeBusyPeriod, error) {
	key := freeBusyKey(calendarIDs, start, end)
	if cached, ok := p.cache.FreeBusy(key); ok {
		logger.Debug("google: free/busy served from cache")
		return cached, nil
	}

	req := freeBusyRequest{
		TimeMin: start.UTC().Format(time.RFC3339),
		TimeMax: end.UTC().Format(time.RFC3339),
	}
	for _, id := range calendarIDs {
		req.Items = append(req.Items, freeBusyKeyItem{ID: id})
	}

	var res freeBusyResponse
	if err := p.gateway.PostJSON(ctx, "/freeBusy", req, &res); err != nil {
		return nil, err
	}

	out := make(map[string][]domain.FreeBusyPeriod, len(res.Calendars))
	for id, calendar := range res.Calendars {
		periods := make([]domain.FreeBusyPeriod, 0, len(calendar.Busy))
		for _, window := range calendar.Busy {
			startAt, err := time.Parse(time.RFC3339, window.Start)
			if err != nil {
				return nil, domain.Errorf(domain.KindInvalidData, "Invalid date format: %s", window.Start)
			}
			endAt, err := time.Parse(time.RFC3339, window.End)
			if err != nil {
				return nil, domain.Errorf(domain.KindInvalidData, "Invalid date format: %s", window.End)
			}
			periods = append(periods, domain.FreeBusyPeriod{
				Start:  startAt.UTC(),
				End:    endAt.UTC(),
				Status: domain.BusyStatusBusy,
			})
		}
		out[id] = periods
	}

	p.cache.SetFreeBusy(key, out)
	return out, nil
}

// HasWebhookSupport reports whether a webhook endpoint is configured.
func (p *Provider) HasWebhookSupport() bool {
	return p.webhooks != nil
}

// WatchCalendar registers a push channel for the calendar.
func (p *Provider) WatchCalendar(ctx context.Context, calendarID string, ttl *time.Duration) (*domain.WatchChannel, error) {
	if p.webhooks == nil {
		return nil, domain.NewError(domain.KindConfiguration, "Webhook endpoint not configured")
	}
	return p.webhooks.Watch(ctx, calendarID, ttl)
}

// StopWatch tears down a push channel.
func (p *Provider) StopWatch(ctx context.Context, channelID, resourceID string) error {
	if p.webhooks == nil {
		return domain.NewError(domain.KindConfiguration, "Webhook endpoint not configured")
	}
	return p.webhooks.Stop(ctx, channelID, resourceID)
}

// ProcessNotification validates a delivered notification and returns
// the events changed around now. Channel registration is not required;
// verification runs against the caller's expected token.
func (p *Provider) ProcessNotification(ctx context.Context, n domain.Notification, expectedToken *string) ([]domain.Event, error) {
	if !verifyChannelToken(expectedToken, n.ChannelToken) {
		return nil, domain.NewError(domain.KindAuthentication, "Webhook token verification failed")
	}

	calendarID, err := calendarIDFromResourceURI(n.ResourceURI)
	if err != nil {
		return nil, err
	}

	if n.ResourceState == domain.ResourceStateSync {
		logger.Debug("google: sync confirmation for channel %s", n.ChannelID)
		return []domain.Event{}, nil
	}

	p.cache.InvalidateEvents(calendarID)

	start := time.Now().Add(-notificationWindow)
	end := time.Now().Add(notificationWindow)
	return p.ListEvents(ctx, calendarID, &start, &end)
}

// verifyChannelToken applies the channel token check: valid when both
// sides are absent or both are present and equal. A token on only one
// side fails.
func verifyChannelToken(expected, received *string) bool {
	if expected == nil || received == nil {
		return expected == nil && received == nil
	}
	return *received == *expected
}

func calendarIDFromResourceURI(resourceURI string) (string, error) {
	match := resourceCalendarPattern.FindStringSubmatch(resourceURI)
	if match == nil {
		return "", domain.Errorf(domain.KindProvider, "Cannot extract calendar ID from resource URI: %s", resourceURI)
	}
	id, err := url.PathUnescape(match[1])
	if err != nil {
		return "", domain.Errorf(domain.KindProvider, "Cannot extract calendar ID from resource URI: %s", resourceURI)
	}
	return id, nil
}
