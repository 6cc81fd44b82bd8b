package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/logger"
)

// Watch channel lifetime bounds. Google caps calendar channels at seven
// days; requests above the cap are clamped rather than rejected.
const (
	defaultWatchTTL = 24 * time.Hour
	maxWatchTTL     = 168 * time.Hour

	// renewalWindow is how close to expiration a channel may get before
	// NeedsRenewal reports it.
	renewalWindow = 24 * time.Hour
)

// watchRequest is the body posted to /calendars/{id}/events/watch.
type watchRequest struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Address    string  `json:"address"`
	Token      *string `json:"token,omitempty"`
	Expiration *int64  `json:"expiration,omitempty"`
}

// watchResponse is Google's channel descriptor. Expiration arrives as a
// unix-millisecond count encoded as a string.
type watchResponse struct {
	ID          string  `json:"id"`
	ResourceID  string  `json:"resourceId"`
	ResourceURI string  `json:"resourceUri"`
	Token       *string `json:"token,omitempty"`
	Expiration  string  `json:"expiration"`
}

type stopRequest struct {
	ID         string `json:"id"`
	ResourceID string `json:"resourceId"`
}

// WebhookManager registers and tears down push notification channels for
// Google Calendar. Channel calls share the gateway's rate limiting and
// auth but keep their own status handling, since watch failures surface
// the raw response rather than the mapped API error.
type WebhookManager struct {
	gateway  *Gateway
	endpoint string
	secret   *string
}

// NewWebhookManager returns a manager that registers channels pointing
// at endpoint. A non-nil secret is sent as the channel token and checked
// against incoming notifications.
func NewWebhookManager(gateway *Gateway, endpoint string, secret *string) *WebhookManager {
	return &WebhookManager{
		gateway:  gateway,
		endpoint: endpoint,
		secret:   secret,
	}
}

// Watch registers a push channel for the calendar. A nil ttl asks for
// the default lifetime; any requested lifetime is clamped to Google's
// seven-day maximum. The returned channel carries the identifiers needed
// to stop it later.
func (w *WebhookManager) Watch(ctx context.Context, calendarID string, ttl *time.Duration) (*domain.WatchChannel, error) {
	lifetime := defaultWatchTTL
	if ttl != nil {
		lifetime = *ttl
	}
	if lifetime > maxWatchTTL {
		lifetime = maxWatchTTL
	}

	expiration := time.Now().Add(lifetime).UnixMilli()
	req := watchRequest{
		ID:         uuid.New().String(),
		Type:       "web_hook",
		Address:    w.endpoint,
		Token:      w.secret,
		Expiration: &expiration,
	}

	path := "/calendars/" + url.PathEscape(calendarID) + "/events/watch"
	status, body, err := w.gateway.postRaw(ctx, path, req)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, domain.Errorf(domain.KindProvider, "Failed to create webhook: %d - %s", status, body)
	}

	var res watchResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, domain.WrapError(domain.KindDeserialization, err, "Failed to decode watch response")
	}
	expires, err := parseChannelExpiration(res.Expiration)
	if err != nil {
		return nil, err
	}

	logger.Debug("google: watch channel %s registered for calendar %s", res.ID, calendarID)
	return &domain.WatchChannel{
		ID:          res.ID,
		ResourceID:  res.ResourceID,
		ResourceURI: res.ResourceURI,
		Token:       res.Token,
		Expiration:  expires,
	}, nil
}

// Stop tears down a push channel. A 404 means the channel is already
// gone, which is the state Stop was asked to reach.
func (w *WebhookManager) Stop(ctx context.Context, channelID, resourceID string) error {
	status, body, err := w.gateway.postRaw(ctx, "/channels/stop", stopRequest{ID: channelID, ResourceID: resourceID})
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		logger.Debug("google: watch channel %s already stopped", channelID)
		return nil
	}
	if status < 200 || status >= 300 {
		return domain.Errorf(domain.KindProvider, "Failed to stop webhook: %d - %s", status, body)
	}
	return nil
}

// VerifyNotification checks a notification's channel token against the
// configured secret. Valid when neither side carries a token, or both
// do and they match; a token on only one side is rejected.
func (w *WebhookManager) VerifyNotification(token *string) bool {
	return verifyChannelToken(w.secret, token)
}

// NeedsRenewal reports whether the channel expires within the renewal
// window and should be re-registered.
func (w *WebhookManager) NeedsRenewal(channel *domain.WatchChannel) bool {
	return time.Until(channel.Expiration) < renewalWindow
}

// ParseNotificationHeaders extracts a notification from the X-Goog-*
// headers Google sends to the webhook endpoint. Channel ID, resource ID,
// resource state and resource URI are required; token, expiration and
// message number are optional.
func ParseNotificationHeaders(headers http.Header) (*domain.Notification, error) {
	channelID := headers.Get("X-Goog-Channel-ID")
	if channelID == "" {
		return nil, domain.NewError(domain.KindInvalidData, "Missing X-Goog-Channel-ID header")
	}
	resourceID := headers.Get("X-Goog-Resource-ID")
	if resourceID == "" {
		return nil, domain.NewError(domain.KindInvalidData, "Missing X-Goog-Resource-ID header")
	}
	resourceState := headers.Get("X-Goog-Resource-State")
	if resourceState == "" {
		return nil, domain.NewError(domain.KindInvalidData, "Missing X-Goog-Resource-State header")
	}
	resourceURI := headers.Get("X-Goog-Resource-URI")
	if resourceURI == "" {
		return nil, domain.NewError(domain.KindInvalidData, "Missing X-Goog-Resource-URI header")
	}

	notification := &domain.Notification{
		ChannelID:     channelID,
		ResourceID:    resourceID,
		ResourceState: resourceState,
		ResourceURI:   resourceURI,
	}
	if token := headers.Get("X-Goog-Channel-Token"); token != "" {
		notification.ChannelToken = &token
	}
	if expiration := headers.Get("X-Goog-Channel-Expiration"); expiration != "" {
		notification.ChannelExpiration = &expiration
	}
	if number := headers.Get("X-Goog-Message-Number"); number != "" {
		if n, err := strconv.ParseInt(number, 10, 64); err == nil {
			notification.MessageNumber = &n
		}
	}
	return notification, nil
}

// parseChannelExpiration accepts Google's unix-millisecond string form
// and falls back to RFC 3339 for callers that store the formatted time.
func parseChannelExpiration(raw string) (time.Time, error) {
	if millis, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(millis).UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, domain.Errorf(domain.KindDeserialization, "Invalid channel expiration: %s", raw)
}
