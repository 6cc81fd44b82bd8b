// Package google implements the Google Calendar provider.
//
// The package is organised around a small set of collaborators:
//   - TokenManager runs the OAuth2 authorization code flow with PKCE
//     and refreshes access tokens behind a singleflight gate
//   - Gateway sends authenticated REST calls with rate limiting and
//     exponential backoff, mapping Google API errors (401, 403, 404,
//     429) onto domain error kinds
//   - CalendarCache keeps recent calendar, event and free/busy
//     responses to absorb repeated reads
//   - WebhookManager registers push notification channels and parses
//     delivered notifications
//
// # Usage
//
// Provider ties the collaborators together and satisfies the
// CalendarProvider and WebhookProvider ports:
//
//	provider := google.NewProvider(clientID, clientSecret, redirectURI, store, google.DefaultConfig())
//	calendars, err := provider.ListCalendars(ctx)
//
// # OAuth2 Scopes
//
// The provider requests these scopes:
//   - https://www.googleapis.com/auth/calendar (sensitive)
//   - https://www.googleapis.com/auth/calendar.events (sensitive)
//   - https://www.googleapis.com/auth/calendar.readonly (sensitive)
//
// Sensitive scopes require app verification before Google shows the
// consent screen to external users.
package google
