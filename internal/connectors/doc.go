// Package connectors provides implementations of the CalendarProvider
// interface for various calendar backends. Each connector knows how to
// talk to a specific provider API (Google, Outlook, etc.).
//
// Connector capabilities are declared in the services registry.
package connectors
