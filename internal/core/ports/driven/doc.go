// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - TokenStore: OAuth token persistence, keyed by calendar source
//   - CalendarProvider: Unified calendar operations against one backend
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be absent - the application degrades gracefully:
//
//   - WebhookProvider: Push notification subscriptions. Providers without
//     a configured public endpoint report no webhook support.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
