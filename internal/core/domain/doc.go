// Package domain defines the core business entities for Calbridge.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Calendar: A calendar visible to the authenticated account
//   - Event: A normalized calendar event, provider-agnostic
//   - TokenData: OAuth2 token material for one provider
//   - FreeBusyPeriod: An availability window
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
