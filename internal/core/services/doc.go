// Package services holds the core application logic that sits between
// the driving adapters and the provider connectors.
//
// Today that is the source Registry: a catalogue of the calendar
// sources Calbridge knows about and the authentication capability of
// each (OAuth2 flows for hosted providers, system permissions for
// device-local sources, or not implemented yet).
package services
