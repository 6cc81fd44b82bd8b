// Package services holds provider-agnostic core logic.
package services

import (
	"sort"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// sourceCapability records what one calendar backend supports.
type sourceCapability struct {
	authMethod  domain.AuthMethod
	webhooks    bool
	implemented bool
}

// sourceCapabilities is the static capability table. Mobile sources use
// OS-level permissions and are not implementable in a server-side library.
var sourceCapabilities = map[domain.CalendarSource]sourceCapability{
	domain.SourceGoogle:  {authMethod: domain.AuthMethodOAuth, webhooks: true, implemented: true},
	domain.SourceOutlook: {authMethod: domain.AuthMethodOAuth, webhooks: false, implemented: false},
	domain.SourceIOS:     {authMethod: domain.AuthMethodSystem, webhooks: false, implemented: false},
	domain.SourceAndroid: {authMethod: domain.AuthMethodSystem, webhooks: false, implemented: false},
}

// Registry answers capability questions about calendar sources.
type Registry struct{}

// NewRegistry creates a new Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Sources returns all known calendar sources in stable order.
func (r *Registry) Sources() []domain.CalendarSource {
	sources := make([]domain.CalendarSource, 0, len(sourceCapabilities))
	for source := range sourceCapabilities {
		sources = append(sources, source)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })
	return sources
}

// AuthMethod returns how a source authenticates.
func (r *Registry) AuthMethod(source domain.CalendarSource) domain.AuthMethod {
	return sourceCapabilities[source].authMethod
}

// SupportsWebhooks reports whether a source can push change notifications.
func (r *Registry) SupportsWebhooks(source domain.CalendarSource) bool {
	return sourceCapabilities[source].webhooks
}

// Implemented reports whether this library ships a provider for the source.
func (r *Registry) Implemented(source domain.CalendarSource) bool {
	return sourceCapabilities[source].implemented
}
