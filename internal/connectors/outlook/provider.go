// Package outlook is a placeholder for the Microsoft Graph calendar
// provider. Every operation fails with an unsupported-operation error
// until the Graph integration lands.
package outlook

import (
	"context"
	"time"

	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

var _ driven.CalendarProvider = (*Provider)(nil)

// Provider is the unimplemented Outlook backend. It exists so callers
// can enumerate it and get a stable error instead of a missing source.
type Provider struct{}

// NewProvider returns the stub provider.
func NewProvider() *Provider {
	return &Provider{}
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return string(domain.SourceOutlook)
}

func (p *Provider) ListCalendars(_ context.Context) ([]domain.Calendar, error) {
	return nil, notImplemented("ListCalendars")
}

func (p *Provider) ListEvents(_ context.Context, _ string, _, _ *time.Time) ([]domain.Event, error) {
	return nil, notImplemented("ListEvents")
}

func (p *Provider) CreateEvent(_ context.Context, _ string, _ domain.Event) (*domain.Event, error) {
	return nil, notImplemented("CreateEvent")
}

func (p *Provider) UpdateEvent(_ context.Context, _, _ string, _ domain.Event) (*domain.Event, error) {
	return nil, notImplemented("UpdateEvent")
}

func (p *Provider) DeleteEvent(_ context.Context, _, _ string) error {
	return notImplemented("DeleteEvent")
}

func (p *Provider) GetFreeBusy(_ context.Context, _ []string, _, _ time.Time) (map[string][]domain.FreeBusyPeriod, error) {
	return nil, notImplemented("GetFreeBusy")
}

func notImplemented(operation string) error {
	return domain.Errorf(domain.KindUnsupported, "outlook: %s not implemented yet", operation)
}
