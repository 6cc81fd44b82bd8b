package domain

import "time"

// SyncToken is an opaque incremental-sync cursor for one calendar.
// Providers hand these back after a full listing; presenting the token
// on the next sync returns only changes since it was issued.
type SyncToken struct {
	Provider   CalendarSource `json:"provider"`
	CalendarID string         `json:"calendar_id"`
	Token      string         `json:"token"`
	LastSync   time.Time      `json:"last_sync"`
}

// SyncStatus summarizes the most recent sync attempt for a calendar.
type SyncStatus struct {
	CalendarID   string     `json:"calendar_id"`
	LastSync     *time.Time `json:"last_sync,omitempty"`
	SyncToken    *string    `json:"sync_token,omitempty"`
	EventsSynced int        `json:"events_synced"`
	Errors       []string   `json:"errors,omitempty"`
}

// SyncConfig tunes sync behaviour.
type SyncConfig struct {
	// Incremental uses sync tokens where the provider supports them.
	Incremental bool `json:"incremental"`

	// WindowDays bounds how far ahead full syncs look.
	WindowDays int `json:"window_days"`

	// BatchSize caps events fetched per page.
	BatchSize int `json:"batch_size"`
}

// DefaultSyncConfig returns the standard sync tuning.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		Incremental: true,
		WindowDays:  365,
		BatchSize:   100,
	}
}
