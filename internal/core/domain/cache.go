package domain

// CacheStats is a point-in-time census of a provider's response cache.
type CacheStats struct {
	// HasCalendars reports whether the calendar list is currently cached.
	HasCalendars bool `json:"has_calendars"`

	// EventEntries counts cached event listings.
	EventEntries int `json:"event_entries"`

	// FreeBusyEntries counts cached free/busy query results.
	FreeBusyEntries int `json:"free_busy_entries"`

	// TotalEntries is the sum of all cached entries, counting the
	// calendar list as one.
	TotalEntries int `json:"total_entries"`
}
