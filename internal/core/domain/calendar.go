package domain

// CalendarSource identifies the backend a calendar or event came from.
type CalendarSource string

// Known calendar sources. IOS and Android exist for wire compatibility
// with mobile clients; this library does not implement them.
const (
	SourceGoogle  CalendarSource = "google"
	SourceOutlook CalendarSource = "outlook"
	SourceIOS     CalendarSource = "ios"
	SourceAndroid CalendarSource = "android"
)

// String returns the lowercase wire form of the source.
func (s CalendarSource) String() string {
	return string(s)
}

// Valid reports whether the source is one of the known backends.
func (s CalendarSource) Valid() bool {
	switch s {
	case SourceGoogle, SourceOutlook, SourceIOS, SourceAndroid:
		return true
	}
	return false
}

// Calendar is a calendar visible to the authenticated account.
type Calendar struct {
	// ID is the provider-assigned calendar identifier.
	ID string `json:"id"`

	// Name is the display name of the calendar.
	Name string `json:"name"`

	// Description is an optional free-form description.
	Description *string `json:"description,omitempty"`

	// Color is an optional hex color (e.g. "#4285F4").
	Color *string `json:"color,omitempty"`

	// IsPrimary marks the account's primary calendar.
	IsPrimary bool `json:"isPrimary"`

	// CanWrite reports whether the account may create or modify events.
	CanWrite bool `json:"canWrite"`

	// Source identifies the backend this calendar belongs to.
	Source CalendarSource `json:"source"`
}
