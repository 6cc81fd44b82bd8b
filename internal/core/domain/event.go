package domain

import (
	"encoding/json"
	"time"
)

// Event is the normalized calendar event shared by every provider.
// Optional fields are pointers so that "absent" and "zero" stay distinct
// when round-tripping provider payloads.
type Event struct {
	// ID is the provider-assigned event identifier.
	ID string `json:"id"`

	// Source identifies the backend this event came from.
	Source CalendarSource `json:"source"`

	// CalendarID is the containing calendar, when known.
	CalendarID *string `json:"calendarId,omitempty"`

	// Title is the event summary line.
	Title *string `json:"title,omitempty"`

	// Description is the long-form body.
	Description *string `json:"description,omitempty"`

	// Location is a free-form venue string.
	Location *string `json:"location,omitempty"`

	// Color is a provider color reference.
	Color *string `json:"color,omitempty"`

	// Start and End bound the event in time.
	Start EventMoment `json:"start"`
	End   EventMoment `json:"end"`

	// RecurrenceRule is an RFC 5545 RRULE body without the "RRULE:" prefix.
	RecurrenceRule *string `json:"recurrenceRule,omitempty"`

	// RecurrenceExceptions lists instance IDs excluded from the series.
	RecurrenceExceptions []string `json:"recurrenceExceptions,omitempty"`

	// Organizer is the event owner.
	Organizer *Participant `json:"organizer,omitempty"`

	// Attendees lists invited participants.
	Attendees []Participant `json:"attendees,omitempty"`

	Status     *EventStatus     `json:"status,omitempty"`
	Visibility *EventVisibility `json:"visibility,omitempty"`
	ShowAs     *ShowAs          `json:"showAs,omitempty"`

	// Reminders configures notification lead times.
	Reminders *Reminders `json:"reminders,omitempty"`

	// Conference carries joined-meeting details (Meet, Teams, ...).
	Conference *ConferenceData `json:"conference,omitempty"`

	// Raw preserves the original provider payload for lossless round trips.
	Raw json.RawMessage `json:"raw,omitempty"`

	Created *time.Time `json:"created,omitempty"`
	Updated *time.Time `json:"updated,omitempty"`
}

// NewEvent builds an event with the required fields set.
func NewEvent(id string, source CalendarSource, start, end EventMoment) Event {
	return Event{
		ID:     id,
		Source: source,
		Start:  start,
		End:    end,
	}
}

// EventMoment is a point in time with calendar semantics attached.
type EventMoment struct {
	// DateTime is the instant. For all-day events this is midnight UTC
	// of the calendar date.
	DateTime time.Time `json:"dateTime"`

	// TimeZone is an IANA zone name, when the provider supplied one.
	TimeZone *string `json:"timeZone,omitempty"`

	// AllDay marks date-only events.
	AllDay *bool `json:"allDay,omitempty"`
}

// IsAllDay reports whether the moment is date-only.
func (m EventMoment) IsAllDay() bool {
	return m.AllDay != nil && *m.AllDay
}

// Participant is a person or resource attached to an event.
type Participant struct {
	ID             *string            `json:"id,omitempty"`
	Email          *string            `json:"email,omitempty"`
	Name           *string            `json:"name,omitempty"`
	Optional       *bool              `json:"optional,omitempty"`
	ResponseStatus *ParticipantStatus `json:"responseStatus,omitempty"`
	IsSelf         *bool              `json:"self,omitempty"`
	Resource       *bool              `json:"resource,omitempty"`
	Organizer      *bool              `json:"organizer,omitempty"`
}

// ParticipantStatus is an attendee's RSVP state.
type ParticipantStatus string

const (
	ParticipantNeedsAction ParticipantStatus = "needsAction"
	ParticipantDeclined    ParticipantStatus = "declined"
	ParticipantTentative   ParticipantStatus = "tentative"
	ParticipantAccepted    ParticipantStatus = "accepted"
)

// EventStatus is the lifecycle state of an event.
type EventStatus string

const (
	StatusConfirmed EventStatus = "Confirmed"
	StatusTentative EventStatus = "Tentative"
	StatusCancelled EventStatus = "Cancelled"
)

// EventVisibility controls who may see event details.
type EventVisibility string

const (
	VisibilityDefault EventVisibility = "Default"
	VisibilityPublic  EventVisibility = "Public"
	VisibilityPrivate EventVisibility = "Private"
)

// ShowAs is how the event blocks the owner's availability.
type ShowAs string

const (
	ShowAsBusy             ShowAs = "Busy"
	ShowAsFree             ShowAs = "Free"
	ShowAsTentative        ShowAs = "Tentative"
	ShowAsOutOfOffice      ShowAs = "OutOfOffice"
	ShowAsWorkingElsewhere ShowAs = "WorkingElsewhere"
	ShowAsUnknown          ShowAs = "Unknown"
)

// Reminders configures event notifications.
type Reminders struct {
	// UseDefault applies the calendar's default reminders.
	UseDefault bool `json:"useDefault"`

	// Overrides replaces the defaults when non-empty.
	Overrides []ReminderOverride `json:"overrides,omitempty"`
}

// ReminderOverride is a single reminder rule.
type ReminderOverride struct {
	// Method is the delivery channel ("popup" or "email").
	Method string `json:"method"`

	// Minutes is the lead time before the event start.
	Minutes int `json:"minutes"`
}

// ConferenceData carries joined-meeting coordinates.
type ConferenceData struct {
	URL          *string `json:"url,omitempty"`
	ConferenceID *string `json:"conferenceId,omitempty"`
	Provider     *string `json:"provider,omitempty"`
}
