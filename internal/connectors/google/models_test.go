package google

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// TestCalendarFromAPI_AccessRoles tests the write permission mapping
func TestCalendarFromAPI_AccessRoles(t *testing.T) {
	tests := []struct {
		role     string
		canWrite bool
	}{
		{"owner", true},
		{"writer", true},
		{"reader", false},
		{"freeBusyReader", false},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			cal := calendarFromAPI(apiCalendar{ID: "c1", Summary: "Cal", AccessRole: tt.role})
			assert.Equal(t, tt.canWrite, cal.CanWrite)
			assert.Equal(t, domain.SourceGoogle, cal.Source)
		})
	}
}

// TestCalendarFromAPI_Primary tests the primary flag default
func TestCalendarFromAPI_Primary(t *testing.T) {
	yes := true
	assert.True(t, calendarFromAPI(apiCalendar{ID: "p", AccessRole: "owner", Primary: &yes}).IsPrimary)
	assert.False(t, calendarFromAPI(apiCalendar{ID: "w", AccessRole: "writer"}).IsPrimary)
}

// TestEventFromAPI_TimedEvent tests a regular timed event conversion
func TestEventFromAPI_TimedEvent(t *testing.T) {
	dt := "2024-01-20T10:00:00-08:00"
	tz := "America/Los_Angeles"
	summary := "Planning"
	transparency := "transparent"

	event := eventFromAPI(apiEvent{
		ID:           "evt_1",
		Summary:      &summary,
		Start:        &apiEventTime{DateTime: &dt, TimeZone: &tz},
		End:          &apiEventTime{DateTime: &dt, TimeZone: &tz},
		Transparency: &transparency,
	}, "primary")

	assert.Equal(t, "evt_1", event.ID)
	assert.Equal(t, domain.SourceGoogle, event.Source)
	require.NotNil(t, event.CalendarID)
	assert.Equal(t, "primary", *event.CalendarID)
	require.NotNil(t, event.Title)
	assert.Equal(t, "Planning", *event.Title)

	expected, _ := time.Parse(time.RFC3339, dt)
	assert.True(t, event.Start.DateTime.Equal(expected))
	require.NotNil(t, event.Start.TimeZone)
	assert.Equal(t, tz, *event.Start.TimeZone)
	assert.False(t, event.Start.IsAllDay())

	require.NotNil(t, event.ShowAs)
	assert.Equal(t, domain.ShowAsFree, *event.ShowAs)
	assert.NotEmpty(t, event.Raw, "the wire payload should be preserved")
}

// TestEventFromAPI_AllDayEvent tests date-only conversion
func TestEventFromAPI_AllDayEvent(t *testing.T) {
	date := "2024-01-20"

	event := eventFromAPI(apiEvent{
		ID:    "evt_2",
		Start: &apiEventTime{Date: &date},
		End:   &apiEventTime{Date: &date},
	}, "primary")

	assert.True(t, event.Start.IsAllDay())
	assert.Equal(t, time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), event.Start.DateTime)

	// Absent transparency means the event blocks time.
	require.NotNil(t, event.ShowAs)
	assert.Equal(t, domain.ShowAsBusy, *event.ShowAs)
}

// TestEventFromAPI_GeneratesIDWhenMissing tests the uuid fallback
func TestEventFromAPI_GeneratesIDWhenMissing(t *testing.T) {
	event := eventFromAPI(apiEvent{}, "primary")
	assert.NotEmpty(t, event.ID)
}

// TestEventFromAPI_RecurrenceRule tests RRULE prefix stripping
func TestEventFromAPI_RecurrenceRule(t *testing.T) {
	event := eventFromAPI(apiEvent{
		ID:         "evt_3",
		Recurrence: []string{"RRULE:FREQ=WEEKLY;BYDAY=MO"},
	}, "primary")

	require.NotNil(t, event.RecurrenceRule)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", *event.RecurrenceRule)
}

// TestEventFromAPI_Participants tests organizer and attendee mapping
func TestEventFromAPI_Participants(t *testing.T) {
	email := "boss@example.com"
	name := "The Boss"
	attendeeEmail := "dev@example.com"
	accepted := "accepted"
	unknown := "maybe-later"

	event := eventFromAPI(apiEvent{
		ID:        "evt_4",
		Organizer: &apiPerson{Email: &email, DisplayName: &name},
		Attendees: []apiAttendee{
			{Email: &attendeeEmail, ResponseStatus: &accepted},
			{Email: &attendeeEmail, ResponseStatus: &unknown},
		},
	}, "primary")

	require.NotNil(t, event.Organizer)
	assert.Equal(t, "boss@example.com", *event.Organizer.Email)
	require.NotNil(t, event.Organizer.Organizer)
	assert.True(t, *event.Organizer.Organizer)
	require.NotNil(t, event.Organizer.Optional)
	assert.False(t, *event.Organizer.Optional)

	require.Len(t, event.Attendees, 2)
	require.NotNil(t, event.Attendees[0].ResponseStatus)
	assert.Equal(t, domain.ParticipantAccepted, *event.Attendees[0].ResponseStatus)
	assert.Nil(t, event.Attendees[1].ResponseStatus, "unknown statuses drop rather than mislead")
}

// TestEventFromAPI_Conference tests Meet link extraction
func TestEventFromAPI_Conference(t *testing.T) {
	confID := "abc-defg-hij"
	event := eventFromAPI(apiEvent{
		ID: "evt_5",
		ConferenceData: &apiConferenceData{
			ConferenceID: &confID,
			EntryPoints: []apiEntryPoint{
				{EntryPointType: "phone", URI: "tel:+1-555-0100"},
				{EntryPointType: "video", URI: "https://meet.google.com/abc-defg-hij"},
			},
		},
	}, "primary")

	require.NotNil(t, event.Conference)
	require.NotNil(t, event.Conference.URL)
	assert.Equal(t, "https://meet.google.com/abc-defg-hij", *event.Conference.URL)
	require.NotNil(t, event.Conference.Provider)
	assert.Equal(t, "Google Meet", *event.Conference.Provider)
}

// TestEventToAPI_TimedEvent tests outbound conversion of a timed event
func TestEventToAPI_TimedEvent(t *testing.T) {
	title := "Standup"
	rule := "FREQ=DAILY"
	showAs := domain.ShowAsFree
	status := domain.StatusConfirmed

	start, _ := time.Parse(time.RFC3339, "2024-01-20T10:00:00-08:00")
	event := domain.NewEvent("ignored", domain.SourceGoogle,
		domain.EventMoment{DateTime: start},
		domain.EventMoment{DateTime: start.Add(15 * time.Minute)},
	)
	event.Title = &title
	event.RecurrenceRule = &rule
	event.ShowAs = &showAs
	event.Status = &status

	wire := eventToAPI(event)

	assert.Empty(t, wire.ID, "the ID travels in the URL, not the body")
	require.NotNil(t, wire.Summary)
	assert.Equal(t, "Standup", *wire.Summary)
	require.NotNil(t, wire.Start.DateTime)
	assert.Equal(t, "2024-01-20T10:00:00-08:00", *wire.Start.DateTime)
	assert.Nil(t, wire.Start.Date)
	assert.Equal(t, []string{"RRULE:FREQ=DAILY"}, wire.Recurrence)
	require.NotNil(t, wire.Transparency)
	assert.Equal(t, "transparent", *wire.Transparency)
	require.NotNil(t, wire.Status)
	assert.Equal(t, "confirmed", *wire.Status)
}

// TestEventToAPI_AllDayEvent tests outbound date-only formatting
func TestEventToAPI_AllDayEvent(t *testing.T) {
	yes := true
	event := domain.NewEvent("x", domain.SourceGoogle,
		domain.EventMoment{DateTime: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC), AllDay: &yes},
		domain.EventMoment{DateTime: time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC), AllDay: &yes},
	)

	wire := eventToAPI(event)
	require.NotNil(t, wire.Start.Date)
	assert.Equal(t, "2024-01-20", *wire.Start.Date)
	assert.Nil(t, wire.Start.DateTime)
}

// TestEventToAPI_ShowAsMapping tests transparency for non-free states
func TestEventToAPI_ShowAsMapping(t *testing.T) {
	for _, showAs := range []domain.ShowAs{
		domain.ShowAsBusy,
		domain.ShowAsTentative,
		domain.ShowAsOutOfOffice,
	} {
		s := showAs
		event := domain.NewEvent("x", domain.SourceGoogle,
			domain.EventMoment{DateTime: time.Now()},
			domain.EventMoment{DateTime: time.Now().Add(time.Hour)},
		)
		event.ShowAs = &s

		wire := eventToAPI(event)
		require.NotNil(t, wire.Transparency)
		assert.Equal(t, "opaque", *wire.Transparency, "only Free maps to transparent")
	}
}
