package google

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// Wire types for the Calendar v3 REST API. Pointers distinguish absent
// fields from zero values so round trips stay lossless.

type calendarListResponse struct {
	Items         []apiCalendar `json:"items"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

type apiCalendar struct {
	ID              string  `json:"id"`
	Summary         string  `json:"summary"`
	Description     *string `json:"description,omitempty"`
	BackgroundColor *string `json:"backgroundColor,omitempty"`
	Primary         *bool   `json:"primary,omitempty"`
	AccessRole      string  `json:"accessRole"`
}

type eventListResponse struct {
	Items         []apiEvent `json:"items"`
	NextPageToken string     `json:"nextPageToken,omitempty"`
}

type apiEvent struct {
	ID               string             `json:"id,omitempty"`
	Status           *string            `json:"status,omitempty"`
	Summary          *string            `json:"summary,omitempty"`
	Description      *string            `json:"description,omitempty"`
	Location         *string            `json:"location,omitempty"`
	ColorID          *string            `json:"colorId,omitempty"`
	Start            *apiEventTime      `json:"start,omitempty"`
	End              *apiEventTime      `json:"end,omitempty"`
	Recurrence       []string           `json:"recurrence,omitempty"`
	RecurringEventID *string            `json:"recurringEventId,omitempty"`
	Organizer        *apiPerson         `json:"organizer,omitempty"`
	Attendees        []apiAttendee      `json:"attendees,omitempty"`
	Visibility       *string            `json:"visibility,omitempty"`
	Transparency     *string            `json:"transparency,omitempty"`
	Reminders        *apiReminders      `json:"reminders,omitempty"`
	ConferenceData   *apiConferenceData `json:"conferenceData,omitempty"`
	Created          *string            `json:"created,omitempty"`
	Updated          *string            `json:"updated,omitempty"`
	HTMLLink         *string            `json:"htmlLink,omitempty"`
}

type apiEventTime struct {
	DateTime *string `json:"dateTime,omitempty"`
	Date     *string `json:"date,omitempty"`
	TimeZone *string `json:"timeZone,omitempty"`
}

type apiPerson struct {
	ID          *string `json:"id,omitempty"`
	Email       *string `json:"email,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	Self        *bool   `json:"self,omitempty"`
}

type apiAttendee struct {
	ID             *string `json:"id,omitempty"`
	Email          *string `json:"email,omitempty"`
	DisplayName    *string `json:"displayName,omitempty"`
	Optional       *bool   `json:"optional,omitempty"`
	ResponseStatus *string `json:"responseStatus,omitempty"`
	Resource       *bool   `json:"resource,omitempty"`
	Organizer      *bool   `json:"organizer,omitempty"`
	Self           *bool   `json:"self,omitempty"`
}

type apiReminders struct {
	UseDefault bool                  `json:"useDefault"`
	Overrides  []apiReminderOverride `json:"overrides,omitempty"`
}

type apiReminderOverride struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

type apiConferenceData struct {
	ConferenceID *string         `json:"conferenceId,omitempty"`
	EntryPoints  []apiEntryPoint `json:"entryPoints,omitempty"`
}

type apiEntryPoint struct {
	EntryPointType string `json:"entryPointType"`
	URI            string `json:"uri"`
}

type freeBusyRequest struct {
	TimeMin string            `json:"timeMin"`
	TimeMax string            `json:"timeMax"`
	Items   []freeBusyKeyItem `json:"items"`
}

type freeBusyKeyItem struct {
	ID string `json:"id"`
}

type freeBusyResponse struct {
	Calendars map[string]freeBusyCalendar `json:"calendars"`
}

type freeBusyCalendar struct {
	Busy []freeBusyWindow `json:"busy"`
}

type freeBusyWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// calendarFromAPI maps a calendar list entry to the domain type. Write
// access comes from the ACL role; only owners and writers may mutate.
func calendarFromAPI(c apiCalendar) domain.Calendar {
	return domain.Calendar{
		ID:          c.ID,
		Name:        c.Summary,
		Description: c.Description,
		Color:       c.BackgroundColor,
		IsPrimary:   c.Primary != nil && *c.Primary,
		CanWrite:    c.AccessRole == "owner" || c.AccessRole == "writer",
		Source:      domain.SourceGoogle,
	}
}

// eventFromAPI normalizes a wire event. The original payload is kept in
// Raw so nothing Google sent is lost.
func eventFromAPI(e apiEvent, calendarID string) domain.Event {
	id := e.ID
	if id == "" {
		id = uuid.New().String()
	}

	event := domain.Event{
		ID:          id,
		Source:      domain.SourceGoogle,
		CalendarID:  &calendarID,
		Title:       e.Summary,
		Description: e.Description,
		Location:    e.Location,
		Color:       e.ColorID,
		Start:       momentFromAPI(e.Start),
		End:         momentFromAPI(e.End),
	}

	if len(e.Recurrence) > 0 {
		rule := e.Recurrence[0]
		if len(rule) > 6 && rule[:6] == "RRULE:" {
			rule = rule[6:]
		}
		event.RecurrenceRule = &rule
	}

	if e.Organizer != nil {
		yes, no := true, false
		event.Organizer = &domain.Participant{
			ID:        e.Organizer.ID,
			Email:     e.Organizer.Email,
			Name:      e.Organizer.DisplayName,
			IsSelf:    e.Organizer.Self,
			Organizer: &yes,
			Optional:  &no,
			Resource:  &no,
		}
	}

	for _, a := range e.Attendees {
		event.Attendees = append(event.Attendees, domain.Participant{
			ID:             a.ID,
			Email:          a.Email,
			Name:           a.DisplayName,
			Optional:       a.Optional,
			ResponseStatus: participantStatusFromAPI(a.ResponseStatus),
			IsSelf:         a.Self,
			Resource:       a.Resource,
			Organizer:      a.Organizer,
		})
	}

	event.Status = eventStatusFromAPI(e.Status)
	event.Visibility = visibilityFromAPI(e.Visibility)

	// Google's default transparency is opaque, so absent means busy.
	showAs := domain.ShowAsBusy
	if e.Transparency != nil && *e.Transparency == "transparent" {
		showAs = domain.ShowAsFree
	}
	event.ShowAs = &showAs

	if e.Reminders != nil {
		reminders := &domain.Reminders{UseDefault: e.Reminders.UseDefault}
		for _, o := range e.Reminders.Overrides {
			reminders.Overrides = append(reminders.Overrides, domain.ReminderOverride{
				Method:  o.Method,
				Minutes: o.Minutes,
			})
		}
		event.Reminders = reminders
	}

	if e.ConferenceData != nil {
		provider := "Google Meet"
		conference := &domain.ConferenceData{
			ConferenceID: e.ConferenceData.ConferenceID,
			Provider:     &provider,
		}
		for _, ep := range e.ConferenceData.EntryPoints {
			if ep.EntryPointType == "video" {
				uri := ep.URI
				conference.URL = &uri
				break
			}
		}
		event.Conference = conference
	}

	if raw, err := json.Marshal(e); err == nil {
		event.Raw = raw
	}
	event.Created = parseRFC3339(e.Created)
	event.Updated = parseRFC3339(e.Updated)

	return event
}

// momentFromAPI interprets the date/dateTime pair. Unparseable values
// degrade to the current instant rather than failing the whole listing.
func momentFromAPI(t *apiEventTime) domain.EventMoment {
	no := false
	if t == nil {
		return domain.EventMoment{DateTime: time.Now().UTC(), AllDay: &no}
	}

	if t.DateTime != nil {
		parsed, err := time.Parse(time.RFC3339, *t.DateTime)
		if err != nil {
			parsed = time.Now().UTC()
		}
		return domain.EventMoment{DateTime: parsed.UTC(), TimeZone: t.TimeZone, AllDay: &no}
	}

	if t.Date != nil {
		yes := true
		parsed, err := time.Parse(time.RFC3339, *t.Date+"T00:00:00Z")
		if err != nil {
			parsed = time.Now().UTC()
		}
		return domain.EventMoment{DateTime: parsed, TimeZone: t.TimeZone, AllDay: &yes}
	}

	return domain.EventMoment{DateTime: time.Now().UTC(), TimeZone: t.TimeZone, AllDay: &no}
}

// eventToAPI maps a domain event onto the wire for create and update.
// The ID is never sent; Google assigns it on insert and takes it from
// the URL on update.
func eventToAPI(e domain.Event) apiEvent {
	out := apiEvent{
		Summary:     e.Title,
		Description: e.Description,
		Location:    e.Location,
		ColorID:     e.Color,
		Start:       momentToAPI(e.Start),
		End:         momentToAPI(e.End),
	}

	if e.RecurrenceRule != nil {
		out.Recurrence = []string{"RRULE:" + *e.RecurrenceRule}
	}

	for _, a := range e.Attendees {
		attendee := apiAttendee{
			ID:       a.ID,
			Email:    a.Email,
			Optional: a.Optional,
			Resource: a.Resource,
		}
		if a.ResponseStatus != nil {
			status := string(*a.ResponseStatus)
			attendee.ResponseStatus = &status
		}
		out.Attendees = append(out.Attendees, attendee)
	}

	if e.Status != nil {
		status := ""
		switch *e.Status {
		case domain.StatusConfirmed:
			status = "confirmed"
		case domain.StatusTentative:
			status = "tentative"
		case domain.StatusCancelled:
			status = "cancelled"
		}
		if status != "" {
			out.Status = &status
		}
	}

	if e.Visibility != nil {
		visibility := ""
		switch *e.Visibility {
		case domain.VisibilityDefault:
			visibility = "default"
		case domain.VisibilityPublic:
			visibility = "public"
		case domain.VisibilityPrivate:
			visibility = "private"
		}
		if visibility != "" {
			out.Visibility = &visibility
		}
	}

	if e.ShowAs != nil {
		transparency := "opaque"
		if *e.ShowAs == domain.ShowAsFree {
			transparency = "transparent"
		}
		out.Transparency = &transparency
	}

	if e.Reminders != nil {
		reminders := &apiReminders{UseDefault: false}
		for _, o := range e.Reminders.Overrides {
			reminders.Overrides = append(reminders.Overrides, apiReminderOverride{
				Method:  o.Method,
				Minutes: o.Minutes,
			})
		}
		out.Reminders = reminders
	}

	if e.Conference != nil {
		data := &apiConferenceData{ConferenceID: e.Conference.ConferenceID}
		if e.Conference.URL != nil {
			data.EntryPoints = []apiEntryPoint{{EntryPointType: "video", URI: *e.Conference.URL}}
		}
		out.ConferenceData = data
	}

	return out
}

func momentToAPI(m domain.EventMoment) *apiEventTime {
	if m.IsAllDay() {
		date := m.DateTime.UTC().Format("2006-01-02")
		return &apiEventTime{Date: &date, TimeZone: m.TimeZone}
	}
	dt := m.DateTime.Format(time.RFC3339)
	return &apiEventTime{DateTime: &dt, TimeZone: m.TimeZone}
}

func participantStatusFromAPI(s *string) *domain.ParticipantStatus {
	if s == nil {
		return nil
	}
	var status domain.ParticipantStatus
	switch *s {
	case "needsAction":
		status = domain.ParticipantNeedsAction
	case "declined":
		status = domain.ParticipantDeclined
	case "tentative":
		status = domain.ParticipantTentative
	case "accepted":
		status = domain.ParticipantAccepted
	default:
		return nil
	}
	return &status
}

func eventStatusFromAPI(s *string) *domain.EventStatus {
	if s == nil {
		return nil
	}
	var status domain.EventStatus
	switch *s {
	case "confirmed":
		status = domain.StatusConfirmed
	case "tentative":
		status = domain.StatusTentative
	case "cancelled":
		status = domain.StatusCancelled
	default:
		return nil
	}
	return &status
}

func visibilityFromAPI(s *string) *domain.EventVisibility {
	if s == nil {
		return nil
	}
	var visibility domain.EventVisibility
	switch *s {
	case "default":
		visibility = domain.VisibilityDefault
	case "public":
		visibility = domain.VisibilityPublic
	case "private", "confidential":
		visibility = domain.VisibilityPrivate
	default:
		return nil
	}
	return &visibility
}

func parseRFC3339(s *string) *time.Time {
	if s == nil {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return nil
	}
	return &parsed
}
