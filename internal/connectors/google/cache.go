package google

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/calbridge/internal/core/domain"
)

// entryTTL is the fixed lifetime for event and free/busy entries. The
// calendar list changes rarely and gets its own configurable TTL.
const entryTTL = 5 * time.Minute

type calendarsEntry struct {
	calendars []domain.Calendar
	expiresAt time.Time
}

type eventsEntry struct {
	events    []domain.Event
	expiresAt time.Time
}

type freeBusyEntry struct {
	periods   map[string][]domain.FreeBusyPeriod
	expiresAt time.Time
}

// CalendarCache holds recently fetched API responses in three buckets
// with independent locks: the calendar list (single slot), event
// listings keyed by calendar and range, and free/busy results keyed by
// query. Expired entries read as misses and are overwritten by the next
// store.
//
// A nil *CalendarCache is a disabled cache: every read misses and every
// write is a no-op.
type CalendarCache struct {
	calendarTTL time.Duration

	calMu     sync.RWMutex
	calendars *calendarsEntry

	evtMu  sync.RWMutex
	events map[string]eventsEntry

	fbMu     sync.RWMutex
	freeBusy map[string]freeBusyEntry
}

// NewCalendarCache creates a cache whose calendar list lives for
// calendarTTL.
func NewCalendarCache(calendarTTL time.Duration) *CalendarCache {
	return &CalendarCache{
		calendarTTL: calendarTTL,
		events:      make(map[string]eventsEntry),
		freeBusy:    make(map[string]freeBusyEntry),
	}
}

// eventsKey builds the cache key for an event listing. Absent range
// bounds encode as zero so distinct ranges never collide.
func eventsKey(calendarID string, start, end *time.Time) string {
	return fmt.Sprintf("%s_%s_%s", calendarID, unixOrZero(start), unixOrZero(end))
}

// freeBusyKey builds the cache key for a free/busy query.
func freeBusyKey(calendarIDs []string, start, end time.Time) string {
	return fmt.Sprintf("%s_%d_%d", strings.Join(calendarIDs, ","), start.Unix(), end.Unix())
}

func unixOrZero(t *time.Time) string {
	if t == nil {
		return "0"
	}
	return strconv.FormatInt(t.Unix(), 10)
}

// Calendars returns the cached calendar list, if present and fresh.
func (c *CalendarCache) Calendars() ([]domain.Calendar, bool) {
	if c == nil {
		return nil, false
	}
	c.calMu.RLock()
	defer c.calMu.RUnlock()
	if c.calendars == nil || time.Now().After(c.calendars.expiresAt) {
		return nil, false
	}
	out := make([]domain.Calendar, len(c.calendars.calendars))
	copy(out, c.calendars.calendars)
	return out, true
}

// SetCalendars stores the calendar list.
func (c *CalendarCache) SetCalendars(calendars []domain.Calendar) {
	if c == nil {
		return
	}
	stored := make([]domain.Calendar, len(calendars))
	copy(stored, calendars)
	c.calMu.Lock()
	defer c.calMu.Unlock()
	c.calendars = &calendarsEntry{
		calendars: stored,
		expiresAt: time.Now().Add(c.calendarTTL),
	}
}

// Events returns the cached listing for a key, if present and fresh.
func (c *CalendarCache) Events(key string) ([]domain.Event, bool) {
	if c == nil {
		return nil, false
	}
	c.evtMu.RLock()
	defer c.evtMu.RUnlock()
	entry, ok := c.events[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	out := make([]domain.Event, len(entry.events))
	copy(out, entry.events)
	return out, true
}

// SetEvents stores an event listing under a key.
func (c *CalendarCache) SetEvents(key string, events []domain.Event) {
	if c == nil {
		return
	}
	stored := make([]domain.Event, len(events))
	copy(stored, events)
	c.evtMu.Lock()
	defer c.evtMu.Unlock()
	c.events[key] = eventsEntry{
		events:    stored,
		expiresAt: time.Now().Add(entryTTL),
	}
}

// FreeBusy returns the cached result for a query key, if present and
// fresh.
func (c *CalendarCache) FreeBusy(key string) (map[string][]domain.FreeBusyPeriod, bool) {
	if c == nil {
		return nil, false
	}
	c.fbMu.RLock()
	defer c.fbMu.RUnlock()
	entry, ok := c.freeBusy[key]
	if !ok || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return clonePeriods(entry.periods), true
}

// SetFreeBusy stores a free/busy result under a query key.
func (c *CalendarCache) SetFreeBusy(key string, periods map[string][]domain.FreeBusyPeriod) {
	if c == nil {
		return
	}
	stored := clonePeriods(periods)
	c.fbMu.Lock()
	defer c.fbMu.Unlock()
	c.freeBusy[key] = freeBusyEntry{
		periods:   stored,
		expiresAt: time.Now().Add(entryTTL),
	}
}

func clonePeriods(in map[string][]domain.FreeBusyPeriod) map[string][]domain.FreeBusyPeriod {
	out := make(map[string][]domain.FreeBusyPeriod, len(in))
	for id, periods := range in {
		cp := make([]domain.FreeBusyPeriod, len(periods))
		copy(cp, periods)
		out[id] = cp
	}
	return out
}

// InvalidateCalendars drops the cached calendar list.
func (c *CalendarCache) InvalidateCalendars() {
	if c == nil {
		return
	}
	c.calMu.Lock()
	defer c.calMu.Unlock()
	c.calendars = nil
}

// InvalidateEvents drops every cached listing for one calendar,
// whatever the queried range was.
func (c *CalendarCache) InvalidateEvents(calendarID string) {
	if c == nil {
		return
	}
	prefix := calendarID + "_"
	c.evtMu.Lock()
	defer c.evtMu.Unlock()
	for key := range c.events {
		if strings.HasPrefix(key, prefix) {
			delete(c.events, key)
		}
	}
}

// Clear empties every bucket. Buckets are locked one at a time so a
// clear never stalls readers of the other buckets.
func (c *CalendarCache) Clear() {
	if c == nil {
		return
	}
	c.calMu.Lock()
	c.calendars = nil
	c.calMu.Unlock()

	c.evtMu.Lock()
	c.events = make(map[string]eventsEntry)
	c.evtMu.Unlock()

	c.fbMu.Lock()
	c.freeBusy = make(map[string]freeBusyEntry)
	c.fbMu.Unlock()
}

// Stats reports entry counts per bucket. Entries past their TTL still
// count until overwritten or cleared.
func (c *CalendarCache) Stats() domain.CacheStats {
	if c == nil {
		return domain.CacheStats{}
	}
	c.calMu.RLock()
	hasCalendars := c.calendars != nil
	c.calMu.RUnlock()

	c.evtMu.RLock()
	eventEntries := len(c.events)
	c.evtMu.RUnlock()

	c.fbMu.RLock()
	freeBusyEntries := len(c.freeBusy)
	c.fbMu.RUnlock()

	total := eventEntries + freeBusyEntries
	if hasCalendars {
		total++
	}
	return domain.CacheStats{
		HasCalendars:    hasCalendars,
		EventEntries:    eventEntries,
		FreeBusyEntries: freeBusyEntries,
		TotalEntries:    total,
	}
}
