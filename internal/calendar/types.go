package calendar

import (
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/conflictfewer/internal/engine"
)

const dateFormat = "2006-01-02"

// CalendarInfo represents information about a calendar
type CalendarInfo struct {
	ID          string
	Summary     string
	Description string
	TimeZone    string
	Primary     bool
	AccessRole  string // "owner", "writer", "reader", "freeBusyReader"
}

// toEvent converts a Google Calendar event to the engine's event type.
// calendarID tags the event with its source calendar; the API response does
// not carry it.
func toEvent(event *calendar.Event, calendarID string) engine.CalendarEvent {
	if event == nil {
		return engine.CalendarEvent{}
	}

	result := engine.CalendarEvent{
		ID:          event.Id,
		CalendarID:  calendarID,
		Summary:     event.Summary,
		Description: event.Description,
		Location:    event.Location,
	}

	// Date-only start marks an all-day event
	if event.Start != nil {
		if event.Start.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.Start.DateTime); err == nil {
				result.Start = t
			}
		} else if event.Start.Date != "" {
			if t, err := time.Parse(dateFormat, event.Start.Date); err == nil {
				result.Start = t
				result.AllDay = true
			}
		}
	}

	if event.End != nil {
		if event.End.DateTime != "" {
			if t, err := time.Parse(time.RFC3339, event.End.DateTime); err == nil {
				result.End = t
			}
		} else if event.End.Date != "" {
			if t, err := time.Parse(dateFormat, event.End.Date); err == nil {
				result.End = t
			}
		}
	}

	return result
}

// fromProposed converts a proposed event into the API's event type.
func fromProposed(proposed engine.ProposedEvent) *calendar.Event {
	event := &calendar.Event{
		Summary:     proposed.Summary,
		Description: proposed.Description,
		Location:    proposed.Location,
	}

	// For all-day events, use Date instead of DateTime
	if proposed.AllDay {
		event.Start = &calendar.EventDateTime{
			Date: proposed.Start.Format(dateFormat),
		}
		event.End = &calendar.EventDateTime{
			Date: proposed.End.Format(dateFormat),
		}
	} else {
		event.Start = &calendar.EventDateTime{
			DateTime: proposed.Start.Format(time.RFC3339),
		}
		event.End = &calendar.EventDateTime{
			DateTime: proposed.End.Format(time.RFC3339),
		}
	}

	return event
}

// fromChanges converts a partial update into a sparse API event suitable for
// a patch call. Unset fields stay empty so the API leaves them untouched.
func fromChanges(changes engine.FieldChanges) *calendar.Event {
	event := &calendar.Event{}

	if changes.Summary != nil {
		event.Summary = *changes.Summary
	}
	if changes.Description != nil {
		event.Description = *changes.Description
	}
	if changes.Location != nil {
		event.Location = *changes.Location
	}
	if changes.Start != nil {
		event.Start = &calendar.EventDateTime{
			DateTime: changes.Start.Format(time.RFC3339),
		}
	}
	if changes.End != nil {
		event.End = &calendar.EventDateTime{
			DateTime: changes.End.Format(time.RFC3339),
		}
	}

	return event
}

// toCalendarInfo converts a Google Calendar list entry to CalendarInfo
func toCalendarInfo(entry *calendar.CalendarListEntry) CalendarInfo {
	return CalendarInfo{
		ID:          entry.Id,
		Summary:     entry.Summary,
		Description: entry.Description,
		TimeZone:    entry.TimeZone,
		Primary:     entry.Primary,
		AccessRole:  entry.AccessRole,
	}
}
