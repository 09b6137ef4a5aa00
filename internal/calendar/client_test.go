package calendar

import (
	"testing"
	"time"

	calendar "google.golang.org/api/calendar/v3"

	"github.com/teemow/conflictfewer/internal/engine"
)

func TestToEvent(t *testing.T) {
	// Test with nil event
	result := toEvent(nil, "primary")
	if result.ID != "" {
		t.Errorf("Expected empty ID for nil event, got %s", result.ID)
	}

	// Test with a timed event
	event := &calendar.Event{
		Id:          "evt-123",
		Summary:     "Team standup",
		Description: "Daily sync",
		Location:    "Room 2",
		Start:       &calendar.EventDateTime{DateTime: "2026-09-01T14:00:00Z"},
		End:         &calendar.EventDateTime{DateTime: "2026-09-01T15:00:00Z"},
	}
	result = toEvent(event, "primary")

	if result.ID != "evt-123" {
		t.Errorf("Expected ID 'evt-123', got %s", result.ID)
	}
	if result.CalendarID != "primary" {
		t.Errorf("Expected calendar 'primary', got %s", result.CalendarID)
	}
	if result.Summary != "Team standup" {
		t.Errorf("Expected summary 'Team standup', got %s", result.Summary)
	}
	if result.AllDay {
		t.Error("Timed event should not be marked all-day")
	}
	if result.Start.IsZero() || result.End.IsZero() {
		t.Error("Expected non-zero start and end times")
	}
	if got := result.End.Sub(result.Start); got != time.Hour {
		t.Errorf("Expected 1 hour duration, got %v", got)
	}
}

func TestToEventAllDay(t *testing.T) {
	event := &calendar.Event{
		Id:      "evt-allday",
		Summary: "Conference",
		Start:   &calendar.EventDateTime{Date: "2026-09-01"},
		End:     &calendar.EventDateTime{Date: "2026-09-02"},
	}
	result := toEvent(event, "work@example.com")

	if !result.AllDay {
		t.Error("Date-only event should be marked all-day")
	}
	if result.Start.Hour() != 0 || result.Start.Minute() != 0 {
		t.Errorf("Expected midnight start, got %v", result.Start)
	}

	start, end := result.Span()
	if got := end.Sub(start); got != 24*time.Hour {
		t.Errorf("Expected 24h effective span, got %v", got)
	}
}

func TestFromProposed(t *testing.T) {
	start := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	proposed := engine.ProposedEvent{
		CalendarID:  "primary",
		Summary:     "Design review",
		Description: "Q3 roadmap",
		Location:    "Zoom",
		Start:       start,
		End:         start.Add(time.Hour),
	}

	event := fromProposed(proposed)
	if event.Summary != "Design review" {
		t.Errorf("Expected summary 'Design review', got %s", event.Summary)
	}
	if event.Start == nil || event.Start.DateTime == "" {
		t.Fatal("Expected DateTime start for timed event")
	}
	if event.Start.Date != "" {
		t.Error("Timed event should not carry a date-only start")
	}
}

func TestFromProposedAllDay(t *testing.T) {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	proposed := engine.ProposedEvent{
		CalendarID: "primary",
		Summary:    "Offsite",
		Start:      start,
		End:        start.AddDate(0, 0, 1),
		AllDay:     true,
	}

	event := fromProposed(proposed)
	if event.Start == nil || event.Start.Date != "2026-09-01" {
		t.Fatalf("Expected date-only start '2026-09-01', got %+v", event.Start)
	}
	if event.End == nil || event.End.Date != "2026-09-02" {
		t.Fatalf("Expected date-only end '2026-09-02', got %+v", event.End)
	}
	if event.Start.DateTime != "" {
		t.Error("All-day event should not carry a DateTime start")
	}
}

func TestFromChanges(t *testing.T) {
	summary := "Renamed meeting"
	start := time.Date(2026, 9, 1, 16, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)

	changes := engine.FieldChanges{
		Summary: &summary,
		Start:   &start,
		End:     &end,
	}

	event := fromChanges(changes)
	if event.Summary != summary {
		t.Errorf("Expected summary %q, got %q", summary, event.Summary)
	}
	if event.Description != "" {
		t.Error("Unset description should stay empty in patch payload")
	}
	if event.Location != "" {
		t.Error("Unset location should stay empty in patch payload")
	}
	if event.Start == nil || event.End == nil {
		t.Fatal("Expected start and end in patch payload")
	}
}

func TestFromChangesEmpty(t *testing.T) {
	event := fromChanges(engine.FieldChanges{})
	if event.Summary != "" || event.Start != nil || event.End != nil {
		t.Error("Empty changes should produce an empty patch payload")
	}
}

func TestToCalendarInfo(t *testing.T) {
	entry := &calendar.CalendarListEntry{
		Id:          "work@example.com",
		Summary:     "Work",
		Description: "Team calendar",
		TimeZone:    "Europe/Berlin",
		Primary:     false,
		AccessRole:  "writer",
	}
	info := toCalendarInfo(entry)

	if info.ID != "work@example.com" {
		t.Errorf("Expected ID 'work@example.com', got %s", info.ID)
	}
	if info.TimeZone != "Europe/Berlin" {
		t.Errorf("Expected time zone 'Europe/Berlin', got %s", info.TimeZone)
	}
	if info.AccessRole != "writer" {
		t.Errorf("Expected access role 'writer', got %s", info.AccessRole)
	}
}

func TestHasTokenForAccountInvalid(t *testing.T) {
	if HasTokenForAccount("") {
		t.Error("Expected false for empty account name")
	}
}
