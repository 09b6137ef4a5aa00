package schedule_tools

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/teemow/conflictfewer/internal/calendar"
	"github.com/teemow/conflictfewer/internal/engine"
)

var formatTestDay = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func TestFormatBatchResult_AllSucceeded(t *testing.T) {
	result := formatBatchResult(engine.BatchResult{Outcomes: []engine.ActionOutcome{
		{Kind: engine.OperationCreate, CalendarID: "primary", Target: "Standup", Succeeded: true},
	}})

	if !strings.Contains(result, "All 1 action(s) completed successfully") {
		t.Errorf("expected success header, got:\n%s", result)
	}
	if !strings.Contains(result, `create "Standup" on calendar primary: ok`) {
		t.Errorf("expected action line, got:\n%s", result)
	}
}

func TestFormatBatchResult_PartialFailure(t *testing.T) {
	result := formatBatchResult(engine.BatchResult{Outcomes: []engine.ActionOutcome{
		{Kind: engine.OperationDelete, CalendarID: "primary", Target: "Gym", Succeeded: true},
		{Kind: engine.OperationDelete, CalendarID: "primary", Target: "Standup", Succeeded: false, Detail: "provider refused"},
	}})

	if !strings.Contains(result, "1 of 2 action(s) completed, 1 failed") {
		t.Errorf("expected partial failure header, got:\n%s", result)
	}
	if !strings.Contains(result, "FAILED: provider refused") {
		t.Errorf("expected failure detail, got:\n%s", result)
	}
}

func TestFormatConflictReport(t *testing.T) {
	result := formatConflictReport(engine.ConflictReport{
		HasConflict: true,
		Conflicting: []engine.CalendarEvent{{
			ID:         "busy",
			CalendarID: "primary",
			Summary:    "Existing meeting",
			Start:      formatTestDay.Add(14 * time.Hour),
			End:        formatTestDay.Add(15 * time.Hour),
		}},
		Offers: []engine.SlotOffer{
			{Start: formatTestDay.Add(9 * time.Hour), End: formatTestDay.Add(10 * time.Hour)},
			{Start: formatTestDay.Add(14 * time.Hour), End: formatTestDay.Add(15 * time.Hour), Fallback: true},
		},
	})

	if !strings.Contains(result, "Nothing was created") {
		t.Errorf("expected conflict notice, got:\n%s", result)
	}
	if !strings.Contains(result, `"Existing meeting" on calendar primary`) {
		t.Errorf("expected conflicting event line, got:\n%s", result)
	}
	if !strings.Contains(result, "Suggested alternative slots (2)") {
		t.Errorf("expected offers header, got:\n%s", result)
	}
	if !strings.Contains(result, "originally requested time") {
		t.Errorf("expected fallback note, got:\n%s", result)
	}
}

func TestFormatResolution_NeedsClarification(t *testing.T) {
	result := formatResolution(engine.Resolution{
		State: engine.ResolutionNeedsClarification,
		Candidates: []engine.Candidate{
			{EventID: "gym-1", CalendarID: "primary", Summary: "Gym", Start: formatTestDay.Add(18 * time.Hour)},
			{EventID: "gym-2", CalendarID: "primary"},
		},
	})

	if !strings.Contains(result, "Which one did you mean?") {
		t.Errorf("expected clarification question, got:\n%s", result)
	}
	if !strings.Contains(result, `"Gym" on calendar primary, starting`) {
		t.Errorf("expected candidate with start time, got:\n%s", result)
	}
	// Candidates without display metadata fall back to the event ID.
	if !strings.Contains(result, `"gym-2" on calendar primary`) {
		t.Errorf("expected candidate without start time, got:\n%s", result)
	}
}

func TestFormatResolution_NoMatches(t *testing.T) {
	result := formatResolution(engine.Resolution{State: engine.ResolutionNoMatches})
	if !strings.Contains(result, "No matching events found") {
		t.Errorf("expected no-matches notice, got:\n%s", result)
	}
}

func TestFormatFetchFailures(t *testing.T) {
	if formatFetchFailures(nil) != "" {
		t.Error("expected empty string for no failures")
	}

	result := formatFetchFailures([]engine.FetchFailure{
		{CalendarID: "personal", Err: errors.New("unreachable")},
	})
	if !strings.Contains(result, "personal: unreachable") {
		t.Errorf("expected failure line, got:\n%s", result)
	}
	if !strings.Contains(result, "may hide conflicts") {
		t.Errorf("expected disclosure notice, got:\n%s", result)
	}
}

func TestFormatCalendarList(t *testing.T) {
	if !strings.Contains(formatCalendarList(nil), "No calendars") {
		t.Error("expected empty-list notice")
	}

	result := formatCalendarList([]calendar.CalendarInfo{
		{ID: "primary", Summary: "Personal", TimeZone: "Europe/Berlin", Primary: true, AccessRole: "owner"},
		{ID: "team@group.calendar.google.com", Summary: "Team", TimeZone: "UTC", AccessRole: "reader"},
	})
	if !strings.Contains(result, "Found 2 calendar(s)") {
		t.Errorf("expected header, got:\n%s", result)
	}
	if !strings.Contains(result, "Personal (ID: primary, Europe/Berlin, owner, primary)") {
		t.Errorf("expected primary calendar line, got:\n%s", result)
	}
	if !strings.Contains(result, "Team (ID: team@group.calendar.google.com, UTC, reader)") {
		t.Errorf("expected reader calendar line, got:\n%s", result)
	}
}

func TestFormatOutcome_SingleBranch(t *testing.T) {
	executed := formatOutcome(engine.Outcome{
		Executed: &engine.BatchResult{Outcomes: []engine.ActionOutcome{
			{Kind: engine.OperationCreate, CalendarID: "primary", Target: "Standup", Succeeded: true},
		}},
		FetchFailures: []engine.FetchFailure{{CalendarID: "personal", Err: errors.New("unreachable")}},
	})
	if !strings.Contains(executed, "completed successfully") || !strings.Contains(executed, "personal: unreachable") {
		t.Errorf("expected batch result with fetch failure notice, got:\n%s", executed)
	}

	conflict := formatOutcome(engine.Outcome{
		Conflict: &engine.ConflictReport{
			HasConflict: true,
			Offers:      []engine.SlotOffer{{Start: formatTestDay, End: formatTestDay.Add(time.Hour), Fallback: true}},
		},
	})
	if !strings.Contains(conflict, "Conflict") {
		t.Errorf("expected conflict text, got:\n%s", conflict)
	}
}
