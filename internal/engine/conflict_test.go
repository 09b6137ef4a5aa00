package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	return NewDetector(NewSuggester(nil), nil)
}

func TestOverlapsSymmetric(t *testing.T) {
	base := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	pairs := []struct {
		name           string
		s1, e1, s2, e2 time.Time
	}{
		{"partial overlap", base, base.Add(time.Hour), base.Add(30 * time.Minute), base.Add(90 * time.Minute)},
		{"containment", base, base.Add(2 * time.Hour), base.Add(30 * time.Minute), base.Add(time.Hour)},
		{"identical", base, base.Add(time.Hour), base, base.Add(time.Hour)},
		{"disjoint", base, base.Add(time.Hour), base.Add(2 * time.Hour), base.Add(3 * time.Hour)},
		{"shared boundary", base, base.Add(time.Hour), base.Add(time.Hour), base.Add(2 * time.Hour)},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			forward := overlaps(tt.s1, tt.e1, tt.s2, tt.e2)
			backward := overlaps(tt.s2, tt.e2, tt.s1, tt.e1)
			assert.Equal(t, forward, backward, "overlaps must be symmetric")
		})
	}
}

func TestOverlapsBoundaryInstant(t *testing.T) {
	// Back-to-back events share only a boundary instant and never conflict
	base := time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC)
	assert.False(t, overlaps(base, base.Add(time.Hour), base.Add(time.Hour), base.Add(2*time.Hour)))
	assert.False(t, overlaps(base.Add(time.Hour), base.Add(2*time.Hour), base, base.Add(time.Hour)))
}

func TestDetectorNoConflict(t *testing.T) {
	detector := newTestDetector(t)

	proposed := []ProposedEvent{{
		CalendarID: "primary",
		Summary:    "New meeting",
		Start:      testDay.Add(14 * time.Hour),
		End:        testDay.Add(15 * time.Hour),
	}}
	existing := []CalendarEvent{
		timedEvent("before", "primary", 12, time.Hour),
		timedEvent("after", "primary", 15, time.Hour), // starts exactly at the proposal's end
	}

	report := detector.Check(proposed, existing)
	assert.False(t, report.HasConflict)
	assert.Empty(t, report.Conflicting)
	assert.Empty(t, report.Offers)
}

func TestDetectorCollectsAllConflicts(t *testing.T) {
	detector := newTestDetector(t)

	proposed := []ProposedEvent{{
		CalendarID: "primary",
		Summary:    "Long workshop",
		Start:      testDay.Add(9 * time.Hour),
		End:        testDay.Add(12 * time.Hour),
	}}
	existing := []CalendarEvent{
		timedEvent("first", "primary", 9, time.Hour),
		timedEvent("second", "primary", 10, time.Hour),
		timedEvent("untouched", "primary", 13, time.Hour),
	}

	report := detector.Check(proposed, existing)
	require.True(t, report.HasConflict)
	require.Len(t, report.Conflicting, 2, "all overlapping events are collected, not just the first")
	assert.Equal(t, "first", report.Conflicting[0].ID)
	assert.Equal(t, "second", report.Conflicting[1].ID)
	assert.NotEmpty(t, report.Offers, "conflict reports carry slot offers")
}

func TestDetectorDeduplicatesAcrossProposals(t *testing.T) {
	detector := newTestDetector(t)

	// Both proposals overlap the same existing event
	proposed := []ProposedEvent{
		{CalendarID: "primary", Start: testDay.Add(9 * time.Hour), End: testDay.Add(10 * time.Hour)},
		{CalendarID: "primary", Start: testDay.Add(9*time.Hour + 30*time.Minute), End: testDay.Add(10*time.Hour + 30*time.Minute)},
	}
	existing := []CalendarEvent{timedEvent("shared", "primary", 9, 2*time.Hour)}

	report := detector.Check(proposed, existing)
	require.True(t, report.HasConflict)
	assert.Len(t, report.Conflicting, 1, "conflicting events are de-duplicated by id")
}

func TestDetectorBatchConflictSemantics(t *testing.T) {
	detector := newTestDetector(t)

	// One clean proposal, one conflicting proposal: whole batch conflicts
	proposed := []ProposedEvent{
		{CalendarID: "primary", Summary: "clean", Start: testDay.Add(16 * time.Hour), End: testDay.Add(17 * time.Hour)},
		{CalendarID: "primary", Summary: "colliding", Start: testDay.Add(9 * time.Hour), End: testDay.Add(10 * time.Hour)},
	}
	existing := []CalendarEvent{timedEvent("busy", "primary", 9, time.Hour)}

	report := detector.Check(proposed, existing)
	assert.True(t, report.HasConflict, "any conflicting proposal marks the batch")
	require.Len(t, report.Conflicting, 1)

	// Offers are computed for the first proposed event
	require.NotEmpty(t, report.Offers)
	for _, offer := range report.Offers {
		if offer.Fallback {
			assert.Equal(t, proposed[0].Start, offer.Start)
		}
	}
}

func TestDetectorAllDayConflict(t *testing.T) {
	detector := newTestDetector(t)

	// A timed proposal on a day fully covered by an all-day event conflicts
	proposed := []ProposedEvent{{
		CalendarID: "primary",
		Start:      testDay.Add(14 * time.Hour),
		End:        testDay.Add(15 * time.Hour),
	}}
	existing := []CalendarEvent{{
		ID:         "allday",
		CalendarID: "primary",
		Summary:    "Public holiday",
		Start:      testDay,
		End:        testDay,
		AllDay:     true,
	}}

	report := detector.Check(proposed, existing)
	require.True(t, report.HasConflict)
	require.Len(t, report.Conflicting, 1)
	assert.Equal(t, "allday", report.Conflicting[0].ID)
}

func TestDetectorCrossCalendarConflict(t *testing.T) {
	detector := newTestDetector(t)

	proposed := []ProposedEvent{{
		CalendarID: "work",
		Start:      testDay.Add(14 * time.Hour),
		End:        testDay.Add(15 * time.Hour),
	}}
	// The busy event lives on a different calendar but still blocks the slot
	existing := []CalendarEvent{timedEvent("personal-errand", "personal", 14, time.Hour)}

	report := detector.Check(proposed, existing)
	assert.True(t, report.HasConflict)
}
