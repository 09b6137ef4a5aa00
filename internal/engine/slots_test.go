package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func proposalAt(hour int, duration time.Duration) ProposedEvent {
	start := testDay.Add(time.Duration(hour) * time.Hour)
	return ProposedEvent{
		CalendarID: "primary",
		Summary:    "proposal",
		Start:      start,
		End:        start.Add(duration),
	}
}

func TestSuggestNeverEmpty(t *testing.T) {
	suggester := NewSuggester(nil)

	// Fill the whole working window on both days so nothing is free
	var existing []CalendarEvent
	for day := 0; day < 2; day++ {
		event := CalendarEvent{
			ID:         "blocker",
			CalendarID: "primary",
			Start:      testDay.AddDate(0, 0, day),
			End:        testDay.AddDate(0, 0, day+1),
		}
		event.ID = event.Start.Format("2006-01-02")
		existing = append(existing, event)
	}

	offers := suggester.Suggest(proposalAt(14, time.Hour), existing)
	require.NotEmpty(t, offers, "the fallback guarantees a non-empty list")
	require.Len(t, offers, 1)
	assert.True(t, offers[0].Fallback)
	assert.Equal(t, testDay.Add(14*time.Hour), offers[0].Start)
}

func TestSuggestMaxFourOffers(t *testing.T) {
	suggester := NewSuggester(nil)

	offers := suggester.Suggest(proposalAt(14, time.Hour), nil)
	assert.LessOrEqual(t, len(offers), 4)
}

func TestSuggestOffersDoNotOverlapExisting(t *testing.T) {
	suggester := NewSuggester(nil)

	existing := []CalendarEvent{
		timedEvent("morning", "primary", 8, 2*time.Hour),
		timedEvent("lunch", "primary", 12, time.Hour),
		timedEvent("afternoon", "primary", 14, 90*time.Minute),
	}

	offers := suggester.Suggest(proposalAt(14, time.Hour), existing)
	require.NotEmpty(t, offers)

	for _, offer := range offers {
		if offer.Fallback {
			continue // the fallback intentionally keeps the conflicting time
		}
		for _, event := range existing {
			eStart, eEnd := event.Span()
			assert.False(t, overlaps(offer.Start, offer.End, eStart, eEnd),
				"offer %v-%v overlaps existing event %s", offer.Start, offer.End, event.ID)
		}
	}
}

func TestSuggestSameDayFirstAndDurationPreserved(t *testing.T) {
	suggester := NewSuggester(nil)

	duration := time.Hour
	existing := []CalendarEvent{timedEvent("busy", "primary", 14, time.Hour)}

	offers := suggester.Suggest(proposalAt(14, duration), existing)
	require.GreaterOrEqual(t, len(offers), 3)

	// First offers are same-day, inside the working window
	proposalDay := testDay
	for _, offer := range offers[:2] {
		assert.Equal(t, proposalDay.Day(), offer.Start.Day(), "same-day offers come first")
		assert.GreaterOrEqual(t, offer.Start.Hour(), DefaultWorkdayStartHour)
		assert.Equal(t, duration, offer.End.Sub(offer.Start))
		assert.False(t, offer.Fallback)
	}

	// The earliest same-day offer is at the start of the working window
	assert.Equal(t, DefaultWorkdayStartHour, offers[0].Start.Hour())

	// The last offer is always the fallback at the requested time
	last := offers[len(offers)-1]
	assert.True(t, last.Fallback)
	assert.Equal(t, testDay.Add(14*time.Hour), last.Start)
}

func TestSuggestNextDayAtRequestedTime(t *testing.T) {
	suggester := NewSuggester(nil)

	// Same day fully booked inside the working window, next day free
	existing := []CalendarEvent{{
		ID:         "wall",
		CalendarID: "primary",
		Start:      testDay.Add(time.Duration(DefaultWorkdayStartHour) * time.Hour),
		End:        testDay.Add(time.Duration(DefaultWorkdayEndHour) * time.Hour),
	}}

	offers := suggester.Suggest(proposalAt(14, time.Hour), existing)
	require.Len(t, offers, 2, "one next-day offer plus the fallback")

	nextDay := offers[0]
	assert.False(t, nextDay.Fallback)
	assert.Equal(t, testDay.AddDate(0, 0, 1).Add(14*time.Hour), nextDay.Start,
		"next-day offer keeps the originally requested time of day")
	assert.True(t, offers[1].Fallback)
}

func TestSuggestNoDuplicateWhenRequestedTimeIsFree(t *testing.T) {
	// On the advisory path the requested time can itself be a free slot; it
	// must then appear once as a regular offer, not again as the fallback.
	suggester := NewSuggester(nil)

	requested := testDay.Add(time.Duration(DefaultWorkdayStartHour) * time.Hour)
	offers := suggester.Suggest(proposalAt(DefaultWorkdayStartHour, time.Hour), nil)
	require.NotEmpty(t, offers)

	seen := make(map[time.Time]bool)
	matches := 0
	for _, offer := range offers {
		assert.False(t, seen[offer.Start], "offer at %v listed twice", offer.Start)
		seen[offer.Start] = true
		if offer.Start.Equal(requested) {
			matches++
			assert.False(t, offer.Fallback, "the free requested time is a regular offer")
		}
	}
	assert.Equal(t, 1, matches)
}

func TestSuggestRespectsWorkingWindowEnd(t *testing.T) {
	// A 3-hour meeting cannot start at 21:00 in a window ending at 22:00
	suggester := NewSuggester(nil)

	offers := suggester.Suggest(proposalAt(14, 3*time.Hour), nil)
	windowEnd := testDay.AddDate(0, 0, 2)
	for _, offer := range offers {
		if offer.Fallback {
			continue
		}
		dayEnd := time.Date(offer.Start.Year(), offer.Start.Month(), offer.Start.Day(),
			DefaultWorkdayEndHour, 0, 0, 0, offer.Start.Location())
		assert.False(t, offer.End.After(dayEnd), "offer %v-%v exceeds the working window", offer.Start, offer.End)
		assert.True(t, offer.End.Before(windowEnd))
	}
}

func TestSuggestCustomWindow(t *testing.T) {
	suggester, err := NewSuggesterWithWindow(9, 17, nil)
	require.NoError(t, err)

	offers := suggester.Suggest(proposalAt(10, time.Hour), nil)
	require.NotEmpty(t, offers)
	assert.Equal(t, 9, offers[0].Start.Hour())
}

func TestNewSuggesterWithWindowInvalid(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 17},
		{"end past midnight", 8, 25},
		{"inverted", 18, 9},
		{"empty", 12, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSuggesterWithWindow(tt.start, tt.end, nil)
			assert.Error(t, err)
		})
	}
}
