package engine

import (
	"fmt"
	"log/slog"
	"time"
)

// Default working window for slot suggestions, in local hours.
const (
	DefaultWorkdayStartHour = 8
	DefaultWorkdayEndHour   = 22
)

const (
	maxSameDayOffers = 2
	maxOffers        = 4
)

// Suggester proposes alternative time slots for a conflicting event.
type Suggester struct {
	workdayStart int
	workdayEnd   int
	logger       *slog.Logger
}

// NewSuggester creates a Suggester with the default 08:00-22:00 working
// window. If logger is nil, slog.Default() is used.
func NewSuggester(logger *slog.Logger) *Suggester {
	s, _ := NewSuggesterWithWindow(DefaultWorkdayStartHour, DefaultWorkdayEndHour, logger)
	return s
}

// NewSuggesterWithWindow creates a Suggester with a custom working window.
// Hours are local clock hours; startHour must be before endHour and both
// must lie within a day.
func NewSuggesterWithWindow(startHour, endHour int, logger *slog.Logger) (*Suggester, error) {
	if startHour < 0 || endHour > 24 || startHour >= endHour {
		return nil, fmt.Errorf("invalid working window %d:00-%d:00", startHour, endHour)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Suggester{
		workdayStart: startHour,
		workdayEnd:   endHour,
		logger:       logger,
	}, nil
}

// Suggest returns up to four ranked alternatives for the proposed event:
// up to two free slots on the same calendar day, scanned at one-hour
// granularity within the working window; then the same time of day on the
// following day if free; then a fallback offer that keeps the requested time
// so the list is never empty. The fallback is omitted when the requested time
// already appears as a regular offer. Every non-fallback slot has the
// proposal's duration and overlaps no event in the existing set.
func (s *Suggester) Suggest(proposed ProposedEvent, existing []CalendarEvent) []SlotOffer {
	start, end := proposed.Span()
	duration := end.Sub(start)

	var offers []SlotOffer

	// Same-day candidates, preferred and returned first.
	day := startOfDay(start)
	windowEnd := day.Add(time.Duration(s.workdayEnd) * time.Hour)
	for hour := s.workdayStart; hour < s.workdayEnd; hour++ {
		if len(offers) >= maxSameDayOffers {
			break
		}
		slotStart := day.Add(time.Duration(hour) * time.Hour)
		slotEnd := slotStart.Add(duration)
		if slotEnd.After(windowEnd) {
			break
		}
		if s.isFree(slotStart, slotEnd, existing) {
			offers = append(offers, SlotOffer{Start: slotStart, End: slotEnd})
		}
	}

	// One next-day candidate at the originally requested time of day.
	nextStart := start.AddDate(0, 0, 1)
	nextEnd := nextStart.Add(duration)
	if s.isFree(nextStart, nextEnd, existing) {
		offers = append(offers, SlotOffer{Start: nextStart, End: nextEnd})
	}

	// Fallback: keep the requested time and let the caller proceed despite
	// the conflict. Guarantees a non-empty offer list. Skipped when the
	// requested time is already among the regular offers, which can happen
	// on the advisory path where no conflict is required.
	requestedOffered := false
	for _, offer := range offers {
		if offer.Start.Equal(start) {
			requestedOffered = true
			break
		}
	}
	if !requestedOffered {
		offers = append(offers, SlotOffer{Start: start, End: end, Fallback: true})
	}

	if len(offers) > maxOffers {
		offers = offers[:maxOffers]
	}

	s.logger.Debug("suggested alternative slots",
		slog.Time("requested_start", start),
		slog.Duration("duration", duration),
		slog.Int("offers", len(offers)))

	return offers
}

// isFree reports whether [start, end) overlaps no event in existing.
func (s *Suggester) isFree(start, end time.Time, existing []CalendarEvent) bool {
	for _, event := range existing {
		eStart, eEnd := event.Span()
		if overlaps(start, end, eStart, eEnd) {
			return false
		}
	}
	return true
}
