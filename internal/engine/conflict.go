package engine

import (
	"log/slog"
	"time"
)

// Detector checks proposed events against aggregated existing events for
// temporal overlap.
type Detector struct {
	suggester *Suggester
	logger    *slog.Logger
}

// NewDetector creates a Detector. The suggester is consulted for alternative
// slots whenever a conflict is found; it must not be nil.
// If logger is nil, slog.Default() is used.
func NewDetector(suggester *Suggester, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{
		suggester: suggester,
		logger:    logger,
	}
}

// Check compares every proposed event pairwise against the full existing set.
// If any proposed event overlaps any existing event the whole batch is
// reported as conflicting; the caller decides whether to abort, retry a
// subset, or ask the user. Conflicting existing events are collected across
// the whole batch and de-duplicated by calendar and event ID.
//
// When a conflict is found, alternative slots for the first proposed event
// are attached to the report.
func (d *Detector) Check(proposed []ProposedEvent, existing []CalendarEvent) ConflictReport {
	var conflicting []CalendarEvent
	seen := make(map[string]bool)

	for _, p := range proposed {
		pStart, pEnd := p.Span()
		for _, event := range existing {
			eStart, eEnd := event.Span()
			if !overlaps(pStart, pEnd, eStart, eEnd) {
				continue
			}
			if seen[event.Key()] {
				continue
			}
			seen[event.Key()] = true
			conflicting = append(conflicting, event)
		}
	}

	report := ConflictReport{
		HasConflict: len(conflicting) > 0,
		Conflicting: conflicting,
	}

	if report.HasConflict && len(proposed) > 0 {
		report.Offers = d.suggester.Suggest(proposed[0], existing)
		d.logger.Debug("conflict detected",
			slog.Int("proposed", len(proposed)),
			slog.Int("conflicting", len(conflicting)),
			slog.Int("offers", len(report.Offers)))
	}

	return report
}

// overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// intersect. An event ending exactly when another starts is not an overlap.
func overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
