package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/teemow/conflictfewer/internal/logging"
)

// ErrAllCalendarsFailed is returned by Aggregator.Fetch when no calendar
// could be fetched at all. Partial failures do not produce an error.
var ErrAllCalendarsFailed = errors.New("all calendar fetches failed")

// Window is the half-open time range [Min, Max) a fetch covers.
type Window struct {
	Min time.Time
	Max time.Time
}

// FetchFailure records a calendar that could not be fetched and why.
// Failures are surfaced to the caller rather than swallowed, so the user can
// be told which calendars the comparison set is missing.
type FetchFailure struct {
	CalendarID string
	Err        error
}

// Aggregator fetches events from a set of calendars concurrently and merges
// them into one deterministically ordered collection.
type Aggregator struct {
	store  Store
	logger *slog.Logger
}

// NewAggregator creates an Aggregator backed by the given store.
// If logger is nil, slog.Default() is used.
func NewAggregator(store Store, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{
		store:  store,
		logger: logger,
	}
}

// Fetch lists the events of every calendar in calendarIDs that intersect the
// window, fanning out one concurrent fetch per calendar. A failure on one
// calendar does not abort the others; the failing calendars are reported in
// the returned failure list. Only when every calendar fails does Fetch
// return an error (wrapping ErrAllCalendarsFailed).
//
// The merged result is sorted by effective start time ascending, with ties
// broken by calendar ID and then event ID for determinism. Each event is
// tagged with its source calendar.
func (a *Aggregator) Fetch(ctx context.Context, calendarIDs []string, window Window) ([]CalendarEvent, []FetchFailure, error) {
	if len(calendarIDs) == 0 {
		return nil, nil, nil
	}

	type fetchResult struct {
		calendarID string
		events     []CalendarEvent
		err        error
	}

	results := make(chan fetchResult, len(calendarIDs))
	var wg sync.WaitGroup
	for _, calendarID := range calendarIDs {
		wg.Add(1)
		go func(calendarID string) {
			defer wg.Done()
			events, err := a.store.ListEvents(ctx, calendarID, window.Min, window.Max)
			results <- fetchResult{calendarID: calendarID, events: events, err: err}
		}(calendarID)
	}
	wg.Wait()
	close(results)

	var merged []CalendarEvent
	var failures []FetchFailure
	for r := range results {
		if r.err != nil {
			a.logger.Warn("calendar fetch failed",
				slog.String("calendar_id", r.calendarID),
				logging.Err(r.err))
			failures = append(failures, FetchFailure{CalendarID: r.calendarID, Err: r.err})
			continue
		}
		for _, event := range r.events {
			// Tag with the source calendar; stores are not required to
			// fill this in.
			event.CalendarID = r.calendarID
			merged = append(merged, event)
		}
	}

	sort.Slice(failures, func(i, j int) bool {
		return failures[i].CalendarID < failures[j].CalendarID
	})

	if len(failures) == len(calendarIDs) {
		return nil, failures, fmt.Errorf("%w: %s", ErrAllCalendarsFailed, describeFailures(failures))
	}

	sort.Slice(merged, func(i, j int) bool {
		si, _ := merged[i].Span()
		sj, _ := merged[j].Span()
		if !si.Equal(sj) {
			return si.Before(sj)
		}
		if merged[i].CalendarID != merged[j].CalendarID {
			return merged[i].CalendarID < merged[j].CalendarID
		}
		return merged[i].ID < merged[j].ID
	})

	a.logger.Debug("aggregated calendar events",
		slog.Int("calendars", len(calendarIDs)),
		slog.Int("events", len(merged)),
		slog.Int("failed_calendars", len(failures)))

	return merged, failures, nil
}

// describeFailures renders per-calendar failure details for error messages.
func describeFailures(failures []FetchFailure) string {
	parts := make([]string, 0, len(failures))
	for _, f := range failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.CalendarID, f.Err))
	}
	return strings.Join(parts, "; ")
}
