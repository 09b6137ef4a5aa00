// Package engine implements the multi-calendar scheduling engine that turns
// structured calendar intents into concrete operations.
//
// The engine sits between an intent resolver (an external capability that
// turns free text into a structured Intent) and an event store (the calendar
// provider). For a given intent it:
//   - Aggregates the relevant existing events across the target calendars,
//     fetching each calendar concurrently and tolerating partial failures
//   - Detects time overlaps between proposed events and existing events
//     using half-open intervals, so back-to-back events never conflict
//   - Suggests alternative time slots when a proposed event collides
//   - Disambiguates which existing event(s) an update or delete refers to,
//     based on the user's expressed cardinality (one event vs. many)
//   - Executes the surviving operations with per-item failure isolation
//
// The engine produces structured outcomes only. It never generates
// user-facing text and never talks to a language model; callers decide how
// to present conflicts, clarification choices, and batch results.
//
// # Example Usage
//
//	eng := engine.New(store, engine.Options{
//	    AuthorizedCalendars: []string{"primary", "team@example.com"},
//	})
//
//	outcome, err := eng.Handle(ctx, engine.Intent{
//	    Kind:        engine.IntentCreate,
//	    Proposed:    []engine.ProposedEvent{proposal},
//	    CalendarIDs: []string{"primary"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	switch {
//	case outcome.Conflict != nil:
//	    // creation withheld, present outcome.Conflict.Offers
//	case outcome.Executed != nil:
//	    // report per-item results
//	}
package engine
