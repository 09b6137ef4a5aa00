package engine

import (
	"context"
	"time"
)

// Store is the event store gateway: the engine's only view of the calendar
// provider. Implementations are expected to be safe for concurrent use, as
// the aggregator fans out one ListEvents call per calendar.
//
// The engine never retries store calls; retry policy, auth, and token
// refresh belong to the implementation or its caller.
type Store interface {
	// ListEvents returns the events on a calendar that intersect the
	// half-open window [timeMin, timeMax).
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]CalendarEvent, error)

	// InsertEvent creates a new event and returns it with its assigned ID.
	InsertEvent(ctx context.Context, calendarID string, proposed ProposedEvent) (CalendarEvent, error)

	// PatchEvent applies a partial update to an existing event and returns
	// the updated snapshot.
	PatchEvent(ctx context.Context, calendarID, eventID string, changes FieldChanges) (CalendarEvent, error)

	// DeleteEvent removes an event from a calendar.
	DeleteEvent(ctx context.Context, calendarID, eventID string) error
}
