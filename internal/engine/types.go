package engine

import (
	"time"
)

// CalendarEvent is an immutable snapshot of a scheduled event, tagged with
// the calendar it was read from. Instances are created and mutated only by
// the event store; the engine never modifies them after aggregation.
type CalendarEvent struct {
	ID          string
	CalendarID  string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time

	// AllDay marks a date-only event. Its effective span is midnight to
	// midnight regardless of the clock values in Start and End.
	AllDay bool
}

// Span returns the effective half-open interval of the event.
// All-day events are normalized to midnight-to-midnight of their date(s).
func (e CalendarEvent) Span() (time.Time, time.Time) {
	return effectiveSpan(e.Start, e.End, e.AllDay)
}

// Key returns an identifier that is unique across calendars. Event IDs are
// only unique within a single calendar.
func (e CalendarEvent) Key() string {
	return e.CalendarID + "/" + e.ID
}

// ProposedEvent is a candidate event to be created. It has the same temporal
// shape as CalendarEvent but no ID yet, and carries the calendar it should be
// created on.
type ProposedEvent struct {
	CalendarID  string
	Summary     string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
	AllDay      bool
}

// Span returns the effective half-open interval of the proposed event.
func (p ProposedEvent) Span() (time.Time, time.Time) {
	return effectiveSpan(p.Start, p.End, p.AllDay)
}

// Duration returns the length of the proposed event's effective span.
func (p ProposedEvent) Duration() time.Duration {
	start, end := p.Span()
	return end.Sub(start)
}

// FieldChanges describes a partial update to an existing event. Nil fields
// are left untouched.
type FieldChanges struct {
	Summary     *string
	Description *string
	Location    *string
	Start       *time.Time
	End         *time.Time
}

// IsEmpty reports whether no field change is requested.
func (c FieldChanges) IsEmpty() bool {
	return c.Summary == nil && c.Description == nil && c.Location == nil &&
		c.Start == nil && c.End == nil
}

// Candidate references an existing event that an update or delete request
// may be talking about. Summary and Start are display metadata for
// disambiguation prompts; Changes carries the field updates for update
// intents.
type Candidate struct {
	EventID    string
	CalendarID string
	Summary    string
	Start      time.Time
	Changes    *FieldChanges
}

// Cardinality is the user's expressed expectation of how many events a
// request should affect.
type Cardinality int

const (
	// CardinalityUnspecified means the user gave no signal. It is treated
	// like plural so that the engine does not block on ambiguity the user
	// never expressed.
	CardinalityUnspecified Cardinality = iota

	// CardinalitySingular means the user referred to exactly one event
	// ("the standup", "my dentist appointment").
	CardinalitySingular

	// CardinalityPlural means the user referred to multiple events
	// ("all Monday meetings").
	CardinalityPlural
)

// String returns the lowercase name of the cardinality.
func (c Cardinality) String() string {
	switch c {
	case CardinalitySingular:
		return "singular"
	case CardinalityPlural:
		return "plural"
	default:
		return "unspecified"
	}
}

// ResolutionState classifies the outcome of candidate resolution.
type ResolutionState int

const (
	// ResolutionUnambiguous means the candidates can be acted upon directly.
	ResolutionUnambiguous ResolutionState = iota

	// ResolutionNeedsClarification means multiple candidates matched a
	// singular request and the user must choose.
	ResolutionNeedsClarification

	// ResolutionNoMatches means no existing event matched the request.
	ResolutionNoMatches
)

// String returns the lowercase name of the resolution state.
func (s ResolutionState) String() string {
	switch s {
	case ResolutionUnambiguous:
		return "unambiguous"
	case ResolutionNeedsClarification:
		return "needs_clarification"
	default:
		return "no_matches"
	}
}

// Resolution is the terminal output of candidate resolution. It is never
// mutated after it is produced.
type Resolution struct {
	State ResolutionState

	// Candidates carries the matched events. For NeedsClarification it
	// includes display metadata (summary, start, calendar) so the caller
	// can present a choice; for Unambiguous it is the action set.
	Candidates []Candidate
}

// SlotOffer is a free interval offered as an alternative to a conflicting
// proposal. A Fallback offer keeps the originally requested time and lets
// the caller proceed despite the conflict.
type SlotOffer struct {
	Start    time.Time
	End      time.Time
	Fallback bool
}

// ConflictReport is the result of checking a batch of proposed events
// against the aggregated existing events. It is computed fresh per check and
// never persisted.
type ConflictReport struct {
	// HasConflict is true if any proposed event in the batch overlaps any
	// existing event.
	HasConflict bool

	// Conflicting is the union of all existing events that overlapped any
	// proposed event, de-duplicated by calendar and event ID.
	Conflicting []CalendarEvent

	// Offers are alternative slots for the first proposed event. Only
	// populated when HasConflict is true.
	Offers []SlotOffer
}

// OperationKind identifies the type of a calendar operation.
type OperationKind int

const (
	OperationCreate OperationKind = iota
	OperationUpdate
	OperationDelete
)

// String returns the lowercase name of the operation kind.
func (k OperationKind) String() string {
	switch k {
	case OperationCreate:
		return "create"
	case OperationUpdate:
		return "update"
	case OperationDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Operation is a single concrete action to apply against the event store.
// Create operations carry a payload; update and delete operations carry a
// target candidate.
type Operation struct {
	Kind       OperationKind
	CalendarID string
	Create     *ProposedEvent
	Target     *Candidate
}

// TargetLabel returns a human-recognizable identifier for the operation's
// target: the event summary when known, otherwise the event ID.
func (o Operation) TargetLabel() string {
	switch {
	case o.Create != nil && o.Create.Summary != "":
		return o.Create.Summary
	case o.Target != nil && o.Target.Summary != "":
		return o.Target.Summary
	case o.Target != nil:
		return o.Target.EventID
	default:
		return ""
	}
}

// ActionOutcome records the result of a single operation in a batch.
type ActionOutcome struct {
	Kind       OperationKind
	CalendarID string
	Target     string
	Succeeded  bool

	// Detail holds the failure reason when Succeeded is false.
	Detail string
}

// BatchResult aggregates one ActionOutcome per requested operation.
type BatchResult struct {
	Outcomes []ActionOutcome
}

// AllSucceeded reports whether every operation in the batch succeeded.
// An empty batch counts as all-succeeded.
func (r BatchResult) AllSucceeded() bool {
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			return false
		}
	}
	return true
}

// AnySucceeded reports whether at least one operation succeeded.
func (r BatchResult) AnySucceeded() bool {
	for _, o := range r.Outcomes {
		if o.Succeeded {
			return true
		}
	}
	return false
}

// Succeeded returns the outcomes of the operations that succeeded.
func (r BatchResult) Succeeded() []ActionOutcome {
	var out []ActionOutcome
	for _, o := range r.Outcomes {
		if o.Succeeded {
			out = append(out, o)
		}
	}
	return out
}

// Failed returns the outcomes of the operations that failed.
func (r BatchResult) Failed() []ActionOutcome {
	var out []ActionOutcome
	for _, o := range r.Outcomes {
		if !o.Succeeded {
			out = append(out, o)
		}
	}
	return out
}

// effectiveSpan normalizes an event interval. Timed events are returned as-is.
// All-day events are floored to midnight; a degenerate end is extended so the
// span always covers at least one full day.
func effectiveSpan(start, end time.Time, allDay bool) (time.Time, time.Time) {
	if !allDay {
		return start, end
	}
	s := startOfDay(start)
	e := startOfDay(end)
	if !e.After(s) {
		e = s.AddDate(0, 0, 1)
	}
	return s, e
}

// startOfDay returns midnight of t's calendar day in t's location.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
