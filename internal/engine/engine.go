package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/teemow/conflictfewer/internal/instrumentation"
	"github.com/teemow/conflictfewer/internal/logging"
)

// IntentKind identifies what a calendar intent asks for.
type IntentKind int

const (
	IntentCreate IntentKind = iota
	IntentUpdate
	IntentDelete
)

// String returns the lowercase name of the intent kind.
func (k IntentKind) String() string {
	switch k {
	case IntentCreate:
		return "create"
	case IntentUpdate:
		return "update"
	case IntentDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Intent is the structured form of a user's calendar request, produced by an
// external intent resolver. Create intents carry proposed events; update and
// delete intents carry candidate references plus a cardinality hint.
type Intent struct {
	Kind        IntentKind
	Proposed    []ProposedEvent
	Candidates  []Candidate
	Cardinality Cardinality

	// CalendarIDs are the calendars this request concerns. They form the
	// comparison set for conflict checks. If empty for a create intent,
	// the proposed events' target calendars are used.
	CalendarIDs []string
}

// IntentResolver is the external capability that turns free text into a
// structured Intent. Implementations typically wrap a language model; the
// engine only ever sees structured data, never raw model output.
type IntentResolver interface {
	ResolveIntent(ctx context.Context, text string) (Intent, error)
}

// Outcome is the single structured result of handling an intent. Exactly one
// of Executed, Conflict, and Resolution is set:
//   - Executed: operations ran, with per-item results
//   - Conflict: creation was withheld, alternatives offered
//   - Resolution: update/delete was withheld (clarification needed or no
//     matches)
//
// FetchFailures lists calendars that could not contribute to the comparison
// set; the caller should disclose them alongside the main result.
type Outcome struct {
	Executed      *BatchResult
	Conflict      *ConflictReport
	Resolution    *Resolution
	FetchFailures []FetchFailure
}

// Options configures an Engine.
type Options struct {
	// AuthorizedCalendars is the set of calendars operations may touch.
	// Operations targeting any other calendar are rejected per item.
	AuthorizedCalendars []string

	// WorkdayStartHour and WorkdayEndHour bound the slot suggestion
	// window. Zero values fall back to the 08:00-22:00 default.
	WorkdayStartHour int
	WorkdayEndHour   int

	// Logger for engine-level logging. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics records engine metrics (intents, conflict checks, slot
	// offers, executed actions, fetch failures). Nil disables recording.
	Metrics *instrumentation.Metrics
}

// Engine wires the aggregator, conflict detector, slot suggester, candidate
// resolver, and action executor behind one entry point. Every call is a pure
// function of its inputs plus the store's current data; concurrent Handle
// calls for different requests need no coordination.
type Engine struct {
	aggregator *Aggregator
	detector   *Detector
	suggester  *Suggester
	executor   *Executor
	logger     *slog.Logger
	metrics    *instrumentation.Metrics
}

// New creates an Engine on top of the given event store.
func New(store Store, opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	startHour := opts.WorkdayStartHour
	endHour := opts.WorkdayEndHour
	if startHour == 0 && endHour == 0 {
		startHour = DefaultWorkdayStartHour
		endHour = DefaultWorkdayEndHour
	}
	suggester, err := NewSuggesterWithWindow(startHour, endHour, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to configure slot suggester: %w", err)
	}

	metrics := opts.Metrics
	if metrics == nil {
		metrics = &instrumentation.Metrics{} // no-op recorder
	}

	return &Engine{
		aggregator: NewAggregator(store, logger),
		detector:   NewDetector(suggester, logger),
		suggester:  suggester,
		executor:   NewExecutor(store, opts.AuthorizedCalendars, logger),
		logger:     logger,
		metrics:    metrics,
	}, nil
}

// Handle resolves one intent into a structured outcome. Create intents go
// through aggregation and conflict detection before execution; update and
// delete intents go through candidate resolution. No operation is executed
// when a conflict or ambiguity is found.
func (e *Engine) Handle(ctx context.Context, intent Intent) (Outcome, error) {
	logger := e.logger.With(
		slog.String("request_id", uuid.NewString()),
		slog.String("intent", intent.Kind.String()))

	switch intent.Kind {
	case IntentCreate:
		return e.handleCreate(ctx, logger, intent)
	case IntentUpdate, IntentDelete:
		return e.handleMutation(ctx, logger, intent)
	default:
		return Outcome{}, fmt.Errorf("unknown intent kind %d", intent.Kind)
	}
}

func (e *Engine) handleCreate(ctx context.Context, logger *slog.Logger, intent Intent) (Outcome, error) {
	if len(intent.Proposed) == 0 {
		return Outcome{}, fmt.Errorf("create intent carries no proposed events")
	}

	calendarIDs := intent.CalendarIDs
	if len(calendarIDs) == 0 {
		calendarIDs = proposedCalendars(intent.Proposed)
	}

	existing, failures, err := e.aggregator.Fetch(ctx, calendarIDs, comparisonWindow(intent.Proposed))
	e.recordFetchFailures(ctx, failures)
	if err != nil {
		// Total fetch failure is fatal for this request; without a
		// comparison set a conflict check would be meaningless.
		e.metrics.RecordIntent(ctx, intent.Kind.String(), instrumentation.OutcomeError)
		return Outcome{FetchFailures: failures}, fmt.Errorf("failed to gather comparison events: %w", err)
	}

	report := e.detector.Check(intent.Proposed, existing)
	e.recordConflictCheck(ctx, report)
	if report.HasConflict {
		e.metrics.RecordIntent(ctx, intent.Kind.String(), instrumentation.OutcomeConflict)
		logger.Info("creation withheld due to conflict",
			slog.Int("conflicting_events", len(report.Conflicting)))
		return Outcome{Conflict: &report, FetchFailures: failures}, nil
	}

	operations := make([]Operation, 0, len(intent.Proposed))
	for i := range intent.Proposed {
		proposed := intent.Proposed[i]
		operations = append(operations, Operation{
			Kind:       OperationCreate,
			CalendarID: proposed.CalendarID,
			Create:     &proposed,
		})
	}

	batch := e.executor.Execute(ctx, operations)
	e.metrics.RecordIntent(ctx, intent.Kind.String(), instrumentation.OutcomeExecuted)
	e.recordBatch(ctx, batch)
	logger.Info("create batch executed",
		slog.Int("operations", len(operations)),
		slog.Bool("all_succeeded", batch.AllSucceeded()))
	return Outcome{Executed: &batch, FetchFailures: failures}, nil
}

func (e *Engine) handleMutation(ctx context.Context, logger *slog.Logger, intent Intent) (Outcome, error) {
	resolution := Resolve(intent.Cardinality, intent.Candidates)
	if resolution.State != ResolutionUnambiguous {
		outcome := instrumentation.OutcomeClarification
		if resolution.State == ResolutionNoMatches {
			outcome = instrumentation.OutcomeNoMatches
		}
		e.metrics.RecordIntent(ctx, intent.Kind.String(), outcome)
		logger.Info("mutation withheld",
			slog.String("resolution", resolution.State.String()),
			slog.String("cardinality", intent.Cardinality.String()),
			slog.Int("candidates", len(intent.Candidates)))
		return Outcome{Resolution: &resolution}, nil
	}

	kind := OperationUpdate
	if intent.Kind == IntentDelete {
		kind = OperationDelete
	}

	operations := make([]Operation, 0, len(resolution.Candidates))
	for i := range resolution.Candidates {
		candidate := resolution.Candidates[i]
		operations = append(operations, Operation{
			Kind:       kind,
			CalendarID: candidate.CalendarID,
			Target:     &candidate,
		})
	}

	batch := e.executor.Execute(ctx, operations)
	e.metrics.RecordIntent(ctx, intent.Kind.String(), instrumentation.OutcomeExecuted)
	e.recordBatch(ctx, batch)
	logger.Info("mutation batch executed",
		logging.Operation(kind.String()),
		slog.Int("operations", len(operations)),
		slog.Bool("all_succeeded", batch.AllSucceeded()))
	return Outcome{Executed: &batch}, nil
}

// CheckConflicts runs aggregation and conflict detection for the proposed
// events without executing anything. The calendar set defaults to the
// proposals' target calendars when calendarIDs is empty.
func (e *Engine) CheckConflicts(ctx context.Context, proposed []ProposedEvent, calendarIDs []string) (ConflictReport, []FetchFailure, error) {
	if len(proposed) == 0 {
		return ConflictReport{}, nil, fmt.Errorf("no proposed events to check")
	}
	if len(calendarIDs) == 0 {
		calendarIDs = proposedCalendars(proposed)
	}

	existing, failures, err := e.aggregator.Fetch(ctx, calendarIDs, comparisonWindow(proposed))
	e.recordFetchFailures(ctx, failures)
	if err != nil {
		return ConflictReport{}, failures, fmt.Errorf("failed to gather comparison events: %w", err)
	}

	report := e.detector.Check(proposed, existing)
	e.recordConflictCheck(ctx, report)
	return report, failures, nil
}

// SuggestSlots returns ranked alternative slots for a proposed event against
// the events on the given calendars, without requiring a conflict. The list
// is never empty; the final entry falls back to the originally requested
// time.
func (e *Engine) SuggestSlots(ctx context.Context, proposed ProposedEvent, calendarIDs []string) ([]SlotOffer, []FetchFailure, error) {
	if len(calendarIDs) == 0 {
		calendarIDs = proposedCalendars([]ProposedEvent{proposed})
	}

	existing, failures, err := e.aggregator.Fetch(ctx, calendarIDs, comparisonWindow([]ProposedEvent{proposed}))
	e.recordFetchFailures(ctx, failures)
	if err != nil {
		return nil, failures, fmt.Errorf("failed to gather comparison events: %w", err)
	}

	offers := e.suggester.Suggest(proposed, existing)
	e.metrics.RecordSlotOffers(ctx, len(offers))
	return offers, failures, nil
}

// recordFetchFailures records one fetch failure metric per calendar that
// could not contribute to the comparison set.
func (e *Engine) recordFetchFailures(ctx context.Context, failures []FetchFailure) {
	for _, failure := range failures {
		e.metrics.RecordFetchFailure(ctx, failure.CalendarID)
	}
}

// recordConflictCheck records a conflict check result, plus the number of
// alternative slots offered when the check found a conflict.
func (e *Engine) recordConflictCheck(ctx context.Context, report ConflictReport) {
	result := instrumentation.ConflictResultClear
	if report.HasConflict {
		result = instrumentation.ConflictResultConflict
	}
	e.metrics.RecordConflictCheck(ctx, result)
	if report.HasConflict {
		e.metrics.RecordSlotOffers(ctx, len(report.Offers))
	}
}

// recordBatch records one action metric per executed operation.
func (e *Engine) recordBatch(ctx context.Context, batch BatchResult) {
	for _, outcome := range batch.Outcomes {
		status := instrumentation.StatusSuccess
		if !outcome.Succeeded {
			status = instrumentation.StatusError
		}
		e.metrics.RecordAction(ctx, outcome.Kind.String(), status)
	}
}

// proposedCalendars returns the distinct target calendars of the proposals,
// in first-seen order.
func proposedCalendars(proposed []ProposedEvent) []string {
	seen := make(map[string]bool)
	var ids []string
	for _, p := range proposed {
		if p.CalendarID == "" || seen[p.CalendarID] {
			continue
		}
		seen[p.CalendarID] = true
		ids = append(ids, p.CalendarID)
	}
	return ids
}

// comparisonWindow computes the fetch window for a create intent: the full
// calendar days the proposals touch plus the following day, so next-day slot
// offers can be validated against real events.
func comparisonWindow(proposed []ProposedEvent) Window {
	var min, max time.Time
	for _, p := range proposed {
		start, end := p.Span()
		if min.IsZero() || start.Before(min) {
			min = start
		}
		if end.After(max) {
			max = end
		}
	}
	return Window{
		Min: startOfDay(min),
		Max: startOfDay(max).AddDate(0, 0, 2),
	}
}
