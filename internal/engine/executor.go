package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/teemow/conflictfewer/internal/logging"
)

// ErrUnauthorizedCalendar marks an operation that targets a calendar outside
// the caller-authorized set. The operation is rejected before reaching the
// event store.
var ErrUnauthorizedCalendar = errors.New("calendar not authorized")

// Executor applies concrete operations against the event store, isolating
// failures per item.
type Executor struct {
	store      Store
	authorized map[string]struct{}
	logger     *slog.Logger
}

// NewExecutor creates an Executor that only operates on the given calendars.
// If logger is nil, slog.Default() is used.
func NewExecutor(store Store, authorizedCalendars []string, logger *slog.Logger) *Executor {
	authorized := make(map[string]struct{}, len(authorizedCalendars))
	for _, id := range authorizedCalendars {
		authorized[id] = struct{}{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		store:      store,
		authorized: authorized,
		logger:     logger,
	}
}

// Execute applies the operations one at a time, in order. A failed operation
// is recorded and the batch continues; nothing is retried. Operations whose
// calendar is not authorized fail without a store call, with
// ErrUnauthorizedCalendar as the recorded detail.
func (e *Executor) Execute(ctx context.Context, operations []Operation) BatchResult {
	outcomes := make([]ActionOutcome, 0, len(operations))

	for _, op := range operations {
		outcome := ActionOutcome{
			Kind:       op.Kind,
			CalendarID: op.CalendarID,
			Target:     op.TargetLabel(),
		}

		if _, ok := e.authorized[op.CalendarID]; !ok {
			outcome.Detail = ErrUnauthorizedCalendar.Error()
			e.logger.Warn("rejected operation on unauthorized calendar",
				logging.Operation(op.Kind.String()),
				slog.String("calendar_id", op.CalendarID),
				slog.String("target", outcome.Target))
			outcomes = append(outcomes, outcome)
			continue
		}

		if err := e.apply(ctx, op); err != nil {
			outcome.Detail = err.Error()
			e.logger.Warn("operation failed",
				logging.Operation(op.Kind.String()),
				slog.String("calendar_id", op.CalendarID),
				slog.String("target", outcome.Target),
				logging.Err(err))
		} else {
			outcome.Succeeded = true
			e.logger.Info("operation applied",
				logging.Operation(op.Kind.String()),
				slog.String("calendar_id", op.CalendarID),
				slog.String("target", outcome.Target))
		}
		outcomes = append(outcomes, outcome)
	}

	return BatchResult{Outcomes: outcomes}
}

// apply dispatches a single operation to the store.
func (e *Executor) apply(ctx context.Context, op Operation) error {
	switch op.Kind {
	case OperationCreate:
		if op.Create == nil {
			return fmt.Errorf("create operation carries no event payload")
		}
		_, err := e.store.InsertEvent(ctx, op.CalendarID, *op.Create)
		return err
	case OperationUpdate:
		if op.Target == nil {
			return fmt.Errorf("update operation carries no target")
		}
		if op.Target.Changes == nil || op.Target.Changes.IsEmpty() {
			return fmt.Errorf("update operation carries no field changes")
		}
		_, err := e.store.PatchEvent(ctx, op.CalendarID, op.Target.EventID, *op.Target.Changes)
		return err
	case OperationDelete:
		if op.Target == nil {
			return fmt.Errorf("delete operation carries no target")
		}
		return e.store.DeleteEvent(ctx, op.CalendarID, op.Target.EventID)
	default:
		return fmt.Errorf("unknown operation kind %d", op.Kind)
	}
}
