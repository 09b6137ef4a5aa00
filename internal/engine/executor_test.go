package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOp(summary string, hour int) Operation {
	start := testDay.Add(time.Duration(hour) * time.Hour)
	return Operation{
		Kind:       OperationCreate,
		CalendarID: "primary",
		Create: &ProposedEvent{
			CalendarID: "primary",
			Summary:    summary,
			Start:      start,
			End:        start.Add(time.Hour),
		},
	}
}

func TestExecutorMixedBatch(t *testing.T) {
	store := newFakeStore()
	store.insertErr["second"] = errors.New("provider rejected the event")

	executor := NewExecutor(store, []string{"primary"}, nil)
	batch := executor.Execute(context.Background(), []Operation{
		createOp("first", 9),
		createOp("second", 10),
		createOp("third", 11),
	})

	require.Len(t, batch.Outcomes, 3)
	assert.True(t, batch.AnySucceeded())
	assert.False(t, batch.AllSucceeded())

	failed := batch.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "second", failed[0].Target)
	assert.Contains(t, failed[0].Detail, "provider rejected")

	succeeded := batch.Succeeded()
	require.Len(t, succeeded, 2)
	assert.Equal(t, "first", succeeded[0].Target)
	assert.Equal(t, "third", succeeded[1].Target)

	// The failure did not stop the batch
	assert.Len(t, store.inserted, 2)
}

func TestExecutorUnauthorizedCalendar(t *testing.T) {
	store := newFakeStore()
	executor := NewExecutor(store, []string{"primary"}, nil)

	rogue := createOp("sneaky", 9)
	rogue.CalendarID = "someone-elses-calendar"
	rogue.Create.CalendarID = rogue.CalendarID

	batch := executor.Execute(context.Background(), []Operation{rogue, createOp("fine", 10)})

	require.Len(t, batch.Outcomes, 2)
	assert.False(t, batch.Outcomes[0].Succeeded)
	assert.Equal(t, ErrUnauthorizedCalendar.Error(), batch.Outcomes[0].Detail)
	assert.True(t, batch.Outcomes[1].Succeeded)

	// The unauthorized operation never reached the store
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "fine", store.inserted[0].Summary)
}

func TestExecutorDelete(t *testing.T) {
	store := newFakeStore()
	store.addEvent(timedEvent("evt-1", "primary", 9, time.Hour))

	executor := NewExecutor(store, []string{"primary"}, nil)
	batch := executor.Execute(context.Background(), []Operation{{
		Kind:       OperationDelete,
		CalendarID: "primary",
		Target:     &Candidate{EventID: "evt-1", CalendarID: "primary", Summary: "event evt-1"},
	}})

	require.Len(t, batch.Outcomes, 1)
	assert.True(t, batch.Outcomes[0].Succeeded)
	assert.Equal(t, "event evt-1", batch.Outcomes[0].Target)
	assert.Equal(t, []string{"evt-1"}, store.deleted)
}

func TestExecutorUpdate(t *testing.T) {
	store := newFakeStore()
	store.addEvent(timedEvent("evt-1", "primary", 9, time.Hour))

	summary := "Moved meeting"
	start := testDay.Add(16 * time.Hour)
	end := start.Add(time.Hour)

	executor := NewExecutor(store, []string{"primary"}, nil)
	batch := executor.Execute(context.Background(), []Operation{{
		Kind:       OperationUpdate,
		CalendarID: "primary",
		Target: &Candidate{
			EventID:    "evt-1",
			CalendarID: "primary",
			Changes:    &FieldChanges{Summary: &summary, Start: &start, End: &end},
		},
	}})

	require.Len(t, batch.Outcomes, 1)
	assert.True(t, batch.Outcomes[0].Succeeded)
	require.Len(t, store.events["primary"], 1)
	assert.Equal(t, "Moved meeting", store.events["primary"][0].Summary)
	assert.Equal(t, start, store.events["primary"][0].Start)
}

func TestExecutorUpdateWithoutChanges(t *testing.T) {
	store := newFakeStore()
	executor := NewExecutor(store, []string{"primary"}, nil)

	batch := executor.Execute(context.Background(), []Operation{{
		Kind:       OperationUpdate,
		CalendarID: "primary",
		Target:     &Candidate{EventID: "evt-1", CalendarID: "primary"},
	}})

	require.Len(t, batch.Outcomes, 1)
	assert.False(t, batch.Outcomes[0].Succeeded)
	assert.Contains(t, batch.Outcomes[0].Detail, "no field changes")
	assert.Empty(t, store.patched)
}

func TestExecutorMalformedOperations(t *testing.T) {
	store := newFakeStore()
	executor := NewExecutor(store, []string{"primary"}, nil)

	batch := executor.Execute(context.Background(), []Operation{
		{Kind: OperationCreate, CalendarID: "primary"},   // no payload
		{Kind: OperationDelete, CalendarID: "primary"},   // no target
		{Kind: OperationKind(42), CalendarID: "primary"}, // unknown kind
		{Kind: OperationUpdate, CalendarID: "primary"},   // no target
	})

	assert.False(t, batch.AnySucceeded())
	assert.Len(t, batch.Failed(), 4)
}

func TestExecutorEmptyBatch(t *testing.T) {
	executor := NewExecutor(newFakeStore(), []string{"primary"}, nil)
	batch := executor.Execute(context.Background(), nil)

	assert.Empty(t, batch.Outcomes)
	assert.True(t, batch.AllSucceeded())
}
