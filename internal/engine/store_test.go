package engine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// fakeStore is an in-memory Store for tests. Failures can be injected per
// calendar and per event.
type fakeStore struct {
	mu sync.Mutex

	events map[string][]CalendarEvent // keyed by calendar ID

	listErr   map[string]error // keyed by calendar ID
	insertErr map[string]error // keyed by proposed summary
	patchErr  map[string]error // keyed by event ID
	deleteErr map[string]error // keyed by event ID

	inserted []ProposedEvent
	patched  []string
	deleted  []string

	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:    make(map[string][]CalendarEvent),
		listErr:   make(map[string]error),
		insertErr: make(map[string]error),
		patchErr:  make(map[string]error),
		deleteErr: make(map[string]error),
	}
}

func (s *fakeStore) addEvent(event CalendarEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.CalendarID] = append(s.events[event.CalendarID], event)
}

func (s *fakeStore) ListEvents(_ context.Context, calendarID string, timeMin, timeMax time.Time) ([]CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.listErr[calendarID]; err != nil {
		return nil, err
	}

	var result []CalendarEvent
	for _, event := range s.events[calendarID] {
		start, end := event.Span()
		if start.Before(timeMax) && timeMin.Before(end) {
			result = append(result, event)
		}
	}
	return result, nil
}

func (s *fakeStore) InsertEvent(_ context.Context, calendarID string, proposed ProposedEvent) (CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.insertErr[proposed.Summary]; err != nil {
		return CalendarEvent{}, err
	}

	s.nextID++
	created := CalendarEvent{
		ID:          fmt.Sprintf("evt-%d", s.nextID),
		CalendarID:  calendarID,
		Summary:     proposed.Summary,
		Description: proposed.Description,
		Location:    proposed.Location,
		Start:       proposed.Start,
		End:         proposed.End,
		AllDay:      proposed.AllDay,
	}
	s.events[calendarID] = append(s.events[calendarID], created)
	s.inserted = append(s.inserted, proposed)
	return created, nil
}

func (s *fakeStore) PatchEvent(_ context.Context, calendarID, eventID string, changes FieldChanges) (CalendarEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.patchErr[eventID]; err != nil {
		return CalendarEvent{}, err
	}

	for i, event := range s.events[calendarID] {
		if event.ID != eventID {
			continue
		}
		if changes.Summary != nil {
			event.Summary = *changes.Summary
		}
		if changes.Description != nil {
			event.Description = *changes.Description
		}
		if changes.Location != nil {
			event.Location = *changes.Location
		}
		if changes.Start != nil {
			event.Start = *changes.Start
		}
		if changes.End != nil {
			event.End = *changes.End
		}
		s.events[calendarID][i] = event
		s.patched = append(s.patched, eventID)
		return event, nil
	}
	return CalendarEvent{}, fmt.Errorf("event %s not found on calendar %s", eventID, calendarID)
}

func (s *fakeStore) DeleteEvent(_ context.Context, calendarID, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.deleteErr[eventID]; err != nil {
		return err
	}

	for i, event := range s.events[calendarID] {
		if event.ID == eventID {
			s.events[calendarID] = append(s.events[calendarID][:i], s.events[calendarID][i+1:]...)
			s.deleted = append(s.deleted, eventID)
			return nil
		}
	}
	return fmt.Errorf("event %s not found on calendar %s", eventID, calendarID)
}
