package schedule_tools

import (
	"testing"
	"time"

	"github.com/teemow/conflictfewer/internal/engine"
)

func TestParseTimeArg(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Time
		wantErr  bool
	}{
		{
			name:     "RFC3339 timestamp",
			value:    "2026-09-01T14:00:00Z",
			expected: time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
		},
		{
			name:     "plain date",
			value:    "2026-09-01",
			expected: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:    "garbage",
			value:   "tomorrow at noon",
			wantErr: true,
		},
		{
			name:    "empty",
			value:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := parseTimeArg(tt.value)
			if tt.wantErr {
				if err == nil {
					t.Errorf("parseTimeArg(%q) expected error, got %v", tt.value, result)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseTimeArg(%q) returned error: %v", tt.value, err)
			}
			if !result.Equal(tt.expected) {
				t.Errorf("parseTimeArg(%q) = %v, expected %v", tt.value, result, tt.expected)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []string
	}{
		{
			name:     "single item",
			value:    "primary",
			expected: []string{"primary"},
		},
		{
			name:     "multiple items with spaces",
			value:    "work, personal ,team",
			expected: []string{"work", "personal", "team"},
		},
		{
			name:     "empty items dropped",
			value:    "work,,personal,",
			expected: []string{"work", "personal"},
		},
		{
			name:     "only separators",
			value:    ", ,",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := splitList(tt.value)
			if len(result) != len(tt.expected) {
				t.Fatalf("splitList(%q) = %v, expected %v", tt.value, result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("splitList(%q)[%d] = %q, expected %q", tt.value, i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestParseCardinality(t *testing.T) {
	tests := []struct {
		value    string
		expected engine.Cardinality
		wantErr  bool
	}{
		{value: "", expected: engine.CardinalityUnspecified},
		{value: "singular", expected: engine.CardinalitySingular},
		{value: "plural", expected: engine.CardinalityPlural},
		{value: "all", wantErr: true},
	}

	for _, tt := range tests {
		result, err := parseCardinality(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseCardinality(%q) expected error", tt.value)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseCardinality(%q) returned error: %v", tt.value, err)
			continue
		}
		if result != tt.expected {
			t.Errorf("parseCardinality(%q) = %v, expected %v", tt.value, result, tt.expected)
		}
	}
}

func TestCandidatesFromArgs(t *testing.T) {
	candidates, cardinality, errResult := candidatesFromArgs(map[string]interface{}{
		"event_ids":   "abc, def",
		"calendar_id": "work",
		"cardinality": "plural",
	})
	if errResult != nil {
		t.Fatalf("unexpected error result: %v", errResult)
	}
	if cardinality != engine.CardinalityPlural {
		t.Errorf("expected plural cardinality, got %v", cardinality)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].EventID != "abc" || candidates[0].CalendarID != "work" {
		t.Errorf("unexpected first candidate: %+v", candidates[0])
	}
}

func TestCandidatesFromArgs_ArrayForm(t *testing.T) {
	candidates, _, errResult := candidatesFromArgs(map[string]interface{}{
		"event_ids": []interface{}{"abc", "def"},
	})
	if errResult != nil {
		t.Fatalf("unexpected error result: %v", errResult)
	}
	if len(candidates) != 2 || candidates[1].EventID != "def" {
		t.Errorf("unexpected candidates: %+v", candidates)
	}
}

func TestCandidatesFromArgs_Defaults(t *testing.T) {
	candidates, cardinality, errResult := candidatesFromArgs(map[string]interface{}{
		"event_ids": "abc",
	})
	if errResult != nil {
		t.Fatalf("unexpected error result: %v", errResult)
	}
	if cardinality != engine.CardinalityUnspecified {
		t.Errorf("expected unspecified cardinality, got %v", cardinality)
	}
	if candidates[0].CalendarID != defaultCalendarID {
		t.Errorf("expected default calendar, got %q", candidates[0].CalendarID)
	}
}

func TestCandidatesFromArgs_Validation(t *testing.T) {
	if _, _, errResult := candidatesFromArgs(map[string]interface{}{}); errResult == nil {
		t.Error("expected error result for missing event_ids")
	}
	if _, _, errResult := candidatesFromArgs(map[string]interface{}{"event_ids": " , "}); errResult == nil {
		t.Error("expected error result for empty event_ids")
	}
	if _, _, errResult := candidatesFromArgs(map[string]interface{}{
		"event_ids":   "abc",
		"cardinality": "several",
	}); errResult == nil {
		t.Error("expected error result for invalid cardinality")
	}
}
