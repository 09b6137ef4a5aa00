package schedule_tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/conflictfewer/internal/calendar"
	"github.com/teemow/conflictfewer/internal/engine"
	"github.com/teemow/conflictfewer/internal/server"
)

// defaultCalendarID is used when a tool call does not name a calendar.
const defaultCalendarID = "primary"

// getEngine retrieves or creates the scheduling engine for the specified account
func getEngine(ctx context.Context, account string, sc *server.ServerContext) (*engine.Engine, error) {
	if sc.CalendarClientForAccount(account) == nil {
		// Check if token exists before trying to create the engine
		if !calendar.HasTokenForAccount(account) {
			return nil, authRequiredError(account)
		}
	}

	return sc.EngineForAccount(account)
}

// getClient retrieves or creates the calendar client for the specified account
func getClient(account string, sc *server.ServerContext) (*calendar.Client, error) {
	if client := sc.CalendarClientForAccount(account); client != nil {
		return client, nil
	}
	if !calendar.HasTokenForAccount(account) {
		return nil, authRequiredError(account)
	}
	return nil, fmt.Errorf("failed to create calendar client for account %s", account)
}

func authRequiredError(account string) error {
	authURL := calendar.GetAuthURLForAccount(account)
	return fmt.Errorf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google Calendar
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the google_save_auth_code tool with account="%s" to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
}

// RegisterScheduleTools registers all scheduling tools with the MCP server
func RegisterScheduleTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Register intent tools (create, update, delete)
	if err := RegisterIntentTools(s, sc); err != nil {
		return fmt.Errorf("failed to register intent tools: %w", err)
	}

	// Register advisory tools (conflict check, slot suggestions)
	if err := RegisterAdvisoryTools(s, sc); err != nil {
		return fmt.Errorf("failed to register advisory tools: %w", err)
	}

	return nil
}

// parseTimeArg parses a time argument in RFC3339 format, falling back to a
// plain date for all-day events.
func parseTimeArg(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected RFC3339 timestamp or YYYY-MM-DD date, got %q", value)
	}
	return t, nil
}

// splitList splits a comma-separated argument into trimmed, non-empty items.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// parseCardinality maps the user-facing cardinality hint to the engine's.
// An empty hint means the user gave no signal.
func parseCardinality(value string) (engine.Cardinality, error) {
	switch value {
	case "":
		return engine.CardinalityUnspecified, nil
	case "singular":
		return engine.CardinalitySingular, nil
	case "plural":
		return engine.CardinalityPlural, nil
	default:
		return engine.CardinalityUnspecified, fmt.Errorf("cardinality must be 'singular' or 'plural', got %q", value)
	}
}
