package schedule_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/conflictfewer/internal/engine"
	"github.com/teemow/conflictfewer/internal/server"
	"github.com/teemow/conflictfewer/internal/tools/common"
)

// RegisterIntentTools registers the event creation, update and deletion tools
// with the MCP server
func RegisterIntentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Create event tool
	createTool := mcp.NewTool("schedule_create",
		mcp.WithDescription("Create a calendar event. The event is checked against all relevant calendars first; if it overlaps an existing event, nothing is created and alternative slots are offered instead."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendar_id",
			mcp.Description("Calendar to create the event on (default: 'primary')"),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Event title"),
		),
		mcp.WithString("description",
			mcp.Description("Event description"),
		),
		mcp.WithString("location",
			mcp.Description("Event location"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 format, e.g., '2026-09-01T14:00:00Z'; a plain date for all-day events)"),
		),
		mcp.WithString("end",
			mcp.Description("End time (RFC3339 format). Required unless all_day is true."),
		),
		mcp.WithBoolean("all_day",
			mcp.Description("Create an all-day event. The event spans the full calendar day(s) regardless of clock times."),
		),
		mcp.WithString("calendars",
			mcp.Description("Comma-separated list of calendar IDs to check for conflicts (default: the target calendar)"),
		),
	)

	s.AddTool(createTool, common.InstrumentedToolHandlerWithOperation("schedule_create", "insert", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleScheduleCreate(ctx, request, sc)
		}))

	// Update event tool
	updateTool := mcp.NewTool("schedule_update",
		mcp.WithDescription("Update one or more calendar events. When a singular request matches several events, nothing is changed and the candidates are listed for clarification."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendar_id",
			mcp.Description("Calendar the events live on (default: 'primary')"),
		),
		mcp.WithString("event_ids",
			mcp.Required(),
			mcp.Description("IDs of the candidate events the request refers to (comma-separated string or array)"),
		),
		mcp.WithString("cardinality",
			mcp.Description("How many events the user meant: 'singular' or 'plural'. Leave empty when the request gave no signal."),
		),
		mcp.WithString("new_summary",
			mcp.Description("New event title"),
		),
		mcp.WithString("new_description",
			mcp.Description("New event description"),
		),
		mcp.WithString("new_location",
			mcp.Description("New event location"),
		),
		mcp.WithString("new_start",
			mcp.Description("New start time (RFC3339 format)"),
		),
		mcp.WithString("new_end",
			mcp.Description("New end time (RFC3339 format)"),
		),
	)

	s.AddTool(updateTool, common.InstrumentedToolHandlerWithOperation("schedule_update", "patch", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleScheduleUpdate(ctx, request, sc)
		}))

	// Delete event tool
	deleteTool := mcp.NewTool("schedule_delete",
		mcp.WithDescription("Delete one or more calendar events. When a singular request matches several events, nothing is deleted and the candidates are listed for clarification."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendar_id",
			mcp.Description("Calendar the events live on (default: 'primary')"),
		),
		mcp.WithString("event_ids",
			mcp.Required(),
			mcp.Description("IDs of the candidate events the request refers to (comma-separated string or array)"),
		),
		mcp.WithString("cardinality",
			mcp.Description("How many events the user meant: 'singular' or 'plural'. Leave empty when the request gave no signal."),
		),
	)

	s.AddTool(deleteTool, common.InstrumentedToolHandlerWithOperation("schedule_delete", "delete", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleScheduleDelete(ctx, request, sc)
		}))

	return nil
}

func handleScheduleCreate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	summary, ok := args["summary"].(string)
	if !ok || summary == "" {
		return mcp.NewToolResultError("summary is required"), nil
	}

	calendarID := defaultCalendarID
	if id, ok := args["calendar_id"].(string); ok && id != "" {
		calendarID = id
	}

	allDay, _ := args["all_day"].(bool)

	startStr, ok := args["start"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("start is required"), nil
	}
	start, err := parseTimeArg(startStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid start format: %v", err)), nil
	}

	end := start
	endStr, _ := args["end"].(string)
	if endStr != "" {
		end, err = parseTimeArg(endStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid end format: %v", err)), nil
		}
	} else if !allDay {
		return mcp.NewToolResultError("end is required for timed events"), nil
	}
	if !allDay && !end.After(start) {
		return mcp.NewToolResultError("end must be after start"), nil
	}

	proposed := engine.ProposedEvent{
		CalendarID: calendarID,
		Summary:    summary,
		Start:      start,
		End:        end,
		AllDay:     allDay,
	}
	if description, ok := args["description"].(string); ok {
		proposed.Description = description
	}
	if location, ok := args["location"].(string); ok {
		proposed.Location = location
	}

	var comparisonSet []string
	if calendarsStr, ok := args["calendars"].(string); ok && calendarsStr != "" {
		comparisonSet = splitList(calendarsStr)
	}

	eng, err := getEngine(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome, err := eng.Handle(ctx, engine.Intent{
		Kind:        engine.IntentCreate,
		Proposed:    []engine.ProposedEvent{proposed},
		CalendarIDs: comparisonSet,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to schedule event: %v", err)), nil
	}

	return mcp.NewToolResultText(formatOutcome(outcome)), nil
}

func handleScheduleUpdate(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	candidates, cardinality, errResult := candidatesFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	changes := engine.FieldChanges{}
	if summary, ok := args["new_summary"].(string); ok && summary != "" {
		changes.Summary = &summary
	}
	if description, ok := args["new_description"].(string); ok && description != "" {
		changes.Description = &description
	}
	if location, ok := args["new_location"].(string); ok && location != "" {
		changes.Location = &location
	}
	if startStr, ok := args["new_start"].(string); ok && startStr != "" {
		start, err := parseTimeArg(startStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid new_start format: %v", err)), nil
		}
		changes.Start = &start
	}
	if endStr, ok := args["new_end"].(string); ok && endStr != "" {
		end, err := parseTimeArg(endStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid new_end format: %v", err)), nil
		}
		changes.End = &end
	}
	if changes.IsEmpty() {
		return mcp.NewToolResultError("at least one new_* field is required"), nil
	}

	for i := range candidates {
		c := changes
		candidates[i].Changes = &c
	}

	eng, err := getEngine(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome, err := eng.Handle(ctx, engine.Intent{
		Kind:        engine.IntentUpdate,
		Candidates:  candidates,
		Cardinality: cardinality,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to update event(s): %v", err)), nil
	}

	return mcp.NewToolResultText(formatOutcome(outcome)), nil
}

func handleScheduleDelete(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	candidates, cardinality, errResult := candidatesFromArgs(args)
	if errResult != nil {
		return errResult, nil
	}

	eng, err := getEngine(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	outcome, err := eng.Handle(ctx, engine.Intent{
		Kind:        engine.IntentDelete,
		Candidates:  candidates,
		Cardinality: cardinality,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete event(s): %v", err)), nil
	}

	return mcp.NewToolResultText(formatOutcome(outcome)), nil
}

// candidatesFromArgs parses the shared event_ids, calendar_id and cardinality
// arguments of the update and delete tools. The third return value is a
// non-nil error result when validation fails.
func candidatesFromArgs(args map[string]interface{}) ([]engine.Candidate, engine.Cardinality, *mcp.CallToolResult) {
	raw, err := common.ParseStringOrArray(args["event_ids"], "event_ids")
	if err != nil {
		return nil, 0, mcp.NewToolResultError(err.Error())
	}
	var eventIDs []string
	for _, item := range raw {
		eventIDs = append(eventIDs, splitList(item)...)
	}
	if len(eventIDs) == 0 {
		return nil, 0, mcp.NewToolResultError("event_ids is required")
	}

	calendarID := defaultCalendarID
	if id, ok := args["calendar_id"].(string); ok && id != "" {
		calendarID = id
	}

	cardinalityStr, _ := args["cardinality"].(string)
	cardinality, err := parseCardinality(cardinalityStr)
	if err != nil {
		return nil, 0, mcp.NewToolResultError(err.Error())
	}

	candidates := make([]engine.Candidate, 0, len(eventIDs))
	for _, id := range eventIDs {
		candidates = append(candidates, engine.Candidate{
			EventID:    id,
			CalendarID: calendarID,
		})
	}
	return candidates, cardinality, nil
}
