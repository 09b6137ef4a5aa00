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

// RegisterAdvisoryTools registers the read-only conflict check and slot
// suggestion tools with the MCP server
func RegisterAdvisoryTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Conflict check tool
	checkConflictsTool := mcp.NewTool("check_conflicts",
		mcp.WithDescription("Check a proposed event against existing events across one or more calendars without creating anything. Reports conflicting events and alternative slots."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendar_id",
			mcp.Description("Calendar the event would be created on (default: 'primary')"),
		),
		mcp.WithString("summary",
			mcp.Description("Event title, used in the report"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Start time (RFC3339 format, e.g., '2026-09-01T14:00:00Z'; a plain date for all-day events)"),
		),
		mcp.WithString("end",
			mcp.Description("End time (RFC3339 format). Required unless all_day is true."),
		),
		mcp.WithBoolean("all_day",
			mcp.Description("Check an all-day event spanning the full calendar day(s)"),
		),
		mcp.WithString("calendars",
			mcp.Description("Comma-separated list of calendar IDs to check against (default: the target calendar)"),
		),
	)

	s.AddTool(checkConflictsTool, common.InstrumentedToolHandlerWithOperation("check_conflicts", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckConflicts(ctx, request, sc)
		}))

	// Slot suggestion tool
	suggestSlotsTool := mcp.NewTool("suggest_slots",
		mcp.WithDescription("Suggest alternative time slots for an event, avoiding existing events across one or more calendars. Returns up to four ranked options."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("calendar_id",
			mcp.Description("Calendar the event would be created on (default: 'primary')"),
		),
		mcp.WithString("start",
			mcp.Required(),
			mcp.Description("Requested start time (RFC3339 format)"),
		),
		mcp.WithString("end",
			mcp.Required(),
			mcp.Description("Requested end time (RFC3339 format)"),
		),
		mcp.WithString("calendars",
			mcp.Description("Comma-separated list of calendar IDs to avoid events on (default: the target calendar)"),
		),
	)

	s.AddTool(suggestSlotsTool, common.InstrumentedToolHandlerWithOperation("suggest_slots", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSuggestSlots(ctx, request, sc)
		}))

	// Calendar listing tool
	listCalendarsTool := mcp.NewTool("list_calendars",
		mcp.WithDescription("List the calendars accessible to the account, with their IDs, time zones, and access roles. Use the IDs as calendar_id or in the calendars argument of other tools."),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
	)

	s.AddTool(listCalendarsTool, common.InstrumentedToolHandlerWithOperation("list_calendars", "list", sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleListCalendars(ctx, request, sc)
		}))

	return nil
}

func handleCheckConflicts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

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
	if endStr, ok := args["end"].(string); ok && endStr != "" {
		end, err = parseTimeArg(endStr)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Invalid end format: %v", err)), nil
		}
	} else if !allDay {
		return mcp.NewToolResultError("end is required for timed events"), nil
	}

	proposed := engine.ProposedEvent{
		CalendarID: calendarID,
		Start:      start,
		End:        end,
		AllDay:     allDay,
	}
	if summary, ok := args["summary"].(string); ok {
		proposed.Summary = summary
	}

	var comparisonSet []string
	if calendarsStr, ok := args["calendars"].(string); ok && calendarsStr != "" {
		comparisonSet = splitList(calendarsStr)
	}

	eng, err := getEngine(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, failures, err := eng.CheckConflicts(ctx, []engine.ProposedEvent{proposed}, comparisonSet)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to check conflicts: %v", err)), nil
	}

	var result string
	if report.HasConflict {
		result = formatConflictReport(report)
	} else {
		result = "No conflicts found. The proposed time is free on all checked calendars.\n"
	}
	result += formatFetchFailures(failures)

	return mcp.NewToolResultText(result), nil
}

func handleSuggestSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	calendarID := defaultCalendarID
	if id, ok := args["calendar_id"].(string); ok && id != "" {
		calendarID = id
	}

	startStr, ok := args["start"].(string)
	if !ok || startStr == "" {
		return mcp.NewToolResultError("start is required"), nil
	}
	start, err := parseTimeArg(startStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid start format: %v", err)), nil
	}

	endStr, ok := args["end"].(string)
	if !ok || endStr == "" {
		return mcp.NewToolResultError("end is required"), nil
	}
	end, err := parseTimeArg(endStr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Invalid end format: %v", err)), nil
	}
	if !end.After(start) {
		return mcp.NewToolResultError("end must be after start"), nil
	}

	var comparisonSet []string
	if calendarsStr, ok := args["calendars"].(string); ok && calendarsStr != "" {
		comparisonSet = splitList(calendarsStr)
	}

	eng, err := getEngine(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	offers, failures, err := eng.SuggestSlots(ctx, engine.ProposedEvent{
		CalendarID: calendarID,
		Start:      start,
		End:        end,
	}, comparisonSet)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to suggest slots: %v", err)), nil
	}

	result := formatOffers(offers)
	result += formatFetchFailures(failures)

	return mcp.NewToolResultText(result), nil
}

func handleListCalendars(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(args)

	client, err := getClient(account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	calendars, err := client.ListCalendars(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list calendars: %v", err)), nil
	}

	return mcp.NewToolResultText(formatCalendarList(calendars)), nil
}
