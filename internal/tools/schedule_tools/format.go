package schedule_tools

import (
	"fmt"
	"strings"

	"github.com/teemow/conflictfewer/internal/calendar"
	"github.com/teemow/conflictfewer/internal/engine"
)

const displayTimeFormat = "Mon, Jan 2 at 15:04"

// formatOutcome renders an engine outcome as human-readable text. Exactly one
// of the outcome's branches is set; fetch failures are appended as a notice.
func formatOutcome(outcome engine.Outcome) string {
	var result string
	switch {
	case outcome.Conflict != nil:
		result = formatConflictReport(*outcome.Conflict)
	case outcome.Resolution != nil:
		result = formatResolution(*outcome.Resolution)
	case outcome.Executed != nil:
		result = formatBatchResult(*outcome.Executed)
	default:
		result = "Nothing to do.\n"
	}
	return result + formatFetchFailures(outcome.FetchFailures)
}

func formatBatchResult(batch engine.BatchResult) string {
	var sb strings.Builder

	succeeded := batch.Succeeded()
	failed := batch.Failed()

	if len(failed) == 0 {
		fmt.Fprintf(&sb, "✅ All %d action(s) completed successfully:\n", len(succeeded))
	} else {
		fmt.Fprintf(&sb, "⚠️ %d of %d action(s) completed, %d failed:\n",
			len(succeeded), len(batch.Outcomes), len(failed))
	}

	for i, outcome := range batch.Outcomes {
		status := "ok"
		if !outcome.Succeeded {
			status = "FAILED: " + outcome.Detail
		}
		fmt.Fprintf(&sb, "%d. %s %q on calendar %s: %s\n",
			i+1, outcome.Kind, outcome.Target, outcome.CalendarID, status)
	}

	return sb.String()
}

func formatConflictReport(report engine.ConflictReport) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "⚠️ Conflict: the proposed time overlaps %d existing event(s). Nothing was created.\n\n", len(report.Conflicting))
	for i, event := range report.Conflicting {
		start, end := event.Span()
		summary := event.Summary
		if summary == "" {
			summary = event.ID
		}
		fmt.Fprintf(&sb, "%d. %q on calendar %s: %s to %s\n",
			i+1, summary, event.CalendarID,
			start.Format(displayTimeFormat), end.Format("15:04"))
	}

	sb.WriteString("\n")
	sb.WriteString(formatOffers(report.Offers))
	return sb.String()
}

func formatOffers(offers []engine.SlotOffer) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Suggested alternative slots (%d):\n", len(offers))
	for i, offer := range offers {
		note := ""
		if offer.Fallback {
			note = " (originally requested time; schedule anyway)"
		}
		fmt.Fprintf(&sb, "%d. %s to %s%s\n",
			i+1,
			offer.Start.Format(displayTimeFormat),
			offer.End.Format("15:04"),
			note)
	}

	return sb.String()
}

func formatResolution(resolution engine.Resolution) string {
	switch resolution.State {
	case engine.ResolutionNoMatches:
		return "No matching events found. Nothing was changed.\n"
	case engine.ResolutionNeedsClarification:
		var sb strings.Builder
		fmt.Fprintf(&sb, "❓ The request matches %d events but referred to one. Nothing was changed. Which one did you mean?\n\n", len(resolution.Candidates))
		for i, candidate := range resolution.Candidates {
			label := candidate.Summary
			if label == "" {
				label = candidate.EventID
			}
			if candidate.Start.IsZero() {
				fmt.Fprintf(&sb, "%d. %q on calendar %s\n", i+1, label, candidate.CalendarID)
			} else {
				fmt.Fprintf(&sb, "%d. %q on calendar %s, starting %s\n",
					i+1, label, candidate.CalendarID, candidate.Start.Format(displayTimeFormat))
			}
		}
		return sb.String()
	default:
		return ""
	}
}

func formatCalendarList(calendars []calendar.CalendarInfo) string {
	if len(calendars) == 0 {
		return "No calendars accessible to this account.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d calendar(s):\n", len(calendars))
	for i, info := range calendars {
		marker := ""
		if info.Primary {
			marker = ", primary"
		}
		fmt.Fprintf(&sb, "%d. %s (ID: %s, %s, %s%s)\n",
			i+1, info.Summary, info.ID, info.TimeZone, info.AccessRole, marker)
	}
	return sb.String()
}

func formatFetchFailures(failures []engine.FetchFailure) string {
	if len(failures) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("\nNote: some calendars could not be checked and may hide conflicts:\n")
	for _, failure := range failures {
		fmt.Fprintf(&sb, "- %s: %v\n", failure.CalendarID, failure.Err)
	}
	return sb.String()
}
