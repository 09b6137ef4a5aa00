package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teemow/conflictfewer/internal/calendar"
	"github.com/teemow/conflictfewer/internal/engine"
)

// applyPlan is the YAML form of a scheduling request. Create plans carry
// events; update and delete plans carry candidates.
type applyPlan struct {
	Intent      string          `yaml:"intent"`
	Cardinality string          `yaml:"cardinality"`
	Calendars   []string        `yaml:"calendars"`
	Events      []planEvent     `yaml:"events"`
	Candidates  []planCandidate `yaml:"candidates"`
}

type planEvent struct {
	Calendar    string    `yaml:"calendar"`
	Summary     string    `yaml:"summary"`
	Description string    `yaml:"description"`
	Location    string    `yaml:"location"`
	Start       time.Time `yaml:"start"`
	End         time.Time `yaml:"end"`
	AllDay      bool      `yaml:"all_day"`
}

type planCandidate struct {
	EventID  string       `yaml:"event_id"`
	Calendar string       `yaml:"calendar"`
	Summary  string       `yaml:"summary"`
	Start    time.Time    `yaml:"start"`
	Changes  *planChanges `yaml:"changes"`
}

type planChanges struct {
	Summary     *string    `yaml:"summary"`
	Description *string    `yaml:"description"`
	Location    *string    `yaml:"location"`
	Start       *time.Time `yaml:"start"`
	End         *time.Time `yaml:"end"`
}

func newApplyCmd() *cobra.Command {
	var (
		account string
		cfgFile string
	)

	cmd := &cobra.Command{
		Use:   "apply <plan-file>",
		Short: "Apply a scheduling plan from a YAML file",
		Long: `Apply a scheduling plan against your calendars. The plan is resolved the
same way the MCP tools resolve requests: creations are checked for conflicts
first, and ambiguous update or delete plans come back as a clarification
instead of a guess.

Example plan:

  intent: create
  calendars: [primary, work]
  events:
    - calendar: primary
      summary: Planning session
      start: 2026-09-01T14:00:00Z
      end: 2026-09-01T15:00:00Z`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cfgFile)
			if err != nil {
				return err
			}
			return runApply(args[0], account, cfg)
		},
	}

	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().StringVar(&cfgFile, "config", "", "Config file (default: ~/.conflictfewer.yaml)")
	return cmd
}

func runApply(planFile, account string, cfg Config) error {
	data, err := os.ReadFile(planFile)
	if err != nil {
		return fmt.Errorf("failed to read plan file: %w", err)
	}

	var plan applyPlan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return fmt.Errorf("failed to parse plan file: %w", err)
	}

	intent, err := planToIntent(plan)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := calendar.NewClientForAccount(ctx, account)
	if err != nil {
		return fmt.Errorf("failed to create calendar client for account %s: %w", account, err)
	}

	eng, err := engine.New(client, engine.Options{
		AuthorizedCalendars: cfg.AuthorizedCalendars,
		WorkdayStartHour:    cfg.WorkdayStartHour,
		WorkdayEndHour:      cfg.WorkdayEndHour,
	})
	if err != nil {
		return err
	}

	outcome, err := eng.Handle(ctx, intent)
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}

	printOutcome(outcome)

	if outcome.Executed != nil && !outcome.Executed.AllSucceeded() {
		return fmt.Errorf("%d action(s) failed", len(outcome.Executed.Failed()))
	}
	return nil
}

// planToIntent translates the YAML plan into an engine intent.
func planToIntent(plan applyPlan) (engine.Intent, error) {
	var kind engine.IntentKind
	switch plan.Intent {
	case "create":
		kind = engine.IntentCreate
	case "update":
		kind = engine.IntentUpdate
	case "delete":
		kind = engine.IntentDelete
	default:
		return engine.Intent{}, fmt.Errorf("intent must be 'create', 'update' or 'delete', got %q", plan.Intent)
	}

	var cardinality engine.Cardinality
	switch plan.Cardinality {
	case "":
		cardinality = engine.CardinalityUnspecified
	case "singular":
		cardinality = engine.CardinalitySingular
	case "plural":
		cardinality = engine.CardinalityPlural
	default:
		return engine.Intent{}, fmt.Errorf("cardinality must be 'singular' or 'plural', got %q", plan.Cardinality)
	}

	intent := engine.Intent{
		Kind:        kind,
		Cardinality: cardinality,
		CalendarIDs: plan.Calendars,
	}

	for _, e := range plan.Events {
		calendarID := e.Calendar
		if calendarID == "" {
			calendarID = "primary"
		}
		intent.Proposed = append(intent.Proposed, engine.ProposedEvent{
			CalendarID:  calendarID,
			Summary:     e.Summary,
			Description: e.Description,
			Location:    e.Location,
			Start:       e.Start,
			End:         e.End,
			AllDay:      e.AllDay,
		})
	}

	for _, c := range plan.Candidates {
		calendarID := c.Calendar
		if calendarID == "" {
			calendarID = "primary"
		}
		candidate := engine.Candidate{
			EventID:    c.EventID,
			CalendarID: calendarID,
			Summary:    c.Summary,
			Start:      c.Start,
		}
		if c.Changes != nil {
			candidate.Changes = &engine.FieldChanges{
				Summary:     c.Changes.Summary,
				Description: c.Changes.Description,
				Location:    c.Changes.Location,
				Start:       c.Changes.Start,
				End:         c.Changes.End,
			}
		}
		intent.Candidates = append(intent.Candidates, candidate)
	}

	return intent, nil
}

func printOutcome(outcome engine.Outcome) {
	switch {
	case outcome.Conflict != nil:
		fmt.Printf("Conflict with %d existing event(s); nothing was created.\n", len(outcome.Conflict.Conflicting))
		for _, event := range outcome.Conflict.Conflicting {
			start, end := event.Span()
			fmt.Printf("  - %q on %s: %s to %s\n", event.Summary, event.CalendarID,
				start.Format(time.RFC3339), end.Format("15:04"))
		}
		fmt.Println("Alternative slots:")
		for _, offer := range outcome.Conflict.Offers {
			note := ""
			if offer.Fallback {
				note = " (originally requested time)"
			}
			fmt.Printf("  - %s to %s%s\n", offer.Start.Format(time.RFC3339), offer.End.Format("15:04"), note)
		}
	case outcome.Resolution != nil:
		switch outcome.Resolution.State {
		case engine.ResolutionNoMatches:
			fmt.Println("No matching events found; nothing was changed.")
		case engine.ResolutionNeedsClarification:
			fmt.Printf("Plan matches %d events but is singular; nothing was changed:\n", len(outcome.Resolution.Candidates))
			for _, c := range outcome.Resolution.Candidates {
				fmt.Printf("  - %s (%s) on %s\n", c.Summary, c.EventID, c.CalendarID)
			}
		}
	case outcome.Executed != nil:
		for _, o := range outcome.Executed.Outcomes {
			status := "ok"
			if !o.Succeeded {
				status = "FAILED: " + o.Detail
			}
			fmt.Printf("%s %q on %s: %s\n", o.Kind, o.Target, o.CalendarID, status)
		}
	}

	for _, failure := range outcome.FetchFailures {
		fmt.Printf("warning: calendar %s could not be checked: %v\n", failure.CalendarID, failure.Err)
	}
}
