package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/conflictfewer/internal/calendar"
	"github.com/teemow/conflictfewer/internal/engine"
	"github.com/teemow/conflictfewer/internal/instrumentation"
)

// Options configures the server context and the engines it builds.
type Options struct {
	// AuthorizedCalendars lists the calendars the engine may act on.
	AuthorizedCalendars []string

	// WorkdayStartHour and WorkdayEndHour bound the slot suggestion window.
	// Zero values fall back to the engine defaults.
	WorkdayStartHour int
	WorkdayEndHour   int

	// Logger is used for engine and server logging. Defaults to slog.Default().
	Logger *slog.Logger
}

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx             context.Context
	cancel          context.CancelFunc
	opts            Options
	calendarClients map[string]*calendar.Client // Maps account name to calendar client
	engines         map[string]*engine.Engine   // Maps account name to engine
	metrics         *instrumentation.Metrics
	auditLogger     *instrumentation.AuditLogger
	mu              sync.RWMutex
	shutdown        bool
}

// NewServerContext creates a new server context
func NewServerContext(ctx context.Context, opts Options) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	// Initialize client maps
	calendarClients := make(map[string]*calendar.Client)

	// Try to create default calendar client, but don't fail if token is missing
	// Clients will be lazily initialized when first needed
	if calendar.HasToken() {
		client, err := calendar.NewClient(shutdownCtx)
		if err != nil {
			// Log but don't fail - will be re-attempted on first use
			opts.Logger.Warn("failed to create calendar client for default account", "error", err)
		} else {
			calendarClients["default"] = client
		}
	}

	return &ServerContext{
		ctx:             shutdownCtx,
		cancel:          cancel,
		opts:            opts,
		calendarClients: calendarClients,
		engines:         make(map[string]*engine.Engine),
		shutdown:        false,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// CalendarClientForAccount returns the calendar client for a specific account
// Creates and caches the client if it doesn't exist yet
// Returns nil if the account has no token
func (sc *ServerContext) CalendarClientForAccount(account string) *calendar.Client {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	return sc.calendarClientLocked(account)
}

func (sc *ServerContext) calendarClientLocked(account string) *calendar.Client {
	// Check if client already exists
	if client, ok := sc.calendarClients[account]; ok {
		return client
	}

	// Try to create client if token exists
	if !calendar.HasTokenForAccount(account) {
		return nil
	}

	client, err := calendar.NewClientForAccount(sc.ctx, account)
	if err != nil {
		sc.opts.Logger.Warn("failed to create calendar client", "account", account, "error", err)
		return nil
	}

	sc.calendarClients[account] = client
	return client
}

// CalendarClient returns the calendar client for the default account
func (sc *ServerContext) CalendarClient() *calendar.Client {
	return sc.CalendarClientForAccount("default")
}

// SetCalendarClientForAccount sets the calendar client for a specific account.
// Any engine previously built for the account is discarded so the next
// EngineForAccount call picks up the new client.
func (sc *ServerContext) SetCalendarClientForAccount(account string, client *calendar.Client) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.calendarClients[account] = client
	delete(sc.engines, account)
}

// SetCalendarClient sets the calendar client for the default account
func (sc *ServerContext) SetCalendarClient(client *calendar.Client) {
	sc.SetCalendarClientForAccount("default", client)
}

// EngineForAccount returns the scheduling engine for a specific account.
// The engine is built on first use from the account's calendar client and
// the server options, then cached.
func (sc *ServerContext) EngineForAccount(account string) (*engine.Engine, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if eng, ok := sc.engines[account]; ok {
		return eng, nil
	}

	client := sc.calendarClientLocked(account)
	if client == nil {
		return nil, fmt.Errorf("no calendar client available for account %s, please authenticate first", account)
	}

	eng, err := engine.New(client, engine.Options{
		AuthorizedCalendars: sc.opts.AuthorizedCalendars,
		WorkdayStartHour:    sc.opts.WorkdayStartHour,
		WorkdayEndHour:      sc.opts.WorkdayEndHour,
		Logger:              sc.opts.Logger,
		Metrics:             sc.metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create engine for account %s: %w", account, err)
	}

	sc.engines[account] = eng
	return eng, nil
}

// Engine returns the scheduling engine for the default account
func (sc *ServerContext) Engine() (*engine.Engine, error) {
	return sc.EngineForAccount("default")
}

// SetInstrumentation attaches a metrics recorder and audit logger to the
// server context. Both may be nil, in which case tool handlers skip
// instrumentation. Cached engines are discarded so they are rebuilt with
// the new recorder.
func (sc *ServerContext) SetInstrumentation(metrics *instrumentation.Metrics, auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
	sc.auditLogger = auditLogger
	sc.engines = make(map[string]*engine.Engine)
}

// Metrics returns the metrics recorder, or nil if instrumentation is not configured.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// AuditLogger returns the audit logger, or nil if instrumentation is not configured.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// AccountCount returns the number of accounts with an initialized calendar client.
func (sc *ServerContext) AccountCount() int {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return len(sc.calendarClients)
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.opts.Logger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
