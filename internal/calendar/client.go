package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/teemow/conflictfewer/internal/engine"
	"github.com/teemow/conflictfewer/internal/google"
)

// Client wraps the Google Calendar service
type Client struct {
	svc     *calendar.Service
	account string // The account this client is associated with
}

// Client is the production implementation of the engine's store contract.
var _ engine.Store = (*Client)(nil)

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// GetAuthURLForAccount returns the OAuth authorization URL to visit when no
// token exists yet for the given account. The consent URL itself is
// account-independent; the resulting code is saved per account.
func GetAuthURLForAccount(_ string) string {
	return google.GetAuthURL()
}

// NewClientForAccountWithProvider creates a new Calendar client with OAuth2
// authentication for a specific account. The OAuth token is retrieved from
// the provided token provider.
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	tokenSource := conf.TokenSource(ctx, token)

	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	baseTransport := &http.Transport{
		ForceAttemptHTTP2: false,
	}
	transport.Base = baseTransport

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClientForAccount creates a new Calendar client with OAuth2 authentication
// for a specific account, using the default file-based token provider.
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	return NewClientForAccountWithProvider(ctx, account, google.NewFileTokenProvider())
}

// NewClient creates a new Calendar client with OAuth2 authentication for the
// default account.
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ListEvents lists the events on a calendar that intersect [timeMin, timeMax).
// Recurring events are returned as expanded single instances, ordered by
// start time.
func (c *Client) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]engine.CalendarEvent, error) {
	call := c.svc.Events.List(calendarID).
		TimeMin(timeMin.Format(time.RFC3339)).
		TimeMax(timeMax.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)

	events, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var result []engine.CalendarEvent
	for _, event := range events.Items {
		// Cancelled instances carry no times and cannot conflict
		if event.Status == "cancelled" {
			continue
		}
		result = append(result, toEvent(event, calendarID))
	}

	return result, nil
}

// InsertEvent creates a new calendar event and returns it with its assigned ID.
func (c *Client) InsertEvent(ctx context.Context, calendarID string, proposed engine.ProposedEvent) (engine.CalendarEvent, error) {
	created, err := c.svc.Events.Insert(calendarID, fromProposed(proposed)).Context(ctx).Do()
	if err != nil {
		return engine.CalendarEvent{}, fmt.Errorf("failed to create event: %w", err)
	}

	return toEvent(created, calendarID), nil
}

// PatchEvent applies a partial update to an existing event. Only the fields
// set in changes are sent to the API.
func (c *Client) PatchEvent(ctx context.Context, calendarID, eventID string, changes engine.FieldChanges) (engine.CalendarEvent, error) {
	updated, err := c.svc.Events.Patch(calendarID, eventID, fromChanges(changes)).Context(ctx).Do()
	if err != nil {
		return engine.CalendarEvent{}, fmt.Errorf("failed to patch event: %w", err)
	}

	return toEvent(updated, calendarID), nil
}

// DeleteEvent deletes a calendar event
func (c *Client) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := c.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// ListCalendars lists all calendars accessible to the account
func (c *Client) ListCalendars(ctx context.Context) ([]CalendarInfo, error) {
	list, err := c.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var calendars []CalendarInfo
	for _, entry := range list.Items {
		calendars = append(calendars, toCalendarInfo(entry))
	}

	return calendars, nil
}

// GetCalendar retrieves information about a specific calendar
func (c *Client) GetCalendar(ctx context.Context, calendarID string) (*CalendarInfo, error) {
	entry, err := c.svc.CalendarList.Get(calendarID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get calendar: %w", err)
	}

	info := toCalendarInfo(entry)
	return &info, nil
}

// GetPrimaryCalendar retrieves information about the primary calendar
func (c *Client) GetPrimaryCalendar(ctx context.Context) (*CalendarInfo, error) {
	return c.GetCalendar(ctx, "primary")
}
