// Package calendar implements the event store gateway on top of the Google
// Calendar API.
//
// The Client satisfies the engine's Store contract (list, insert, patch,
// delete) and additionally exposes calendar enumeration so callers can
// discover the calendars an account may target. Events are converted to the
// engine's provider-neutral types at the boundary; all-day events are
// detected from the API's date-only fields.
//
// The client supports multi-account authentication using the Google OAuth2
// flow and can operate on calendars across multiple Google accounts.
//
// Example usage:
//
//	ctx := context.Background()
//	client, err := calendar.NewClient(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// List next week's events
//	events, err := client.ListEvents(ctx, "primary", time.Now(), time.Now().AddDate(0, 0, 7))
//	if err != nil {
//	    log.Fatal(err)
//	}
package calendar
