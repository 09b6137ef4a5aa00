// Package schedule_tools provides MCP (Model Context Protocol) tools for
// conflict-aware calendar scheduling.
//
// This package exposes the scheduling engine through a standardized MCP
// interface, allowing AI assistants to create, update and delete calendar
// events on behalf of users. Creation requests are checked against all
// relevant calendars before anything is written; conflicting requests return
// the overlapping events plus ranked alternative slots instead of an event.
// Update and delete requests that ambiguously match several events return the
// candidates for clarification instead of guessing.
//
// The tools support multi-account authentication and include read-only
// advisory tools for conflict checks, slot suggestions, and calendar listing.
package schedule_tools
