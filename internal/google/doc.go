// Package google provides OAuth2 authentication and token management for the
// Google Calendar API.
//
// Tokens are stored per account in the user's cache directory, so multiple
// Google accounts (default, work, personal) can be used side by side. The
// TokenProvider interface allows different token sources to be plugged in;
// the file-based provider is used for CLI and STDIO transport.
package google
