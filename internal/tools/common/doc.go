// Package common provides shared utilities for MCP tool implementations.
//
// It contains the helpers every tool package needs: account extraction from
// request arguments, flexible string-or-array argument parsing, and handler
// wrappers that record metrics and audit logs around tool invocations.
package common
