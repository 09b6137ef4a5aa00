// Package cmd implements the command-line interface for conflictfewer.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide scheduling tools for AI assistants
//   - apply: Apply a scheduling plan from a YAML file
//   - version: Display version information
//   - generate-docs: Generate markdown documentation for all MCP tools
//
// The serve command is the default command when no subcommand is specified.
package cmd
