// Package logging provides structured logging utilities for the conflictfewer application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - PII sanitization (account anonymization)
//   - Consistent attribute naming across the codebase
//   - Logger adapter interface for flexibility
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "calendar.list")
//	logger.Info("listing events",
//	    logging.Status("success"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("engine request",
//	    slog.String("account", logging.AnonymizeAccount(account)))
//
// # Security Considerations
//
// Account names are often email addresses; they are hashed before logging to
// prevent PII leakage while still allowing correlation.
package logging
