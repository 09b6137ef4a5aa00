// Package server provides the MCP server context, health probes, and the
// dedicated metrics server for the conflictfewer application.
//
// # Key Components
//
// ServerContext manages calendar clients and scheduling engines with lazy
// initialization and caching. It supports multiple accounts: each account
// gets its own calendar client (backed by a token on disk) and its own
// engine built from the server options.
//
// HealthChecker exposes /healthz, /readyz, and /healthz/detailed endpoints
// for Kubernetes probes. Readiness reflects the server's ready flag and
// shutdown state; the detailed endpoint additionally reports uptime and the
// number of initialized accounts.
//
// MetricsServer serves Prometheus metrics on a dedicated port, isolating
// operational metrics from the main application traffic.
package server
