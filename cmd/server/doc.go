// Package main is the entry point for the session keeper service.
//
// The service snapshots open browser windows into named sessions,
// keeps a rolling autosave, and restores sessions on demand.
//
//	Extension / CLI → REST + WebSocket → Session Manager → SQLite
//	                                         ↓
//	                                  Browser Bridge (HTTP)
//
// Configuration:
//   - Environment variables (12-factor)
//   - Optional YAML file named by CONFIG_FILE
//   - CLI flags (override both)
//
// Usage:
//
//	./server -port 8000 -db ./sessions.db -bridge http://127.0.0.1:9222
//
//	# No bridge: in-memory browser surface, useful for development
//	LOG_DEV=true ./server
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown with a final autosave
package main
