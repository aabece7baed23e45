// Package server wires the session service together.
//
// Components, in construction order:
//   - Metrics registry and zap logger
//   - Key-value storage (sqlite or memory)
//   - Alarm scheduler and browser surface (bridge or memory)
//   - Settings store, session manager, autosave coordinator
//   - Command dispatcher with its REST and WebSocket transports
//
// Server Lifecycle:
//  1. Load configuration from environment and optional YAML file
//  2. Open storage and normalize stored settings
//  3. Schedule the autosave alarm and start consuming its ticks
//  4. Serve HTTP until a signal arrives
//  5. On Close: drain HTTP, take a final autosave, close storage
package server
