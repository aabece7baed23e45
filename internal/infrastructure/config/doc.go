// Package config provides 12-factor configuration for the session service.
//
// Configuration is loaded from environment variables with defaults, and
// optionally overlaid with a YAML file named by CONFIG_FILE.
//
// Configuration Sections:
//   - Server: HTTP listen address
//   - Storage: Key-value backend (sqlite file or memory)
//   - Browser: Bridge URL for the live window/tab surface
//   - Autosave: Trigger spacing and alarm unit
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting
//
// Environment Variables:
//   - PORT, HOST
//   - STORAGE_DRIVER, STORAGE_PATH
//   - BROWSER_BRIDGE_URL, BROWSER_TIMEOUT, BROWSER_RPS
//   - AUTOSAVE_MIN_SPACING, AUTOSAVE_ALARM_UNIT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CONFIG_FILE
package config
