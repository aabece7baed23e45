// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output
//
// Components take a *zap.Logger obtained from Logger.Component so log
// lines carry the emitting subsystem ("session", "autosave", "bridge").
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	log := logger.Component("session")
//	log.Info("session saved", zap.String("id", s.ID), zap.Int("tabs", s.TabCount()))
package logging
