// Package alarm provides named recurring timers.
//
// It mirrors a browser alarms API: SetRecurring(name, periodMinutes)
// replaces any alarm of the same name, Cancel removes it, Get reports it.
// Fired alarm names are delivered on a single Ticks channel, which the
// autosave coordinator consumes.
//
// Example Usage:
//
//	s := alarm.NewScheduler(time.Minute, logger)
//	_ = s.SetRecurring("autosave", 5)
//	for name := range s.Ticks() { ... }
package alarm
