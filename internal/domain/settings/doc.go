// Package settings holds the user preferences for autosave and retention.
//
// Every read and write passes through normalization, so callers always see
// an interval in [1,1440] minutes and a session cap in [1,200] whatever was
// sent or stored. Writes also reconcile the recurring "autosave" alarm.
package settings
