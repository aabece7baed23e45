// Package session implements the session lifecycle.
//
// A session is a named snapshot of the open browser windows. Manager
// captures snapshots through a Browser, persists them through a Repository
// under a bounded retention policy, merges new tabs into existing records,
// keeps the single "autosave" record current, and reopens stored sessions.
//
// Retention keeps at most Settings.MaxSessions records. The autosave record
// always keeps its slot; the remaining slots go to the newest sessions.
//
// Restores are best-effort. Each browser call is recorded as a StepResult,
// failures are logged and counted, and the call itself only fails for an
// invalid or unknown session id.
package session
