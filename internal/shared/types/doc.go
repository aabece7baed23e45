// Package types provides shared data structures for the session service.
//
// Persisted Types:
//   - Session: Named snapshot of browser windows
//   - Window, Tab: Normalized window/tab records
//   - Settings: Autosave and retention preferences
//
// Live Types (browser surface):
//   - LiveWindow, LiveTab: State reported by the browser
//   - WindowAttrs, TabAttrs: Create/update request attributes
//
// The session with ID AutosaveID is the single automatic-capture slot.
//
// Example Usage:
//
//	s := types.Session{ID: "sess_01H...", Name: "Research", Source: types.SourceManual}
//	fmt.Println(s.TabCount(), s.Recency())
package types
