package types

import "sort"

// AutosaveID is the reserved identifier of the automatic-capture slot.
const AutosaveID = "autosave"

// Source records how a session was created
type Source string

const (
	SourceManual Source = "manual"
	SourceAuto   Source = "auto"
)

// WindowState is the display state of a browser window
type WindowState string

const (
	WindowNormal     WindowState = "normal"
	WindowMaximized  WindowState = "maximized"
	WindowMinimized  WindowState = "minimized"
	WindowFullscreen WindowState = "fullscreen"
)

// Valid reports whether s is one of the four restorable states.
func (s WindowState) Valid() bool {
	switch s {
	case WindowNormal, WindowMaximized, WindowMinimized, WindowFullscreen:
		return true
	}
	return false
}

// NormalizeWindowState maps anything outside the known set to normal.
func NormalizeWindowState(s string) WindowState {
	ws := WindowState(s)
	if ws.Valid() {
		return ws
	}
	return WindowNormal
}

// Tab is a persisted browser tab. URL is never empty once stored.
type Tab struct {
	URL    string `json:"url" yaml:"url"`
	Title  string `json:"title" yaml:"title"`
	Pinned bool   `json:"pinned" yaml:"pinned"`
}

// Window is a persisted browser window
type Window struct {
	Focused bool        `json:"focused" yaml:"focused"`
	State   WindowState `json:"state" yaml:"state"`
	Tabs    []Tab       `json:"tabs" yaml:"tabs"`
}

// Session is a named snapshot of browser windows.
// Timestamps are Unix milliseconds.
type Session struct {
	ID        string   `json:"id" yaml:"id"`
	Name      string   `json:"name" yaml:"name"`
	CreatedAt int64    `json:"createdAt" yaml:"createdAt"`
	UpdatedAt int64    `json:"updatedAt" yaml:"updatedAt"`
	Source    Source   `json:"source" yaml:"source"`
	Windows   []Window `json:"windows" yaml:"windows"`
}

// SessionSummary is the listing view of a session
type SessionSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CreatedAt   int64  `json:"createdAt"`
	UpdatedAt   int64  `json:"updatedAt"`
	Source      Source `json:"source"`
	WindowCount int    `json:"windowCount"`
	TabCount    int    `json:"tabCount"`
}

// IsAutosave reports whether the session occupies the autosave slot
func (s *Session) IsAutosave() bool {
	return s.ID == AutosaveID
}

// TabCount returns the number of tabs across all windows
func (s *Session) TabCount() int {
	n := 0
	for _, w := range s.Windows {
		n += len(w.Tabs)
	}
	return n
}

// Recency is the ordering key: updatedAt, falling back to createdAt.
func (s *Session) Recency() int64 {
	if s.UpdatedAt != 0 {
		return s.UpdatedAt
	}
	return s.CreatedAt
}

// Clone returns a deep copy so callers never share window slices with the repository.
func (s Session) Clone() Session {
	out := s
	out.Windows = make([]Window, len(s.Windows))
	for i, w := range s.Windows {
		out.Windows[i] = w
		out.Windows[i].Tabs = append([]Tab(nil), w.Tabs...)
	}
	return out
}

// ToSummary extracts listing metadata
func (s *Session) ToSummary() SessionSummary {
	return SessionSummary{
		ID:          s.ID,
		Name:        s.Name,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
		Source:      s.Source,
		WindowCount: len(s.Windows),
		TabCount:    s.TabCount(),
	}
}

// SortNewestFirst orders sessions by descending recency. The input is not modified.
func SortNewestFirst(sessions []Session) []Session {
	out := append([]Session(nil), sessions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Recency() > out[j].Recency()
	})
	return out
}
