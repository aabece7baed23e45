package command

import (
	"github.com/GriffinCanCode/SessionKeeper/internal/domain/session"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// Command types
const (
	TypeGetSettings    = "GET_SETTINGS"
	TypeSetSettings    = "SET_SETTINGS"
	TypeGetSessions    = "GET_SESSIONS"
	TypeGetSession     = "GET_SESSION"
	TypeSaveSession    = "SAVE_CURRENT_SESSION"
	TypeUpdateSession  = "UPDATE_SESSION"
	TypeAddTabs        = "ADD_TABS_TO_SESSION"
	TypeRestoreSession = "RESTORE_SESSION"
	TypeDeleteSession  = "DELETE_SESSION"
	TypeExportSessions = "EXPORT_SESSIONS"
	TypeWindowRemoved  = "WINDOW_REMOVED"
	TypeSuspend        = "SUSPEND"
)

// Request is one inbound command. Name and SessionID are untyped because
// front ends may send anything; non-strings are treated as absent or
// invalid respectively.
type Request struct {
	Type      string               `json:"type"`
	RequestID string               `json:"requestId,omitempty"`
	Settings  *types.SettingsPatch `json:"settings,omitempty"`
	Name      any                  `json:"name,omitempty"`
	SessionID any                  `json:"sessionId,omitempty"`
	Format    any                  `json:"format,omitempty"`
}

// Response is the envelope returned for every command
type Response struct {
	RequestID string           `json:"requestId,omitempty"`
	OK        bool             `json:"ok"`
	Error     string           `json:"error,omitempty"`
	Settings  *types.Settings  `json:"settings,omitempty"`
	Sessions  *[]types.Session `json:"sessions,omitempty"`
	Session   *types.Session   `json:"session,omitempty"`
	Result    any              `json:"result,omitempty"`

	// Kind classifies a failure for transports that map it to a status
	Kind session.Kind `json:"-"`
}

// DeleteResult is the result of DELETE_SESSION
type DeleteResult struct {
	Deleted int `json:"deleted"`
}

// EventResult acknowledges a browser event notification
type EventResult struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
}
