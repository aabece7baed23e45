// Package paths resolves the on-disk locations used by the service.
package paths

import (
	"os"
	"path/filepath"
)

// AppDir is the directory name used under the user's state directory
const AppDir = "session-keeper"

// StateFile is the default SQLite database file name
const StateFile = "state.db"

// StateDir returns $XDG_STATE_HOME/session-keeper, falling back to
// ~/.local/state and finally the temp directory.
func StateDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, AppDir)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".local", "state", AppDir)
	}
	return filepath.Join(os.TempDir(), AppDir)
}

// DefaultStatePath returns the default database path
func DefaultStatePath() string {
	return filepath.Join(StateDir(), StateFile)
}
