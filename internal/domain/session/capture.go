package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// NameLayout formats the default name of an unnamed session
const NameLayout = "2006-01-02 15:04:05"

// Browser is the live window/tab surface the manager captures from and
// restores into.
type Browser interface {
	ListWindows(ctx context.Context) ([]types.LiveWindow, error)
	CreateWindow(ctx context.Context, url string, attrs types.WindowAttrs) (types.LiveWindow, error)
	CreateTab(ctx context.Context, windowID int, url string, attrs types.TabAttrs) (types.LiveTab, error)
	UpdateWindow(ctx context.Context, id int, attrs types.WindowAttrs) error
	UpdateTab(ctx context.Context, id int, attrs types.TabAttrs) error
	ListTabs(ctx context.Context, windowID int) ([]types.LiveTab, error)
}

// Capture snapshots the live normal windows into a new session. It does
// not touch storage.
func (m *Manager) Capture(ctx context.Context, nameHint string, source types.Source) (types.Session, error) {
	windows, err := m.captureWindows(ctx)
	if err != nil {
		return types.Session{}, err
	}

	now := m.now()
	ts := now.UnixMilli()
	if source != types.SourceAuto {
		source = types.SourceManual
	}

	return types.Session{
		ID:        m.newID(),
		Name:      sessionName(nameHint, now),
		CreatedAt: ts,
		UpdatedAt: ts,
		Source:    source,
		Windows:   windows,
	}, nil
}

func (m *Manager) captureWindows(ctx context.Context) ([]types.Window, error) {
	live, err := m.browser.ListWindows(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list windows: %w: %w", ErrCollaborator, err)
	}
	return ModelWindows(live), nil
}

// ModelWindows maps live normal windows to records. Tabs without a URL are
// dropped first, then windows left without tabs.
func ModelWindows(live []types.LiveWindow) []types.Window {
	out := make([]types.Window, 0, len(live))
	for _, lw := range live {
		if lw.Type != "" && lw.Type != types.WindowTypeNormal {
			continue
		}

		tabs := make([]types.Tab, 0, len(lw.Tabs))
		for _, lt := range lw.Tabs {
			if lt.URL == "" {
				continue
			}
			tabs = append(tabs, types.Tab{URL: lt.URL, Title: lt.Title, Pinned: lt.Pinned})
		}
		if len(tabs) == 0 {
			continue
		}

		out = append(out, types.Window{
			Focused: lw.Focused,
			State:   types.NormalizeWindowState(lw.State),
			Tabs:    tabs,
		})
	}
	return out
}

func sessionName(hint string, now time.Time) string {
	if name := strings.TrimSpace(hint); name != "" {
		return name
	}
	return now.Format(NameLayout)
}
