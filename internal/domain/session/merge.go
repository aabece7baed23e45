package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// AddTabsResult is the outcome of AddTabs
type AddTabsResult struct {
	Session   types.Session `json:"session"`
	AddedTabs int           `json:"addedTabs"`
}

// AddTabs appends the live tabs whose URLs the session does not already
// hold. Duplicates within the live capture collapse to the first one.
// Nothing is written when no tab is new.
func (m *Manager) AddTabs(ctx context.Context, sessionID string) (AddTabsResult, error) {
	if err := validateID(sessionID); err != nil {
		return AddTabsResult{}, err
	}
	if sessionID == types.AutosaveID {
		return AddTabsResult{}, ErrAutosaveAddTabs
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.settings.Read(ctx)
	if err != nil {
		return AddTabsResult{}, err
	}

	existing, ok, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		return AddTabsResult{}, err
	}
	if !ok {
		return AddTabsResult{}, ErrSessionNotFound
	}

	windows, err := m.captureWindows(ctx)
	if err != nil {
		return AddTabsResult{}, err
	}

	fresh, added := NewTabs(existing, windows)
	if added == 0 {
		return AddTabsResult{Session: existing}, nil
	}

	ts := m.now().UnixMilli()
	updated := existing.Clone()
	updated.CreatedAt = createdAtOr(existing, ts)
	updated.UpdatedAt = ts
	updated.Windows = append(updated.Windows, fresh...)

	if err := m.persist(ctx, updated, st.MaxSessions); err != nil {
		return AddTabsResult{}, err
	}

	m.metrics.AddTabsAdded(added)
	m.logger.Info("tabs added to session",
		zap.String("session_id", sessionID),
		zap.Int("added", added),
		zap.Int("windows", len(fresh)))
	return AddTabsResult{Session: updated, AddedTabs: added}, nil
}

// NewTabs filters captured windows down to tabs whose URL is not in s,
// dropping windows left empty. It returns the windows and the tab count.
func NewTabs(s types.Session, captured []types.Window) ([]types.Window, int) {
	seen := urlSet(s)

	var (
		out   []types.Window
		added int
	)
	for _, w := range captured {
		tabs := make([]types.Tab, 0, len(w.Tabs))
		for _, t := range w.Tabs {
			if t.URL == "" {
				continue
			}
			if _, dup := seen[t.URL]; dup {
				continue
			}
			seen[t.URL] = struct{}{}
			tabs = append(tabs, t)
		}
		if len(tabs) == 0 {
			continue
		}
		w.Tabs = tabs
		out = append(out, w)
		added += len(tabs)
	}
	return out, added
}

func urlSet(s types.Session) map[string]struct{} {
	urls := make(map[string]struct{}, s.TabCount())
	for _, w := range s.Windows {
		for _, t := range w.Tabs {
			if t.URL != "" {
				urls[t.URL] = struct{}{}
			}
		}
	}
	return urls
}
