package browser

import (
	"context"
	"fmt"
	"sync"

	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// Hooks let tests inject failures into the memory surface. A non-nil error
// aborts the call before any state changes.
type Hooks struct {
	CreateWindow func(url string, attrs types.WindowAttrs) error
	CreateTab    func(windowID int, url string) error
	UpdateWindow func(id int, attrs types.WindowAttrs) error
	UpdateTab    func(id int, attrs types.TabAttrs) error
	ListTabs     func(windowID int) error
}

// Memory is an in-process browser surface. It backs development runs
// without a bridge and exercises the engine in tests.
type Memory struct {
	mu      sync.Mutex
	windows []*types.LiveWindow
	nextWin int
	nextTab int
	hooks   Hooks
}

// NewMemory creates an empty surface
func NewMemory() *Memory {
	return &Memory{nextWin: 1, nextTab: 1}
}

// SetHooks replaces the failure hooks
func (m *Memory) SetHooks(h Hooks) {
	m.mu.Lock()
	m.hooks = h
	m.mu.Unlock()
}

// Seed adds windows as if the user had opened them. IDs are assigned.
func (m *Memory) Seed(windows ...types.LiveWindow) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, w := range windows {
		w := w
		w.ID = m.nextWin
		m.nextWin++
		if w.Type == "" {
			w.Type = types.WindowTypeNormal
		}
		tabs := make([]types.LiveTab, len(w.Tabs))
		for i, t := range w.Tabs {
			t.ID = m.nextTab
			m.nextTab++
			t.WindowID = w.ID
			tabs[i] = t
		}
		w.Tabs = tabs
		m.windows = append(m.windows, &w)
	}
}

// CloseAll removes every window
func (m *Memory) CloseAll() {
	m.mu.Lock()
	m.windows = nil
	m.mu.Unlock()
}

// Snapshot returns a copy of every live window, regardless of type
func (m *Memory) Snapshot() []types.LiveWindow {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyWindows(false)
}

// ListWindows returns normal windows populated with their tabs
func (m *Memory) ListWindows(ctx context.Context) ([]types.LiveWindow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.copyWindows(true), nil
}

// CreateWindow opens a window with a single tab at url
func (m *Memory) CreateWindow(ctx context.Context, url string, attrs types.WindowAttrs) (types.LiveWindow, error) {
	if err := ctx.Err(); err != nil {
		return types.LiveWindow{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hooks.CreateWindow != nil {
		if err := m.hooks.CreateWindow(url, attrs); err != nil {
			return types.LiveWindow{}, err
		}
	}

	w := &types.LiveWindow{
		ID:    m.nextWin,
		Type:  types.WindowTypeNormal,
		State: string(types.WindowNormal),
	}
	m.nextWin++
	m.applyWindowAttrs(w, attrs)
	w.Tabs = []types.LiveTab{{ID: m.nextTab, WindowID: w.ID, URL: url, Active: true}}
	m.nextTab++
	m.windows = append(m.windows, w)

	return copyWindow(w), nil
}

// CreateTab appends a tab to a window
func (m *Memory) CreateTab(ctx context.Context, windowID int, url string, attrs types.TabAttrs) (types.LiveTab, error) {
	if err := ctx.Err(); err != nil {
		return types.LiveTab{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hooks.CreateTab != nil {
		if err := m.hooks.CreateTab(windowID, url); err != nil {
			return types.LiveTab{}, err
		}
	}

	w := m.window(windowID)
	if w == nil {
		return types.LiveTab{}, fmt.Errorf("no window with id %d", windowID)
	}
	t := types.LiveTab{ID: m.nextTab, WindowID: windowID, URL: url}
	m.nextTab++
	if attrs.Active != nil {
		t.Active = *attrs.Active
	}
	if attrs.Pinned != nil {
		t.Pinned = *attrs.Pinned
	}
	w.Tabs = append(w.Tabs, t)
	return t, nil
}

// UpdateWindow applies focus/state to a window
func (m *Memory) UpdateWindow(ctx context.Context, id int, attrs types.WindowAttrs) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hooks.UpdateWindow != nil {
		if err := m.hooks.UpdateWindow(id, attrs); err != nil {
			return err
		}
	}

	w := m.window(id)
	if w == nil {
		return fmt.Errorf("no window with id %d", id)
	}
	m.applyWindowAttrs(w, attrs)
	return nil
}

// UpdateTab applies pinned/active to a tab
func (m *Memory) UpdateTab(ctx context.Context, id int, attrs types.TabAttrs) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hooks.UpdateTab != nil {
		if err := m.hooks.UpdateTab(id, attrs); err != nil {
			return err
		}
	}

	for _, w := range m.windows {
		for i := range w.Tabs {
			if w.Tabs[i].ID != id {
				continue
			}
			if attrs.Pinned != nil {
				w.Tabs[i].Pinned = *attrs.Pinned
			}
			if attrs.Active != nil {
				w.Tabs[i].Active = *attrs.Active
			}
			return nil
		}
	}
	return fmt.Errorf("no tab with id %d", id)
}

// ListTabs returns the tabs of one window
func (m *Memory) ListTabs(ctx context.Context, windowID int) ([]types.LiveTab, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.hooks.ListTabs != nil {
		if err := m.hooks.ListTabs(windowID); err != nil {
			return nil, err
		}
	}

	w := m.window(windowID)
	if w == nil {
		return nil, fmt.Errorf("no window with id %d", windowID)
	}
	return append([]types.LiveTab(nil), w.Tabs...), nil
}

func (m *Memory) window(id int) *types.LiveWindow {
	for _, w := range m.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// applyWindowAttrs must be called with mu held. Focusing one window
// unfocuses the rest.
func (m *Memory) applyWindowAttrs(w *types.LiveWindow, attrs types.WindowAttrs) {
	if attrs.State != "" {
		w.State = string(attrs.State)
	}
	if attrs.Focused != nil {
		if *attrs.Focused {
			for _, other := range m.windows {
				other.Focused = false
			}
		}
		w.Focused = *attrs.Focused
	}
}

func (m *Memory) copyWindows(normalOnly bool) []types.LiveWindow {
	out := make([]types.LiveWindow, 0, len(m.windows))
	for _, w := range m.windows {
		if normalOnly && w.Type != types.WindowTypeNormal {
			continue
		}
		out = append(out, copyWindow(w))
	}
	return out
}

func copyWindow(w *types.LiveWindow) types.LiveWindow {
	c := *w
	c.Tabs = append([]types.LiveTab(nil), w.Tabs...)
	return c
}
