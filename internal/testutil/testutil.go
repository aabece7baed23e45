// Package testutil provides mocks and fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// MockBrowser is a testify mock of the live window/tab surface.
type MockBrowser struct {
	mock.Mock
}

// ListWindows mocks the ListWindows method.
func (m *MockBrowser) ListWindows(ctx context.Context) ([]types.LiveWindow, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LiveWindow), args.Error(1)
}

// CreateWindow mocks the CreateWindow method.
func (m *MockBrowser) CreateWindow(ctx context.Context, url string, attrs types.WindowAttrs) (types.LiveWindow, error) {
	args := m.Called(ctx, url, attrs)
	return args.Get(0).(types.LiveWindow), args.Error(1)
}

// CreateTab mocks the CreateTab method.
func (m *MockBrowser) CreateTab(ctx context.Context, windowID int, url string, attrs types.TabAttrs) (types.LiveTab, error) {
	args := m.Called(ctx, windowID, url, attrs)
	return args.Get(0).(types.LiveTab), args.Error(1)
}

// UpdateWindow mocks the UpdateWindow method.
func (m *MockBrowser) UpdateWindow(ctx context.Context, id int, attrs types.WindowAttrs) error {
	args := m.Called(ctx, id, attrs)
	return args.Error(0)
}

// UpdateTab mocks the UpdateTab method.
func (m *MockBrowser) UpdateTab(ctx context.Context, id int, attrs types.TabAttrs) error {
	args := m.Called(ctx, id, attrs)
	return args.Error(0)
}

// ListTabs mocks the ListTabs method.
func (m *MockBrowser) ListTabs(ctx context.Context, windowID int) ([]types.LiveTab, error) {
	args := m.Called(ctx, windowID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LiveTab), args.Error(1)
}

// NewMockBrowser creates a mock browser that asserts its expectations when
// the test ends.
func NewMockBrowser(t *testing.T) *MockBrowser {
	t.Helper()
	m := new(MockBrowser)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

// WithDefaults registers permissive fallbacks for every method: windows
// are created with id 1 and no live tabs are listed. Register specific
// expectations before calling it so they match first.
func (m *MockBrowser) WithDefaults() *MockBrowser {
	m.On("ListWindows", mock.Anything).Return([]types.LiveWindow{}, nil).Maybe()
	m.On("CreateWindow", mock.Anything, mock.Anything, mock.Anything).
		Return(types.LiveWindow{ID: 1, Type: types.WindowTypeNormal}, nil).Maybe()
	m.On("CreateTab", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(types.LiveTab{ID: 100}, nil).Maybe()
	m.On("UpdateWindow", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("UpdateTab", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("ListTabs", mock.Anything, mock.Anything).Return([]types.LiveTab{}, nil).Maybe()
	return m
}

// LiveWindow builds a normal live window holding one tab per URL.
func LiveWindow(urls ...string) types.LiveWindow {
	w := types.LiveWindow{Type: types.WindowTypeNormal, State: string(types.WindowNormal)}
	for _, u := range urls {
		w.Tabs = append(w.Tabs, types.LiveTab{URL: u, Title: u})
	}
	return w
}

// Window builds a stored window holding one tab per URL.
func Window(urls ...string) types.Window {
	w := types.Window{State: types.WindowNormal}
	for _, u := range urls {
		w.Tabs = append(w.Tabs, types.Tab{URL: u, Title: u})
	}
	return w
}

// Session builds a stored session with the given id and recency.
func Session(id string, updatedAt int64, windows ...types.Window) types.Session {
	source := types.SourceManual
	name := "Session " + id
	if id == types.AutosaveID {
		source = types.SourceAuto
		name = "Auto-saved"
	}
	return types.Session{
		ID:        id,
		Name:      name,
		CreatedAt: updatedAt,
		UpdatedAt: updatedAt,
		Source:    source,
		Windows:   windows,
	}
}

// IDs returns the ids of sessions in order.
func IDs(sessions []types.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

// URLs returns every tab URL of s in order.
func URLs(s types.Session) []string {
	var out []string
	for _, w := range s.Windows {
		for _, t := range w.Tabs {
			out = append(out, t.URL)
		}
	}
	return out
}
