package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/browser"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/storage"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

type fixedSettings struct {
	settings types.Settings
}

func (f *fixedSettings) Read(context.Context) (types.Settings, error) {
	return f.settings, nil
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

type testEnv struct {
	manager  *Manager
	repo     *Repository
	kv       storage.Store
	browser  *browser.Memory
	settings *fixedSettings
	clock    *fakeClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithBrowser(t, browser.NewMemory())
}

func newTestEnvWithBrowser(t *testing.T, b Browser) *testEnv {
	t.Helper()

	kv := storage.NewMemory()
	repo := NewRepository(kv)
	settings := &fixedSettings{settings: types.Settings{MaxSessions: 5, AutosaveIntervalMinutes: 1}}
	clock := &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)}

	seq := 0
	m := NewManager(repo, b, settings, nil,
		WithClock(clock.Now),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("sess_%d", seq)
		}))

	env := &testEnv{manager: m, repo: repo, kv: kv, settings: settings, clock: clock}
	if mem, ok := b.(*browser.Memory); ok {
		env.browser = mem
	}
	return env
}

func (e *testEnv) seed(t *testing.T, sessions ...types.Session) {
	t.Helper()
	if err := storage.SetJSON(context.Background(), e.kv, StorageKey, sessions); err != nil {
		t.Fatal(err)
	}
}
