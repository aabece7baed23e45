package session

import (
	"context"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// Restore steps
const (
	StepCreateWindow        = "create_window"
	StepCreateWindowMinimal = "create_window_minimal"
	StepCreateTab           = "create_tab"
	StepUpdateWindow        = "update_window"
	StepListTabs            = "list_tabs"
	StepPinTab              = "pin_tab"
)

// StepResult records one browser call made during a restore
type StepResult struct {
	Window int
	Step   string
	URL    string
	Err    error
}

// OK reports whether the step succeeded
func (r StepResult) OK() bool { return r.Err == nil }

// RestoreResult reports the size of the restored session. The counts come
// from the stored record, not from what the browser accepted.
type RestoreResult struct {
	RestoredWindows int          `json:"restoredWindows"`
	RestoredTabs    int          `json:"restoredTabs"`
	Steps           []StepResult `json:"-"`
}

// Failed returns the steps that did not succeed
func (r RestoreResult) Failed() []StepResult {
	var out []StepResult
	for _, s := range r.Steps {
		if !s.OK() {
			out = append(out, s)
		}
	}
	return out
}

// Restore reopens every window of a session. Browser failures never fail
// the call: a window that cannot be created is skipped, as is any tab,
// focus or pin request that fails.
func (m *Manager) Restore(ctx context.Context, sessionID string) (RestoreResult, error) {
	if err := validateID(sessionID); err != nil {
		return RestoreResult{}, err
	}

	m.mu.Lock()
	s, ok, err := m.repo.Get(ctx, sessionID)
	m.mu.Unlock()
	if err != nil {
		return RestoreResult{}, err
	}
	if !ok {
		return RestoreResult{}, ErrSessionNotFound
	}

	r := &restorer{browser: m.browser, logger: m.logger.With(zap.String("session_id", sessionID))}
	for i, w := range s.Windows {
		r.restoreWindow(ctx, i, w)
	}

	for _, step := range r.steps {
		if !step.OK() {
			m.metrics.RecordRestoreStepFailure(step.Step)
		}
	}
	m.metrics.IncSessionsRestored()

	result := RestoreResult{
		RestoredWindows: len(s.Windows),
		RestoredTabs:    s.TabCount(),
		Steps:           r.steps,
	}
	m.logger.Info("session restored",
		zap.String("session_id", sessionID),
		zap.Int("windows", result.RestoredWindows),
		zap.Int("tabs", result.RestoredTabs),
		zap.Int("failed_steps", len(result.Failed())))
	return result, nil
}

type restorer struct {
	browser Browser
	logger  *zap.Logger
	steps   []StepResult
}

func (r *restorer) record(window int, step, url string, err error) {
	r.steps = append(r.steps, StepResult{Window: window, Step: step, URL: url, Err: err})
	if err != nil {
		r.logger.Debug("restore step failed",
			zap.Int("window", window),
			zap.String("step", step),
			zap.String("url", url),
			zap.Error(err))
	}
}

func (r *restorer) restoreWindow(ctx context.Context, idx int, w types.Window) {
	urls := make([]string, 0, len(w.Tabs))
	for _, t := range w.Tabs {
		if t.URL != "" {
			urls = append(urls, t.URL)
		}
	}
	if len(urls) == 0 {
		return
	}

	attrs := types.WindowAttrs{
		Focused: types.Bool(w.Focused),
		State:   types.NormalizeWindowState(string(w.State)),
	}

	created, err := r.browser.CreateWindow(ctx, urls[0], attrs)
	r.record(idx, StepCreateWindow, urls[0], err)
	if err != nil {
		created, err = r.browser.CreateWindow(ctx, urls[0], types.WindowAttrs{})
		r.record(idx, StepCreateWindowMinimal, urls[0], err)
		if err != nil {
			return
		}
	}
	if created.ID == 0 {
		return
	}

	for _, url := range urls[1:] {
		_, err := r.browser.CreateTab(ctx, created.ID, url, types.TabAttrs{Active: types.Bool(false)})
		r.record(idx, StepCreateTab, url, err)
	}

	// Creation does not reliably apply focus and state, so set them again.
	r.record(idx, StepUpdateWindow, "", r.browser.UpdateWindow(ctx, created.ID, attrs))

	r.pinTabs(ctx, idx, created.ID, w.Tabs)
}

// pinTabs pins the first live tab whose URL matches each pinned record tab
func (r *restorer) pinTabs(ctx context.Context, idx, windowID int, tabs []types.Tab) {
	var pinned []types.Tab
	for _, t := range tabs {
		if t.Pinned && t.URL != "" {
			pinned = append(pinned, t)
		}
	}
	if len(pinned) == 0 {
		return
	}

	live, err := r.browser.ListTabs(ctx, windowID)
	r.record(idx, StepListTabs, "", err)
	if err != nil {
		return
	}

	for _, pt := range pinned {
		for _, lt := range live {
			if lt.URL != pt.URL {
				continue
			}
			if lt.ID != 0 {
				err := r.browser.UpdateTab(ctx, lt.ID, types.TabAttrs{Pinned: types.Bool(true)})
				r.record(idx, StepPinTab, pt.URL, err)
			}
			break
		}
	}
}
