package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/id"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/utils"
)

// AutosaveName is the fixed name of the autosave record
const AutosaveName = "Auto-saved"

// SettingsReader supplies the current retention cap
type SettingsReader interface {
	Read(ctx context.Context) (types.Settings, error)
}

// Manager owns the session lifecycle: capture, save, update, merge,
// autosave, delete and restore. Mutating operations run one at a time.
type Manager struct {
	repo     *Repository
	browser  Browser
	settings SettingsReader
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	now      func() time.Time
	newID    func() string

	mu sync.Mutex
}

// Option configures a Manager
type Option func(*Manager)

// WithMetrics records session metrics
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithIDGenerator overrides session id generation
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) { m.newID = newID }
}

// NewManager creates a session manager
func NewManager(repo *Repository, browser Browser, settings SettingsReader, logger *zap.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Manager{
		repo:     repo,
		browser:  browser,
		settings: settings,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return id.NewSessionID().String() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// List returns all sessions, newest first
func (m *Manager) List(ctx context.Context) ([]types.Session, error) {
	return m.repo.List(ctx)
}

// Get returns one session
func (m *Manager) Get(ctx context.Context, sessionID string) (types.Session, error) {
	if err := validateID(sessionID); err != nil {
		return types.Session{}, err
	}
	s, ok, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		return types.Session{}, err
	}
	if !ok {
		return types.Session{}, ErrSessionNotFound
	}
	return s, nil
}

// Save captures the live windows into a new manual session
func (m *Manager) Save(ctx context.Context, nameHint string) (types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.settings.Read(ctx)
	if err != nil {
		return types.Session{}, err
	}

	s, err := m.Capture(ctx, nameHint, types.SourceManual)
	if err != nil {
		return types.Session{}, err
	}

	if err := m.persist(ctx, s, st.MaxSessions); err != nil {
		return types.Session{}, err
	}

	m.logger.Info("session saved",
		zap.String("session_id", s.ID),
		zap.String("name", s.Name),
		zap.Int("windows", len(s.Windows)),
		zap.Int("tabs", s.TabCount()))
	return s, nil
}

// Update replaces the windows of an existing session with the live ones.
// An empty capture leaves the session untouched. The autosave id is
// refreshed through UpsertAutosave instead.
func (m *Manager) Update(ctx context.Context, sessionID, nameHint string) (types.Session, error) {
	if err := validateID(sessionID); err != nil {
		return types.Session{}, err
	}

	if sessionID == types.AutosaveID {
		s, err := m.UpsertAutosave(ctx)
		if err != nil {
			return types.Session{}, err
		}
		if s == nil {
			return types.Session{}, ErrNothingToAutosave
		}
		return *s, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.settings.Read(ctx)
	if err != nil {
		return types.Session{}, err
	}

	existing, ok, err := m.repo.Get(ctx, sessionID)
	if err != nil {
		return types.Session{}, err
	}
	if !ok {
		return types.Session{}, ErrSessionNotFound
	}

	windows, err := m.captureWindows(ctx)
	if err != nil {
		return types.Session{}, err
	}
	if len(windows) == 0 {
		m.logger.Debug("update skipped, no windows captured", zap.String("session_id", sessionID))
		return existing, nil
	}

	ts := m.now().UnixMilli()
	updated := existing.Clone()
	updated.Name = renamed(existing.Name, nameHint)
	updated.CreatedAt = createdAtOr(existing, ts)
	updated.UpdatedAt = ts
	updated.Windows = windows

	if err := m.persist(ctx, updated, st.MaxSessions); err != nil {
		return types.Session{}, err
	}

	m.logger.Info("session updated",
		zap.String("session_id", updated.ID),
		zap.Int("windows", len(updated.Windows)),
		zap.Int("tabs", updated.TabCount()))
	return updated, nil
}

// UpsertAutosave rewrites the autosave record from the live windows. An
// empty capture returns the current autosave record, or nil if there is
// none, without writing.
func (m *Manager) UpsertAutosave(ctx context.Context) (*types.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st, err := m.settings.Read(ctx)
	if err != nil {
		return nil, err
	}

	windows, err := m.captureWindows(ctx)
	if err != nil {
		return nil, err
	}

	existing, found, err := m.repo.Get(ctx, types.AutosaveID)
	if err != nil {
		return nil, err
	}

	if len(windows) == 0 {
		if !found {
			return nil, nil
		}
		return &existing, nil
	}

	ts := m.now().UnixMilli()
	s := types.Session{
		ID:        types.AutosaveID,
		Name:      AutosaveName,
		CreatedAt: ts,
		UpdatedAt: ts,
		Source:    types.SourceAuto,
		Windows:   windows,
	}
	if found && existing.CreatedAt != 0 {
		s.CreatedAt = existing.CreatedAt
	}

	if err := m.persist(ctx, s, st.MaxSessions); err != nil {
		return nil, err
	}

	m.logger.Debug("autosave written", zap.Int("windows", len(s.Windows)), zap.Int("tabs", s.TabCount()))
	return &s, nil
}

// Delete removes a session and reports how many records were removed
func (m *Manager) Delete(ctx context.Context, sessionID string) (int, error) {
	if err := validateID(sessionID); err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	removed, err := m.repo.Delete(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		m.logger.Info("session deleted", zap.String("session_id", sessionID))
		m.refreshStoredGauge(ctx)
	}
	return removed, nil
}

// persist must be called with mu held
func (m *Manager) persist(ctx context.Context, s types.Session, limit int) error {
	stored, evicted, err := m.repo.InsertOrReplace(ctx, s, limit)
	if err != nil {
		return err
	}
	if evicted > 0 {
		m.logger.Info("retention evicted sessions", zap.Int("evicted", evicted), zap.Int("limit", limit))
	}
	m.metrics.RecordSessionWrite(string(s.Source), stored, evicted)
	return nil
}

func (m *Manager) refreshStoredGauge(ctx context.Context) {
	if m.metrics == nil {
		return
	}
	sessions, err := m.repo.List(ctx)
	if err != nil {
		return
	}
	m.metrics.SetSessionsStored(len(sessions))
}

func validateID(sessionID string) error {
	if sessionID == "" || utils.ValidateID(sessionID, "sessionId", true) != nil {
		return ErrInvalidID
	}
	return nil
}

func renamed(current, hint string) string {
	if name := utils.NameHint(hint); name != "" {
		return name
	}
	return current
}

// createdAtOr keeps the original creation time, falling back to the last
// update and then ts for records written without one.
func createdAtOr(s types.Session, ts int64) int64 {
	if s.CreatedAt != 0 {
		return s.CreatedAt
	}
	if s.UpdatedAt != 0 {
		return s.UpdatedAt
	}
	return ts
}
