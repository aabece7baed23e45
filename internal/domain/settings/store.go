package settings

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/storage"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

const (
	// StorageKey is the key settings are persisted under
	StorageKey = "settings"
	// AlarmName is the recurring autosave alarm
	AlarmName = "autosave"
)

// Alarms schedules the recurring autosave trigger
type Alarms interface {
	SetRecurring(name string, periodMinutes float64) error
	Cancel(name string) bool
	Get(name string) (types.Alarm, bool)
}

// Store reads and writes user settings and keeps the autosave alarm in
// step with them.
type Store struct {
	kv     storage.Store
	alarms Alarms
	logger *zap.Logger
	mu     sync.Mutex
}

// NewStore creates a settings store
func NewStore(kv storage.Store, alarms Alarms, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{kv: kv, alarms: alarms, logger: logger}
}

// Read returns the stored settings merged onto the defaults. Storage
// failures are logged and yield the defaults; only a cancelled context
// is reported.
func (s *Store) Read(ctx context.Context) (types.Settings, error) {
	if err := ctx.Err(); err != nil {
		return types.Settings{}, err
	}

	var stored types.SettingsPatch
	found, err := storage.GetJSON(ctx, s.kv, StorageKey, &stored)
	if err != nil {
		s.logger.Warn("failed to read settings, using defaults", zap.Error(err))
		return Defaults(), nil
	}
	if !found {
		return Defaults(), nil
	}
	return fromStored(stored), nil
}

// Write merges patch onto the current settings, persists the result and
// reschedules the autosave alarm.
func (s *Store) Write(ctx context.Context, patch types.SettingsPatch) (types.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.Read(ctx)
	if err != nil {
		return types.Settings{}, err
	}

	next := Merge(current, patch)
	if err := storage.SetJSON(ctx, s.kv, StorageKey, next); err != nil {
		return types.Settings{}, fmt.Errorf("failed to persist settings: %w", err)
	}
	if err := s.ensureAlarm(next); err != nil {
		return types.Settings{}, err
	}

	s.logger.Info("settings updated",
		zap.Bool("autosave_enabled", next.AutosaveEnabled),
		zap.Int("interval_minutes", next.AutosaveIntervalMinutes),
		zap.Int("max_sessions", next.MaxSessions))
	return next, nil
}

// Init normalizes whatever is stored and makes sure the alarm matches it.
// Run once at startup.
func (s *Store) Init(ctx context.Context) (types.Settings, error) {
	return s.Write(ctx, types.SettingsPatch{})
}

// EnsureAlarm reconciles the alarm with the current settings
func (s *Store) EnsureAlarm(ctx context.Context) error {
	current, err := s.Read(ctx)
	if err != nil {
		return err
	}
	return s.ensureAlarm(current)
}

// ensureAlarm only replaces the alarm when it is missing or its period
// changed, so an unrelated settings write does not restart the countdown.
func (s *Store) ensureAlarm(st types.Settings) error {
	if s.alarms == nil {
		return nil
	}

	if !st.AutosaveEnabled {
		if s.alarms.Cancel(AlarmName) {
			s.logger.Debug("autosave alarm cancelled")
		}
		return nil
	}

	period := float64(st.AutosaveIntervalMinutes)
	if existing, ok := s.alarms.Get(AlarmName); ok && existing.PeriodMinutes == period {
		return nil
	}
	if err := s.alarms.SetRecurring(AlarmName, period); err != nil {
		return fmt.Errorf("failed to schedule autosave alarm: %w", err)
	}
	s.logger.Debug("autosave alarm scheduled", zap.Float64("period_minutes", period))
	return nil
}

// fromStored treats absent stored fields as defaults and normalizes the rest
func fromStored(p types.SettingsPatch) types.Settings {
	d := Defaults()
	out := types.Settings{
		AutosaveEnabled:         Truthy(p.AutosaveEnabled),
		AutosaveIntervalMinutes: d.AutosaveIntervalMinutes,
		MaxSessions:             d.MaxSessions,
	}
	if p.AutosaveIntervalMinutes != nil {
		out.AutosaveIntervalMinutes = ClampInt(p.AutosaveIntervalMinutes, MinInterval, MaxInterval)
	}
	if p.MaxSessions != nil {
		out.MaxSessions = ClampInt(p.MaxSessions, MinMaxSessions, MaxMaxSessions)
	}
	return out
}
