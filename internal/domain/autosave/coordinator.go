package autosave

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/GriffinCanCode/SessionKeeper/internal/domain/settings"
	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// DefaultMinSpacing is the minimum gap between two attempts
const DefaultMinSpacing = 3 * time.Second

// Reason names what asked for an autosave
type Reason string

const (
	ReasonAlarm         Reason = "alarm"
	ReasonWindowRemoved Reason = "window_removed"
	ReasonSuspend       Reason = "suspend"
)

// Outcomes recorded per trigger
const (
	OutcomeSaved    = "saved"
	OutcomeEmpty    = "empty"
	OutcomeDisabled = "disabled"
	OutcomeSpaced   = "spaced"
	OutcomeShared   = "shared"
	OutcomeError    = "error"
)

const flightKey = "autosave"

// Saver rewrites the autosave record
type Saver interface {
	UpsertAutosave(ctx context.Context) (*types.Session, error)
}

// SettingsReader reports whether autosave is enabled
type SettingsReader interface {
	Read(ctx context.Context) (types.Settings, error)
}

// Config configures a Coordinator
type Config struct {
	MinSpacing time.Duration
	Now        func() time.Time
}

// Coordinator collapses autosave triggers from independent sources into
// at most one write at a time. A trigger arriving within MinSpacing of the
// previous attempt is dropped; one arriving while a write is running
// waits for that write and shares its result.
type Coordinator struct {
	saver    Saver
	settings SettingsReader
	logger   *zap.Logger
	metrics  *monitoring.Metrics

	minSpacing time.Duration
	now        func() time.Time

	mu          sync.Mutex
	lastAttempt time.Time

	group   singleflight.Group
	pending sync.WaitGroup
}

type flightResult struct {
	session *types.Session
	outcome string
}

// NewCoordinator creates a coordinator
func NewCoordinator(saver Saver, settings SettingsReader, cfg Config, logger *zap.Logger, metrics *monitoring.Metrics) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MinSpacing <= 0 {
		cfg.MinSpacing = DefaultMinSpacing
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Coordinator{
		saver:      saver,
		settings:   settings,
		logger:     logger,
		metrics:    metrics,
		minSpacing: cfg.MinSpacing,
		now:        cfg.Now,
	}
}

// Trigger runs an autosave unless one was attempted too recently. It
// returns the autosave record, or nil when nothing was written.
func (c *Coordinator) Trigger(ctx context.Context, reason Reason) (*types.Session, error) {
	if !c.admit() {
		c.record(reason, OutcomeSpaced)
		c.logger.Debug("autosave trigger dropped", zap.String("reason", string(reason)))
		return nil, nil
	}

	// The write outlives a cancelled caller so that callers sharing it
	// still get a result.
	flightCtx := context.WithoutCancel(ctx)
	v, err, shared := c.group.Do(flightKey, func() (any, error) {
		return c.run(flightCtx)
	})

	if err != nil {
		c.record(reason, OutcomeError)
		return nil, err
	}

	res := v.(flightResult)
	outcome := res.outcome
	if shared {
		outcome = OutcomeShared
	}
	c.record(reason, outcome)
	return res.session, nil
}

// Notify triggers an autosave in the background. Failures are logged.
func (c *Coordinator) Notify(reason Reason) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()
		if _, err := c.Trigger(context.Background(), reason); err != nil {
			c.logger.Warn("autosave failed", zap.String("reason", string(reason)), zap.Error(err))
		}
	}()
}

// Run consumes alarm ticks until ctx is done or ticks is closed
func (c *Coordinator) Run(ctx context.Context, ticks <-chan string) {
	for {
		select {
		case <-ctx.Done():
			return
		case name, ok := <-ticks:
			if !ok {
				return
			}
			if name != settings.AlarmName {
				continue
			}
			if _, err := c.Trigger(ctx, ReasonAlarm); err != nil {
				c.logger.Warn("autosave failed", zap.String("reason", string(ReasonAlarm)), zap.Error(err))
			}
		}
	}
}

// Wait blocks until every Notify has finished
func (c *Coordinator) Wait() {
	c.pending.Wait()
}

// admit applies the spacing rule and stamps the attempt time
func (c *Coordinator) admit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if !c.lastAttempt.IsZero() && now.Sub(c.lastAttempt) < c.minSpacing {
		return false
	}
	c.lastAttempt = now
	return true
}

func (c *Coordinator) run(ctx context.Context) (flightResult, error) {
	st, err := c.settings.Read(ctx)
	if err != nil {
		return flightResult{}, err
	}
	if !st.AutosaveEnabled {
		return flightResult{outcome: OutcomeDisabled}, nil
	}

	s, err := c.saver.UpsertAutosave(ctx)
	if err != nil {
		return flightResult{}, err
	}
	if s == nil {
		return flightResult{outcome: OutcomeEmpty}, nil
	}
	return flightResult{session: s, outcome: OutcomeSaved}, nil
}

func (c *Coordinator) record(reason Reason, outcome string) {
	c.metrics.RecordAutosaveTrigger(string(reason), outcome)
}
