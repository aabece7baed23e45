package alarm

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

// ErrInvalidPeriod is returned for non-positive periods.
var ErrInvalidPeriod = errors.New("alarm: period must be positive")

// Scheduler is an in-process recurring alarm facility. Each alarm fires its
// name on the Ticks channel once per period until cancelled.
type Scheduler struct {
	unit   time.Duration
	logger *zap.Logger

	mu     sync.Mutex
	alarms map[string]*entry
	ticks  chan string
	closed bool
}

type entry struct {
	alarm types.Alarm
	stop  chan struct{}
}

// NewScheduler creates a scheduler. unit is the real duration of one
// alarm "minute"; production uses time.Minute.
func NewScheduler(unit time.Duration, logger *zap.Logger) *Scheduler {
	if unit <= 0 {
		unit = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		unit:   unit,
		logger: logger,
		alarms: make(map[string]*entry),
		ticks:  make(chan string, 16),
	}
}

// Ticks delivers the name of each alarm as it fires
func (s *Scheduler) Ticks() <-chan string {
	return s.ticks
}

// SetRecurring creates or replaces the named alarm
func (s *Scheduler) SetRecurring(name string, periodMinutes float64) error {
	if periodMinutes <= 0 {
		return ErrInvalidPeriod
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.New("alarm: scheduler closed")
	}
	if old, ok := s.alarms[name]; ok {
		close(old.stop)
	}

	e := &entry{
		alarm: types.Alarm{Name: name, PeriodMinutes: periodMinutes},
		stop:  make(chan struct{}),
	}
	s.alarms[name] = e
	go s.run(e, time.Duration(periodMinutes*float64(s.unit)))

	s.logger.Debug("alarm scheduled", zap.String("name", name), zap.Float64("period_minutes", periodMinutes))
	return nil
}

// Cancel stops the named alarm. Returns false if it did not exist.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.alarms[name]
	if !ok {
		return false
	}
	close(e.stop)
	delete(s.alarms, name)
	s.logger.Debug("alarm cancelled", zap.String("name", name))
	return true
}

// Get returns the named alarm if scheduled
func (s *Scheduler) Get(name string) (types.Alarm, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.alarms[name]
	if !ok {
		return types.Alarm{}, false
	}
	return e.alarm, true
}

// Close cancels every alarm. Ticks is never closed so late readers do not
// observe a spurious zero value.
func (s *Scheduler) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, e := range s.alarms {
		close(e.stop)
		delete(s.alarms, name)
	}
	s.closed = true
}

func (s *Scheduler) run(e *entry, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			select {
			case s.ticks <- e.alarm.Name:
			case <-e.stop:
				return
			default:
				// consumer is behind; a pending tick already covers this one
				s.logger.Debug("alarm tick dropped", zap.String("name", e.alarm.Name))
			}
		}
	}
}
