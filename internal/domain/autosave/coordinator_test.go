package autosave

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/SessionKeeper/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/SessionKeeper/internal/shared/types"
)

type stubSettings struct {
	enabled atomic.Bool
}

func (s *stubSettings) Read(context.Context) (types.Settings, error) {
	return types.Settings{AutosaveEnabled: s.enabled.Load(), AutosaveIntervalMinutes: 1, MaxSessions: 5}, nil
}

type stubSaver struct {
	calls   atomic.Int32
	release chan struct{}
	err     error
	empty   bool
}

func (s *stubSaver) UpsertAutosave(ctx context.Context) (*types.Session, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.empty {
		return nil, nil
	}
	return &types.Session{ID: types.AutosaveID}, nil
}

type manualClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newCoordinator(saver Saver, enabled bool, clock *manualClock) (*Coordinator, *stubSettings) {
	st := &stubSettings{}
	st.enabled.Store(enabled)
	c := NewCoordinator(saver, st, Config{Now: clock.Now}, nil, monitoring.NewMetrics())
	return c, st
}

func TestTriggerSaves(t *testing.T) {
	saver := &stubSaver{}
	clock := &manualClock{t: time.Unix(1000, 0)}
	c, _ := newCoordinator(saver, true, clock)

	s, err := c.Trigger(context.Background(), ReasonWindowRemoved)
	require.NoError(t, err)
	require.NotNil(t, s)
	assert.Equal(t, types.AutosaveID, s.ID)
	assert.Equal(t, int32(1), saver.calls.Load())
}

func TestTriggerDisabledIsNoop(t *testing.T) {
	saver := &stubSaver{}
	clock := &manualClock{t: time.Unix(1000, 0)}
	c, _ := newCoordinator(saver, false, clock)

	s, err := c.Trigger(context.Background(), ReasonAlarm)
	require.NoError(t, err)
	assert.Nil(t, s)
	assert.Equal(t, int32(0), saver.calls.Load())
}

func TestTriggerSpacing(t *testing.T) {
	saver := &stubSaver{}
	clock := &manualClock{t: time.Unix(1000, 0)}
	c, _ := newCoordinator(saver, true, clock)
	ctx := context.Background()

	_, err := c.Trigger(ctx, ReasonWindowRemoved)
	require.NoError(t, err)

	clock.Advance(time.Second)
	s, err := c.Trigger(ctx, ReasonWindowRemoved)
	require.NoError(t, err)
	assert.Nil(t, s)

	clock.Advance(time.Second)
	_, err = c.Trigger(ctx, ReasonAlarm)
	require.NoError(t, err)
	assert.Equal(t, int32(1), saver.calls.Load())

	clock.Advance(time.Second)
	_, err = c.Trigger(ctx, ReasonSuspend)
	require.NoError(t, err)
	assert.Equal(t, int32(2), saver.calls.Load())
}

func TestDroppedTriggerDoesNotExtendWindow(t *testing.T) {
	saver := &stubSaver{}
	clock := &manualClock{t: time.Unix(1000, 0)}
	c, _ := newCoordinator(saver, true, clock)
	ctx := context.Background()

	_, _ = c.Trigger(ctx, ReasonWindowRemoved)
	clock.Advance(2 * time.Second)
	_, _ = c.Trigger(ctx, ReasonWindowRemoved)
	clock.Advance(time.Second)
	_, _ = c.Trigger(ctx, ReasonWindowRemoved)

	assert.Equal(t, int32(2), saver.calls.Load())
}

func TestOverlappingTriggersShareOneWrite(t *testing.T) {
	saver := &stubSaver{release: make(chan struct{})}
	clock := &manualClock{t: time.Unix(1000, 0)}
	c, _ := newCoordinator(saver, true, clock)

	var wg sync.WaitGroup
	results := make([]*types.Session, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		results[0], _ = c.Trigger(context.Background(), ReasonAlarm)
	}()
	require.Eventually(t, func() bool { return saver.calls.Load() == 1 }, time.Second, 5*time.Millisecond)

	clock.Advance(5 * time.Second)
	wg.Add(1)
	go func() {
		defer wg.Done()
		results[1], _ = c.Trigger(context.Background(), ReasonWindowRemoved)
	}()

	time.Sleep(50 * time.Millisecond)
	close(saver.release)
	wg.Wait()

	assert.Equal(t, int32(1), saver.calls.Load())
	require.NotNil(t, results[0])
	require.NotNil(t, results[1])
	assert.Same(t, results[0], results[1])
}

func TestFailureDoesNotBlockLaterTriggers(t *testing.T) {
	saver := &stubSaver{err: errors.New("bridge down")}
	clock := &manualClock{t: time.Unix(1000, 0)}
	c, _ := newCoordinator(saver, true, clock)
	ctx := context.Background()

	_, err := c.Trigger(ctx, ReasonAlarm)
	assert.Error(t, err)

	saver.err = nil
	clock.Advance(5 * time.Second)
	s, err := c.Trigger(ctx, ReasonAlarm)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestNotifyRunsInBackground(t *testing.T) {
	saver := &stubSaver{}
	clock := &manualClock{t: time.Unix(1000, 0)}
	c, _ := newCoordinator(saver, true, clock)

	c.Notify(ReasonWindowRemoved)
	c.Wait()
	assert.Equal(t, int32(1), saver.calls.Load())
}

func TestRunConsumesAlarmTicks(t *testing.T) {
	saver := &stubSaver{}
	clock := &manualClock{t: time.Unix(1000, 0)}
	c, _ := newCoordinator(saver, true, clock)

	ticks := make(chan string, 3)
	ticks <- "other"
	ticks <- "autosave"
	close(ticks)

	done := make(chan struct{})
	go func() {
		c.Run(context.Background(), ticks)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after ticks closed")
	}
	assert.Equal(t, int32(1), saver.calls.Load())
}

func TestRunStopsOnCancel(t *testing.T) {
	c, _ := newCoordinator(&stubSaver{}, true, &manualClock{t: time.Unix(1000, 0)})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		c.Run(ctx, make(chan string))
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}
}
