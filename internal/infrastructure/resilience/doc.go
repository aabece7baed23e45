/*
Package resilience provides circuit breaker implementation for graceful degradation.

# Overview

This package implements the circuit breaker pattern used in front of the
browser bridge, so an unreachable browser fails commands fast instead of
stacking up timeouts.

# Features

- Three-state circuit breaker (Closed, Open, Half-Open)
- Consecutive-failure threshold and cooldown
- Single probe in half-open
- Context cancellation does not count as a failure
- State change callbacks for monitoring

# Usage

	breaker := resilience.New("browser-bridge", resilience.Settings{
		FailureThreshold: 5,
		Cooldown:         30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("breaker state", zap.String("from", from.String()), zap.String("to", to.String()))
		},
	})

	windows, err := resilience.Do(breaker, func() ([]types.LiveWindow, error) {
		return bridge.listWindows(ctx)
	})

# States

- Closed: Normal operation, requests pass through
- Open: Service unavailable, requests fail immediately
- Half-Open: One probe request decides whether the service recovered

# Pattern

The circuit breaker transitions between states based on success/failure rates:

	Closed --[failures]-> Open --[cooldown]-> Half-Open --[probe ok]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
