/*
Package monitoring provides Prometheus metrics for the session service.

# Overview

Each Metrics value owns a private registry exposed through Handler, so the
/metrics endpoint only reports this service's collectors plus Go runtime and
process stats.

# Features

- HTTP request metrics (latency, status)
- Command metrics by command type
- Session repository size, writes, evictions and restores
- Restore step failures by step
- Autosave trigger outcomes (ran, spaced, disabled, failed)
- Browser bridge call latency and status
- WebSocket connection metrics

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	timer := monitoring.NewTimer(metrics, "SAVE_CURRENT_SESSION")
	defer timer.Stop("ok")

All recording methods are safe to call on a nil *Metrics.
*/
package monitoring
