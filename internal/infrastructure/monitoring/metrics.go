package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics. Each instance owns its registry so
// several servers (or tests) can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Command metrics
	CommandsTotal   *prometheus.CounterVec
	CommandDuration *prometheus.HistogramVec

	// Session metrics
	SessionsStored      prometheus.Gauge
	SessionsSaved       *prometheus.CounterVec
	SessionsRestored    prometheus.Counter
	SessionsEvicted     prometheus.Counter
	TabsAdded           prometheus.Counter
	RestoreStepFailures *prometheus.CounterVec

	// Autosave metrics
	AutosaveTriggers *prometheus.CounterVec

	// Browser bridge metrics
	BridgeCalls    *prometheus.CounterVec
	BridgeDuration *prometheus.HistogramVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	Uptime    prometheus.GaugeFunc
	startTime time.Time
}

// NewMetrics creates a new metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessiond_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sessiond_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),

		CommandsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessiond_commands_total",
				Help: "Total number of dispatched commands",
			},
			[]string{"type", "status"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sessiond_command_duration_seconds",
				Help:    "Command duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"type"},
		),

		SessionsStored: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sessiond_sessions_stored",
				Help: "Number of sessions in the repository after the last write",
			},
		),
		SessionsSaved: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessiond_sessions_saved_total",
				Help: "Total number of session writes",
			},
			[]string{"source"},
		),
		SessionsRestored: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sessiond_sessions_restored_total",
				Help: "Total number of sessions restored",
			},
		),
		SessionsEvicted: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sessiond_sessions_evicted_total",
				Help: "Total number of sessions dropped by retention",
			},
		),
		TabsAdded: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "sessiond_tabs_added_total",
				Help: "Total number of tabs appended to existing sessions",
			},
		),
		RestoreStepFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessiond_restore_step_failures_total",
				Help: "Restore steps that failed and were skipped",
			},
			[]string{"step"},
		),

		AutosaveTriggers: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessiond_autosave_triggers_total",
				Help: "Autosave triggers by reason and outcome",
			},
			[]string{"reason", "outcome"},
		),

		BridgeCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessiond_bridge_calls_total",
				Help: "Browser bridge calls",
			},
			[]string{"op", "status"},
		),
		BridgeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sessiond_bridge_duration_seconds",
				Help:    "Browser bridge call duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"op"},
		),

		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "sessiond_ws_connections",
				Help: "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sessiond_ws_messages_total",
				Help: "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	m.Uptime = factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "sessiond_uptime_seconds",
			Help: "Service uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	return m
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCommand records a dispatched command
func (m *Metrics) RecordCommand(cmdType, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.CommandsTotal.WithLabelValues(cmdType, status).Inc()
	m.CommandDuration.WithLabelValues(cmdType).Observe(duration.Seconds())
}

// RecordSessionWrite records a repository write
func (m *Metrics) RecordSessionWrite(source string, stored, evicted int) {
	if m == nil {
		return
	}
	m.SessionsSaved.WithLabelValues(source).Inc()
	m.SessionsStored.Set(float64(stored))
	if evicted > 0 {
		m.SessionsEvicted.Add(float64(evicted))
	}
}

// SetSessionsStored sets the repository size gauge
func (m *Metrics) SetSessionsStored(count int) {
	if m == nil {
		return
	}
	m.SessionsStored.Set(float64(count))
}

// IncSessionsRestored increments the sessions restored counter
func (m *Metrics) IncSessionsRestored() {
	if m == nil {
		return
	}
	m.SessionsRestored.Inc()
}

// AddTabsAdded counts tabs appended by a merge
func (m *Metrics) AddTabsAdded(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.TabsAdded.Add(float64(n))
}

// RecordRestoreStepFailure counts a skipped restore step
func (m *Metrics) RecordRestoreStepFailure(step string) {
	if m == nil {
		return
	}
	m.RestoreStepFailures.WithLabelValues(step).Inc()
}

// RecordAutosaveTrigger counts an autosave trigger outcome
func (m *Metrics) RecordAutosaveTrigger(reason, outcome string) {
	if m == nil {
		return
	}
	m.AutosaveTriggers.WithLabelValues(reason, outcome).Inc()
}

// RecordBridgeCall records a browser bridge call
func (m *Metrics) RecordBridgeCall(op, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.BridgeCalls.WithLabelValues(op, status).Inc()
	m.BridgeDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	if m == nil {
		return
	}
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Inc()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	if m == nil {
		return
	}
	m.WSConnections.Dec()
}
