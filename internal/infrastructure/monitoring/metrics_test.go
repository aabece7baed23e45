package monitoring

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsIsolatedRegistries(t *testing.T) {
	// two collectors in one process must not collide
	a := NewMetrics()
	b := NewMetrics()

	a.IncSessionsRestored()

	assert.Equal(t, float64(1), testutil.ToFloat64(a.SessionsRestored))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.SessionsRestored))
}

func TestRecordSessionWrite(t *testing.T) {
	m := NewMetrics()

	m.RecordSessionWrite("manual", 4, 0)
	m.RecordSessionWrite("auto", 5, 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.SessionsSaved.WithLabelValues("manual")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SessionsSaved.WithLabelValues("auto")))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.SessionsStored))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SessionsEvicted))
}

func TestNilMetricsSafe(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordCommand("GET_SESSIONS", "ok", time.Millisecond)
		m.RecordAutosaveTrigger("alarm", "ran")
		m.RecordRestoreStepFailure("create_tab")
		m.AddTabsAdded(3)
		m.IncWSConnections()
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	router := gin.New()
	router.Use(Middleware(m))
	router.GET("/sessions/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/abc", nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/sessions/:id", "204")))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "sessiond_http_requests_total"))
}
