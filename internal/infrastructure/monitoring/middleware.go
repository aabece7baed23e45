package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection.
// Paths are recorded by route template to keep label cardinality bounded.
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Timer measures a command's duration
type Timer struct {
	start   time.Time
	metrics *Metrics
	cmdType string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, cmdType string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		cmdType: cmdType,
	}
}

// Stop stops the timer and records the duration
func (t *Timer) Stop(status string) {
	t.metrics.RecordCommand(t.cmdType, status, time.Since(t.start))
}
