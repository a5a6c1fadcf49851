package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func NewHTTPMetrics() *HTTPMetrics {
	return &HTTPMetrics{
		requests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "shopd_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "shopd_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func GinMiddleware(m *HTTPMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

type SweepMetrics struct {
	RemindersSent prometheus.Counter
	SweepErrors   prometheus.Counter
	SweepDuration prometheus.Histogram
}

func NewSweepMetrics() *SweepMetrics {
	return &SweepMetrics{
		RemindersSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopd_reminders_sent_total",
			Help: "Payment reminder emails delivered.",
		}),
		SweepErrors: promauto.NewCounter(prometheus.CounterOpts{
			Name: "shopd_reminder_sweep_errors_total",
			Help: "Reminder sweeps aborted by a send failure.",
		}),
		SweepDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "shopd_reminder_sweep_duration_seconds",
			Help:    "Duration of a full reminder sweep.",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

var Module = fx.Module("observability.metrics",
	fx.Provide(NewHTTPMetrics),
	fx.Provide(NewSweepMetrics),
)
