package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// 知识追踪指标
	MasteryUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mastery_updates_total",
			Help: "Mastery updates applied, by difficulty band and correctness",
		},
		[]string{"band", "correct"},
	)

	DegenerateUpdates = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mastery_degenerate_updates_total",
			Help: "Updates whose evidence step had a zero denominator",
		},
	)

	MasteryChange = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "mastery_change",
			Help:    "Signed change in mastery per update",
			Buckets: []float64{-0.5, -0.25, -0.1, -0.05, 0, 0.05, 0.1, 0.25, 0.5},
		},
	)

	QuestionSelections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "question_selections_total",
			Help: "Question selector calls, by outcome",
		},
		[]string{"outcome"},
	)

	AssessmentsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessments_completed_total",
			Help: "Completed assessments, by subject",
		},
		[]string{"subject"},
	)

	registerOnce sync.Once
)

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			MasteryUpdates,
			DegenerateUpdates,
			MasteryChange,
			QuestionSelections,
			AssessmentsCompleted,
		)
	})
}

// ObserveMasteryUpdate 记录一次掌握度更新
func ObserveMasteryUpdate(band string, correct bool, change float64, degenerate bool) {
	MasteryUpdates.WithLabelValues(band, strconv.FormatBool(correct)).Inc()
	MasteryChange.Observe(change)
	if degenerate {
		DegenerateUpdates.Inc()
	}
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		RequestCounter.WithLabelValues(
			c.Request.Method,
			endpoint,
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			endpoint,
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
