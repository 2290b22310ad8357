// Package metrics 定义了服务暴露给 Prometheus 的指标。
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP 请求计数
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuvera",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP 请求耗时
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "neuvera",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	// LLM 调用失败次数
	LLMProviderErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "neuvera",
			Subsystem: "llm",
			Name:      "provider_errors_total",
			Help:      "Total failed calls to the chat completion provider",
		},
	)

	// 埋点写入结果
	TrackingEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "neuvera",
			Subsystem: "tracking",
			Name:      "events_total",
			Help:      "Total tracking events by storage result",
		},
		[]string{"status"},
	)
)

// RecordRequest 记录一次 HTTP 请求。path 应使用路由模板而不是原始 URL。
func RecordRequest(method, path string, status int, elapsed time.Duration) {
	RequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	RequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func RecordProviderError() {
	LLMProviderErrors.Inc()
}

// RecordTrackingEvent status 取 "stored" 或 "failed"。
func RecordTrackingEvent(status string) {
	TrackingEvents.WithLabelValues(status).Inc()
}
