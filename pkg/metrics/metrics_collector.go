package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector 指标收集器
type MetricsCollector struct {
	// HTTP 指标
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpRequestSize     *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// 上游平台指标
	upstreamRequestsTotal   *prometheus.CounterVec
	upstreamRequestDuration *prometheus.HistogramVec
	fallbacksTotal          *prometheus.CounterVec

	// 本地副本缓存指标
	cacheHitsTotal   *prometheus.CounterVec
	cacheMissesTotal *prometheus.CounterVec

	// 仪表盘业务指标
	dashboardOrdersTotal    prometheus.Gauge
	dashboardRevenueTotal   prometheus.Gauge
	dashboardPendingOrders  prometheus.Gauge
	dashboardConversionRate prometheus.Gauge
	dashboardEstimatedFees  prometheus.Gauge
	dashboardLastRefresh    prometheus.Gauge
}

// NewMetricsCollector 创建指标收集器
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		// HTTP 指标
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		httpResponseSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		// 上游平台指标
		upstreamRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_requests_total",
				Help: "Total number of upstream API requests",
			},
			[]string{"operation", "status"},
		),

		upstreamRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "upstream_request_duration_seconds",
				Help:    "Upstream API request duration in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 10.0},
			},
			[]string{"operation"},
		),

		fallbacksTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "persistence_fallbacks_total",
				Help: "Total number of operations served by the local copy after a remote failure",
			},
			[]string{"operation"},
		),

		// 本地副本缓存指标
		cacheHitsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_hits_total",
				Help: "Total number of cache hits",
			},
			[]string{"key"},
		),

		cacheMissesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cache_misses_total",
				Help: "Total number of cache misses",
			},
			[]string{"key"},
		),

		// 仪表盘业务指标
		dashboardOrdersTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paylink_dashboard_orders_total",
				Help: "Total orders in the current dashboard scope",
			},
		),

		dashboardRevenueTotal: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paylink_dashboard_revenue_total",
				Help: "Completed-only revenue in the current dashboard scope",
			},
		),

		dashboardPendingOrders: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paylink_dashboard_pending_orders",
				Help: "Pending orders in the current dashboard scope",
			},
		),

		dashboardConversionRate: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paylink_dashboard_conversion_rate",
				Help: "Completed/total ratio as a percentage in the current dashboard scope",
			},
		),

		dashboardEstimatedFees: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paylink_dashboard_estimated_fees",
				Help: "Estimated fees derived from effective store fee settings",
			},
		),

		dashboardLastRefresh: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "paylink_dashboard_last_refresh_timestamp",
				Help: "Unix timestamp of the last successful dashboard refresh",
			},
		),
	}
}

// RecordHTTPRequest 记录 HTTP 请求指标
func (m *MetricsCollector) RecordHTTPRequest(method, endpoint, status string, duration time.Duration, requestSize, responseSize int) {
	m.httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
	m.httpRequestSize.WithLabelValues(method, endpoint).Observe(float64(requestSize))
	m.httpResponseSize.WithLabelValues(method, endpoint).Observe(float64(responseSize))
}

// RecordUpstreamRequest 记录上游 API 调用指标
func (m *MetricsCollector) RecordUpstreamRequest(operation, status string, duration time.Duration) {
	m.upstreamRequestsTotal.WithLabelValues(operation, status).Inc()
	m.upstreamRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordFallback 记录一次降级到本地副本的操作
func (m *MetricsCollector) RecordFallback(operation string) {
	m.fallbacksTotal.WithLabelValues(operation).Inc()
}

// RecordCacheLookup 记录本地副本读取的命中情况
func (m *MetricsCollector) RecordCacheLookup(key string, hit bool) {
	if hit {
		m.cacheHitsTotal.WithLabelValues(key).Inc()
	} else {
		m.cacheMissesTotal.WithLabelValues(key).Inc()
	}
}

// UpdateDashboard 更新仪表盘业务指标
func (m *MetricsCollector) UpdateDashboard(totalOrders int, totalRevenue float64, pendingOrders int, conversionRate float64, estimatedFees float64) {
	m.dashboardOrdersTotal.Set(float64(totalOrders))
	m.dashboardRevenueTotal.Set(totalRevenue)
	m.dashboardPendingOrders.Set(float64(pendingOrders))
	m.dashboardConversionRate.Set(conversionRate)
	m.dashboardEstimatedFees.Set(estimatedFees)
	m.dashboardLastRefresh.SetToCurrentTime()
}

// GetStatusCategory 获取状态码分类
func GetStatusCategory(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	case status >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

// 全局指标收集器实例
var GlobalCollector *MetricsCollector

// InitMetrics 初始化全局指标收集器
func InitMetrics() {
	GlobalCollector = NewMetricsCollector()
}

// GetGlobalCollector 获取全局指标收集器
func GetGlobalCollector() *MetricsCollector {
	if GlobalCollector == nil {
		InitMetrics()
	}
	return GlobalCollector
}
