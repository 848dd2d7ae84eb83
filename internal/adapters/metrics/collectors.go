package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// ToolMetricsCollector handles MCP tool invocation metrics
type ToolMetricsCollector struct {
	toolInvocationsTotal *prometheus.CounterVec
	toolDuration         *prometheus.HistogramVec
}

// NewToolMetricsCollector creates a new tool metrics collector
func NewToolMetricsCollector() *ToolMetricsCollector {
	return &ToolMetricsCollector{
		toolInvocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tool_invocations_total",
				Help:      "Total number of MCP tool invocations by tool and outcome",
			},
			[]string{"tool", "outcome"},
		),
		toolDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "tool_duration_seconds",
				Help:      "MCP tool handler duration distribution",
				Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 15.0},
			},
			[]string{"tool"},
		),
	}
}

// Register registers tool metrics with the Prometheus registry
func (c *ToolMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}
	for _, metric := range []prometheus.Collector{c.toolInvocationsTotal, c.toolDuration} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordToolInvocation records one tool call
func (c *ToolMetricsCollector) RecordToolInvocation(tool string, isError bool, duration float64) {
	outcome := "ok"
	if isError {
		outcome = "error"
	}
	c.toolInvocationsTotal.WithLabelValues(tool, outcome).Inc()
	c.toolDuration.WithLabelValues(tool).Observe(duration)
}

// FIOMetricsCollector handles FIO API request metrics
type FIOMetricsCollector struct {
	fioRequestsTotal   *prometheus.CounterVec
	fioRequestDuration *prometheus.HistogramVec
	fioRetries         *prometheus.CounterVec
}

// NewFIOMetricsCollector creates a new FIO metrics collector
func NewFIOMetricsCollector() *FIOMetricsCollector {
	return &FIOMetricsCollector{
		fioRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fio_requests_total",
				Help:      "Total number of FIO API requests by method, path, and status code",
			},
			[]string{"method", "path", "status_code"},
		),
		fioRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fio_request_duration_seconds",
				Help:      "FIO API request duration distribution",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			},
			[]string{"method", "path"},
		),
		fioRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "fio_retries_total",
				Help:      "Total number of FIO API retry attempts",
			},
			[]string{"method", "path", "reason"},
		),
	}
}

// Register registers FIO metrics with the Prometheus registry
func (c *FIOMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, metric := range []prometheus.Collector{c.fioRequestsTotal, c.fioRequestDuration, c.fioRetries} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordFIORequest records an FIO API request completion
func (c *FIOMetricsCollector) RecordFIORequest(method, path string, statusCode int, duration float64) {
	c.fioRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	c.fioRequestDuration.WithLabelValues(method, path).Observe(duration)
}

// RecordFIORetry records an FIO API retry attempt
func (c *FIOMetricsCollector) RecordFIORetry(method, path, reason string) {
	c.fioRetries.WithLabelValues(method, path, reason).Inc()
}

// CacheMetricsCollector handles catalog cache metrics
type CacheMetricsCollector struct {
	cacheRefreshesTotal *prometheus.CounterVec
	cacheEntries        *prometheus.GaugeVec
}

// NewCacheMetricsCollector creates a new cache metrics collector
func NewCacheMetricsCollector() *CacheMetricsCollector {
	return &CacheMetricsCollector{
		cacheRefreshesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_refreshes_total",
				Help:      "Total number of catalog cache refreshes by cache type",
			},
			[]string{"cache"},
		),
		cacheEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_entries",
				Help:      "Number of entries per catalog cache",
			},
			[]string{"cache"},
		),
	}
}

// Register registers cache metrics with the Prometheus registry
func (c *CacheMetricsCollector) Register() error {
	if Registry == nil {
		return nil
	}
	for _, metric := range []prometheus.Collector{c.cacheRefreshesTotal, c.cacheEntries} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordCacheRefresh records one cache refresh and the resulting size
func (c *CacheMetricsCollector) RecordCacheRefresh(cacheType string, count int) {
	c.cacheRefreshesTotal.WithLabelValues(cacheType).Inc()
	c.cacheEntries.WithLabelValues(cacheType).Set(float64(count))
}
