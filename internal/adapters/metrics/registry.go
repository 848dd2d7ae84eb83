// Package metrics collects Prometheus metrics for tool invocations, FIO
// API traffic, and cache refreshes. Collection is optional: when the
// registry is not initialized every recording call is a no-op.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "prun"
	// Subsystem for MCP server metrics
	subsystem = "mcp"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalToolCollector is set by SetGlobalToolCollector when metrics
	// are enabled
	globalToolCollector ToolMetricsRecorder

	// globalFIOCollector is set by SetGlobalFIOCollector when metrics
	// are enabled
	globalFIOCollector FIOMetricsRecorder

	// globalCacheCollector is set by SetGlobalCacheCollector when
	// metrics are enabled
	globalCacheCollector CacheMetricsRecorder
)

// ToolMetricsRecorder records MCP tool invocation metrics
type ToolMetricsRecorder interface {
	RecordToolInvocation(tool string, isError bool, duration float64)
}

// FIOMetricsRecorder records FIO API request metrics
type FIOMetricsRecorder interface {
	RecordFIORequest(method, path string, statusCode int, duration float64)
	RecordFIORetry(method, path, reason string)
}

// CacheMetricsRecorder records catalog cache metrics
type CacheMetricsRecorder interface {
	RecordCacheRefresh(cacheType string, count int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalToolCollector sets the global tool metrics collector
func SetGlobalToolCollector(collector ToolMetricsRecorder) {
	globalToolCollector = collector
}

// RecordToolInvocation records an MCP tool invocation globally
func RecordToolInvocation(tool string, isError bool, duration float64) {
	if globalToolCollector != nil {
		globalToolCollector.RecordToolInvocation(tool, isError, duration)
	}
}

// SetGlobalFIOCollector sets the global FIO metrics collector
func SetGlobalFIOCollector(collector FIOMetricsRecorder) {
	globalFIOCollector = collector
}

// RecordFIORequest records a completed FIO API request globally
func RecordFIORequest(method, path string, statusCode int, duration float64) {
	if globalFIOCollector != nil {
		globalFIOCollector.RecordFIORequest(method, path, statusCode, duration)
	}
}

// RecordFIORetry records an FIO API retry attempt globally
func RecordFIORetry(method, path, reason string) {
	if globalFIOCollector != nil {
		globalFIOCollector.RecordFIORetry(method, path, reason)
	}
}

// SetGlobalCacheCollector sets the global cache metrics collector
func SetGlobalCacheCollector(collector CacheMetricsRecorder) {
	globalCacheCollector = collector
}

// RecordCacheRefresh records a catalog cache refresh globally
func RecordCacheRefresh(cacheType string, count int) {
	if globalCacheCollector != nil {
		globalCacheCollector.RecordCacheRefresh(cacheType, count)
	}
}
