package adminapi

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/craftista/storefront/internal/webserver"
	"github.com/craftista/storefront/pkg/metrics"
)

// registerMetricsRoutes registers the operational metrics endpoint
func registerMetricsRoutes() {
	webserver.ApiGET("/metrics/summary", metricsSummary)
}

func metricsSummary(c echo.Context) error {
	const window = 24 * time.Hour
	return ok(c, map[string]interface{}{
		"counters": map[string]int64{
			metrics.MetricTranslateCalls:    metrics.CounterValue(metrics.MetricTranslateCalls),
			metrics.MetricTranslateDegraded: metrics.CounterValue(metrics.MetricTranslateDegraded),
			metrics.MetricLocalesCreated:    metrics.CounterValue(metrics.MetricLocalesCreated),
			metrics.MetricImagesCopied:      metrics.CounterValue(metrics.MetricImagesCopied),
		},
		"gauges": []metrics.Summary{
			metrics.Summarize("system_cpuuse", window),
			metrics.Summarize("system_memuse", window),
			metrics.Summarize("process_cpuuse", window),
			metrics.Summarize("process_memuse", window),
		},
	})
}
