// Package metrics keeps operational counters and gauges in an embedded
// time-series store under the application workdir.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/nakabonne/tstorage"
)

const (
	MetricTranslateCalls    = "translate_calls"
	MetricTranslateDegraded = "translate_degraded"
	MetricLocalesCreated    = "locales_created"
	MetricImagesCopied      = "images_copied"
)

var (
	storage  tstorage.Storage
	counters = make(map[string]int64)
	mu       sync.Mutex
)

// InitMetrics opens the metrics partition under workdir.
func InitMetrics(workdir string) error {
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithPartitionDuration(24*time.Hour),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return err
	}
	mu.Lock()
	storage = s
	mu.Unlock()
	return nil
}

// SetGauge records an instantaneous value for a metric.
func SetGauge(name string, value int64) {
	insert(name, float64(value))
}

// Incr adds delta to a monotonically increasing counter and records the
// running total.
func Incr(name string, delta int64) {
	mu.Lock()
	counters[name] += delta
	total := counters[name]
	mu.Unlock()
	insert(name, float64(total))
}

// CounterValue returns the in-process running total for a counter.
func CounterValue(name string) int64 {
	mu.Lock()
	defer mu.Unlock()
	return counters[name]
}

func insert(name string, value float64) {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return
	}
	_ = s.InsertRows([]tstorage.Row{{
		Metric:    name,
		DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
	}})
}

// Summary aggregates a metric over the trailing window.
type Summary struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Last  float64 `json:"last"`
	Mean  float64 `json:"mean"`
	P95   float64 `json:"p95"`
	Max   float64 `json:"max"`
}

// Summarize reads back the trailing window of a metric and aggregates it.
func Summarize(name string, window time.Duration) Summary {
	out := Summary{Name: name}
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return out
	}
	end := time.Now().Unix()
	points, err := s.Select(name, nil, end-int64(window.Seconds()), end)
	if err != nil || len(points) == 0 {
		return out
	}
	values := make([]float64, 0, len(points))
	for _, p := range points {
		values = append(values, p.Value)
	}
	out.Count = len(values)
	out.Last = values[len(values)-1]
	out.Mean, _ = stats.Mean(values)
	out.P95, _ = stats.Percentile(values, 95)
	out.Max, _ = stats.Max(values)
	return out
}

// Close flushes and closes the underlying store.
func Close() {
	mu.Lock()
	s := storage
	storage = nil
	mu.Unlock()
	if s != nil {
		_ = s.Close()
	}
}
