package stabgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    openCounter   prometheus.Counter
//	    openHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordOpen(duration time.Duration, err error) {
//	    p.openCounter.Inc()
//	    // ... record error state, duration, etc.
//	}
type MetricsCollector interface {
	// RecordOpen is called after each Library.Open, including resolution.
	// duration is the total time taken, err is nil if successful.
	RecordOpen(duration time.Duration, err error)

	// RecordClose is called when a table is closed.
	RecordClose()

	// RecordDistribution is called after each Table.Distribution.
	// bins is the number of bins of the result (0 on error).
	RecordDistribution(bins int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOpen(time.Duration, error)              {}
func (NoopMetricsCollector) RecordClose()                                 {}
func (NoopMetricsCollector) RecordDistribution(int, time.Duration, error) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	OpenCount              atomic.Int64
	OpenErrors             atomic.Int64
	OpenTotalNanos         atomic.Int64
	CloseCount             atomic.Int64
	DistributionCount      atomic.Int64
	DistributionErrors     atomic.Int64
	DistributionBins       atomic.Int64
	DistributionTotalNanos atomic.Int64
}

// RecordOpen implements MetricsCollector.
func (b *BasicMetricsCollector) RecordOpen(duration time.Duration, err error) {
	b.OpenCount.Add(1)
	b.OpenTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.OpenErrors.Add(1)
	}
}

// RecordClose implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClose() {
	b.CloseCount.Add(1)
}

// RecordDistribution implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDistribution(bins int, duration time.Duration, err error) {
	b.DistributionCount.Add(1)
	b.DistributionBins.Add(int64(bins))
	b.DistributionTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.DistributionErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		OpenCount:            b.OpenCount.Load(),
		OpenErrors:           b.OpenErrors.Load(),
		OpenAvgNanos:         avg(b.OpenTotalNanos.Load(), b.OpenCount.Load()),
		OpenTables:           b.OpenCount.Load() - b.OpenErrors.Load() - b.CloseCount.Load(),
		DistributionCount:    b.DistributionCount.Load(),
		DistributionErrors:   b.DistributionErrors.Load(),
		DistributionBins:     b.DistributionBins.Load(),
		DistributionAvgNanos: avg(b.DistributionTotalNanos.Load(), b.DistributionCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	OpenCount            int64
	OpenErrors           int64
	OpenAvgNanos         int64
	OpenTables           int64
	DistributionCount    int64
	DistributionErrors   int64
	DistributionBins     int64
	DistributionAvgNanos int64
}
