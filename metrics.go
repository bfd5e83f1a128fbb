package weaverfilter

import (
	"sync/atomic"
	"time"
)

// LatencyBuckets defines the transaction-lifetime histogram buckets in
// nanoseconds, carried from the teacher's metrics.go unchanged. They are
// fed only by RecordTransactionLatency; neither the engine nor Runtime
// calls it, so they stay empty unless the embedder records latencies
// itself.
var LatencyBuckets = []uint64{
	1_000,
	10_000,
	100_000,
	1_000_000,
	10_000_000,
	100_000_000,
	1_000_000_000,
	10_000_000_000,
}

const numLatencyBuckets = 8

// Metrics tracks command emission and transaction-lifetime statistics.
// Ported from the teacher's I/O-operation Metrics struct, repurposed
// from read/write/discard/flush counters to the command protocol's
// fixed token set.
type Metrics struct {
	DoneCount atomic.Uint64
	WaitCount atomic.Uint64
	WhdrCount atomic.Uint64
	WbodCount atomic.Uint64
	RbodCount atomic.Uint64
	SwchCount atomic.Uint64

	ChunksInterned atomic.Uint64
	ChunksReleased atomic.Uint64

	TotalLatencyNs atomic.Uint64
	TxnCount       atomic.Uint64
	LatencyBuckets [numLatencyBuckets]atomic.Uint64

	StartTime atomic.Int64
}

// NewMetrics creates a zeroed Metrics instance with its start time set.
func NewMetrics() *Metrics {
	m := &Metrics{}
	m.StartTime.Store(time.Now().UnixNano())
	return m
}

// RecordCommand increments the counter for the given command token's
// 4-letter prefix. Unrecognized tokens are ignored rather than treated
// as an error: metrics are best-effort observability, not protocol
// validation.
func (m *Metrics) RecordCommand(token string) {
	if len(token) < 4 {
		return
	}
	switch token[:4] {
	case "DONE":
		m.DoneCount.Add(1)
	case "WAIT":
		m.WaitCount.Add(1)
	case "WHDR":
		m.WhdrCount.Add(1)
	case "WBOD":
		m.WbodCount.Add(1)
		m.ChunksInterned.Add(1)
	case "RBOD":
		m.RbodCount.Add(1)
	case "SWCH":
		m.SwchCount.Add(1)
		m.ChunksInterned.Add(1)
	}
}

// RecordChunkReleased increments the chunks-released counter.
func (m *Metrics) RecordChunkReleased() { m.ChunksReleased.Add(1) }

// RecordTransactionLatency records the time from Begin* to a
// transaction's terminal command and updates the latency histogram.
func (m *Metrics) RecordTransactionLatency(latencyNs uint64) {
	m.TotalLatencyNs.Add(latencyNs)
	m.TxnCount.Add(1)
	for i, bucket := range LatencyBuckets {
		if latencyNs <= bucket {
			m.LatencyBuckets[i].Add(1)
		}
	}
}

// MetricsSnapshot is a point-in-time read of Metrics.
type MetricsSnapshot struct {
	DoneCount      uint64
	WaitCount      uint64
	WhdrCount      uint64
	WbodCount      uint64
	RbodCount      uint64
	SwchCount      uint64
	ChunksInterned uint64
	ChunksReleased uint64
	AvgLatencyNs   uint64
	UptimeNs       uint64
}

// Snapshot returns a point-in-time snapshot of m.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		DoneCount:      m.DoneCount.Load(),
		WaitCount:      m.WaitCount.Load(),
		WhdrCount:      m.WhdrCount.Load(),
		WbodCount:      m.WbodCount.Load(),
		RbodCount:      m.RbodCount.Load(),
		SwchCount:      m.SwchCount.Load(),
		ChunksInterned: m.ChunksInterned.Load(),
		ChunksReleased: m.ChunksReleased.Load(),
		UptimeNs:       uint64(time.Now().UnixNano() - m.StartTime.Load()),
	}
	if n := m.TxnCount.Load(); n > 0 {
		s.AvgLatencyNs = m.TotalLatencyNs.Load() / n
	}
	return s
}

// Observer lets a host plug in its own collector for engine activity.
// Mirrors the teacher's interfaces.Observer.
type Observer interface {
	ObserveCommand(token string)
}

// NoOpObserver discards everything; the default when a host supplies no
// observer.
type NoOpObserver struct{}

// ObserveCommand implements Observer.
func (NoOpObserver) ObserveCommand(string) {}

// MetricsObserver implements Observer by recording into a Metrics.
type MetricsObserver struct {
	metrics *Metrics
}

// NewMetricsObserver returns an Observer that records into m.
func NewMetricsObserver(m *Metrics) *MetricsObserver {
	return &MetricsObserver{metrics: m}
}

// ObserveCommand implements Observer.
func (o *MetricsObserver) ObserveCommand(token string) {
	o.metrics.RecordCommand(token)
}

var (
	_ Observer = (*MetricsObserver)(nil)
	_ Observer = NoOpObserver{}
)
