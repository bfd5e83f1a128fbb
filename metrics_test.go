package weaverfilter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRecordCommandCountsByToken(t *testing.T) {
	m := NewMetrics()
	m.RecordCommand("DONE")
	m.RecordCommand("WAIT")
	m.RecordCommand("WHDR\nfoo: bar\n\n")
	m.RecordCommand("WBODa")
	m.RecordCommand("RBOD")
	m.RecordCommand("SWCHa 200")

	snap := m.Snapshot()
	require.Equal(t, uint64(1), snap.DoneCount)
	require.Equal(t, uint64(1), snap.WaitCount)
	require.Equal(t, uint64(1), snap.WhdrCount)
	require.Equal(t, uint64(1), snap.WbodCount)
	require.Equal(t, uint64(1), snap.RbodCount)
	require.Equal(t, uint64(1), snap.SwchCount)
}

func TestRecordCommandTracksChunksInterned(t *testing.T) {
	m := NewMetrics()
	m.RecordCommand("WBODa")
	m.RecordCommand("SWCHb 200")
	m.RecordCommand("DONE")

	require.Equal(t, uint64(2), m.Snapshot().ChunksInterned)
}

func TestRecordCommandIgnoresShortTokens(t *testing.T) {
	m := NewMetrics()
	m.RecordCommand("XY")
	snap := m.Snapshot()
	require.Zero(t, snap.DoneCount+snap.WaitCount+snap.WhdrCount+snap.WbodCount+snap.RbodCount+snap.SwchCount)
}

func TestRecordChunkReleased(t *testing.T) {
	m := NewMetrics()
	m.RecordChunkReleased()
	m.RecordChunkReleased()
	require.Equal(t, uint64(2), m.Snapshot().ChunksReleased)
}

func TestRecordTransactionLatencyBucketsAndAverages(t *testing.T) {
	m := NewMetrics()
	m.RecordTransactionLatency(500)
	m.RecordTransactionLatency(1_500_000)

	snap := m.Snapshot()
	require.Equal(t, uint64(750_250), snap.AvgLatencyNs)
	require.Equal(t, uint64(1), m.LatencyBuckets[0].Load())
}

func TestMetricsObserverDelegatesToMetrics(t *testing.T) {
	m := NewMetrics()
	obs := NewMetricsObserver(m)
	obs.ObserveCommand("DONE")
	require.Equal(t, uint64(1), m.Snapshot().DoneCount)
}

func TestNoOpObserverDiscardsEverything(t *testing.T) {
	var obs Observer = NoOpObserver{}
	obs.ObserveCommand("DONE")
}
