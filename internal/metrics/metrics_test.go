package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.MatchCommitted()
	m.MatchCommitted()
	m.FrameRelayed("offer")
	m.FrameDropped(DropNoSession)
	m.SetWaiting(3)

	require.Equal(t, float64(2), testutil.ToFloat64(m.Matches))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Relayed.WithLabelValues("offer")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.Dropped.WithLabelValues(DropNoSession)))
	require.Equal(t, float64(3), testutil.ToFloat64(m.Waiting))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.MatchCommitted()
	m.ConnEvicted()
	m.FrameRelayed("answer")
	m.FrameDropped(DropBackpressure)
	m.SetConnections(1)
	m.SetWaiting(1)
	m.SetSessions(1)
}
