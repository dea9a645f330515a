// Package metrics exposes the service counters in Prometheus format.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Drop reasons, used as the label on DroppedFrames.
const (
	DropNoSession     = "no_session"
	DropNoPartnerConn = "no_partner_conn"
	DropBackpressure  = "backpressure"
)

// Metrics holds the service collectors. A nil *Metrics is valid and records
// nothing, which keeps the core constructible in tests.
type Metrics struct {
	Connections prometheus.Gauge
	Waiting     prometheus.Gauge
	Sessions    prometheus.Gauge
	Matches     prometheus.Counter
	Evictions   prometheus.Counter
	Relayed     *prometheus.CounterVec
	Dropped     *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roulette", Name: "connections",
			Help: "Live websocket connections.",
		}),
		Waiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roulette", Name: "waiting_users",
			Help: "Users currently in the wait queue, all modes.",
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "roulette", Name: "active_sessions",
			Help: "Committed pairings currently alive.",
		}),
		Matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roulette", Name: "matches_total",
			Help: "Pairings committed since start.",
		}),
		Evictions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "roulette", Name: "evictions_total",
			Help: "Connections evicted by a reconnect under the same user id.",
		}),
		Relayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roulette", Name: "relayed_frames_total",
			Help: "Frames forwarded to a partner, by inbound event kind.",
		}, []string{"kind"}),
		Dropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "roulette", Name: "dropped_frames_total",
			Help: "Frames dropped instead of delivered, by reason.",
		}, []string{"reason"}),
	}
	reg.MustRegister(m.Connections, m.Waiting, m.Sessions, m.Matches, m.Evictions, m.Relayed, m.Dropped)
	return m
}

func (m *Metrics) SetConnections(n int) {
	if m == nil {
		return
	}
	m.Connections.Set(float64(n))
}

func (m *Metrics) SetWaiting(n int) {
	if m == nil {
		return
	}
	m.Waiting.Set(float64(n))
}

func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}
	m.Sessions.Set(float64(n))
}

func (m *Metrics) MatchCommitted() {
	if m == nil {
		return
	}
	m.Matches.Inc()
}

func (m *Metrics) ConnEvicted() {
	if m == nil {
		return
	}
	m.Evictions.Inc()
}

func (m *Metrics) FrameRelayed(kind string) {
	if m == nil {
		return
	}
	m.Relayed.WithLabelValues(kind).Inc()
}

func (m *Metrics) FrameDropped(reason string) {
	if m == nil {
		return
	}
	m.Dropped.WithLabelValues(reason).Inc()
}
