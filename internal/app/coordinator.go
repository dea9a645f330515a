package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/metrics"
)

// Coordinator reacts to connection lifecycle events and keeps the registry,
// wait queue and session table mutually consistent. One mutex guards all
// three: a match touches queue, table and registry together, so
// per-structure locks would leave windows where two attempts claim the same
// waiting user. TrySend never blocks, so notifications are issued inside
// the critical section and a partner is notified exactly once per event.
type Coordinator struct {
	mu sync.Mutex

	registry *Registry
	queue    *WaitQueue
	table    *SessionTable
	engine   *MatchEngine

	metrics *metrics.Metrics
}

func NewCoordinator(m *metrics.Metrics) *Coordinator {
	queue := NewWaitQueue()
	table := NewSessionTable()
	return &Coordinator{
		registry: NewRegistry(),
		queue:    queue,
		table:    table,
		engine:   NewMatchEngine(queue, table),
		metrics:  m,
	}
}

// Connect registers a new connection. A reconnect under the same user id
// evicts the previous connection; queued or paired state stays with the
// user and delivery moves to the new connection.
func (c *Coordinator) Connect(b *Binding) {
	c.mu.Lock()
	evicted := c.registry.Register(b)
	c.syncGauges()
	c.mu.Unlock()

	if evicted != nil {
		evicted.Signal.Close()
		c.metrics.ConnEvicted()
	}
}

// FindMatch runs one matching attempt for the connection. The caller side
// gets "waiting" or "matched"; a matched partner is notified here too.
// find-match from a user that is already paired is a no-op.
func (c *Coordinator) FindMatch(id core.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.registry.ByConn(id)
	if !ok {
		return
	}
	uid := b.Profile.UserID
	if _, paired := c.table.Lookup(uid); paired {
		log.Debug().Str("module", "app.coordinator").Str("user", string(uid)).
			Msg("find-match while paired, ignored")
		return
	}

	res := c.engine.TryMatch(b)
	if !res.Matched {
		c.deliver(b, core.NewWaiting())
		c.syncGauges()
		log.Info().Str("module", "app.coordinator").Str("user", string(uid)).
			Str("mode", string(b.Profile.Mode)).Msg("waiting for partner")
		return
	}

	partner := res.Partner.Profile.UserID
	c.deliver(b, core.NewMatched(partner, res.SessionID))
	// The queued binding may predate a reconnect; deliver to the partner's
	// current connection.
	if live, ok := c.registry.ByUser(partner); ok {
		c.deliver(live, core.NewMatched(uid, res.SessionID))
	}
	c.metrics.MatchCommitted()
	c.syncGauges()
	log.Info().Str("module", "app.coordinator").Str("user", string(uid)).
		Str("partner", string(partner)).Str("session", string(res.SessionID)).
		Msg("matched")
}

// Relay forwards an already-encoded frame from the sender to its current
// partner, untouched. Both misses (no session, no live partner connection)
// drop the frame silently: cleanup racing an in-flight frame is normal.
func (c *Coordinator) Relay(id core.ConnID, kind string, frame core.Frame) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.registry.ByConn(id)
	if !ok {
		return false
	}
	p, ok := c.table.Lookup(b.Profile.UserID)
	if !ok {
		c.metrics.FrameDropped(metrics.DropNoSession)
		return false
	}
	partner, ok := c.registry.ByUser(p.Partner)
	if !ok {
		c.metrics.FrameDropped(metrics.DropNoPartnerConn)
		log.Debug().Str("module", "app.coordinator").Str("user", string(b.Profile.UserID)).
			Str("partner", string(p.Partner)).Msg("relay target has no live connection")
		return false
	}
	if err := partner.Signal.TrySend(frame); err != nil {
		c.metrics.FrameDropped(metrics.DropBackpressure)
		return false
	}
	c.metrics.FrameRelayed(kind)
	return true
}

// Skip ends the current pairing. The partner gets "partner-skipped", the
// skipper gets the "skipped" ack either way, and neither side is requeued:
// clients issue a fresh find-match when they want a new partner.
func (c *Coordinator) Skip(id core.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, ok := c.registry.ByConn(id)
	if !ok {
		return
	}
	if p, ok := c.table.Dissolve(b.Profile.UserID); ok {
		if partner, ok := c.registry.ByUser(p.Partner); ok {
			c.deliver(partner, core.NewControl(core.EvPartnerSkipped))
		}
		c.syncGauges()
	}
	c.deliver(b, core.NewControl(core.EvSkipped))
}

// Disconnect tears down whatever state the connection still owns. A stale
// connection that was evicted by a reconnect unwinds nothing: the user id
// now belongs to the newer connection.
func (c *Coordinator) Disconnect(id core.ConnID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b, owned := c.registry.Unregister(id)
	if !owned {
		c.syncGauges()
		return
	}
	uid := b.Profile.UserID
	c.queue.RemoveUser(uid)
	if p, ok := c.table.Dissolve(uid); ok {
		if partner, ok := c.registry.ByUser(p.Partner); ok {
			c.deliver(partner, core.NewControl(core.EvPartnerDisconnected))
		}
	}
	c.syncGauges()
}

// Stats is a read-only snapshot for the HTTP surface.
type Stats struct {
	Connections    int `json:"connections"`
	Waiting        int `json:"waiting"`
	ActiveSessions int `json:"activeSessions"`
}

func (c *Coordinator) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Connections:    c.registry.Len(),
		Waiting:        c.queue.Len(),
		ActiveSessions: c.table.Len() / 2,
	}
}

// deliver pushes a core event to one side; a full send buffer means the
// frame is dropped, never that the coordinator stalls.
func (c *Coordinator) deliver(b *Binding, f core.Frame) {
	if err := b.Signal.TrySend(f); err != nil {
		c.metrics.FrameDropped(metrics.DropBackpressure)
		log.Warn().Err(err).Str("module", "app.coordinator").
			Str("user", string(b.Profile.UserID)).Msg("event dropped")
	}
}

// syncGauges is called with the lock held after every mutation.
func (c *Coordinator) syncGauges() {
	c.metrics.SetConnections(c.registry.Len())
	c.metrics.SetWaiting(c.queue.Len())
	c.metrics.SetSessions(c.table.Len() / 2)
}
