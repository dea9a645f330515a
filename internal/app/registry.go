package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
)

// Binding ties one live connection to the identity it presented at
// handshake time.
type Binding struct {
	Conn    core.ConnID
	Profile *domain.Profile
	Signal  core.SignalConnection
}

// Registry tracks live connections by conn id and by user id, so routing a
// frame to a user is a map lookup, not a scan over every connection.
// It carries no lock of its own: the Coordinator serializes all access
// together with the wait queue and the session table.
type Registry struct {
	byConn map[core.ConnID]*Binding
	byUser map[domain.UserID]*Binding
}

func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[core.ConnID]*Binding),
		byUser: make(map[domain.UserID]*Binding),
	}
}

// Register binds a connection. If the user id is already bound to another
// live connection the older one is evicted and returned so the caller can
// close it; queue and session state is keyed by user id and stays put.
func (r *Registry) Register(b *Binding) (evicted *Binding) {
	uid := b.Profile.UserID
	if old, ok := r.byUser[uid]; ok && old.Conn != b.Conn {
		delete(r.byConn, old.Conn)
		evicted = old
		log.Warn().Str("module", "app.registry").Str("user", string(uid)).
			Str("old_conn", string(old.Conn)).Str("conn", string(b.Conn)).
			Msg("evicting stale connection for user")
	}
	r.byConn[b.Conn] = b
	r.byUser[uid] = b
	log.Info().Str("module", "app.registry").Str("conn", string(b.Conn)).
		Str("user", string(uid)).Str("mode", string(b.Profile.Mode)).
		Str("origin", b.Profile.Origin).Msg("registered connection")
	return evicted
}

// Unregister removes the connection and reports whether it still owned its
// user id. A conn id that was already shadowed by a newer connection for
// the same user yields false: the caller must leave user state alone.
func (r *Registry) Unregister(id core.ConnID) (*Binding, bool) {
	b, ok := r.byConn[id]
	if !ok {
		return nil, false
	}
	delete(r.byConn, id)
	if cur, ok := r.byUser[b.Profile.UserID]; ok && cur.Conn == id {
		delete(r.byUser, b.Profile.UserID)
		log.Info().Str("module", "app.registry").Str("conn", string(id)).
			Str("user", string(b.Profile.UserID)).Msg("unregistered connection")
		return b, true
	}
	return nil, false
}

// ByConn resolves a live connection by its transport id.
func (r *Registry) ByConn(id core.ConnID) (*Binding, bool) {
	b, ok := r.byConn[id]
	return b, ok
}

// ByUser resolves the connection a user's frames should be delivered to.
func (r *Registry) ByUser(uid domain.UserID) (*Binding, bool) {
	b, ok := r.byUser[uid]
	return b, ok
}

func (r *Registry) Len() int { return len(r.byConn) }
