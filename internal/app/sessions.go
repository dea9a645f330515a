package app

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Roulette/internal/domain"
)

// SessionTable maps each paired user to its side of the pairing. Every
// pairing is two mirrored entries created and destroyed together; a user is
// present here if and only if it is currently paired.
// Not safe for concurrent use; the Coordinator serializes access.
type SessionTable struct {
	pairs map[domain.UserID]domain.Pairing
}

func NewSessionTable() *SessionTable {
	return &SessionTable{pairs: make(map[domain.UserID]domain.Pairing)}
}

// Commit writes both sides of the pairing.
func (t *SessionTable) Commit(a, b domain.UserID, sid domain.SessionID, mode domain.Mode) {
	t.pairs[a] = domain.Pairing{Partner: b, SessionID: sid, Mode: mode}
	t.pairs[b] = domain.Pairing{Partner: a, SessionID: sid, Mode: mode}
	log.Info().Str("module", "app.sessions").Str("user", string(a)).
		Str("partner", string(b)).Str("session", string(sid)).
		Str("mode", string(mode)).Msg("session committed")
}

func (t *SessionTable) Lookup(uid domain.UserID) (domain.Pairing, bool) {
	p, ok := t.pairs[uid]
	return p, ok
}

// Dissolve removes uid's entry and its partner's. The partner entry is only
// removed while it still points back at uid, so a partner that has since
// rematched keeps its new pairing. Dissolving an unpaired user is a no-op.
func (t *SessionTable) Dissolve(uid domain.UserID) (domain.Pairing, bool) {
	p, ok := t.pairs[uid]
	if !ok {
		return domain.Pairing{}, false
	}
	delete(t.pairs, uid)
	if back, ok := t.pairs[p.Partner]; ok && back.Partner == uid {
		delete(t.pairs, p.Partner)
	}
	log.Info().Str("module", "app.sessions").Str("user", string(uid)).
		Str("session", string(p.SessionID)).Msg("session dissolved")
	return p, true
}

// Len counts entries; live pairings are Len()/2.
func (t *SessionTable) Len() int { return len(t.pairs) }
