package app

import (
	"github.com/google/uuid"

	"github.com/dkeye/Roulette/internal/domain"
)

// MatchEngine owns the pairing decision: scan the queue, claim the first
// eligible entry and commit both session entries as one unit.
type MatchEngine struct {
	queue *WaitQueue
	table *SessionTable
}

func NewMatchEngine(queue *WaitQueue, table *SessionTable) *MatchEngine {
	return &MatchEngine{queue: queue, table: table}
}

// MatchResult is either a committed pairing or the zero value, meaning the
// candidate was enqueued and waits. A miss is a normal outcome, not an
// error.
type MatchResult struct {
	Matched   bool
	SessionID domain.SessionID
	Partner   *Binding
}

// TryMatch pairs the candidate with the earliest compatible waiting user.
// On a miss the candidate is enqueued instead. The caller holds the
// coordinator lock, so scan, claim and commit cannot interleave with
// another match attempt.
func (e *MatchEngine) TryMatch(candidate *Binding) MatchResult {
	hit, ok := e.queue.FindMatchFor(candidate.Profile)
	if !ok {
		e.queue.Enqueue(candidate)
		return MatchResult{}
	}
	e.queue.RemoveUser(hit.Profile.UserID)
	sid := NewSessionID()
	e.table.Commit(candidate.Profile.UserID, hit.Profile.UserID, sid, candidate.Profile.Mode)
	return MatchResult{Matched: true, SessionID: sid, Partner: hit}
}

// NewSessionID returns a collision-resistant random session token.
func NewSessionID() domain.SessionID {
	return domain.SessionID("session-" + uuid.NewString())
}
