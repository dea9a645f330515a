package app

import (
	"github.com/dkeye/Roulette/internal/domain"
)

// WaitQueue holds, per mode, the users currently seeking a partner in
// insertion order. Order is the tie-break: the earliest eligible entry
// wins, even if a later one overlaps on more interests.
// Not safe for concurrent use; the Coordinator serializes access.
type WaitQueue struct {
	byMode map[domain.Mode][]*Binding
}

func NewWaitQueue() *WaitQueue {
	q := &WaitQueue{byMode: make(map[domain.Mode][]*Binding, len(domain.Modes))}
	for _, m := range domain.Modes {
		q.byMode[m] = nil
	}
	return q
}

// Eligible is the matching predicate: never self; if both sides declare
// interests the sets must intersect; a side with no interests takes anyone.
func Eligible(queued, candidate *domain.Profile) bool {
	if queued.UserID == candidate.UserID {
		return false
	}
	if len(queued.Interests) > 0 && len(candidate.Interests) > 0 {
		return queued.SharesInterest(candidate)
	}
	return true
}

// Enqueue appends the binding to its mode's queue. Any previous entry for
// the same user, in any mode, is removed first so a user waits in at most
// one place.
func (q *WaitQueue) Enqueue(b *Binding) {
	q.RemoveUser(b.Profile.UserID)
	m := b.Profile.Mode
	q.byMode[m] = append(q.byMode[m], b)
}

// RemoveUser removes the user's entry wherever it is queued. Removing an
// absent user is a no-op, reported as false.
func (q *WaitQueue) RemoveUser(uid domain.UserID) bool {
	for m, entries := range q.byMode {
		for i, e := range entries {
			if e.Profile.UserID == uid {
				q.byMode[m] = append(entries[:i:i], entries[i+1:]...)
				return true
			}
		}
	}
	return false
}

// FindMatchFor scans the candidate's mode in insertion order and returns
// the first eligible entry. The queue is not mutated: the caller removes
// the hit in the same critical section as the session commit.
func (q *WaitQueue) FindMatchFor(candidate *domain.Profile) (*Binding, bool) {
	for _, e := range q.byMode[candidate.Mode] {
		if Eligible(e.Profile, candidate) {
			return e, true
		}
	}
	return nil, false
}

// Len is the total number of waiting users across modes.
func (q *WaitQueue) Len() int {
	n := 0
	for _, entries := range q.byMode {
		n += len(entries)
	}
	return n
}
