package app

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Roulette/internal/domain"
)

func newEngine() (*MatchEngine, *WaitQueue, *SessionTable) {
	q := NewWaitQueue()
	tab := NewSessionTable()
	return NewMatchEngine(q, tab), q, tab
}

func TestTryMatchMissEnqueues(t *testing.T) {
	e, q, tab := newEngine()

	res := e.TryMatch(waitBinding("a", domain.ModeText))
	require.False(t, res.Matched)
	require.Equal(t, 1, q.Len())
	require.Equal(t, 0, tab.Len())
}

func TestTryMatchCommitsBothSides(t *testing.T) {
	e, q, tab := newEngine()
	a := waitBinding("a", domain.ModeText)
	b := waitBinding("b", domain.ModeText)

	require.False(t, e.TryMatch(a).Matched)
	res := e.TryMatch(b)
	require.True(t, res.Matched)
	require.Same(t, a, res.Partner)
	require.NotEmpty(t, res.SessionID)

	require.Equal(t, 0, q.Len(), "matched entry must leave the queue")
	pa, ok := tab.Lookup("a")
	require.True(t, ok)
	require.Equal(t, res.SessionID, pa.SessionID)
	pb, ok := tab.Lookup("b")
	require.True(t, ok)
	require.Equal(t, domain.UserID("a"), pb.Partner)
}

func TestTryMatchNeverSelf(t *testing.T) {
	e, q, _ := newEngine()

	require.False(t, e.TryMatch(waitBinding("a", domain.ModeText)).Matched)
	// Same user retries from a second tab: must wait, not pair with itself.
	res := e.TryMatch(waitBinding("a", domain.ModeText))
	require.False(t, res.Matched)
	require.Equal(t, 1, q.Len())
}

func TestNewSessionID(t *testing.T) {
	s1 := NewSessionID()
	s2 := NewSessionID()
	require.NotEqual(t, s1, s2)
	require.True(t, strings.HasPrefix(string(s1), "session-"))
}
