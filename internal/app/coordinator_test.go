package app

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
)

type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func (f *fakeConn) TrySend(fr core.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, fr)
	return nil
}

func (f *fakeConn) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// events decodes every received frame into a generic map.
func (f *fakeConn) events(t *testing.T) []map[string]any {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]map[string]any, 0, len(f.frames))
	for _, fr := range f.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(fr, &m))
		out = append(out, m)
	}
	return out
}

func (f *fakeConn) eventTypes(t *testing.T) []string {
	t.Helper()
	evs := f.events(t)
	out := make([]string, 0, len(evs))
	for _, e := range evs {
		out = append(out, e["type"].(string))
	}
	return out
}

func connect(c *Coordinator, uid string, mode domain.Mode, interests ...string) (core.ConnID, *fakeConn) {
	return connectAs(c, core.ConnID("conn-"+uid), uid, mode, interests...)
}

func connectAs(c *Coordinator, id core.ConnID, uid string, mode domain.Mode, interests ...string) (core.ConnID, *fakeConn) {
	conn := &fakeConn{}
	c.Connect(&Binding{
		Conn: id,
		Profile: &domain.Profile{
			UserID:    domain.UserID(uid),
			Mode:      mode,
			Interests: interests,
		},
		Signal: conn,
	})
	return id, conn
}

func TestMatchScenario(t *testing.T) {
	c := NewCoordinator(nil)

	aID, aConn := connect(c, "a", domain.ModeText)
	c.FindMatch(aID)
	require.Equal(t, []string{"waiting"}, aConn.eventTypes(t))

	bID, bConn := connect(c, "b", domain.ModeText)
	c.FindMatch(bID)

	aEvs := aConn.events(t)
	bEvs := bConn.events(t)
	require.Len(t, aEvs, 2)
	require.Len(t, bEvs, 1)

	require.Equal(t, "matched", aEvs[1]["type"])
	require.Equal(t, "matched", bEvs[0]["type"])
	require.Equal(t, "b", aEvs[1]["partnerUserId"])
	require.Equal(t, "a", bEvs[0]["partnerUserId"])
	require.Equal(t, aEvs[1]["sessionId"], bEvs[0]["sessionId"])
	require.NotEmpty(t, aEvs[1]["sessionId"])

	require.Equal(t, Stats{Connections: 2, Waiting: 0, ActiveSessions: 1}, c.Stats())
}

func TestSkipScenario(t *testing.T) {
	c := NewCoordinator(nil)
	aID, aConn := connect(c, "a", domain.ModeText)
	bID, bConn := connect(c, "b", domain.ModeText)
	c.FindMatch(aID)
	c.FindMatch(bID)

	c.Skip(aID)
	require.Equal(t, []string{"waiting", "matched", "skipped"}, aConn.eventTypes(t))
	require.Equal(t, []string{"matched", "partner-skipped"}, bConn.eventTypes(t))
	require.Equal(t, 0, c.Stats().ActiveSessions)

	// Skip while idle: ack only, nothing else changes.
	c.Skip(aID)
	require.Equal(t, []string{"waiting", "matched", "skipped", "skipped"}, aConn.eventTypes(t))
	require.Equal(t, []string{"matched", "partner-skipped"}, bConn.eventTypes(t))
}

func TestDisconnectWhileWaiting(t *testing.T) {
	c := NewCoordinator(nil)
	aID, _ := connect(c, "a", domain.ModeText)
	c.FindMatch(aID)
	require.Equal(t, 1, c.Stats().Waiting)

	c.Disconnect(aID)
	require.Equal(t, Stats{}, c.Stats())

	// The departed user must not be matchable.
	bID, bConn := connect(c, "b", domain.ModeText)
	c.FindMatch(bID)
	require.Equal(t, []string{"waiting"}, bConn.eventTypes(t))
}

func TestDisconnectWhilePaired(t *testing.T) {
	c := NewCoordinator(nil)
	aID, _ := connect(c, "a", domain.ModeText)
	bID, bConn := connect(c, "b", domain.ModeText)
	c.FindMatch(aID)
	c.FindMatch(bID)

	c.Disconnect(aID)
	require.Equal(t, []string{"matched", "partner-disconnected"}, bConn.eventTypes(t),
		"exactly one partner-disconnected")
	require.Equal(t, Stats{Connections: 1}, c.Stats())

	// The former partner is idle again and free to rematch.
	c.FindMatch(bID)
	require.Equal(t, []string{"matched", "partner-disconnected", "waiting"}, bConn.eventTypes(t))
}

func TestDisjointInterestsNeverMatch(t *testing.T) {
	c := NewCoordinator(nil)
	aID, aConn := connect(c, "a", domain.ModeVideo, "go")
	bID, bConn := connect(c, "b", domain.ModeVideo, "chess")

	for i := 0; i < 3; i++ {
		c.FindMatch(aID)
		c.FindMatch(bID)
	}
	for _, evs := range [][]string{aConn.eventTypes(t), bConn.eventTypes(t)} {
		for _, e := range evs {
			require.Equal(t, "waiting", e)
		}
	}

	// A third user sharing a tag with "a" resolves the standoff; "a" wins
	// on insertion order.
	dID, dConn := connect(c, "d", domain.ModeVideo, "go", "chess")
	c.FindMatch(dID)
	evs := dConn.events(t)
	require.Equal(t, "matched", evs[0]["type"])
	require.Equal(t, "a", evs[0]["partnerUserId"])
}

func TestFindMatchWhilePairedIsNoOp(t *testing.T) {
	c := NewCoordinator(nil)
	aID, aConn := connect(c, "a", domain.ModeText)
	bID, _ := connect(c, "b", domain.ModeText)
	c.FindMatch(aID)
	c.FindMatch(bID)

	before := c.Stats()
	c.FindMatch(aID)
	require.Equal(t, before, c.Stats())
	require.Equal(t, []string{"waiting", "matched"}, aConn.eventTypes(t))
}

func TestRelayBetweenPartners(t *testing.T) {
	c := NewCoordinator(nil)
	aID, _ := connect(c, "a", domain.ModeVideo)
	bID, bConn := connect(c, "b", domain.ModeVideo)
	c.FindMatch(aID)
	c.FindMatch(bID)

	frame := core.Frame(`{"type":"offer","sdp":"v=0...","from":"a"}`)
	require.True(t, c.Relay(aID, "offer", frame))

	evs := bConn.events(t)
	last := evs[len(evs)-1]
	require.Equal(t, "offer", last["type"])
	require.Equal(t, "v=0...", last["sdp"])
	require.Equal(t, "a", last["from"])
}

func TestRelayDroppedWithoutSession(t *testing.T) {
	c := NewCoordinator(nil)
	aID, _ := connect(c, "a", domain.ModeVideo)

	require.False(t, c.Relay(aID, "message", core.Frame(`{"type":"message","text":"hi"}`)))
	require.False(t, c.Relay("conn-ghost", "message", core.Frame(`{}`)))
}

// A reconnect under the same user id takes over delivery; the old
// connection is closed and its eventual disconnect unwinds nothing.
func TestReconnectEvictsOldConnection(t *testing.T) {
	c := NewCoordinator(nil)
	old, oldConn := connectAs(c, "conn-a-1", "a", domain.ModeText)
	c.FindMatch(old)

	fresh, freshConn := connectAs(c, "conn-a-2", "a", domain.ModeText)
	require.True(t, oldConn.isClosed())
	require.Equal(t, 1, c.Stats().Waiting, "queued state stays with the user")

	bID, _ := connect(c, "b", domain.ModeText)
	c.FindMatch(bID)
	require.Equal(t, []string{"matched"}, freshConn.eventTypes(t), "delivery moved to the new connection")
	require.Equal(t, []string{"waiting"}, oldConn.eventTypes(t))

	// The stale connection's transport-level disconnect arrives late.
	c.Disconnect(old)
	require.Equal(t, 1, c.Stats().ActiveSessions, "stale disconnect must not dissolve the session")

	c.Disconnect(fresh)
	require.Equal(t, 0, c.Stats().ActiveSessions)
}
