package orch

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/app"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/core"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

// recConn records every delivered frame, standing in for the websocket
// transport.
type recConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
}

func (c *recConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return errors.New("backpressure")
	}
	buf := make(core.Frame, len(f))
	copy(buf, f)
	c.frames = append(c.frames, buf)
	return nil
}

func (c *recConn) Close() {}

func (c *recConn) events(t *testing.T) []map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		require.NoError(t, json.Unmarshal(f, &m))
		out = append(out, m)
	}
	return out
}

func (c *recConn) ofType(t *testing.T, typ string) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, m := range c.events(t) {
		if m["type"] == typ {
			out = append(out, m)
		}
	}
	return out
}

func (c *recConn) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = nil
}

func newOrchestrator() *Orchestrator {
	reg := app.NewRegistry()
	return &Orchestrator{
		Registry:  reg,
		Rooms:     app.NewDirectory(reg),
		Lifecycle: app.Tracker{},
	}
}

func connect(t *testing.T, o *Orchestrator, id domain.ConnID) *recConn {
	t.Helper()
	c := &recConn{}
	require.NoError(t, o.Connect(id, c))
	return c
}

func TestConnectDuplicateFailsSetupOnly(t *testing.T) {
	o := newOrchestrator()
	connect(t, o, "a")
	assert.ErrorIs(t, o.Connect("a", &recConn{}), app.ErrDuplicateConnection)
	// The original registration survives.
	_, ok := o.Registry.Name("a")
	assert.True(t, ok)
}

func TestJoinAnnouncements(t *testing.T) {
	o := newOrchestrator()
	a := connect(t, o, "a")
	b := connect(t, o, "b")

	o.Join("a", "r1", "alice")

	counts := a.ofType(t, core.TypeParticipantCount)
	require.Len(t, counts, 1)
	assert.EqualValues(t, 1, counts[0]["count"])
	assert.Empty(t, a.ofType(t, core.TypeCallStarted))
	existing := a.ofType(t, core.TypeExistingUsers)
	require.Len(t, existing, 1)
	assert.Empty(t, existing[0]["users"])
	a.reset()

	o.Join("b", "r1", "bob")

	// The joiner learns the existing members and who offers.
	existing = b.ofType(t, core.TypeExistingUsers)
	require.Len(t, existing, 1)
	users := existing[0]["users"].([]any)
	require.Len(t, users, 1)
	peer := users[0].(map[string]any)
	assert.Equal(t, "a", peer["id"])
	assert.Equal(t, "alice", peer["username"])
	// "a" < "b": the existing member offers, not the joiner.
	assert.Equal(t, false, peer["should_offer"])

	// The existing member learns the joiner, with the complementary hint.
	connected := a.ofType(t, core.TypeUserConnected)
	require.Len(t, connected, 1)
	assert.Equal(t, "b", connected[0]["id"])
	assert.Equal(t, "bob", connected[0]["username"])
	assert.Equal(t, true, connected[0]["should_offer"])

	// Both get the new count and the call-start stamp exactly once.
	for _, c := range []*recConn{a, b} {
		counts := c.ofType(t, core.TypeParticipantCount)
		require.Len(t, counts, 1)
		assert.EqualValues(t, 2, counts[0]["count"])
		started := c.ofType(t, core.TypeCallStarted)
		require.Len(t, started, 1)
		assert.Greater(t, started[0]["started_at"].(float64), float64(0))
	}
}

func TestExactlyOneOffererPerPair(t *testing.T) {
	o := newOrchestrator()
	conns := map[domain.ConnID]*recConn{}
	for _, id := range []domain.ConnID{"m", "a", "x", "c"} {
		conns[id] = connect(t, o, id)
		o.Join(id, "r1", "")
	}

	// Collect per-pair hints from both sides' announcements.
	offers := map[[2]string]int{}
	pairKey := func(x, y string) [2]string {
		if x < y {
			return [2]string{x, y}
		}
		return [2]string{y, x}
	}
	for id, c := range conns {
		for _, ev := range c.ofType(t, core.TypeExistingUsers) {
			for _, u := range ev["users"].([]any) {
				peer := u.(map[string]any)
				if peer["should_offer"] == true {
					offers[pairKey(string(id), peer["id"].(string))]++
				}
			}
		}
		for _, ev := range c.ofType(t, core.TypeUserConnected) {
			if ev["should_offer"] == true {
				offers[pairKey(string(id), ev["id"].(string))]++
			}
		}
	}

	// Six pairs, one offerer each: never both, never neither.
	assert.Len(t, offers, 6)
	for pair, n := range offers {
		assert.Equal(t, 1, n, "pair %v", pair)
	}
}

func TestConcurrentJoinsIntroduceEachPeerOnce(t *testing.T) {
	o := newOrchestrator()
	ids := []domain.ConnID{"c0", "c1", "c2", "c3", "c4", "c5", "c6", "c7"}
	conns := map[domain.ConnID]*recConn{}
	for _, id := range ids {
		conns[id] = connect(t, o, id)
	}

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id domain.ConnID) {
			defer wg.Done()
			o.Join(id, "r1", "")
		}(id)
	}
	wg.Wait()

	// Every member hears about every other member exactly once: either as
	// an existing-users entry or as a user-connected frame, never both.
	offers := map[[2]string]int{}
	pairKey := func(x, y string) [2]string {
		if x < y {
			return [2]string{x, y}
		}
		return [2]string{y, x}
	}
	for id, c := range conns {
		seen := map[string]int{}
		for _, ev := range c.ofType(t, core.TypeExistingUsers) {
			for _, u := range ev["users"].([]any) {
				peer := u.(map[string]any)
				seen[peer["id"].(string)]++
				if peer["should_offer"] == true {
					offers[pairKey(string(id), peer["id"].(string))]++
				}
			}
		}
		for _, ev := range c.ofType(t, core.TypeUserConnected) {
			seen[ev["id"].(string)]++
			if ev["should_offer"] == true {
				offers[pairKey(string(id), ev["id"].(string))]++
			}
		}
		for _, other := range ids {
			if other == id {
				continue
			}
			assert.Equal(t, 1, seen[string(other)], "%s introduced to %s", id, other)
		}
	}

	// And every pair still has exactly one offering side.
	assert.Len(t, offers, len(ids)*(len(ids)-1)/2)
	for pair, n := range offers {
		assert.Equal(t, 1, n, "pair %v", pair)
	}
}

func TestLateJoinerCatchUp(t *testing.T) {
	o := newOrchestrator()
	connect(t, o, "a")
	c := connect(t, o, "c")
	o.Join("a", "r1", "")
	o.Join("c", "r1", "")
	c.reset()

	o.SetMute("a", true)
	o.SetScreenShare("a", true)

	// C, already present, saw live status events exactly once each.
	mutes := c.ofType(t, core.TypeMuteStatus)
	require.Len(t, mutes, 1)
	assert.Equal(t, "a", mutes[0]["id"])
	assert.Equal(t, true, mutes[0]["value"])
	require.Len(t, c.ofType(t, core.TypeScreenShareStatus), 1)

	// B joins after the fact and catches up from the snapshot.
	b := connect(t, o, "b")
	o.Join("b", "r1", "")

	states := b.ofType(t, core.TypeMemberState)
	require.Len(t, states, 1)
	members := states[0]["members"].([]any)
	require.Len(t, members, 2)
	first := members[0].(map[string]any)
	assert.Equal(t, "a", first["id"])
	assert.Equal(t, true, first["muted"])
	assert.Equal(t, true, first["sharing_screen"])
	assert.Equal(t, true, first["camera_on"])

	// The late joiner gets the call stamp alone; C gets no second one.
	require.Len(t, b.ofType(t, core.TypeCallStarted), 1)
	assert.Empty(t, c.ofType(t, core.TypeCallStarted))
}

func TestChatFanOutAndIsolation(t *testing.T) {
	o := newOrchestrator()
	a := connect(t, o, "a")
	b := connect(t, o, "b")
	c := connect(t, o, "c")
	d := connect(t, o, "d")
	o.Join("a", "r1", "alice")
	o.Join("b", "r1", "")
	o.Join("c", "r1", "")
	o.Join("d", "r2", "")
	for _, conn := range []*recConn{a, b, c, d} {
		conn.reset()
	}

	o.Chat("a", "hello")

	for _, conn := range []*recConn{b, c} {
		msgs := conn.ofType(t, core.TypeChat)
		require.Len(t, msgs, 1)
		assert.Equal(t, "hello", msgs[0]["text"])
		assert.Equal(t, "alice", msgs[0]["username"])
	}
	// Not echoed to the sender, not leaked across rooms.
	assert.Empty(t, a.ofType(t, core.TypeChat))
	assert.Empty(t, d.ofType(t, core.TypeChat))

	// Chat from a non-member goes nowhere.
	connect(t, o, "e")
	o.Chat("e", "lost")
	assert.Len(t, b.ofType(t, core.TypeChat), 1)
	assert.Len(t, c.ofType(t, core.TypeChat), 1)
	assert.Empty(t, d.ofType(t, core.TypeChat))
}

func TestDirectMessageOnlyTarget(t *testing.T) {
	o := newOrchestrator()
	a := connect(t, o, "a")
	b := connect(t, o, "b")
	c := connect(t, o, "c")
	o.Join("a", "r1", "alice")
	o.Join("b", "r1", "")
	o.Join("c", "r1", "")
	for _, conn := range []*recConn{a, b, c} {
		conn.reset()
	}

	o.Direct("a", "c", "psst")

	msgs := c.ofType(t, core.TypeDirect)
	require.Len(t, msgs, 1)
	assert.Equal(t, "psst", msgs[0]["text"])
	assert.Equal(t, "alice", msgs[0]["username"])
	assert.Equal(t, "a", msgs[0]["from"])
	assert.Equal(t, "c", msgs[0]["to"])
	assert.Empty(t, a.ofType(t, core.TypeDirect))
	assert.Empty(t, b.ofType(t, core.TypeDirect))
}

func TestRelayPayloadUnmodified(t *testing.T) {
	o := newOrchestrator()
	connect(t, o, "a")
	b := connect(t, o, "b")
	o.Join("a", "r1", "alice")
	o.Join("b", "r1", "")
	b.reset()

	payload := json.RawMessage(`{"sdp":"v=0\r\no=- 46117 2 IN IP4 127.0.0.1","nested":{"k":[1,2,3]}}`)
	o.RelayOffer("a", "b", payload)

	offers := b.ofType(t, core.TypeOffer)
	require.Len(t, offers, 1)
	got, err := json.Marshal(offers[0]["payload"])
	require.NoError(t, err)
	assert.JSONEq(t, string(payload), string(got))
	assert.Equal(t, "a", offers[0]["from"])
	assert.Equal(t, "alice", offers[0]["username"])

	// Raw bytes survive end to end in the frame itself.
	b.mu.Lock()
	raw := string(b.frames[len(b.frames)-1])
	b.mu.Unlock()
	assert.Contains(t, raw, `"sdp":"v=0\r\no=- 46117 2 IN IP4 127.0.0.1"`)

	o.RelayAnswer("b", "a", payload)
	o.RelayCandidate("b", "a", json.RawMessage(`{"candidate":"candidate:1 1 UDP 2122252543"}`))
}

func TestRelayRequiresSharedRoom(t *testing.T) {
	o := newOrchestrator()
	connect(t, o, "a")
	b := connect(t, o, "b")
	d := connect(t, o, "d")
	o.Join("a", "r1", "")
	o.Join("b", "r1", "")
	o.Join("d", "r2", "")
	b.reset()
	d.reset()

	// Cross-room target: dropped.
	o.RelayOffer("a", "d", json.RawMessage(`{"x":1}`))
	assert.Empty(t, d.ofType(t, core.TypeOffer))

	// Non-member sender: dropped.
	connect(t, o, "e")
	o.RelayOffer("e", "b", json.RawMessage(`{"x":1}`))
	assert.Empty(t, b.ofType(t, core.TypeOffer))

	// Unknown target: dropped.
	o.RelayOffer("a", "ghost", json.RawMessage(`{"x":1}`))
	assert.Empty(t, b.ofType(t, core.TypeOffer))
}

func TestDisconnectFlow(t *testing.T) {
	o := newOrchestrator()
	connect(t, o, "a")
	b := connect(t, o, "b")
	o.Join("a", "r1", "")
	o.Join("b", "r1", "")
	b.reset()

	o.Disconnect("a")

	left := b.ofType(t, core.TypeUserDisconnected)
	require.Len(t, left, 1)
	assert.Equal(t, "a", left[0]["id"])
	counts := b.ofType(t, core.TypeParticipantCount)
	require.Len(t, counts, 1)
	assert.EqualValues(t, 1, counts[0]["count"])
	b.reset()

	// Events after the disconnect produce no outbound effect.
	o.Chat("a", "ghost message")
	o.SetMute("a", true)
	o.RelayOffer("a", "b", json.RawMessage(`{"x":1}`))
	assert.Empty(t, b.events(t))

	// A second disconnect is a no-op.
	o.Disconnect("a")
	assert.Empty(t, b.events(t))
}

func TestCallStartClearedWithEmptyRoom(t *testing.T) {
	o := newOrchestrator()
	connect(t, o, "a")
	connect(t, o, "b")
	o.Join("a", "r1", "")
	o.Join("b", "r1", "")
	o.Disconnect("a")
	o.Disconnect("b")

	// C joins the now-empty room: fresh lifetime, no stale stamp.
	c := connect(t, o, "c")
	o.Join("c", "r1", "")
	assert.Empty(t, c.ofType(t, core.TypeCallStarted))
	counts := c.ofType(t, core.TypeParticipantCount)
	require.Len(t, counts, 1)
	assert.EqualValues(t, 1, counts[0]["count"])
}

func TestLeaveKeepsConnection(t *testing.T) {
	o := newOrchestrator()
	a := connect(t, o, "a")
	b := connect(t, o, "b")
	o.Join("a", "r1", "")
	o.Join("b", "r1", "")
	a.reset()
	b.reset()

	o.Leave("a")

	require.Len(t, b.ofType(t, core.TypeUserDisconnected), 1)
	// Still registered: can join another room.
	o.Join("a", "r2", "")
	require.Len(t, a.ofType(t, core.TypeExistingUsers), 1)
}

func TestSlowRecipientDoesNotBlockOthers(t *testing.T) {
	o := newOrchestrator()
	connect(t, o, "a")
	b := connect(t, o, "b")
	c := connect(t, o, "c")
	o.Join("a", "r1", "")
	o.Join("b", "r1", "")
	o.Join("c", "r1", "")
	b.fail = true
	c.reset()

	o.Chat("a", "hello")

	// B's frame is discarded, C still gets the message.
	msgs := c.ofType(t, core.TypeChat)
	require.Len(t, msgs, 1)
}

func TestRenameBroadcast(t *testing.T) {
	o := newOrchestrator()
	connect(t, o, "a")
	b := connect(t, o, "b")
	o.Join("a", "r1", "alice")
	o.Join("b", "r1", "")
	b.reset()

	require.NoError(t, o.Rename("a", "alicia"))

	updated := b.ofType(t, core.TypeMemberUpdated)
	require.Len(t, updated, 1)
	assert.Equal(t, "a", updated[0]["id"])
	assert.Equal(t, "alicia", updated[0]["username"])

	assert.Error(t, o.Rename("ghost", "x"))
}
