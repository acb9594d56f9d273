package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/app"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/core"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

// Join adds the sender to a room and announces it: the joiner learns the
// existing members (with the offering-side hint per pair) and their current
// flags, everyone else learns the joiner, the room gets the new count and,
// when the second member arrives, the call-start stamp.
func (o *Orchestrator) Join(id domain.ConnID, room domain.RoomID, name string) {
	res, err := o.Rooms.Join(room, id, name)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(id)).
			Str("room", string(room)).Msg("join dropped")
		return
	}

	users := make([]core.PeerInfo, 0, len(res.Others))
	for _, p := range res.Others {
		users = append(users, core.PeerInfo{ID: p.ID, Name: p.Name, ShouldOffer: p.ShouldOffer})
	}
	o.sendTo(id, core.ExistingUsersEvent{Type: core.TypeExistingUsers, Room: room, Users: users})

	if flags := o.memberFlags(room, res.Others); len(flags) > 0 {
		o.sendTo(id, core.MemberStateEvent{Type: core.TypeMemberState, Members: flags})
	}

	// Announce only to the members recorded in the join result. Reading
	// the live member list here would re-introduce peers that joined
	// concurrently and already saw this member in their existing-users.
	joinedName, _ := o.Registry.Name(id)
	for _, p := range res.Others {
		o.sendTo(p.ID, core.UserConnectedEvent{
			Type:        core.TypeUserConnected,
			ID:          id,
			Name:        joinedName,
			ShouldOffer: domain.OfferingSide(p.ID, id) == p.ID,
		})
	}

	o.dispatch(o.Lifecycle.OnJoin(id, res))
}

// Leave removes the sender from its room without dropping the connection.
func (o *Orchestrator) Leave(id domain.ConnID) {
	res, err := o.Rooms.Leave(id)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(id)).Msg("leave dropped")
		return
	}
	o.announceLeave(id, res)
}

// memberFlags filters the room snapshot down to the members the joiner was
// actually introduced to.
func (o *Orchestrator) memberFlags(room domain.RoomID, others []app.Peer) []core.MemberFlags {
	known := make(map[domain.ConnID]bool, len(others))
	for _, p := range others {
		known[p.ID] = true
	}
	snap := o.Rooms.Snapshot(room)
	out := make([]core.MemberFlags, 0, len(others))
	for _, f := range snap {
		if known[f.ID] {
			out = append(out, f)
		}
	}
	return out
}
