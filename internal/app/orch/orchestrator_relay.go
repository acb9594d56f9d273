package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/core"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

// RelayOffer forwards an opaque negotiation offer to its target with the
// sender's identity and name attached. The payload is never inspected.
func (o *Orchestrator) RelayOffer(from, to domain.ConnID, payload json.RawMessage) {
	if !o.sameRoom(from, to) {
		return
	}
	name, _ := o.Registry.Name(from)
	o.sendTo(to, core.NegotiationEvent{
		Type:    core.TypeOffer,
		Payload: payload,
		From:    from,
		Name:    name,
	})
}

func (o *Orchestrator) RelayAnswer(from, to domain.ConnID, payload json.RawMessage) {
	if !o.sameRoom(from, to) {
		return
	}
	o.sendTo(to, core.NegotiationEvent{Type: core.TypeAnswer, Payload: payload, From: from})
}

func (o *Orchestrator) RelayCandidate(from, to domain.ConnID, payload json.RawMessage) {
	if !o.sameRoom(from, to) {
		return
	}
	o.sendTo(to, core.NegotiationEvent{Type: core.TypeCandidate, Payload: payload, From: from})
}

// Chat fans a text message to every other member of the sender's room.
func (o *Orchestrator) Chat(from domain.ConnID, text string) {
	room, ok := o.Registry.RoomOf(from)
	if !ok {
		log.Warn().Str("module", "orch").Str("conn", string(from)).Msg("chat from non-member dropped")
		return
	}
	name, _ := o.Registry.Name(from)
	o.broadcast(room, from, core.ChatEvent{Type: core.TypeChat, Text: text, Name: name})
}

// Direct delivers a text message to a single roommate.
func (o *Orchestrator) Direct(from, to domain.ConnID, text string) {
	if !o.sameRoom(from, to) {
		return
	}
	name, _ := o.Registry.Name(from)
	o.sendTo(to, core.DirectEvent{
		Type: core.TypeDirect,
		Text: text,
		Name: name,
		From: from,
		To:   to,
	})
}

// sameRoom validates a targeted event: both ends must be current members
// of the same room.
func (o *Orchestrator) sameRoom(from, to domain.ConnID) bool {
	fromRoom, ok := o.Registry.RoomOf(from)
	if !ok {
		log.Warn().Str("module", "orch").Str("conn", string(from)).Msg("targeted event from non-member dropped")
		return false
	}
	toRoom, ok := o.Registry.RoomOf(to)
	if !ok || toRoom != fromRoom {
		log.Warn().Str("module", "orch").Str("conn", string(from)).
			Str("target", string(to)).Msg("targeted event outside room dropped")
		return false
	}
	return true
}
