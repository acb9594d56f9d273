// Package orch routes inbound signaling events: it validates the sender,
// applies registry/directory mutations and fans the resulting outbound
// events to the right connections. Invalid events are dropped and logged,
// never escalated past this boundary.
package orch

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/app"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/core"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

type Orchestrator struct {
	Registry  *app.Registry
	Rooms     *app.Directory
	Lifecycle app.Tracker
}

// Connect registers a freshly accepted connection. A duplicate id is a
// transport bug: the new connection's setup fails, the process carries on.
func (o *Orchestrator) Connect(id domain.ConnID, sig core.SignalConnection) error {
	if err := o.Registry.Register(id, sig); err != nil {
		log.Error().Err(err).Str("module", "orch").Str("conn", string(id)).Msg("connect rejected")
		return err
	}
	return nil
}

// Disconnect releases membership and registry state. Safe to call for ids
// never registered or already disconnected.
func (o *Orchestrator) Disconnect(id domain.ConnID) {
	if res, err := o.Rooms.Leave(id); err == nil {
		o.announceLeave(id, res)
	}
	o.Registry.Unregister(id)
	log.Info().Str("module", "orch").Str("conn", string(id)).Msg("disconnected")
}

func (o *Orchestrator) announceLeave(id domain.ConnID, res app.LeaveResult) {
	o.broadcast(res.Room, id, core.UserDisconnectedEvent{
		Type: core.TypeUserDisconnected,
		ID:   id,
	})
	o.dispatch(o.Lifecycle.OnLeave(res))
}

func (o *Orchestrator) dispatch(events []app.SessionEvent) {
	for _, ev := range events {
		var frame any
		switch ev.Kind {
		case app.EventParticipantCount:
			frame = core.ParticipantCountEvent{Type: core.TypeParticipantCount, Count: ev.Count}
		case app.EventCallStarted:
			frame = core.CallStartedEvent{Type: core.TypeCallStarted, StartedAt: ev.StartedAt.UnixMilli()}
		default:
			continue
		}
		if ev.To != "" {
			o.sendTo(ev.To, frame)
			continue
		}
		o.broadcast(ev.Room, "", frame)
	}
}

// sendTo marshals and hands the frame to the connection's transport.
// Delivery is fire-and-forget: a full or closed endpoint drops the frame.
func (o *Orchestrator) sendTo(id domain.ConnID, v any) {
	sig, ok := o.Registry.Signal(id)
	if !ok {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal outbound")
		return
	}
	if err := sig.TrySend(core.Frame(b)); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(id)).Msg("dropped outbound frame")
	}
}

func (o *Orchestrator) broadcast(room domain.RoomID, except domain.ConnID, v any) {
	for _, id := range o.Rooms.Members(room) {
		if id == except {
			continue
		}
		o.sendTo(id, v)
	}
}
