package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/core"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

func (o *Orchestrator) SetMute(id domain.ConnID, muted bool) {
	room, err := o.Rooms.SetMute(id, muted)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(id)).Msg("mute dropped")
		return
	}
	o.broadcast(room, id, core.StatusEvent{Type: core.TypeMuteStatus, ID: id, Value: muted})
}

func (o *Orchestrator) SetCamera(id domain.ConnID, on bool) {
	room, err := o.Rooms.SetCamera(id, on)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(id)).Msg("camera dropped")
		return
	}
	o.broadcast(room, id, core.StatusEvent{Type: core.TypeCameraStatus, ID: id, Value: on})
}

func (o *Orchestrator) SetScreenShare(id domain.ConnID, sharing bool) {
	room, err := o.Rooms.SetScreenShare(id, sharing)
	if err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("conn", string(id)).Msg("screen share dropped")
		return
	}
	o.broadcast(room, id, core.StatusEvent{Type: core.TypeScreenShareStatus, ID: id, Value: sharing})
}

// Rename updates the display name and, when the sender is in a room, tells
// the roommates. The error surfaces so the adapter can answer bad names.
func (o *Orchestrator) Rename(id domain.ConnID, name string) error {
	if err := o.Registry.SetProfile(id, name); err != nil {
		return err
	}
	if room, ok := o.Registry.RoomOf(id); ok {
		newName, _ := o.Registry.Name(id)
		o.broadcast(room, id, core.MemberUpdatedEvent{
			Type: core.TypeMemberUpdated,
			ID:   id,
			Name: newName,
		})
	}
	return nil
}
