package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

func (ctl *SignalWSController) handleJoin(
	id domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type joinPayload struct {
		Type string `json:"type"`
		Room string `json:"room"`
		Name string `json:"name,omitempty"`
	}
	var p joinPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad join payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}
	if p.Room == "" {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "empty room",
		})
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(id)).Str("room", p.Room).Msg("join")
	ctl.Orch.Join(id, domain.RoomID(p.Room), p.Name)
}

// handleLeave leaves the current room without dropping the socket.
func (ctl *SignalWSController) handleLeave(
	id domain.ConnID,
	conn *WsSignalConn,
) {
	log.Info().Str("module", "signal").Str("conn", string(id)).Msg("leave")
	ctl.Orch.Leave(id)
	ctl.sendJSON(conn, map[string]any{
		"type": "left",
	})
}
