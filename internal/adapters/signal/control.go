package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

func (ctl *SignalWSController) handleRename(
	id domain.ConnID,
	conn *WsSignalConn,
	data []byte,
) {
	type renamePayload struct {
		Type string `json:"type"`
		Name string `json:"name"`
	}
	var p renamePayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad rename payload")
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "bad_payload",
		})
		return
	}
	if p.Name == "" {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "empty name",
		})
		return
	}

	log.Info().Str("module", "signal").Str("conn", string(id)).Str("name", p.Name).Msg("rename")
	if err := ctl.Orch.Rename(id, p.Name); err != nil {
		ctl.sendJSON(conn, map[string]any{
			"type":  "error",
			"error": "invalid_name",
		})
	}
}

func (ctl *SignalWSController) handlePing(
	conn *WsSignalConn,
) {
	resp := struct {
		Type string `json:"type"`
	}{
		Type: "pong",
	}
	ctl.sendJSON(conn, resp)
}
