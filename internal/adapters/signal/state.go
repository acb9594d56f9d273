package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

func decodeFlag(data []byte, what string) (bool, bool) {
	var p struct {
		Type  string `json:"type"`
		Value bool   `json:"value"`
	}
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Str("event", what).Msg("bad flag payload")
		return false, false
	}
	return p.Value, true
}

func (ctl *SignalWSController) handleMute(id domain.ConnID, data []byte) {
	if v, ok := decodeFlag(data, "mute"); ok {
		ctl.Orch.SetMute(id, v)
	}
}

func (ctl *SignalWSController) handleCamera(id domain.ConnID, data []byte) {
	if v, ok := decodeFlag(data, "camera"); ok {
		ctl.Orch.SetCamera(id, v)
	}
}

func (ctl *SignalWSController) handleScreenShare(id domain.ConnID, data []byte) {
	if v, ok := decodeFlag(data, "screenshare"); ok {
		ctl.Orch.SetScreenShare(id, v)
	}
}
