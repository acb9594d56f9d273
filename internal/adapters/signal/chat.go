package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

func (ctl *SignalWSController) handleChat(id domain.ConnID, data []byte) {
	type chatPayload struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	var p chatPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad chat payload")
		return
	}
	if p.Text == "" {
		return
	}
	if !ctl.Chat.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("chat rate limited")
		return
	}
	ctl.Orch.Chat(id, p.Text)
}

func (ctl *SignalWSController) handleDirect(id domain.ConnID, data []byte) {
	type directPayload struct {
		Type string `json:"type"`
		To   string `json:"to"`
		Text string `json:"text"`
	}
	var p directPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad direct payload")
		return
	}
	if p.Text == "" || p.To == "" {
		return
	}
	if !ctl.Chat.Allow(id) {
		log.Warn().Str("module", "signal").Str("conn", string(id)).Msg("direct rate limited")
		return
	}
	ctl.Orch.Direct(id, domain.ConnID(p.To), p.Text)
}
