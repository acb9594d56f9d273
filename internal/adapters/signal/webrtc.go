package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

// targetedPayload is the shape of all three negotiation relays. Payload
// stays a raw blob end to end: the external media capability produced it
// and only the target peer will read it.
type targetedPayload struct {
	Type    string          `json:"type"`
	To      string          `json:"to"`
	Payload json.RawMessage `json:"payload"`
}

func decodeTargeted(data []byte) (targetedPayload, bool) {
	var p targetedPayload
	if err := json.Unmarshal(data, &p); err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("bad negotiation payload")
		return p, false
	}
	if p.To == "" || len(p.Payload) == 0 {
		log.Warn().Str("module", "signal").Str("type", p.Type).Msg("negotiation payload missing fields")
		return p, false
	}
	return p, true
}

func (ctl *SignalWSController) handleOffer(id domain.ConnID, data []byte) {
	if p, ok := decodeTargeted(data); ok {
		ctl.Orch.RelayOffer(id, domain.ConnID(p.To), p.Payload)
	}
}

func (ctl *SignalWSController) handleAnswer(id domain.ConnID, data []byte) {
	if p, ok := decodeTargeted(data); ok {
		ctl.Orch.RelayAnswer(id, domain.ConnID(p.To), p.Payload)
	}
}

func (ctl *SignalWSController) handleCandidate(id domain.ConnID, data []byte) {
	if p, ok := decodeTargeted(data); ok {
		ctl.Orch.RelayCandidate(id, domain.ConnID(p.To), p.Payload)
	}
}
