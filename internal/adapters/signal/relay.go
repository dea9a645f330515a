package signal

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
)

// requiredField maps a relayable event kind to the payload field it cannot
// go without. Everything else in the payload is opaque to the relay.
var requiredField = map[string]string{
	"offer":         "sdp",
	"answer":        "sdp",
	"ice-candidate": "candidate",
	"message":       "text",
}

// tagFrame validates the payload and injects the sender's user id as "from"
// without touching the rest of it. The relay is content-agnostic: sdp,
// candidates and chat text all pass through verbatim.
func tagFrame(kind string, data []byte, from domain.UserID) (core.Frame, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if field := requiredField[kind]; field != "" {
		if v, ok := m[field]; !ok || v == nil || v == "" {
			return nil, fmt.Errorf("missing field %q", field)
		}
	}
	m["from"] = string(from)
	return json.Marshal(m)
}

func (ctl *ChatWSController) handleRelay(id core.ConnID, kind string, p *domain.Profile, data []byte) {
	frame, err := tagFrame(kind, data, p.UserID)
	if err != nil {
		log.Warn().Err(err).Str("module", "signal").Str("type", kind).
			Str("user", string(p.UserID)).Msg("bad relay payload")
		return
	}
	ctl.Coord.Relay(id, kind, frame)
}
