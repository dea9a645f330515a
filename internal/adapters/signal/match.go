package signal

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Roulette/internal/core"
	"github.com/dkeye/Roulette/internal/domain"
)

func (ctl *ChatWSController) handleFindMatch(id core.ConnID, p *domain.Profile, conn *wsChatConn) {
	if !ctl.Limiter.Allow(p.UserID) {
		log.Warn().Str("module", "signal").Str("user", string(p.UserID)).
			Msg("find-match rate limited")
		b, _ := json.Marshal(map[string]any{
			"type":  "error",
			"error": "rate_limited",
		})
		ctl.sendJSON(conn, b)
		return
	}
	log.Info().Str("module", "signal").Str("user", string(p.UserID)).
		Str("mode", string(p.Mode)).Msg("find-match")
	ctl.Coord.FindMatch(id)
}
