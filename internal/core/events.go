package core

import (
	"encoding/json"

	"github.com/dkeye/Roulette/internal/domain"
)

// Event names the core emits on state changes. Relayed signaling frames
// (offer/answer/ice-candidate/message) keep whatever type the sender used.
const (
	EvWaiting             = "waiting"
	EvMatched             = "matched"
	EvSkipped             = "skipped"
	EvPartnerSkipped      = "partner-skipped"
	EvPartnerDisconnected = "partner-disconnected"
)

type controlEvent struct {
	Type string `json:"type"`
}

type waitingEvent struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// MatchedEvent tells one side who it was paired with.
type MatchedEvent struct {
	Type          string           `json:"type"`
	PartnerUserID domain.UserID    `json:"partnerUserId"`
	SessionID     domain.SessionID `json:"sessionId"`
}

func encode(v any) Frame {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func NewWaiting() Frame {
	return encode(waitingEvent{Type: EvWaiting, Message: "Looking for a match..."})
}

func NewMatched(partner domain.UserID, sid domain.SessionID) Frame {
	return encode(MatchedEvent{Type: EvMatched, PartnerUserID: partner, SessionID: sid})
}

// NewControl builds a bare {"type": ...} event.
func NewControl(typ string) Frame {
	return encode(controlEvent{Type: typ})
}
