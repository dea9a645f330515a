package domain

// SessionID identifies one committed pairing. Opaque to peers.
type SessionID string

// Pairing is one side's view of a match. The session table stores two
// mirrored Pairings, one keyed by each participant; they are created and
// destroyed together.
type Pairing struct {
	Partner   UserID    `json:"partnerUserId"`
	SessionID SessionID `json:"sessionId"`
	Mode      Mode      `json:"mode"`
}
