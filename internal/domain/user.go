// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const (
	MaxUserIDLen   = 64
	MaxInterestLen = 36
)

var (
	ErrUserIDEmpty   = errors.New("user id empty")
	ErrUserIDTooLong = errors.New("user id too long")
	ErrUnknownMode   = errors.New("unknown mode")
)

// UserID is a caller-supplied opaque token. It is never verified here; it
// only has to stay stable for the lifetime of the connection.
type UserID string

// Mode is the chat modality a user asks for. Users only match within a mode.
type Mode string

const (
	ModeVideo Mode = "video"
	ModeText  Mode = "text"
)

var Modes = []Mode{ModeVideo, ModeText}

func ParseMode(raw string) (Mode, error) {
	switch Mode(raw) {
	case ModeVideo:
		return ModeVideo, nil
	case ModeText:
		return ModeText, nil
	}
	return "", ErrUnknownMode
}

// Profile is the identity a connection presents at handshake time.
// Origin is diagnostics-only and never takes part in matching.
type Profile struct {
	UserID    UserID   `json:"userId"`
	Mode      Mode     `json:"mode"`
	Interests []string `json:"interests,omitempty"`
	Origin    string   `json:"-"`
}

// NewProfile validates the raw handshake values. Interests arrive as the
// comma-joined query param.
func NewProfile(userID, mode, interests, origin string) (*Profile, error) {
	if userID == "" {
		return nil, ErrUserIDEmpty
	}
	if len(userID) > MaxUserIDLen {
		return nil, ErrUserIDTooLong
	}
	m, err := ParseMode(mode)
	if err != nil {
		return nil, err
	}
	return &Profile{
		UserID:    UserID(userID),
		Mode:      m,
		Interests: ParseInterests(interests),
		Origin:    origin,
	}, nil
}

// ParseInterests splits the comma-joined handshake value. Tags are free
// text, case-sensitive; blanks are dropped, overlong tags truncated.
func ParseInterests(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if len(p) > MaxInterestLen {
			p = p[:MaxInterestLen]
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// SharesInterest reports whether the two tag sets intersect (exact match).
// Empty sets are the caller's concern: a user with no tags takes anyone.
func (p *Profile) SharesInterest(other *Profile) bool {
	for _, a := range p.Interests {
		for _, b := range other.Interests {
			if a == b {
				return true
			}
		}
	}
	return false
}
