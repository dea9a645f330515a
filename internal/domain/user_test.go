package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		raw  string
		want Mode
		err  error
	}{
		{"video", ModeVideo, nil},
		{"text", ModeText, nil},
		{"", "", ErrUnknownMode},
		{"audio", "", ErrUnknownMode},
		{"Video", "", ErrUnknownMode},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.raw)
		if tt.err != nil {
			require.ErrorIs(t, err, tt.err, "raw=%q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw=%q", tt.raw)
		require.Equal(t, tt.want, got)
	}
}

func TestNewProfile(t *testing.T) {
	p, err := NewProfile("u1", "video", "music, go ,", "203.0.113.9")
	require.NoError(t, err)
	require.Equal(t, UserID("u1"), p.UserID)
	require.Equal(t, ModeVideo, p.Mode)
	require.Equal(t, []string{"music", "go"}, p.Interests)
	require.Equal(t, "203.0.113.9", p.Origin)

	_, err = NewProfile("", "video", "", "")
	require.ErrorIs(t, err, ErrUserIDEmpty)

	_, err = NewProfile(strings.Repeat("x", MaxUserIDLen+1), "video", "", "")
	require.ErrorIs(t, err, ErrUserIDTooLong)

	_, err = NewProfile("u1", "carrier-pigeon", "", "")
	require.ErrorIs(t, err, ErrUnknownMode)
}

func TestParseInterests(t *testing.T) {
	require.Nil(t, ParseInterests(""))
	require.Nil(t, ParseInterests(" , ,"))
	require.Equal(t, []string{"a", "b"}, ParseInterests("a,b"))

	long := strings.Repeat("y", MaxInterestLen+10)
	got := ParseInterests(long)
	require.Len(t, got, 1)
	require.Len(t, got[0], MaxInterestLen)
}

func TestSharesInterest(t *testing.T) {
	a := &Profile{Interests: []string{"music", "go"}}
	b := &Profile{Interests: []string{"go"}}
	c := &Profile{Interests: []string{"Music"}} // tags are case-sensitive
	empty := &Profile{}

	require.True(t, a.SharesInterest(b))
	require.True(t, b.SharesInterest(a))
	require.False(t, a.SharesInterest(c))
	require.False(t, a.SharesInterest(empty))
}
