package config

import (
	"strings"

	"github.com/pion/webrtc/v4"
)

// ICEServerList converts the configured server URLs into pion's structure,
// the same shape browsers accept in an RTCPeerConnection configuration.
// TURN entries may carry credentials as "turn:host:port|username|credential".
func (c *Config) ICEServerList() []webrtc.ICEServer {
	out := make([]webrtc.ICEServer, 0, len(c.ICEServers))
	for _, raw := range c.ICEServers {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts := strings.Split(raw, "|")
		srv := webrtc.ICEServer{URLs: []string{parts[0]}}
		if len(parts) >= 3 {
			srv.Username = parts[1]
			srv.Credential = parts[2]
		}
		out = append(out, srv)
	}
	return out
}
