package core

// Frame is a raw encoded payload delivered to a peer as-is.
type Frame []byte

// ConnID identifies one transport-level link, assigned by the adapter.
type ConnID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}
