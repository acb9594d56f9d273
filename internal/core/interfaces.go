package core

// Frame is a marshaled outbound payload.
type Frame []byte

// SignalConnection abstracts a system messaging transport.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend must never block: a full or closed endpoint returns an
	// error and the frame is discarded by the caller.
	TrySend(Frame) error
	Close()
}
