package core

// Frame is one serialized outbound message.
type Frame []byte

// SignalConnection abstracts the messaging transport of one connection.
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	// TrySend queues f without blocking.
	TrySend(Frame) error
	// IsOpen reports whether the transport still accepts frames.
	IsOpen() bool
	Close()
}
