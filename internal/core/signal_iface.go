package core

import "errors"

// Frame is a raw text payload written to a signaling peer.
type Frame []byte

// ConnID identifies one live transport connection for its whole lifetime.
type ConnID string

// SignalConnection abstracts a signaling transport endpoint.
// Owned by the adapter; the adapter must Close() it.
//
// TrySend never blocks. Delivery is best effort: the caller does not
// observe whether the peer received the frame.
type SignalConnection interface {
	ID() ConnID
	TrySend(Frame) error
	Close()
}

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)
