package app

import (
	"fmt"

	"github.com/dkeye/Callsign/internal/core"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickConnection
)

// Policy decides what happens to a connection whose send queue is full.
type Policy interface {
	OnBackPressure(conn core.SignalConnection) BackpressureAction
}

// DropPolicy loses the frame and keeps the connection.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(core.SignalConnection) BackpressureAction { return DropFrame }

// KickPolicy closes a connection that cannot keep up. Its identity is
// released through the normal disconnect path.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(core.SignalConnection) BackpressureAction { return KickConnection }

func PolicyFor(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown backpressure policy %q", name)
	}
}
