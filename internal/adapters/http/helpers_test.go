package http

import "github.com/dkeye/Callsign/internal/core"

type fakeConn core.ConnID

func (c fakeConn) ID() core.ConnID          { return core.ConnID(c) }
func (c fakeConn) TrySend(core.Frame) error { return nil }
func (c fakeConn) Close()                   {}
