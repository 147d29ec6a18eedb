package app

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/Callsign/internal/core"
	"github.com/dkeye/Callsign/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Router handles inbound signaling messages for every connection.
// Dispatch for one connection must be called sequentially; calls for
// different connections may run concurrently.
type Router struct {
	Registry *Registry
	Policy   Policy
}

func NewRouter(reg *Registry) *Router {
	return &Router{Registry: reg, Policy: DropPolicy{}}
}

func (r *Router) Dispatch(conn core.SignalConnection, data []byte) {
	msg, err := protocol.Parse(data)
	if err != nil {
		switch {
		case errors.Is(err, protocol.ErrUnknownType):
			log.Warn().Err(err).Str("module", "app.router").Str("conn", string(conn.ID())).Msg("unknown message type")
		default:
			log.Error().Err(err).Str("module", "app.router").Str("conn", string(conn.ID())).Msg("bad message")
		}
		return
	}

	switch m := msg.(type) {
	case protocol.Register:
		r.handleRegister(conn, m)
	case protocol.CallUser:
		r.handleCallUser(m)
	case protocol.AnswerCall:
		r.handleAnswerCall(m)
	case protocol.ICECandidate:
		r.handleICECandidate(m)
	}
}

// OnDisconnect drops the binding owned by conn, if it still owns one.
// Safe to call more than once.
func (r *Router) OnDisconnect(conn core.SignalConnection) {
	uid, ok := r.Registry.Release(conn)
	if !ok {
		return
	}
	log.Info().Str("module", "app.router").Str("conn", string(conn.ID())).Str("user", string(uid)).Msg("user unregistered")
}

func (r *Router) handleRegister(conn core.SignalConnection, m protocol.Register) {
	if err := m.UserID.Validate(); err != nil {
		log.Warn().Err(err).Str("module", "app.router").Str("conn", string(conn.ID())).Msg("register rejected")
		r.sendJSON(conn, protocol.NewError(protocol.InvalidUserID))
		return
	}

	r.Registry.Bind(m.UserID, conn)
	log.Info().Str("module", "app.router").Str("conn", string(conn.ID())).Str("user", string(m.UserID)).Msg("user registered")
	r.sendJSON(conn, protocol.NewRegistered(m.UserID))
}

// sendJSON hands v to the transport once. Failures are logged, never retried.
func (r *Router) sendJSON(conn core.SignalConnection, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.router").Msg("sendJSON marshal")
		return
	}
	err = conn.TrySend(b)
	if err == nil {
		return
	}
	log.Warn().Err(err).Str("module", "app.router").Str("conn", string(conn.ID())).Msg("send dropped")
	if !errors.Is(err, core.ErrBackpressure) || r.Policy == nil {
		return
	}
	switch r.Policy.OnBackPressure(conn) {
	case KickConnection:
		log.Warn().Str("module", "app.router").Str("conn", string(conn.ID())).Msg("kicking slow connection")
		conn.Close()
	case DropFrame:
	}
}
