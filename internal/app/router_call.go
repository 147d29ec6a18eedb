package app

import (
	"github.com/dkeye/Callsign/internal/protocol"
	"github.com/rs/zerolog/log"
)

// handleCallUser forwards an offer to the callee. When the callee is not
// registered, the caller is told only if the caller is registered itself.
func (r *Router) handleCallUser(m protocol.CallUser) {
	callee, ok := r.Registry.Resolve(m.To)
	if !ok {
		log.Info().Str("module", "app.router").Str("from", string(m.From)).Str("to", string(m.To)).Msg("callee not found")
		if caller, ok := r.Registry.Resolve(m.From); ok {
			r.sendJSON(caller, protocol.NewUserNotFound(m.To))
		}
		return
	}

	log.Info().Str("module", "app.router").Str("from", string(m.From)).Str("to", string(m.To)).Msg("call routed")
	r.sendJSON(callee, protocol.NewIncomingCall(m.From, m.Offer))
}

// handleAnswerCall forwards an answer to the caller. A missing caller is
// only logged.
func (r *Router) handleAnswerCall(m protocol.AnswerCall) {
	conn, ok := r.Registry.Resolve(m.To)
	if !ok {
		log.Info().Str("module", "app.router").Str("to", string(m.To)).Msg("answer target not found")
		return
	}
	log.Info().Str("module", "app.router").Str("to", string(m.To)).Msg("answer relayed")
	r.sendJSON(conn, protocol.NewCallAnswered(m.Answer))
}

func (r *Router) handleICECandidate(m protocol.ICECandidate) {
	conn, ok := r.Registry.Resolve(m.To)
	if !ok {
		log.Info().Str("module", "app.router").Str("to", string(m.To)).Msg("candidate target not found")
		return
	}
	log.Debug().Str("module", "app.router").Str("to", string(m.To)).Msg("candidate relayed")
	r.sendJSON(conn, protocol.NewRelayedCandidate(m.Candidate))
}
