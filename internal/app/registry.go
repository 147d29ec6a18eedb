package app

import (
	"sync"

	"github.com/dkeye/Callsign/internal/core"
	"github.com/dkeye/Callsign/internal/domain"
	"github.com/rs/zerolog/log"
)

// Registry maps registered identities to their live signaling connection.
//
// byUser is authoritative; byConn mirrors it so a connection can find the
// identity it owns without storing anything on the connection itself.
// Both maps are only touched under mu.
type Registry struct {
	mu     sync.RWMutex
	byUser map[domain.UserID]core.SignalConnection
	byConn map[core.ConnID]domain.UserID
}

func NewRegistry() *Registry {
	return &Registry{
		byUser: make(map[domain.UserID]core.SignalConnection),
		byConn: make(map[core.ConnID]domain.UserID),
	}
}

// Bind makes conn the owner of uid.
// A connection previously bound to uid stays open but is no longer reachable
// by uid. If conn already owned another identity, that binding is dropped.
func (r *Registry) Bind(uid domain.UserID, conn core.SignalConnection) {
	cid := conn.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	if prevUID, ok := r.byConn[cid]; ok && prevUID != uid {
		delete(r.byUser, prevUID)
		log.Info().Str("module", "app.registry").Str("conn", string(cid)).Str("user", string(prevUID)).Msg("connection switched identity")
	}
	if prev, ok := r.byUser[uid]; ok && prev.ID() != cid {
		delete(r.byConn, prev.ID())
		log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("conn", string(prev.ID())).Msg("orphaned previous connection")
	}

	r.byUser[uid] = conn
	r.byConn[cid] = uid
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("conn", string(cid)).Msg("bound user")
}

// Resolve returns the connection currently bound to uid.
func (r *Registry) Resolve(uid domain.UserID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conn, ok := r.byUser[uid]
	return conn, ok
}

// OwnerOf returns the identity conn currently owns.
func (r *Registry) OwnerOf(conn core.SignalConnection) (domain.UserID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	uid, ok := r.byConn[conn.ID()]
	return uid, ok
}

// Release drops the binding owned by conn and reports which identity it was.
// It is a no-op when conn owns nothing, including when a newer connection
// has since taken over its identity.
func (r *Registry) Release(conn core.SignalConnection) (domain.UserID, bool) {
	cid := conn.ID()

	r.mu.Lock()
	defer r.mu.Unlock()

	uid, ok := r.byConn[cid]
	if !ok {
		return "", false
	}
	delete(r.byConn, cid)
	if cur, ok := r.byUser[uid]; ok && cur.ID() == cid {
		delete(r.byUser, uid)
	}
	log.Info().Str("module", "app.registry").Str("user", string(uid)).Str("conn", string(cid)).Msg("released user")
	return uid, true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}
