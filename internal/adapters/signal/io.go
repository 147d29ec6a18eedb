package signal

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// writePump is the only writer on the socket. It exits when ctx ends or the
// send queue is closed, and closes the connection on the way out so the
// read side unblocks.
func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	var ping <-chan time.Time
	if ctl.cfg.PingPeriod > 0 {
		ticker := time.NewTicker(ctl.cfg.PingPeriod)
		defer ticker.Stop()
		ping = ticker.C
	}
	defer c.Close()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Str("conn", string(c.ID())).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "signal").Str("conn", string(c.ID())).Msg("writePump channel closed")
				return
			}
			if err := c.conn.SetWriteDeadline(time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("writePump set deadline")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("writePump write error")
				return
			}
		case <-ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(ctl.cfg.WriteWait)); err != nil {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("writePump ping error")
				return
			}
		}
	}
}

// readPump delivers messages to the router in arrival order. Any read error,
// including a normal close, ends the connection and releases its identity.
func (ctl *SignalWSController) readPump(cancel context.CancelFunc, c *WsSignalConn) {
	defer func() {
		ctl.Router.OnDisconnect(c)
		cancel()
		c.Close()
		ctl.open.Add(-1)
		log.Info().Str("module", "signal").Str("conn", string(c.ID())).Msg("client disconnected")
	}()

	c.conn.SetReadLimit(ctl.cfg.ReadLimit)
	if wait := ctl.cfg.PongWait(); wait > 0 {
		_ = c.conn.SetReadDeadline(time.Now().Add(wait))
		c.conn.SetPongHandler(func(string) error {
			return c.conn.SetReadDeadline(time.Now().Add(wait))
		})
	}

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				log.Error().Err(err).Str("module", "signal").Str("conn", string(c.ID())).Msg("readPump read error")
			}
			return
		}
		ctl.Router.Dispatch(c, data)
	}
}
