package signal

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/dkeye/Callsign/internal/app"
	"github.com/dkeye/Callsign/internal/config"
	"github.com/dkeye/Callsign/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// SignalWSController upgrades HTTP requests to signaling WebSockets and
// feeds every inbound message to the router.
type SignalWSController struct {
	Router *app.Router

	cfg      *config.Config
	upgrader websocket.Upgrader
	open     atomic.Int64
}

// Open reports how many signaling connections have not finished closing.
// A connection stops counting only after its identity has been released.
func (ctl *SignalWSController) Open() int64 { return ctl.open.Load() }

func NewSignalWSController(cfg *config.Config, router *app.Router) *SignalWSController {
	return &SignalWSController{
		Router: router,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// WsSignalConn implements core.SignalConnection over a WebSocket.
// Frames queue in send; when the queue is full TrySend drops the frame.
type WsSignalConn struct {
	id   core.ConnID
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func newWsSignalConn(ws *websocket.Conn, buffer int) *WsSignalConn {
	return &WsSignalConn{
		id:   core.ConnID(uuid.NewString()),
		conn: ws,
		send: make(chan core.Frame, buffer),
	}
}

func (c *WsSignalConn) ID() core.ConnID { return c.id }

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return core.ErrConnClosed
	}
	select {
	case c.send <- f:
	default:
		return core.ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

// HandleSignal upgrades the request and starts the connection pumps.
// ctx bounds the connection lifetime; cancelling it closes the socket.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	token := c.GetString("client_token")

	// The upgrade response replaces gin's, so carry the session cookie over.
	var respHeader http.Header
	if cookies := c.Writer.Header().Values("Set-Cookie"); len(cookies) > 0 {
		respHeader = http.Header{"Set-Cookie": cookies}
	}

	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, respHeader)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("client_token", token).Msg("ws upgrade")
		return
	}

	conn := newWsSignalConn(ws, ctl.cfg.SendBuffer)
	ctl.open.Add(1)
	log.Info().Str("module", "signal").Str("conn", string(conn.ID())).Str("client_token", token).Str("remote", c.ClientIP()).Msg("client connected")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(cancel, conn)
}
