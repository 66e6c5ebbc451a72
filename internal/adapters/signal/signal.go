// Package signal is the WebSocket side of the relay: it upgrades HTTP
// requests, runs one read and one write pump per connection and hands frames
// to the router.
package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/dkeye/ephero/internal/app/orch"
	"github.com/dkeye/ephero/internal/core"
	"github.com/dkeye/ephero/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

const (
	DefaultReadLimit  = 64 * 1024
	DefaultPingPeriod = 54 * time.Second
	DefaultWriteWait  = 10 * time.Second
	DefaultSendBuffer = 64
)

type Options struct {
	ReadLimit  int64
	PingPeriod time.Duration
	WriteWait  time.Duration
	SendBuffer int
	// AllowedOrigins limits browser origins; empty allows any.
	AllowedOrigins []string
}

type SignalWSController struct {
	Orch     *orch.Orchestrator
	opts     Options
	upgrader websocket.Upgrader
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	if opts.ReadLimit <= 0 {
		opts.ReadLimit = DefaultReadLimit
	}
	if opts.PingPeriod <= 0 {
		opts.PingPeriod = DefaultPingPeriod
	}
	if opts.WriteWait <= 0 {
		opts.WriteWait = DefaultWriteWait
	}
	if opts.SendBuffer <= 0 {
		opts.SendBuffer = DefaultSendBuffer
	}
	return &SignalWSController{
		Orch: o,
		opts: opts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     OriginChecker(opts.AllowedOrigins),
		},
	}
}

// OriginChecker accepts requests without an Origin header (non-browser
// clients) and browser requests from one of allowed.
func OriginChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return func(r *http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}

type wsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *wsSignalConn) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

// Close stops accepting frames. The write pump flushes what is already queued,
// sends a close frame and drops the socket.
func (c *wsSignalConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// HandleSignal upgrades the request and starts the pumps. onOpen runs once the
// connection is registered, before any inbound frame is read.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context, onOpen func(*core.Connection)) {
	ws, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	sig := &wsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}
	conn := core.NewConnection(domain.NewConnID(), sig)
	conn.RemoteAddr = c.ClientIP()
	conn.UserAgent = c.Request.UserAgent()
	log.Info().Str("module", "signal").Str("sid", string(conn.ID())).Str("visitor", c.GetString("client_token")).Str("path", c.Request.URL.Path).Msg("new WS connection")

	ctl.Orch.OnConnect(conn)
	go ctl.writePump(ctx, sig)
	if onOpen != nil {
		onOpen(conn)
	}
	go ctl.readPump(ctx, conn, sig)
}
