// Package orch is the relay's protocol state machine: it turns inbound frames
// into room operations and answers the originating connection.
package orch

import (
	"time"

	"github.com/dkeye/ephero/internal/app"
	"github.com/dkeye/ephero/internal/core"
	"github.com/dkeye/ephero/internal/domain"
	"github.com/dkeye/ephero/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Orchestrator routes frames for every connection. It is safe for concurrent
// use; each connection is expected to feed its own frames sequentially.
type Orchestrator struct {
	Conns   *app.ConnectionRegistry
	Rooms   *core.RoomRegistry
	Limiter *app.RateLimiter
	Policy  app.Policy
	Audit   core.Auditor

	MaxTextLength    int
	CloseOnRateLimit bool
}

func (o *Orchestrator) audit() core.Auditor {
	if o.Audit == nil {
		return core.NopAuditor{}
	}
	return o.Audit
}

// OnConnect registers a freshly accepted connection.
func (o *Orchestrator) OnConnect(conn *core.Connection) {
	o.Conns.Register(conn)
	o.audit().Connected(conn.ID(), conn.RemoteAddr, conn.UserAgent)
}

// Greet sends the welcome message given to clients that connect without a
// room path.
func (o *Orchestrator) Greet(conn *core.Connection) {
	o.reply(conn, protocol.NewWelcome(conn.ID()))
}

// OnDisconnect removes every trace of conn. Calling it more than once is
// harmless.
func (o *Orchestrator) OnDisconnect(conn *core.Connection) {
	if _, ok := o.Conns.Unregister(conn.ID()); !ok {
		return
	}
	if room := o.Rooms.RemoveClientFromRoom(conn); room != nil {
		o.broadcast(room, protocol.NewUserLeft(conn.ID()), conn)
	}
	if o.Limiter != nil {
		o.Limiter.Reset(conn.ID())
	}
	o.audit().Disconnected(conn.ID(), conn.RemoteAddr)
	log.Info().Str("module", "orch").Str("sid", string(conn.ID())).Msg("connection cleaned up")
}

// HandleFrame runs one raw frame through parsing, rate limiting and
// validation, then executes it. Every failure is answered to conn only.
func (o *Orchestrator) HandleFrame(conn *core.Connection, data []byte) {
	defer o.timed("message_processing")()

	env, err := protocol.ParseEnvelope(data)
	if err != nil {
		o.audit().Threat(conn.ID(), "INVALID_JSON", map[string]any{"error": err.Error()})
		o.fail(conn, err)
		return
	}

	if o.Limiter != nil && !o.Limiter.Allow(conn.ID()) {
		o.audit().RateLimited(conn.ID(), conn.RemoteAddr)
		o.fail(conn, domain.ErrRateLimited)
		if o.CloseOnRateLimit {
			log.Warn().Str("module", "orch").Str("sid", string(conn.ID())).Msg("closing rate limited connection")
			conn.Close()
		}
		return
	}

	if !env.Type.Known() {
		o.audit().Threat(conn.ID(), "INVALID_MESSAGE_TYPE", map[string]any{"type": string(env.Type)})
	}
	msg, err := env.Inbound()
	if err != nil {
		o.fail(conn, err)
		return
	}

	if err := o.validateContent(conn, env); err != nil {
		o.fail(conn, err)
		return
	}

	o.Execute(conn, msg)
}

func (o *Orchestrator) validateContent(conn *core.Connection, env protocol.Envelope) error {
	for _, field := range []*string{env.Message, env.Payload} {
		if field == nil || *field == "" {
			continue
		}
		if !app.ValidateText(*field, o.MaxTextLength) {
			o.audit().Threat(conn.ID(), "INVALID_PAYLOAD", map[string]any{
				"length":    len(*field),
				"maxLength": o.maxText(),
			})
			return domain.Invalid("Invalid payload")
		}
	}
	return nil
}

func (o *Orchestrator) maxText() int {
	if o.MaxTextLength <= 0 {
		return app.DefaultMaxTextLength
	}
	return o.MaxTextLength
}

// Execute performs an already validated request.
func (o *Orchestrator) Execute(conn *core.Connection, msg protocol.Inbound) {
	switch m := msg.(type) {
	case protocol.CreateRoom:
		o.createRoom(conn)
	case protocol.JoinRoom:
		o.joinRoom(conn, m.RoomID)
	case protocol.LeaveRoom:
		o.leaveRoom(conn)
	case protocol.Chat:
		o.chat(conn, m.Body)
	case protocol.GetRooms:
		o.getRooms(conn)
	case protocol.CreateShare:
		o.createShare(conn)
	case protocol.SendData:
		o.sendData(conn, m.RoomID, m.Payload)
	case protocol.JoinShare:
		o.joinShare(conn, m.RoomID)
	default:
		o.fail(conn, domain.Invalid("Unknown message type"))
	}
}

// JoinByPath handles a client that connected on /join/<id>.
func (o *Orchestrator) JoinByPath(conn *core.Connection, raw string) {
	if !app.ValidateRoomID(raw) {
		o.audit().Threat(conn.ID(), "INVALID_ROOM_ID", map[string]any{"roomId": raw})
		o.fail(conn, domain.Invalid("Invalid room ID"))
		return
	}
	o.Execute(conn, protocol.JoinRoom{RoomID: domain.RoomID(raw)})
}

func (o *Orchestrator) reply(conn *core.Connection, v any) {
	if err := conn.Send(v); err != nil {
		log.Warn().Err(err).Str("module", "orch").Str("sid", string(conn.ID())).Msg("reply not delivered")
	}
}

func (o *Orchestrator) fail(conn *core.Connection, err error) {
	log.Debug().Err(err).Str("module", "orch").Str("sid", string(conn.ID())).Msg("request rejected")
	o.reply(conn, protocol.NewError(err))
}

func (o *Orchestrator) broadcast(room *core.Room, v any, exclude *core.Connection) {
	res, err := room.Broadcast(v, exclude)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("room", string(room.ID())).Msg("broadcast marshal")
		return
	}
	if o.Policy == nil {
		return
	}
	for _, slow := range res.Dropped {
		switch o.Policy.OnBackPressure(room, slow) {
		case app.KickMember:
			log.Warn().Str("module", "orch").Str("room", string(room.ID())).Str("sid", string(slow.ID())).Msg("kicking slow member")
			slow.Close()
		case app.DropFrame:
		}
	}
}

func (o *Orchestrator) timed(op string) func() {
	start := time.Now()
	return func() { o.audit().Operation(op, time.Since(start)) }
}
