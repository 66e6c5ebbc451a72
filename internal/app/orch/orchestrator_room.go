package orch

import (
	"github.com/dkeye/ephero/internal/core"
	"github.com/dkeye/ephero/internal/domain"
	"github.com/dkeye/ephero/internal/protocol"
	"github.com/rs/zerolog/log"
)

var (
	errNotInRoom    = domain.Invalid("You are not in a room")
	errMustBeInRoom = domain.Invalid("You must be in a room to send messages")
)

func (o *Orchestrator) createRoom(conn *core.Connection) {
	defer o.timed("create_room")()

	if _, attached := conn.RoomID(); attached {
		o.fail(conn, domain.ErrAlreadyInRoom)
		return
	}
	room, err := o.Rooms.CreateRoom(0)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("create room")
		o.audit().Error(err, "create_room")
		o.reply(conn, protocol.NewErrorText("Failed to create room"))
		return
	}
	if _, err := o.Rooms.AddClientToRoom(room.ID(), conn); err != nil {
		o.Rooms.RemoveRoom(room.ID())
		o.fail(conn, err)
		return
	}
	o.audit().RoomCreated(conn.ID(), room.ID())
	log.Info().Str("module", "orch").Str("sid", string(conn.ID())).Str("room", string(room.ID())).Msg("room created and joined")

	o.reply(conn, protocol.NewRoomCreated(room.ID()))
	o.broadcast(room, protocol.NewUserJoined(conn.ID()), conn)
}

func (o *Orchestrator) joinRoom(conn *core.Connection, id domain.RoomID) {
	defer o.timed("join_room")()

	room, err := o.Rooms.AddClientToRoom(id, conn)
	if err != nil {
		o.fail(conn, err)
		return
	}
	log.Info().Str("module", "orch").Str("sid", string(conn.ID())).Str("room", string(id)).Msg("joined room")

	o.reply(conn, protocol.NewRoomJoined(id, room.MemberCount()))
	o.broadcast(room, protocol.NewUserJoined(conn.ID()), conn)
}

func (o *Orchestrator) leaveRoom(conn *core.Connection) {
	if _, attached := conn.RoomID(); !attached {
		o.fail(conn, errNotInRoom)
		return
	}
	if room := o.Rooms.RemoveClientFromRoom(conn); room != nil {
		o.broadcast(room, protocol.NewUserLeft(conn.ID()), conn)
	}
	log.Info().Str("module", "orch").Str("sid", string(conn.ID())).Msg("left room")
	o.reply(conn, protocol.NewRoomLeft())
}

func (o *Orchestrator) chat(conn *core.Connection, body string) {
	id, attached := conn.RoomID()
	if !attached {
		o.fail(conn, errMustBeInRoom)
		return
	}
	room, err := o.Rooms.GetRoom(id)
	if err != nil {
		o.fail(conn, err)
		return
	}
	o.broadcast(room, protocol.NewChatMessage(conn.ID(), body), conn)
}

func (o *Orchestrator) getRooms(conn *core.Connection) {
	o.reply(conn, protocol.NewRoomsList(o.Rooms.ActiveRoomSummaries()))
}
