package orch

import (
	"github.com/dkeye/ephero/internal/core"
	"github.com/dkeye/ephero/internal/domain"
	"github.com/dkeye/ephero/internal/protocol"
	"github.com/rs/zerolog/log"
)

// Store-and-forward sharing: a room holds one opaque payload that any number
// of consumers may fetch until the room expires. None of these join the room.

var errNoData = domain.Invalid("No data found in room")

func (o *Orchestrator) createShare(conn *core.Connection) {
	defer o.timed("create_share")()

	room, err := o.Rooms.CreateRoom(0)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("create share room")
		o.audit().Error(err, "create_share")
		o.reply(conn, protocol.NewErrorText("Failed to create room"))
		return
	}
	o.audit().RoomCreated(conn.ID(), room.ID())
	o.reply(conn, protocol.NewShareCreated(room.ID()))
}

func (o *Orchestrator) sendData(conn *core.Connection, id domain.RoomID, payload string) {
	defer o.timed("send_data")()

	room, err := o.Rooms.GetRoom(id)
	if err != nil {
		o.fail(conn, err)
		return
	}
	room.SetData(payload)
	o.audit().DataShared(conn.ID(), id, len(payload))
	log.Info().Str("module", "orch").Str("sid", string(conn.ID())).Str("room", string(id)).Int("size", len(payload)).Msg("payload stored")
	o.reply(conn, protocol.NewDataStored(id))
}

func (o *Orchestrator) joinShare(conn *core.Connection, id domain.RoomID) {
	room, err := o.Rooms.GetRoom(id)
	if err != nil {
		o.fail(conn, err)
		return
	}
	payload, ok := room.Data()
	if !ok {
		o.fail(conn, errNoData)
		return
	}
	room.Touch()
	o.reply(conn, protocol.NewDataRetrieved(id, payload))
}
