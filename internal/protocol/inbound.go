// Package protocol defines the relay wire format: one JSON object per frame.
package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/dkeye/ephero/internal/domain"
)

type MessageType string

const (
	TypeCreateRoom MessageType = "create_room"
	TypeJoinRoom   MessageType = "join_room"
	TypeLeaveRoom  MessageType = "leave_room"
	TypeMessage    MessageType = "message"
	TypeGetRooms   MessageType = "get_rooms"

	// store-and-forward sharing
	TypeCreateShare MessageType = "create-room"
	TypeSendData    MessageType = "send-data"
	TypeJoinShare   MessageType = "join-room"
)

// Known reports whether t is one of the inbound types the router accepts.
func (t MessageType) Known() bool {
	switch t {
	case TypeCreateRoom, TypeJoinRoom, TypeLeaveRoom, TypeMessage, TypeGetRooms,
		TypeCreateShare, TypeSendData, TypeJoinShare:
		return true
	}
	return false
}

// Envelope is the loose shape every inbound frame must decode into.
// Use Inbound to turn it into a typed request.
type Envelope struct {
	Type    MessageType `json:"type"`
	RoomID  *string     `json:"roomId,omitempty"`
	Message *string     `json:"message,omitempty"`
	Payload *string     `json:"payload,omitempty"`
}

// ParseEnvelope decodes a raw frame. Anything that is not a JSON object with
// string fields fails with domain.ErrMalformedFrame.
func ParseEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", domain.ErrMalformedFrame, err)
	}
	return env, nil
}

// Inbound is a decoded request. The set of implementations is closed.
type Inbound interface {
	Type() MessageType
	inbound()
}

type (
	CreateRoom struct{}
	JoinRoom   struct{ RoomID domain.RoomID }
	LeaveRoom  struct{}
	Chat       struct{ Body string }
	GetRooms   struct{}

	CreateShare struct{}
	SendData    struct {
		RoomID  domain.RoomID
		Payload string
	}
	JoinShare struct{ RoomID domain.RoomID }
)

func (CreateRoom) Type() MessageType  { return TypeCreateRoom }
func (JoinRoom) Type() MessageType    { return TypeJoinRoom }
func (LeaveRoom) Type() MessageType   { return TypeLeaveRoom }
func (Chat) Type() MessageType        { return TypeMessage }
func (GetRooms) Type() MessageType    { return TypeGetRooms }
func (CreateShare) Type() MessageType { return TypeCreateShare }
func (SendData) Type() MessageType    { return TypeSendData }
func (JoinShare) Type() MessageType   { return TypeJoinShare }

func (CreateRoom) inbound()  {}
func (JoinRoom) inbound()    {}
func (LeaveRoom) inbound()   {}
func (Chat) inbound()        {}
func (GetRooms) inbound()    {}
func (CreateShare) inbound() {}
func (SendData) inbound()    {}
func (JoinShare) inbound()   {}

// Inbound resolves the envelope into the variant for its type, checking that
// the fields the variant needs are present and well-formed.
func (e Envelope) Inbound() (Inbound, error) {
	switch e.Type {
	case TypeCreateRoom:
		return CreateRoom{}, nil
	case TypeJoinRoom:
		id, err := e.roomID()
		if err != nil {
			return nil, err
		}
		return JoinRoom{RoomID: id}, nil
	case TypeLeaveRoom:
		return LeaveRoom{}, nil
	case TypeMessage:
		if e.Message == nil || *e.Message == "" {
			return nil, domain.Invalid("Message content is required")
		}
		return Chat{Body: *e.Message}, nil
	case TypeGetRooms:
		return GetRooms{}, nil
	case TypeCreateShare:
		return CreateShare{}, nil
	case TypeSendData:
		id, err := e.roomID()
		if err != nil {
			return nil, err
		}
		if e.Payload == nil || *e.Payload == "" {
			return nil, domain.Invalid("Payload is required")
		}
		return SendData{RoomID: id, Payload: *e.Payload}, nil
	case TypeJoinShare:
		id, err := e.roomID()
		if err != nil {
			return nil, err
		}
		return JoinShare{RoomID: id}, nil
	default:
		return nil, domain.Invalid("Unknown message type")
	}
}

func (e Envelope) roomID() (domain.RoomID, error) {
	if e.RoomID == nil || *e.RoomID == "" {
		return "", domain.Invalid("Room ID is required")
	}
	id := domain.RoomID(*e.RoomID)
	if !id.Valid() {
		return "", domain.Invalid("Invalid room ID")
	}
	return id, nil
}
