package protocol

import "github.com/dkeye/ephero/internal/domain"

const (
	TypeWelcome       = "welcome"
	TypeRoomCreated   = "room_created"
	TypeRoomJoined    = "room_joined"
	TypeRoomLeft      = "room_left"
	TypeRoomsList     = "rooms_list"
	TypeUserJoined    = "user_joined"
	TypeUserLeft      = "user_left"
	TypeShareCreated  = "room-created"
	TypeDataStored    = "data-stored"
	TypeDataRetrieved = "data-retrieved"
	TypeError         = "error"
)

const (
	NoticeExpired = "Room has expired due to inactivity"
	NoticeClosed  = "Room has been closed"
)

type Welcome struct {
	Type     string        `json:"type"`
	Message  string        `json:"message"`
	ClientID domain.ConnID `json:"clientId"`
}

type RoomCreated struct {
	Type    string        `json:"type"`
	Message string        `json:"message"`
	RoomID  domain.RoomID `json:"roomId"`
}

type RoomJoined struct {
	Type        string        `json:"type"`
	Message     string        `json:"message"`
	RoomID      domain.RoomID `json:"roomId"`
	MemberCount int           `json:"memberCount"`
}

type RoomLeft struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type RoomsList struct {
	Type  string               `json:"type"`
	Rooms []domain.RoomSummary `json:"rooms"`
}

// Presence is user_joined / user_left.
type Presence struct {
	Type   string        `json:"type"`
	UserID domain.ConnID `json:"userId"`
}

type ChatMessage struct {
	Type    string        `json:"type"`
	UserID  domain.ConnID `json:"userId"`
	Message string        `json:"message"`
}

// ShareReply is room-created / data-stored.
type ShareReply struct {
	Type   string        `json:"type"`
	RoomID domain.RoomID `json:"roomId"`
}

type DataRetrieved struct {
	Type    string        `json:"type"`
	RoomID  domain.RoomID `json:"roomId"`
	Payload string        `json:"payload"`
}

type ErrorReply struct {
	Type  string `json:"type"`
	Error string `json:"error"`
}

func NewWelcome(id domain.ConnID) Welcome {
	return Welcome{Type: TypeWelcome, Message: "Welcome to Ephero! You are now connected.", ClientID: id}
}

func NewRoomCreated(id domain.RoomID) RoomCreated {
	return RoomCreated{Type: TypeRoomCreated, Message: "Room created successfully", RoomID: id}
}

func NewRoomJoined(id domain.RoomID, members int) RoomJoined {
	return RoomJoined{Type: TypeRoomJoined, Message: "Successfully joined room", RoomID: id, MemberCount: members}
}

func NewRoomLeft() RoomLeft {
	return RoomLeft{Type: TypeRoomLeft, Message: "Successfully left room"}
}

func NewRoomsList(rooms []domain.RoomSummary) RoomsList {
	if rooms == nil {
		rooms = []domain.RoomSummary{}
	}
	return RoomsList{Type: TypeRoomsList, Rooms: rooms}
}

func NewUserJoined(id domain.ConnID) Presence { return Presence{Type: TypeUserJoined, UserID: id} }
func NewUserLeft(id domain.ConnID) Presence   { return Presence{Type: TypeUserLeft, UserID: id} }

func NewChatMessage(from domain.ConnID, body string) ChatMessage {
	return ChatMessage{Type: string(TypeMessage), UserID: from, Message: body}
}

func NewShareCreated(id domain.RoomID) ShareReply { return ShareReply{Type: TypeShareCreated, RoomID: id} }
func NewDataStored(id domain.RoomID) ShareReply   { return ShareReply{Type: TypeDataStored, RoomID: id} }

func NewDataRetrieved(id domain.RoomID, payload string) DataRetrieved {
	return DataRetrieved{Type: TypeDataRetrieved, RoomID: id, Payload: payload}
}

// NewError builds the unicast error reply for err.
func NewError(err error) ErrorReply {
	return ErrorReply{Type: TypeError, Error: domain.UserMessage(err)}
}

func NewErrorText(text string) ErrorReply {
	return ErrorReply{Type: TypeError, Error: text}
}
