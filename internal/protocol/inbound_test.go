package protocol

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/ephero/internal/domain"
)

func TestParseEnvelope_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", "not json"},
		{"array", `["create_room"]`},
		{"roomId wrong type", `{"type":"join_room","roomId":42}`},
		{"truncated", `{"type":"message"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseEnvelope([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrMalformedFrame)
		})
	}
}

func TestEnvelope_Inbound(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Inbound
		wantErr string
	}{
		{name: "create", data: `{"type":"create_room"}`, want: CreateRoom{}},
		{name: "join", data: `{"type":"join_room","roomId":"DEADBEEF"}`, want: JoinRoom{RoomID: "DEADBEEF"}},
		{name: "join missing id", data: `{"type":"join_room"}`, wantErr: "Room ID is required"},
		{name: "join bad shape", data: `{"type":"join_room","roomId":"nope"}`, wantErr: "Invalid room ID"},
		{name: "leave", data: `{"type":"leave_room"}`, want: LeaveRoom{}},
		{name: "message", data: `{"type":"message","message":"hi"}`, want: Chat{Body: "hi"}},
		{name: "message empty", data: `{"type":"message","message":""}`, wantErr: "Message content is required"},
		{name: "rooms", data: `{"type":"get_rooms"}`, want: GetRooms{}},
		{name: "create share", data: `{"type":"create-room"}`, want: CreateShare{}},
		{name: "send data", data: `{"type":"send-data","roomId":"0A1B2C3D","payload":"blob"}`, want: SendData{RoomID: "0A1B2C3D", Payload: "blob"}},
		{name: "send data no payload", data: `{"type":"send-data","roomId":"0A1B2C3D"}`, wantErr: "Payload is required"},
		{name: "join share", data: `{"type":"join-room","roomId":"0A1B2C3D"}`, want: JoinShare{RoomID: "0A1B2C3D"}},
		{name: "unknown", data: `{"type":"dance"}`, wantErr: "Unknown message type"},
		{name: "missing type", data: `{}`, wantErr: "Unknown message type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, err := ParseEnvelope([]byte(tt.data))
			require.NoError(t, err)

			in, err := env.Inbound()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
				assert.Equal(t, tt.wantErr, domain.UserMessage(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, in)
			assert.Equal(t, env.Type, in.Type())
			assert.True(t, in.Type().Known())
		})
	}
}

func TestOutbound_WireShape(t *testing.T) {
	b, err := json.Marshal(NewChatMessage("conn-a", "hi"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"message","userId":"conn-a","message":"hi"}`, string(b))

	b, err = json.Marshal(NewError(domain.ErrNotFound))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"error","error":"Room not found"}`, string(b))

	b, err = json.Marshal(NewRoomsList(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"rooms_list","rooms":[]}`, string(b))
}
