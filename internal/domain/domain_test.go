package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoomID(t *testing.T) {
	seen := make(map[RoomID]struct{})
	for range 100 {
		id, err := NewRoomID()
		require.NoError(t, err)
		assert.Len(t, string(id), RoomIDLen)
		assert.True(t, id.Valid(), "generated id %q", id)
		seen[id] = struct{}{}
	}
	assert.Greater(t, len(seen), 90)
}

func TestRoomID_Valid(t *testing.T) {
	tests := []struct {
		id   RoomID
		want bool
	}{
		{"DEADBEEF", true},
		{"0123ABCD", true},
		{"deadbeef", false},
		{"DEADBEE", false},
		{"DEADBEEF0", false},
		{"GHIJKLMN", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.Valid())
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not found", ErrNotFound, "Room not found"},
		{"wrapped not found", fmt.Errorf("join %s: %w", "DEADBEEF", ErrNotFound), "Room not found"},
		{"full", ErrRoomFull, "Room is full"},
		{"already", ErrAlreadyInRoom, "Client is already in a room"},
		{"rate", ErrRateLimited, "Rate limit exceeded"},
		{"malformed", ErrMalformedFrame, "Invalid JSON message"},
		{"input reason", Invalid("Invalid payload"), "Invalid payload"},
		{"bare input", ErrInvalidInput, "Invalid input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

func TestInvalid_IsInvalidInput(t *testing.T) {
	assert.ErrorIs(t, Invalid("Room ID is required"), ErrInvalidInput)
}
