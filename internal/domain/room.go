package domain

import (
	"regexp"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	RoomIDAlphabet = "0123456789ABCDEF"
	RoomIDLen      = 8
)

var roomIDPattern = regexp.MustCompile(`^[A-F0-9]{8}$`)

type RoomID string

// NewRoomID returns a random 8-character uppercase hex token. It is not
// collision-checked; the room registry retries against live ids.
func NewRoomID() (RoomID, error) {
	id, err := gonanoid.Generate(RoomIDAlphabet, RoomIDLen)
	if err != nil {
		return "", err
	}
	return RoomID(id), nil
}

// Valid reports whether id has the shape of a generated room token.
func (id RoomID) Valid() bool {
	return roomIDPattern.MatchString(string(id))
}

// RoomSummary is the diagnostics view of a live room.
type RoomSummary struct {
	ID            RoomID `json:"id"`
	MemberCount   int    `json:"memberCount"`
	CreatedAt     int64  `json:"createdAt"`
	TimeRemaining int64  `json:"timeRemaining"`
}

// RoomStats counts rooms currently held by the registry.
type RoomStats struct {
	TotalRooms   int `json:"totalRooms"`
	ActiveRooms  int `json:"activeRooms"`
	ExpiredRooms int `json:"expiredRooms"`
}
