package core

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/dkeye/ephero/internal/domain"
)

// Connection is one live transport session. Its room reference is only ever
// changed by RoomRegistry, which keeps it in step with room membership.
type Connection struct {
	id     domain.ConnID
	signal SignalConnection

	RemoteAddr string
	UserAgent  string

	mu       sync.RWMutex
	roomID   domain.RoomID
	joinedAt time.Time
}

func NewConnection(id domain.ConnID, signal SignalConnection) *Connection {
	return &Connection{id: id, signal: signal}
}

func (c *Connection) ID() domain.ConnID { return c.id }

// RoomID returns the room the connection is attached to, if any.
func (c *Connection) RoomID() (domain.RoomID, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID, c.roomID != ""
}

// JoinedAt is zero while the connection is unattached.
func (c *Connection) JoinedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.joinedAt
}

func (c *Connection) IsOpen() bool { return c.signal.IsOpen() }

func (c *Connection) Close() { c.signal.Close() }

// Send serializes v and queues it on the transport.
func (c *Connection) Send(v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.SendFrame(b)
}

func (c *Connection) SendFrame(f Frame) error {
	return c.signal.TrySend(f)
}

func (c *Connection) attach(id domain.RoomID, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = id
	c.joinedAt = at
}

func (c *Connection) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = ""
	c.joinedAt = time.Time{}
}
