package core

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/dkeye/ephero/internal/domain"
	"github.com/dkeye/ephero/internal/protocol"
	"github.com/rs/zerolog/log"
)

const DefaultMaxMembers = 10

// PublishResult reports delivery stats/backpressure to the router.
type PublishResult struct {
	SentTo  int
	Dropped []*Connection
}

// Room is a threadsafe in-memory ephemeral channel.
// It never closes adapter-owned resources.
type Room struct {
	id         domain.RoomID
	ttl        time.Duration
	maxMembers int
	createdAt  time.Time
	now        func() time.Time

	mu           sync.Mutex
	members      map[domain.ConnID]*Connection
	lastActivity time.Time
	data         string
	hasData      bool
	closed       bool
}

func newRoom(id domain.RoomID, ttl time.Duration, maxMembers int, now func() time.Time) *Room {
	t := now()
	return &Room{
		id:           id,
		ttl:          ttl,
		maxMembers:   maxMembers,
		createdAt:    t,
		now:          now,
		members:      make(map[domain.ConnID]*Connection),
		lastActivity: t,
	}
}

func (r *Room) ID() domain.RoomID    { return r.id }
func (r *Room) TTL() time.Duration   { return r.ttl }
func (r *Room) MaxMembers() int      { return r.maxMembers }
func (r *Room) CreatedAt() time.Time { return r.createdAt }

func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivity
}

func (r *Room) MemberCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Has reports whether the connection is currently a member.
func (r *Room) Has(id domain.ConnID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.members[id]
	return ok
}

func (r *Room) IsExpired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expiredLocked()
}

func (r *Room) expiredLocked() bool {
	return r.now().Sub(r.lastActivity) > r.ttl
}

// TimeRemaining is the idle time left before the room expires.
func (r *Room) TimeRemaining() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	left := r.ttl - r.now().Sub(r.lastActivity)
	if left < 0 {
		return 0
	}
	return left
}

// Touch refreshes activity, restarting the idle countdown.
func (r *Room) Touch() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastActivity = r.now()
}

func (r *Room) addClient(c *Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return domain.ErrNotFound
	}
	if len(r.members) >= r.maxMembers {
		return domain.ErrRoomFull
	}
	r.members[c.ID()] = c
	r.lastActivity = r.now()
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("sid", string(c.ID())).Int("members", len(r.members)).Msg("member added")
	return nil
}

// removeClient reports whether the room is empty afterwards.
func (r *Room) removeClient(c *Connection) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, c.ID())
	r.lastActivity = r.now()
	log.Info().Str("module", "core.room").Str("room", string(r.id)).Str("sid", string(c.ID())).Int("members", len(r.members)).Msg("member removed")
	return len(r.members) == 0
}

// Broadcast serializes v once and fans it out to every open member except
// exclude. Broadcasts on one room are delivered in call order.
func (r *Room) Broadcast(v any, exclude *Connection) (PublishResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return PublishResult{}, err
	}
	return r.BroadcastFrame(data, exclude), nil
}

func (r *Room) BroadcastFrame(data Frame, exclude *Connection) PublishResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := PublishResult{}
	if r.closed {
		return res
	}
	r.lastActivity = r.now()
	for _, m := range r.members {
		if m == exclude || !m.IsOpen() {
			continue
		}
		if err := m.SendFrame(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "core.room").Str("room", string(r.id)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	return res
}

// SetData stores the single store-and-forward payload; last write wins.
func (r *Room) SetData(payload string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = payload
	r.hasData = true
	r.lastActivity = r.now()
}

func (r *Room) Data() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.data, r.hasData
}

// destroy notifies remaining members with a terminal error notice, detaches
// them and drops the payload. Only the first call has any effect.
func (r *Room) destroy(notice string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true

	if len(r.members) > 0 && notice != "" {
		frame, err := json.Marshal(protocol.NewErrorText(notice))
		if err == nil {
			for _, m := range r.members {
				if m.IsOpen() {
					_ = m.SendFrame(frame)
				}
			}
		}
	}
	for id, m := range r.members {
		m.detach()
		delete(r.members, id)
	}
	r.data = ""
	r.hasData = false
}

func (r *Room) summary() domain.RoomSummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	left := r.ttl - r.now().Sub(r.lastActivity)
	if left < 0 {
		left = 0
	}
	return domain.RoomSummary{
		ID:            r.id,
		MemberCount:   len(r.members),
		CreatedAt:     r.createdAt.UnixMilli(),
		TimeRemaining: left.Milliseconds(),
	}
}
