package core

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dkeye/ephero/internal/domain"
	"github.com/dkeye/ephero/internal/protocol"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRoomTTL       = 5 * time.Minute
	DefaultSweepInterval = 30 * time.Second

	maxIDAttempts = 32
)

var ErrIDSpaceExhausted = errors.New("could not generate a free room id")

type RoomOptions struct {
	DefaultTTL    time.Duration
	MaxMembers    int
	SweepInterval time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time
	// NewID overrides room-id generation, for tests.
	NewID func() (domain.RoomID, error)
}

// RoomRegistry owns every live room. All structural changes (room creation and
// removal, membership add/remove) are serialized by one lock; broadcast only
// takes the room's own lock.
//
// Expiry is enforced twice: a periodic sweep (Run) and a lazy check on every
// lookup, so a room idle past its TTL is never handed out.
type RoomRegistry struct {
	mu         sync.Mutex
	rooms      map[domain.RoomID]*Room
	defaultTTL time.Duration
	maxMembers int
	sweepEvery time.Duration
	now        func() time.Time
	newID      func() (domain.RoomID, error)
}

func NewRoomRegistry(opts RoomOptions) *RoomRegistry {
	if opts.DefaultTTL <= 0 {
		opts.DefaultTTL = DefaultRoomTTL
	}
	if opts.MaxMembers <= 0 {
		opts.MaxMembers = DefaultMaxMembers
	}
	if opts.SweepInterval <= 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = domain.NewRoomID
	}
	return &RoomRegistry{
		rooms:      make(map[domain.RoomID]*Room),
		defaultTTL: opts.DefaultTTL,
		maxMembers: opts.MaxMembers,
		sweepEvery: opts.SweepInterval,
		now:        opts.Now,
		newID:      opts.NewID,
	}
}

func (rr *RoomRegistry) DefaultTTL() time.Duration {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.defaultTTL
}

// SetDefaultTTL changes the TTL of rooms created from now on.
func (rr *RoomRegistry) SetDefaultTTL(ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	rr.mu.Lock()
	defer rr.mu.Unlock()
	rr.defaultTTL = ttl
}

// CreateRoom registers a new empty room. A non-positive ttl selects the
// default.
func (rr *RoomRegistry) CreateRoom(ttl time.Duration) (*Room, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if ttl <= 0 {
		ttl = rr.defaultTTL
	}

	for range maxIDAttempts {
		id, err := rr.newID()
		if err != nil {
			return nil, fmt.Errorf("generate room id: %w", err)
		}
		if _, taken := rr.rooms[id]; taken {
			continue
		}
		room := newRoom(id, ttl, rr.maxMembers, rr.now)
		rr.rooms[id] = room
		log.Info().Str("module", "core.registry").Str("room", string(id)).Dur("ttl", ttl).Msg("room created")
		return room, nil
	}
	return nil, ErrIDSpaceExhausted
}

// GetRoom returns a live room. An expired room found here is evicted on the
// spot and reported as domain.ErrNotFound.
func (rr *RoomRegistry) GetRoom(id domain.RoomID) (*Room, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.getLocked(id)
}

func (rr *RoomRegistry) getLocked(id domain.RoomID) (*Room, error) {
	room, ok := rr.rooms[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if room.IsExpired() {
		rr.removeLocked(room, protocol.NoticeExpired)
		return nil, domain.ErrNotFound
	}
	return room, nil
}

// RemoveRoom destroys the room, telling remaining members it was closed.
// Removing an unknown id is a no-op.
func (rr *RoomRegistry) RemoveRoom(id domain.RoomID) {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	if room, ok := rr.rooms[id]; ok {
		rr.removeLocked(room, protocol.NoticeClosed)
	}
}

func (rr *RoomRegistry) removeLocked(room *Room, notice string) {
	if cur, ok := rr.rooms[room.id]; !ok || cur != room {
		return
	}
	delete(rr.rooms, room.id)
	room.destroy(notice)
	log.Info().Str("module", "core.registry").Str("room", string(room.id)).Str("reason", notice).Msg("room removed")
}

// AddClientToRoom attaches conn to the room. Failures leave both untouched.
func (rr *RoomRegistry) AddClientToRoom(id domain.RoomID, conn *Connection) (*Room, error) {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	room, err := rr.getLocked(id)
	if err != nil {
		return nil, err
	}
	if _, attached := conn.RoomID(); attached {
		return nil, domain.ErrAlreadyInRoom
	}
	if err := room.addClient(conn); err != nil {
		return nil, err
	}
	conn.attach(id, rr.now())
	return room, nil
}

// RemoveClientFromRoom detaches conn from its room and returns the room the
// remaining members are still in. It returns nil when conn was unattached or
// when the room is gone after the removal (emptied or found expired).
func (rr *RoomRegistry) RemoveClientFromRoom(conn *Connection) *Room {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	id, attached := conn.RoomID()
	if !attached {
		return nil
	}
	room, ok := rr.rooms[id]
	if !ok {
		conn.detach()
		return nil
	}
	expired := room.IsExpired()
	empty := room.removeClient(conn)
	conn.detach()

	switch {
	case empty:
		rr.removeLocked(room, "")
		return nil
	case expired:
		rr.removeLocked(room, protocol.NoticeExpired)
		return nil
	}
	return room
}

// SweepExpired removes every expired room and returns how many went.
func (rr *RoomRegistry) SweepExpired() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	n := 0
	for _, room := range rr.rooms {
		if room.IsExpired() {
			rr.removeLocked(room, protocol.NoticeExpired)
			n++
		}
	}
	if n > 0 {
		log.Info().Str("module", "core.registry").Int("removed", n).Int("remaining", len(rr.rooms)).Msg("expired rooms swept")
	}
	return n
}

// ActiveRoomSummaries lists non-expired rooms, oldest first.
func (rr *RoomRegistry) ActiveRoomSummaries() []domain.RoomSummary {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	out := make([]domain.RoomSummary, 0, len(rr.rooms))
	for _, room := range rr.rooms {
		if room.IsExpired() {
			continue
		}
		out = append(out, room.summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (rr *RoomRegistry) Stats() domain.RoomStats {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	st := domain.RoomStats{TotalRooms: len(rr.rooms)}
	for _, room := range rr.rooms {
		if room.IsExpired() {
			st.ExpiredRooms++
		} else {
			st.ActiveRooms++
		}
	}
	return st
}

// Run sweeps expired rooms until ctx is done.
func (rr *RoomRegistry) Run(ctx context.Context) {
	ticker := time.NewTicker(rr.sweepEvery)
	defer ticker.Stop()
	log.Info().Str("module", "core.registry").Dur("interval", rr.sweepEvery).Msg("expiry sweep started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "core.registry").Msg("expiry sweep stopped")
			return
		case <-ticker.C:
			rr.SweepExpired()
		}
	}
}

// Close destroys every room, telling members the room was closed.
func (rr *RoomRegistry) Close() {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	for _, room := range rr.rooms {
		rr.removeLocked(room, protocol.NoticeClosed)
	}
}
