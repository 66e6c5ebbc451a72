package app

import (
	"sync"

	"github.com/dkeye/ephero/internal/core"
	"github.com/dkeye/ephero/internal/domain"
	"github.com/rs/zerolog/log"
)

// ConnectionRegistry tracks every live connection by id. It knows nothing
// about rooms; membership is owned by core.RoomRegistry.
type ConnectionRegistry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*core.Connection
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{conns: make(map[domain.ConnID]*core.Connection)}
}

func (r *ConnectionRegistry) Register(c *core.Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[c.ID()] = c
	log.Info().Str("module", "app.registry").Str("sid", string(c.ID())).Int("total", len(r.conns)).Msg("connection registered")
}

// Unregister drops the connection and returns it, if it was known.
func (r *ConnectionRegistry) Unregister(id domain.ConnID) (*core.Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Int("total", len(r.conns)).Msg("connection unregistered")
	return c, true
}

func (r *ConnectionRegistry) Get(id domain.ConnID) (*core.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conns[id]
	return c, ok
}

func (r *ConnectionRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// All returns a snapshot; callers may use it without holding the registry.
func (r *ConnectionRegistry) All() []*core.Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*core.Connection, 0, len(r.conns))
	for _, c := range r.conns {
		out = append(out, c)
	}
	return out
}
