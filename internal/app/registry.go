package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/core"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

type connEntry struct {
	Name   string
	Room   domain.RoomID
	Signal core.SignalConnection
}

// Registry owns every live connection: its display name, current room and
// transport endpoint. All room membership writes go through the Directory,
// which keeps the two views consistent.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{conns: make(map[domain.ConnID]*connEntry)}
}

func (r *Registry) Register(id domain.ConnID, sig core.SignalConnection) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; ok {
		return ErrDuplicateConnection
	}
	r.conns[id] = &connEntry{Name: domain.DefaultName, Signal: sig}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("registered connection")
	return nil
}

func (r *Registry) SetProfile(id domain.ConnID, name string) error {
	clean, err := domain.SanitizeName(name)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return ErrUnknownConnection
	}
	e.Name = clean
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Str("name", clean).Msg("updated profile")
	return nil
}

// Unregister removes the entry and reports the room it last belonged to.
// Idempotent: a second call for the same id is a no-op.
func (r *Registry) Unregister(id domain.ConnID) (domain.RoomID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return "", false
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("unregistered connection")
	return e.Room, true
}

func (r *Registry) Name(id domain.ConnID) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok {
		return e.Name, true
	}
	return "", false
}

func (r *Registry) Signal(id domain.ConnID) (core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.conns[id]; ok && e.Signal != nil {
		return e.Signal, true
	}
	return nil, false
}

// RoomOf reports the connection's current room, if it is a member of one.
func (r *Registry) RoomOf(id domain.ConnID) (domain.RoomID, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok || e.Room == "" {
		return "", false
	}
	return e.Room, true
}

// setRoom is Directory-only: membership changes must stay in step with the
// room member sets.
func (r *Registry) setRoom(id domain.ConnID, room domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		return false
	}
	e.Room = room
	return true
}
