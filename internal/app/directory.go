package app

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/core"
	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

// roomState lives exactly as long as the room has members. The call-start
// stamp is latched once per such lifetime and dies with the room.
type roomState struct {
	order     []domain.ConnID
	members   map[domain.ConnID]*domain.MemberState
	started   bool
	startedAt time.Time
}

// Peer is one existing member as reported to a new joiner.
type Peer struct {
	ID          domain.ConnID
	Name        string
	ShouldOffer bool
}

type JoinResult struct {
	Room   domain.RoomID
	Others []Peer
	Count  int
	// CallStarted is true when this join latched the call-start stamp
	// (member count reached two for the first time this lifetime).
	CallStarted bool
	// StartedAt is zero until the call has started.
	StartedAt time.Time
}

type LeaveResult struct {
	Room  domain.RoomID
	Count int
	Empty bool
}

type RoomInfo struct {
	Name        domain.RoomID `json:"name"`
	MemberCount int           `json:"client_count"`
}

// Directory owns room membership and per-member ephemeral state. A single
// mutex serializes every membership and flag mutation, so concurrent joins
// and leaves on one room apply in a total order and call-start can never
// latch twice.
type Directory struct {
	mu    sync.Mutex
	reg   *Registry
	rooms map[domain.RoomID]*roomState
}

func NewDirectory(reg *Registry) *Directory {
	return &Directory{reg: reg, rooms: make(map[domain.RoomID]*roomState)}
}

// Join adds the connection to the room, creating it on first join, and
// installs default flags. Overlong display names are truncated; an empty
// name keeps the placeholder.
func (d *Directory) Join(room domain.RoomID, id domain.ConnID, name string) (JoinResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.reg.Name(id); !ok {
		return JoinResult{}, ErrUnknownConnection
	}
	if _, ok := d.reg.RoomOf(id); ok {
		return JoinResult{}, ErrAlreadyMember
	}

	if err := d.reg.SetProfile(id, domain.TruncateName(name)); err != nil {
		return JoinResult{}, err
	}

	st, ok := d.rooms[room]
	if !ok {
		st = &roomState{members: make(map[domain.ConnID]*domain.MemberState)}
		d.rooms[room] = st
		log.Info().Str("module", "app.directory").Str("room", string(room)).Msg("room created")
	}

	res := JoinResult{Room: room}
	for _, other := range st.order {
		otherName, _ := d.reg.Name(other)
		res.Others = append(res.Others, Peer{
			ID:          other,
			Name:        otherName,
			ShouldOffer: domain.OfferingSide(id, other) == id,
		})
	}

	st.order = append(st.order, id)
	st.members[id] = domain.NewMemberState()
	d.reg.setRoom(id, room)

	res.Count = len(st.members)
	if res.Count >= 2 && !st.started {
		st.started = true
		st.startedAt = time.Now()
		res.CallStarted = true
	}
	if st.started {
		res.StartedAt = st.startedAt
	}

	log.Info().Str("module", "app.directory").Str("conn", string(id)).
		Str("room", string(room)).Int("count", res.Count).Msg("member joined")
	return res, nil
}

// Leave removes the connection from its room. The last member out tears
// the room down, call-start stamp included.
func (d *Directory) Leave(id domain.ConnID) (LeaveResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.reg.RoomOf(id)
	if !ok {
		return LeaveResult{}, ErrNotAMember
	}
	st, ok := d.rooms[room]
	if !ok {
		d.reg.setRoom(id, "")
		return LeaveResult{}, ErrNotAMember
	}

	delete(st.members, id)
	for i, m := range st.order {
		if m == id {
			st.order = append(st.order[:i], st.order[i+1:]...)
			break
		}
	}
	d.reg.setRoom(id, "")

	res := LeaveResult{Room: room, Count: len(st.members), Empty: len(st.members) == 0}
	if res.Empty {
		delete(d.rooms, room)
		log.Info().Str("module", "app.directory").Str("room", string(room)).Msg("room destroyed")
	}
	log.Info().Str("module", "app.directory").Str("conn", string(id)).
		Str("room", string(room)).Int("count", res.Count).Msg("member left")
	return res, nil
}

func (d *Directory) SetMute(id domain.ConnID, muted bool) (domain.RoomID, error) {
	return d.setFlag(id, func(s *domain.MemberState) { s.Muted = muted })
}

func (d *Directory) SetCamera(id domain.ConnID, on bool) (domain.RoomID, error) {
	return d.setFlag(id, func(s *domain.MemberState) { s.CameraOn = on })
}

func (d *Directory) SetScreenShare(id domain.ConnID, sharing bool) (domain.RoomID, error) {
	return d.setFlag(id, func(s *domain.MemberState) { s.SharingScreen = sharing })
}

func (d *Directory) setFlag(id domain.ConnID, apply func(*domain.MemberState)) (domain.RoomID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	room, ok := d.reg.RoomOf(id)
	if !ok {
		return "", ErrNotAMember
	}
	st, ok := d.rooms[room]
	if !ok {
		return "", ErrNotAMember
	}
	ms, ok := st.members[id]
	if !ok {
		return "", ErrNotAMember
	}
	apply(ms)
	return room, nil
}

// Snapshot enumerates member flags in join order, for late-joiner catch-up.
func (d *Directory) Snapshot(room domain.RoomID) []core.MemberFlags {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, ok := d.rooms[room]
	if !ok {
		return nil
	}
	out := make([]core.MemberFlags, 0, len(st.order))
	for _, id := range st.order {
		ms, ok := st.members[id]
		if !ok {
			continue
		}
		out = append(out, core.MemberFlags{
			ID:            id,
			Muted:         ms.Muted,
			CameraOn:      ms.CameraOn,
			SharingScreen: ms.SharingScreen,
		})
	}
	return out
}

// Members returns the current member ids in join order.
func (d *Directory) Members(room domain.RoomID) []domain.ConnID {
	d.mu.Lock()
	defer d.mu.Unlock()

	st, ok := d.rooms[room]
	if !ok {
		return nil
	}
	out := make([]domain.ConnID, len(st.order))
	copy(out, st.order)
	return out
}

func (d *Directory) MemberCount(room domain.RoomID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	if st, ok := d.rooms[room]; ok {
		return len(st.members)
	}
	return 0
}

func (d *Directory) List() []RoomInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]RoomInfo, 0, len(d.rooms))
	for name, st := range d.rooms {
		out = append(out, RoomInfo{Name: name, MemberCount: len(st.members)})
	}
	return out
}
