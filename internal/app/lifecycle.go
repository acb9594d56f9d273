package app

import (
	"time"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

type SessionEventKind int

const (
	EventParticipantCount SessionEventKind = iota
	EventCallStarted
)

// SessionEvent is a broadcast intent derived from a membership change.
// An empty To means the whole room; otherwise only that member.
type SessionEvent struct {
	Kind      SessionEventKind
	Room      domain.RoomID
	To        domain.ConnID
	Count     int
	StartedAt time.Time
}

// Tracker derives room-level broadcasts from Directory results. It holds
// no state of its own: the Directory already owns the count and the
// call-start stamp, and elapsed time is computed by receivers from the
// broadcast stamp, never ticked here.
type Tracker struct{}

func (Tracker) OnJoin(id domain.ConnID, res JoinResult) []SessionEvent {
	events := []SessionEvent{{
		Kind:  EventParticipantCount,
		Room:  res.Room,
		Count: res.Count,
	}}
	switch {
	case res.CallStarted:
		events = append(events, SessionEvent{
			Kind:      EventCallStarted,
			Room:      res.Room,
			StartedAt: res.StartedAt,
		})
	case !res.StartedAt.IsZero():
		// Late joiner: the call began earlier, replay the stamp to the
		// joiner only.
		events = append(events, SessionEvent{
			Kind:      EventCallStarted,
			Room:      res.Room,
			To:        id,
			StartedAt: res.StartedAt,
		})
	}
	return events
}

func (Tracker) OnLeave(res LeaveResult) []SessionEvent {
	if res.Empty {
		// Room is gone, nobody left to notify.
		return nil
	}
	return []SessionEvent{{
		Kind:  EventParticipantCount,
		Room:  res.Room,
		Count: res.Count,
	}}
}
