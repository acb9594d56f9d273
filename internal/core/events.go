package core

import (
	"encoding/json"

	"github.com/GowthamJegatheeswaran/Network-Project/internal/domain"
)

// Outbound event types. Names follow the wire protocol, not Go style.
const (
	TypeExistingUsers     = "existing-users"
	TypeMemberState       = "member-state"
	TypeUserConnected     = "user-connected"
	TypeUserDisconnected  = "user-disconnected"
	TypeParticipantCount  = "participant-count"
	TypeCallStarted       = "call-started"
	TypeOffer             = "offer"
	TypeAnswer            = "answer"
	TypeCandidate         = "candidate"
	TypeChat              = "chat"
	TypeDirect            = "direct"
	TypeMuteStatus        = "mute-status"
	TypeCameraStatus      = "camera-status"
	TypeScreenShareStatus = "screenshare-status"
	TypeMemberUpdated     = "member-updated"
)

// PeerInfo describes an existing room member to a new joiner. ShouldOffer
// tells the joiner whether it is the offering side toward that peer.
type PeerInfo struct {
	ID          domain.ConnID `json:"id"`
	Name        string        `json:"username"`
	ShouldOffer bool          `json:"should_offer"`
}

type ExistingUsersEvent struct {
	Type  string        `json:"type"`
	Room  domain.RoomID `json:"room"`
	Users []PeerInfo    `json:"users"`
}

// MemberFlags is one member's ephemeral state as seen by a late joiner.
type MemberFlags struct {
	ID            domain.ConnID `json:"id"`
	Muted         bool          `json:"muted"`
	CameraOn      bool          `json:"camera_on"`
	SharingScreen bool          `json:"sharing_screen"`
}

type MemberStateEvent struct {
	Type    string        `json:"type"`
	Members []MemberFlags `json:"members"`
}

// UserConnectedEvent announces a new member. ShouldOffer is per recipient:
// for each (recipient, joiner) pair exactly one of the recipient's hint and
// the joiner's existing-users hint is true.
type UserConnectedEvent struct {
	Type        string        `json:"type"`
	ID          domain.ConnID `json:"id"`
	Name        string        `json:"username"`
	ShouldOffer bool          `json:"should_offer"`
}

type UserDisconnectedEvent struct {
	Type string        `json:"type"`
	ID   domain.ConnID `json:"id"`
}

type ParticipantCountEvent struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

type CallStartedEvent struct {
	Type string `json:"type"`
	// StartedAt is epoch millis; receivers derive elapsed time from it.
	StartedAt int64 `json:"started_at"`
}

// NegotiationEvent relays an opaque offer/answer/candidate payload to its
// target with the sender identity attached. Payload is never parsed here.
type NegotiationEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	From    domain.ConnID   `json:"from"`
	Name    string          `json:"username,omitempty"`
}

type ChatEvent struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Name string `json:"username"`
}

type DirectEvent struct {
	Type string        `json:"type"`
	Text string        `json:"text"`
	Name string        `json:"username"`
	From domain.ConnID `json:"from"`
	To   domain.ConnID `json:"to"`
}

// StatusEvent carries a single flag change (mute/camera/screen share),
// discriminated by Type.
type StatusEvent struct {
	Type  string        `json:"type"`
	ID    domain.ConnID `json:"id"`
	Value bool          `json:"value"`
}

type MemberUpdatedEvent struct {
	Type string        `json:"type"`
	ID   domain.ConnID `json:"id"`
	Name string        `json:"username"`
}
