package domain

// MemberState holds a member's ephemeral flags. Entries exist only while
// the connection is a room member and reset on rejoin.
type MemberState struct {
	Muted         bool
	CameraOn      bool
	SharingScreen bool
}

// NewMemberState avoids raw literals in callers and keeps the defaults
// obvious: camera starts on, everything else off.
func NewMemberState() *MemberState {
	return &MemberState{CameraOn: true}
}
