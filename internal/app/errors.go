package app

import "errors"

var (
	// ErrDuplicateConnection means the transport handed out an id twice.
	// Fatal to that connection's setup, never to the process.
	ErrDuplicateConnection = errors.New("duplicate connection id")

	// ErrUnknownConnection marks events from unregistered or already
	// disconnected connections. Dropped at the router boundary.
	ErrUnknownConnection = errors.New("unknown connection")

	// ErrAlreadyMember rejects a join while the connection is still a
	// member of some room. No state is mutated.
	ErrAlreadyMember = errors.New("already a room member")

	// ErrNotAMember marks room-scoped events from connections without a
	// current room. Dropped at the router boundary.
	ErrNotAMember = errors.New("not a room member")
)
