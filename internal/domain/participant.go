// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"unicode/utf8"
)

const (
	MaxNameLen = 36

	// DefaultName replaces an empty display name on join.
	DefaultName = "Guest"
)

var ErrNameTooLong = errors.New("display name too long")

type (
	// ConnID identifies one live transport endpoint. IDs are minted at
	// accept time and are lexicographically comparable, which gives the
	// offering-side rule its total order.
	ConnID string

	// RoomID is a caller-supplied, case-sensitive room name.
	RoomID string
)

type Participant struct {
	ID   ConnID `json:"id"`
	Name string `json:"username"`
}

// SanitizeName applies the display-name rules: empty becomes the
// placeholder, overlong names are rejected.
func SanitizeName(name string) (string, error) {
	if name == "" {
		return DefaultName, nil
	}
	if len(name) > MaxNameLen {
		return "", ErrNameTooLong
	}
	return name, nil
}

// TruncateName cuts an overlong name down to the byte budget without
// splitting a multibyte rune. Used on the join path, where overlong names
// are shortened rather than rejected.
func TruncateName(name string) string {
	if len(name) <= MaxNameLen {
		return name
	}
	cut := MaxNameLen
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

// OfferingSide returns the member of the pair responsible for initiating
// peer negotiation. Both sides of a pair can compute this independently
// from the two ids alone; exactly one of them is the offerer.
func OfferingSide(a, b ConnID) ConnID {
	if a < b {
		return a
	}
	return b
}
