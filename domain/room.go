// Package domain contains core concepts of the messaging system.
// This file defines rooms and their deterministic two-party identity.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"chatline/errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// UserID is the opaque identifier handed to the core by the session layer.
// The core never authenticates it, it only authorizes via room membership.
type UserID int64

// RoomKey identifies the conversation between exactly two users.
// For any unordered pair {a,b} the key is "{min}_{max}", so deriving it
// from (a,b) and (b,a) always lands on the same room.
type RoomKey string

// Room is the persistent handle of a two-party conversation. Participants
// are fixed at creation; LastActivity moves forward on every new message
// and orders the conversation list.
type Room struct {
	Key          RoomKey
	CreatedAt    time.Time
	LastActivity time.Time
}

// DeriveRoomKey builds the canonical key for a pair of users.
// A user may not open a room with themselves.
func DeriveRoomKey(a, b UserID) (RoomKey, error) {
	if a == b {
		return "", errors.ErrSelfRoom
	}
	if a > b {
		a, b = b, a
	}
	return RoomKey(fmt.Sprintf("%d_%d", a, b)), nil
}

// Participants recovers the two user identifiers encoded in the key.
func (k RoomKey) Participants() (UserID, UserID, error) {
	left, right, found := strings.Cut(string(k), "_")
	if !found {
		return 0, 0, errors.ErrBadRoomKey
	}
	a, err := strconv.ParseInt(left, 10, 64)
	if err != nil {
		return 0, 0, errors.ErrBadRoomKey
	}
	b, err := strconv.ParseInt(right, 10, 64)
	if err != nil {
		return 0, 0, errors.ErrBadRoomKey
	}
	if a >= b {
		return 0, 0, errors.ErrBadRoomKey
	}
	return UserID(a), UserID(b), nil
}

// Other returns the peer of u inside the room, or false when u is not a
// participant at all.
func (k RoomKey) Other(u UserID) (UserID, bool) {
	a, b, err := k.Participants()
	if err != nil {
		return 0, false
	}
	switch u {
	case a:
		return b, true
	case b:
		return a, true
	default:
		return 0, false
	}
}
