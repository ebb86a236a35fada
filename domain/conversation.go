package domain

import "time"

// Peer is the public slice of the other participant shown in a
// conversation row.
type Peer struct {
	ID    UserID
	Name  string
	Email string
}

// ConversationView is a derived row, recomputed on every list request so it
// always reflects the latest persisted state. It is never cached or stored.
type ConversationView struct {
	Room         RoomKey
	Peer         Peer
	LastMessage  string // empty when the room has no messages yet
	Unread       int64
	LastActivity time.Time
}
