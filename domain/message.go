// Package domain contains core concepts of the messaging system.
// This file defines Message records and related rules.
// Once appended, a message is immutable except for the single
// read-at transition (nil -> timestamp), which is never reversed.
package domain

import "time"

// Message is one chat event inside a room. The store assigns the strictly
// increasing ID, which doubles as a stable pagination cursor.
type Message struct {
	ID     int64
	Room   RoomKey
	Sender UserID
	Body   string
	SentAt time.Time
	ReadAt *time.Time // nil means unread
}

// Unread reports whether the message still waits for its recipient.
func (m Message) Unread() bool {
	return m.ReadAt == nil
}
