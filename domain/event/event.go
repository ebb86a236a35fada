package event

import "chatline/domain"

// DomainEvent is anything the fan-out pipeline can deliver to a live
// connection. Exactly one concrete kind exists in this version.
type DomainEvent interface {
	RoomKey() domain.RoomKey
}

// MessageCreated is published after a message has been durably appended,
// never before, so delivery order matches append order.
type MessageCreated struct {
	Room    domain.RoomKey
	Message domain.Message
}

func (e MessageCreated) RoomKey() domain.RoomKey {
	return e.Room
}
