package services

import (
	"log/slog"

	"chatline/domain"
	"chatline/domain/event"
	"chatline/errors"
	"chatline/moderation"
	"chatline/observability"
	"chatline/repositories"
)

type IChatService interface {
	OpenRoom(user, other domain.UserID) (domain.Room, error)
	SendMessage(sender domain.UserID, room domain.RoomKey, body string) (domain.Message, error)
	MarkRoomRead(user domain.UserID, room domain.RoomKey) (int64, error)
	Messages(user domain.UserID, room domain.RoomKey, limit, offset int) ([]domain.Message, error)
	Conversations(user domain.UserID, limit, offset int) ([]domain.ConversationView, error)
	UnreadTotal(user domain.UserID) (int64, error)
}

// ChatService orchestrates the store, moderation and the fan-out pipeline.
// Every operation authorizes through room membership before touching data;
// the publish of a message-created event only ever fires after the append
// is durable.
type ChatService struct {
	log           *slog.Logger
	store         *repositories.Store
	events        chan<- event.DomainEvent
	moderator     *moderation.Moderator
	metrics       *observability.Metrics
	maxBodyLength int
}

func NewChatService(log *slog.Logger, store *repositories.Store,
	events chan<- event.DomainEvent, moderator *moderation.Moderator,
	metrics *observability.Metrics, maxBodyLength int) *ChatService {
	return &ChatService{
		log:           log,
		store:         store,
		events:        events,
		moderator:     moderator,
		metrics:       metrics,
		maxBodyLength: maxBodyLength,
	}
}

// OpenRoom lazily creates the room between user and other, or returns the
// existing one. The other user must exist; opening a room with yourself is
// a validation error, surfaced by the key derivation.
func (s *ChatService) OpenRoom(user, other domain.UserID) (domain.Room, error) {
	if _, err := s.store.GetUserByID(other); err != nil {
		return domain.Room{}, err
	}
	return s.store.CreateOrGetRoom(user, other)
}

// SendMessage validates the body, checks membership, appends, then
// publishes the live event carrying the full message.
func (s *ChatService) SendMessage(sender domain.UserID, room domain.RoomKey, body string) (domain.Message, error) {
	if err := s.validateBody(body); err != nil {
		return domain.Message{}, err
	}
	if err := s.requireMembership(room, sender); err != nil {
		return domain.Message{}, err
	}

	if s.moderator != nil {
		body = s.moderator.Censor(body)
	}

	message, err := s.store.AppendMessage(room, sender, body)
	if err != nil {
		return domain.Message{}, err
	}
	s.metrics.MessagesSent.Inc()

	s.publish(event.MessageCreated{Room: room, Message: message})
	return message, nil
}

// MarkRoomRead marks every unread message from the peer as read and
// returns how many were newly marked. Clients re-poll their unread totals
// afterwards; no separate event is pushed.
func (s *ChatService) MarkRoomRead(user domain.UserID, room domain.RoomKey) (int64, error) {
	if err := s.requireMembership(room, user); err != nil {
		return 0, err
	}
	return s.store.MarkRead(room, user)
}

// Messages lists a room's messages newest first for a participant.
func (s *ChatService) Messages(user domain.UserID, room domain.RoomKey, limit, offset int) ([]domain.Message, error) {
	if err := s.requireMembership(room, user); err != nil {
		return nil, err
	}
	return s.store.ListByRoom(room, limit, offset)
}

func (s *ChatService) Conversations(user domain.UserID, limit, offset int) ([]domain.ConversationView, error) {
	return s.store.ListConversations(user, limit, offset)
}

func (s *ChatService) UnreadTotal(user domain.UserID) (int64, error) {
	return s.store.CountUnreadForUser(user)
}

func (s *ChatService) validateBody(body string) error {
	length := len([]rune(body))
	switch {
	case isBlank(body):
		return errors.ErrEmptyBody
	case length > s.maxBodyLength:
		return errors.ErrBodyTooLong
	default:
		return nil
	}
}

// requireMembership folds the membership check into the error taxonomy:
// a non-participant learns nothing beyond "no access".
func (s *ChatService) requireMembership(room domain.RoomKey, user domain.UserID) error {
	member, err := s.store.IsParticipant(room, user)
	if err != nil {
		return err
	}
	if !member {
		return errors.ErrForbidden
	}
	return nil
}

// publish hands the event to the fan-out channel. The channel is buffered
// and drained by a single worker; if it is ever full the event is dropped
// and clients recover through their next poll.
func (s *ChatService) publish(evt event.DomainEvent) {
	select {
	case s.events <- evt:
	default:
		s.metrics.EventsDropped.Inc()
		s.log.Warn("publish channel full, dropping event", "room", evt.RoomKey())
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
