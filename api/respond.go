// Package api exposes the chat core over HTTP and server-sent events.
// Handlers translate between the wire shapes and the services; they hold
// no business rules of their own.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"chatline/domain"
	"chatline/errors"
)

type messagePayload struct {
	ID     int64          `json:"id"`
	Room   domain.RoomKey `json:"room"`
	Sender domain.UserID  `json:"sender"`
	Body   string         `json:"body"`
	SentAt time.Time      `json:"sentAt"`
	ReadAt *time.Time     `json:"readAt"`
}

func toMessagePayload(m domain.Message) messagePayload {
	return messagePayload{
		ID:     m.ID,
		Room:   m.Room,
		Sender: m.Sender,
		Body:   m.Body,
		SentAt: m.SentAt,
		ReadAt: m.ReadAt,
	}
}

type peerPayload struct {
	ID    domain.UserID `json:"id"`
	Name  string        `json:"name"`
	Email string        `json:"email"`
}

type conversationPayload struct {
	Room         domain.RoomKey `json:"room"`
	Peer         peerPayload    `json:"peer"`
	LastMessage  string         `json:"lastMessage"`
	Unread       int64          `json:"unread"`
	LastActivity time.Time      `json:"lastActivity"`
}

func toConversationPayload(c domain.ConversationView) conversationPayload {
	return conversationPayload{
		Room:         c.Room,
		Peer:         peerPayload{ID: c.Peer.ID, Name: c.Peer.Name, Email: c.Peer.Email},
		LastMessage:  c.LastMessage,
		Unread:       c.Unread,
		LastActivity: c.LastActivity,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a domain error onto its HTTP status. Internal errors are
// logged with detail but leave the wire with a generic message.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	status := errors.HTTPStatus(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Error("request failed", "error", err)
		message = "internal error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}
