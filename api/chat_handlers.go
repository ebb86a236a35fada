package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"chatline/auth"
	"chatline/domain"
	"chatline/errors"
	"chatline/services"

	"github.com/go-chi/chi/v5"
	"github.com/samber/lo"
)

type ChatHandler struct {
	log       *slog.Logger
	chat      services.IChatService
	directory services.IDirectoryService
}

func NewChatHandler(log *slog.Logger, chat services.IChatService, directory services.IDirectoryService) *ChatHandler {
	return &ChatHandler{log: log, chat: chat, directory: directory}
}

type openRoomRequest struct {
	With domain.UserID `json:"with"`
}

type roomResponse struct {
	Room domain.RoomKey `json:"room"`
}

// OpenRoom resolves or creates the room with another user.
func (h *ChatHandler) OpenRoom(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r.Context())

	var req openRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, errors.ErrValidation)
		return
	}

	room, err := h.chat.OpenRoom(user, req.With)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, roomResponse{Room: room.Key})
}

type sendMessageRequest struct {
	Room domain.RoomKey `json:"room"`
	Body string         `json:"body"`
}

func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.log, errors.ErrValidation)
		return
	}

	message, err := h.chat.SendMessage(user, req.Room, req.Body)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, toMessagePayload(message))
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r.Context())
	room := domain.RoomKey(chi.URLParam(r, "room"))
	limit, offset := pagination(r)

	messages, err := h.chat.Messages(user, room, limit, offset)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	payload := lo.Map(messages, func(m domain.Message, _ int) messagePayload {
		return toMessagePayload(m)
	})
	writeJSON(w, http.StatusOK, map[string]any{"messages": payload})
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r.Context())
	limit, offset := pagination(r)

	conversations, err := h.chat.Conversations(user, limit, offset)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	payload := lo.Map(conversations, func(c domain.ConversationView, _ int) conversationPayload {
		return toConversationPayload(c)
	})
	writeJSON(w, http.StatusOK, map[string]any{"conversations": payload})
}

type markReadResponse struct {
	Marked int64 `json:"marked"`
}

func (h *ChatHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r.Context())
	room := domain.RoomKey(chi.URLParam(r, "room"))

	marked, err := h.chat.MarkRoomRead(user, room)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, markReadResponse{Marked: marked})
}

type unreadResponse struct {
	Unread int64 `json:"unread"`
}

func (h *ChatHandler) UnreadTotal(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r.Context())

	total, err := h.chat.UnreadTotal(user)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, unreadResponse{Unread: total})
}

func (h *ChatHandler) SearchUsers(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r.Context())

	peers, err := h.directory.SearchUsers(r.Context(), user, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	payload := lo.Map(peers, func(p domain.Peer, _ int) peerPayload {
		return peerPayload{ID: p.ID, Name: p.Name, Email: p.Email}
	})
	writeJSON(w, http.StatusOK, map[string]any{"users": payload})
}

// mustUser reads the identity placed in the context by the auth middleware.
// Routes calling it are always mounted behind that middleware.
func mustUser(ctx context.Context) domain.UserID {
	user, _ := auth.UserFromContext(ctx)
	return user
}

// pagination parses limit and offset query parameters; the repositories
// normalize out-of-range values.
func pagination(r *http.Request) (int, int) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	return limit, offset
}
