package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"chatline/domain"
	"chatline/domain/event"
	"chatline/runtime"
)

const keepAliveInterval = 25 * time.Second

// StreamHandler serves the live event feed over server-sent events. Each
// authenticated user holds at most one stream; opening a second one takes
// over and the first request returns.
type StreamHandler struct {
	log      *slog.Logger
	registry *runtime.Registry
}

func NewStreamHandler(log *slog.Logger, registry *runtime.Registry) *StreamHandler {
	return &StreamHandler{log: log, registry: registry}
}

type streamEventPayload struct {
	Type    string         `json:"type"`
	Room    domain.RoomKey `json:"room"`
	Message messagePayload `json:"message"`
}

func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	user := mustUser(r.Context())

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	conn := h.registry.Connect(user)
	defer h.registry.Disconnect(user, conn.ID)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	h.log.Debug("stream opened", "user", user, "conn", conn.ID)
	defer h.log.Debug("stream closed", "user", user, "conn", conn.ID)

	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-conn.Done():
			// replaced by a newer connection of the same user
			return
		case evt := <-conn.Events:
			if err := h.writeEvent(w, evt); err != nil {
				h.log.Debug("stream write failed", "user", user, "error", err)
				return
			}
			flusher.Flush()
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func (h *StreamHandler) writeEvent(w http.ResponseWriter, evt event.DomainEvent) error {
	var payload streamEventPayload
	switch e := evt.(type) {
	case event.MessageCreated:
		payload = streamEventPayload{
			Type:    "message-created",
			Room:    e.Room,
			Message: toMessagePayload(e.Message),
		}
	default:
		h.log.Warn("unknown event type on stream", "room", evt.RoomKey())
		return nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
