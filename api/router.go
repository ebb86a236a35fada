package api

import (
	"log/slog"
	"net/http"

	"chatline/auth"
	"chatline/observability"
	"chatline/runtime"
	"chatline/services"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps carries everything the router mounts. Registry and monitor are
// concrete because the stream and diagnostics handlers need their full
// surface, not a service interface.
type Deps struct {
	Log        *slog.Logger
	Auth       services.IAuthService
	Chat       services.IChatService
	Directory  services.IDirectoryService
	Tokens     *auth.TokenManager
	Registry   *runtime.Registry
	Monitor    *observability.Monitor
	Metrics    *observability.Metrics
	PromGather prometheus.Gatherer
}

// NewRouter assembles the HTTP surface. Auth and operational endpoints are
// public; everything under /chat requires a bearer token.
func NewRouter(deps Deps) http.Handler {
	authHandler := NewAuthHandler(deps.Log, deps.Auth)
	chatHandler := NewChatHandler(deps.Log, deps.Chat, deps.Directory)
	streamHandler := NewStreamHandler(deps.Log, deps.Registry)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(Instrument(deps.Log, deps.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/diagnostics", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, deps.Monitor.Latest())
	})
	r.Method(http.MethodGet, "/metrics",
		promhttp.HandlerFor(deps.PromGather, promhttp.HandlerOpts{}))

	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/chat", func(r chi.Router) {
		r.Use(auth.Middleware(deps.Tokens))

		r.Get("/stream", streamHandler.Stream)
		r.Post("/rooms", chatHandler.OpenRoom)
		r.Get("/conversations", chatHandler.ListConversations)
		r.Get("/rooms/{room}/messages", chatHandler.ListMessages)
		r.Post("/rooms/{room}/read", chatHandler.MarkRead)
		r.Post("/messages", chatHandler.SendMessage)
		r.Get("/unread", chatHandler.UnreadTotal)
		r.Get("/users/search", chatHandler.SearchUsers)
	})

	return r
}
