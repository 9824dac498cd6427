// Package web exposes the JSON API: authentication, event browsing and
// joining, the conversations tab, the group-chat endpoints, and the SSE
// streams that keep chat screens live.
package web

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gatherapp/gather/auth"
	"github.com/gatherapp/gather/service"
)

type Handler struct {
	Service     *service.Service
	Logger      *slog.Logger
	ErrorLogger *slog.Logger

	handler http.Handler
	once    sync.Once
}

func (h *Handler) init() {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("GET /api/auth_user", h.authUser)
	mux.HandleFunc("PUT /api/auth_user", h.updateAuthUser)
	mux.HandleFunc("GET /api/users/{userID}", h.user)

	mux.HandleFunc("POST /api/events", h.createEvent)
	mux.HandleFunc("GET /api/events", h.events)
	mux.HandleFunc("GET /api/events/{eventID}", h.event)
	mux.HandleFunc("POST /api/events/{eventID}/toggle-join", h.toggleJoinEvent)

	mux.HandleFunc("GET /api/events/{eventID}/messages", h.messages)
	mux.HandleFunc("POST /api/events/{eventID}/messages", h.sendMessage)
	mux.HandleFunc("POST /api/events/{eventID}/typing", h.typingPing)
	mux.HandleFunc("DELETE /api/events/{eventID}/typing", h.typingStop)
	mux.HandleFunc("POST /api/events/{eventID}/read", h.markRead)
	mux.HandleFunc("GET /api/events/{eventID}/chat", h.chatStream)
	mux.HandleFunc("POST /api/events/{eventID}/chat/edit", h.chatEdit)
	mux.HandleFunc("PUT /api/events/{eventID}/chat/at-bottom", h.chatAtBottom)

	mux.HandleFunc("GET /api/conversations", h.conversations)
	mux.HandleFunc("GET /api/notifications", h.notificationStream)

	mux.Handle("GET /metrics", promhttp.Handler())

	h.handler = h.withUser(mux)
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(h.init)
	h.handler.ServeHTTP(w, r)
}

// withUser resolves the bearer token, if any, and stores the user in the
// request context. Handlers that need authentication rely on the service
// rejecting contexts without one.
func (h *Handler) withUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		user, err := h.Service.UserFromToken(r.Context(), token)
		if err != nil {
			h.respondErr(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.ContextWithUser(r.Context(), user)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	authorization := r.Header.Get("Authorization")
	if !strings.HasPrefix(authorization, prefix) {
		return "", false
	}
	token := strings.TrimPrefix(authorization, prefix)
	return token, token != ""
}
