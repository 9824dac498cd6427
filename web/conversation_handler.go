package web

import (
	"context"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gatherapp/gather/notify"
)

func (h *Handler) conversations(w http.ResponseWriter, r *http.Request) {
	convs, err := h.Service.Conversations(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, convs, http.StatusOK)
}

// sseNotifier delivers notifications as SSE events on an open stream.
type sseNotifier struct {
	push func(event string, v any)
}

func (n sseNotifier) Present(ctx context.Context, notification notify.Notification) error {
	notificationsPresented.Inc()
	n.push("notification", notification)
	return nil
}

// notificationStream pushes chat notifications for every joined event
// over SSE. Messages in the chat the user currently has open are skipped.
func (h *Handler) notificationStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.Service.AuthUser(ctx)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	convs, err := h.Service.Conversations(ctx)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	f, err := flusher(w)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	f.Flush()

	// Guard the writer: watcher ticks come from subscription goroutines.
	var mu sync.Mutex
	push := func(event string, v any) {
		mu.Lock()
		defer mu.Unlock()
		h.writeSSE(w, event, v)
		f.Flush()
	}

	watcher := notify.NewWatcher(
		h.Service.Cockroach,
		h.Service.Livefeed,
		sseNotifier{push: push},
		h.Service.Viewing,
		user.ID,
		h.ErrorLogger,
	)
	defer watcher.Close()

	g, gctx := errgroup.WithContext(ctx)
	for _, conv := range convs {
		if conv.Archived {
			continue
		}
		g.Go(func() error {
			return watcher.Watch(gctx, conv.EventID, conv.Title)
		})
	}
	if err := g.Wait(); err != nil {
		h.ErrorLogger.Error("watch event chats", "error", err)
	}

	<-ctx.Done()
}
