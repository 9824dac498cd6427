package web

import (
	"net/http"
	"sync"

	"github.com/gatherapp/gather/chat"
	"github.com/gatherapp/gather/service"
	"github.com/gatherapp/gather/types"
)

func (h *Handler) messages(w http.ResponseWriter, r *http.Request) {
	pageArgs, err := parsePageArgs(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	in := types.ListMessages{
		EventID:  r.PathValue("eventID"),
		PageArgs: pageArgs,
	}

	page, err := h.Service.Messages(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, page, http.StatusOK)
}

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var in types.CreateMessage
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}
	in.EventID = r.PathValue("eventID")

	out, err := h.Service.SendMessage(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	messagesSent.Inc()
	h.respond(w, out, http.StatusCreated)
}

func (h *Handler) typingPing(w http.ResponseWriter, r *http.Request) {
	in := types.RefreshTypingPresence{EventID: r.PathValue("eventID")}

	if err := h.Service.TypingPing(r.Context(), in); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) typingStop(w http.ResponseWriter, r *http.Request) {
	in := types.ClearTypingPresence{EventID: r.PathValue("eventID")}

	if err := h.Service.TypingStop(r.Context(), in); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) markRead(w http.ResponseWriter, r *http.Request) {
	in := types.MarkRead{EventID: r.PathValue("eventID")}

	if err := h.Service.MarkRead(r.Context(), in); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// chatEdit forwards a keystroke to the caller's open chat session, which
// owns the typing heartbeat.
func (h *Handler) chatEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ChatEdit(r.Context(), r.PathValue("eventID")); err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// chatAtBottom reports the caller's scroll position to their open chat
// session.
func (h *Handler) chatAtBottom(w http.ResponseWriter, r *http.Request) {
	var in struct {
		AtBottom bool `json:"atBottom"`
	}
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	err := h.Service.ChatSetAtBottom(r.Context(), r.PathValue("eventID"), in.AtBottom)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type feedItemResp struct {
	Type        string         `json:"type"`
	Message     *types.Message `json:"message,omitempty"`
	TypingLabel string         `json:"typingLabel,omitempty"`
}

// chatStream attaches the caller to an event's live chat over SSE. Every
// change pushes the full re-rendered feed; the stream closes the session
// and advances the read watermark on disconnect.
func (h *Handler) chatStream(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")

	f, err := flusher(w)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	// Headers must be in place before the first feed push writes the
	// body out.
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Guard the writer: feed callbacks come from subscription goroutines
	// and timers.
	var mu sync.Mutex
	push := func(event string, v any) {
		mu.Lock()
		defer mu.Unlock()
		h.writeSSE(w, event, v)
		f.Flush()
	}

	session, err := h.Service.OpenChat(r.Context(), eventID, service.ChatHooks{
		OnFeed: func(items []chat.FeedItem) {
			resp := make([]feedItemResp, 0, len(items))
			for _, item := range items {
				switch {
				case item.Message != nil:
					resp = append(resp, feedItemResp{Type: "message", Message: item.Message})
				case item.Typing != nil:
					resp = append(resp, feedItemResp{Type: "typing", TypingLabel: item.Typing.Label()})
				}
			}
			push("feed", resp)
		},
		OnError: func(err error) {
			push("error", err.Error())
		},
		OnScroll: func() {
			push("scroll", struct{}{})
		},
	})
	if err != nil {
		w.Header().Del("Content-Type")
		w.Header().Del("Cache-Control")
		w.Header().Del("Connection")
		h.respondErr(w, err)
		return
	}

	f.Flush()

	chatSessionsOpen.Inc()
	defer chatSessionsOpen.Dec()

	<-r.Context().Done()

	// The request context is gone; tear down with a fresh one so the
	// watermark write still lands.
	session.Close(h.Service.BaseContext())
}
