package web

import (
	"net/http"

	"github.com/gatherapp/gather/types"
)

func (h *Handler) createEvent(w http.ResponseWriter, r *http.Request) {
	var in types.CreateEvent
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.Service.CreateEvent(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusCreated)
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	in, err := parseListEvents(r.URL.Query())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	evs, err := h.Service.Events(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, evs, http.StatusOK)
}

func (h *Handler) event(w http.ResponseWriter, r *http.Request) {
	in := types.RetrieveEvent{EventID: r.PathValue("eventID")}

	ev, err := h.Service.Event(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, ev, http.StatusOK)
}

func (h *Handler) toggleJoinEvent(w http.ResponseWriter, r *http.Request) {
	in := types.ToggleJoinEvent{EventID: r.PathValue("eventID")}

	out, err := h.Service.ToggleJoinEvent(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
