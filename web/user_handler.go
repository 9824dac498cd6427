package web

import (
	"net/http"

	"github.com/gatherapp/gather/types"
)

func (h *Handler) authUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.Service.AuthUser(r.Context())
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, user, http.StatusOK)
}

func (h *Handler) updateAuthUser(w http.ResponseWriter, r *http.Request) {
	var in types.UpdateUser
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	user, err := h.Service.UpdateUser(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, user, http.StatusOK)
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) {
	in := types.RetrieveUser{UserID: r.PathValue("userID")}

	user, err := h.Service.User(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, user, http.StatusOK)
}
