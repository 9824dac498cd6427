package web

import (
	"net/http"

	"github.com/gatherapp/gather/types"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var in types.Login
	if err := decodeJSON(r, &in); err != nil {
		h.respondErr(w, err)
		return
	}

	out, err := h.Service.Login(r.Context(), in)
	if err != nil {
		h.respondErr(w, err)
		return
	}

	h.respond(w, out, http.StatusOK)
}
