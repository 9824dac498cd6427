package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"syscall"

	"github.com/nicolasparada/go-errs/httperrs"

	"github.com/gatherapp/gather/validator"
)

func (h *Handler) respond(w http.ResponseWriter, v any, statusCode int) {
	b, err := json.Marshal(v)
	if err != nil {
		h.respondErr(w, fmt.Errorf("json marshal response body: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	if _, err := w.Write(b); err != nil && !errors.Is(err, syscall.EPIPE) && !errors.Is(err, context.Canceled) {
		h.ErrorLogger.Error("write response", "error", err)
	}
}

func (h *Handler) respondErr(w http.ResponseWriter, err error) {
	statusCode := err2code(err)
	if statusCode == http.StatusInternalServerError {
		if !errors.Is(err, context.Canceled) {
			h.ErrorLogger.Error("internal error", "error", err)
		}
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	var errValidator *validator.Validator
	if errors.As(err, &errValidator) {
		h.respond(w, map[string]any{"errors": errValidator.Errors}, statusCode)
		return
	}

	http.Error(w, err.Error(), statusCode)
}

func err2code(err error) int {
	if err == nil {
		return http.StatusOK
	}

	var errValidator *validator.Validator
	if errors.As(err, &errValidator) {
		return http.StatusUnprocessableEntity
	}

	return httperrs.Code(err)
}

func (h *Handler) writeSSE(w io.Writer, event string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		h.ErrorLogger.Error("json marshal sse data", "error", err)
		if _, err := fmt.Fprintf(w, "event: error\ndata: %v\n\n", err); err != nil && !errors.Is(err, syscall.EPIPE) {
			h.ErrorLogger.Error("write sse error", "error", err)
		}
		return
	}

	if event != "" {
		if _, err := fmt.Fprintf(w, "event: %s\n", event); err != nil {
			return
		}
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil && !errors.Is(err, syscall.EPIPE) {
		h.ErrorLogger.Error("write sse data", "error", err)
	}
}
