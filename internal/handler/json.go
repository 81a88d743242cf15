package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

func (h *Handler) logInternalServerError(r *http.Request, err error) {
	slog.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
}

func (h *Handler) readJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logInternalServerError(r, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func (h *Handler) errorResponse(w http.ResponseWriter, r *http.Request, msg string) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: false,
		Message: msg,
		Data:    nil,
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.errorResponse(w, r, validationErrors[0].Translate(h.translator))
}

func (h *Handler) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	h.logInternalServerError(r, err)
	h.writeJSON(w, r, http.StatusInternalServerError, Response{
		Success: false,
		Message: "internal server error",
		Data:    nil,
	})
}

func (h *Handler) successResponse(w http.ResponseWriter, r *http.Request, msg string, data any) {
	h.writeJSON(w, r, http.StatusOK, Response{
		Success: true,
		Message: msg,
		Data:    data,
	})
}

// domainError renders the engine's typed rejections with their own messages;
// anything outside the taxonomy is a server fault.
func (h *Handler) domainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		refErr   *domain.ReferenceError
		rangeErr *domain.TimeRangeError
		overlap  *domain.OverlapError
		credErr  *domain.CredentialError
		rowErr   *domain.RowError
	)

	switch {
	case errors.Is(err, domain.ErrNotFound):
		h.errorResponse(w, r, "record not found")
	case errors.As(err, &refErr):
		h.errorResponse(w, r, refErr.Error())
	case errors.As(err, &rangeErr):
		h.errorResponse(w, r, rangeErr.Error())
	case errors.As(err, &overlap):
		h.errorResponse(w, r, overlap.Error())
	case errors.As(err, &credErr):
		h.errorResponse(w, r, credErr.Error())
	case errors.As(err, &rowErr):
		h.errorResponse(w, r, rowErr.Error())
	default:
		h.internalServerError(w, r, err)
	}
}
