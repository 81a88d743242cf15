package handler

import (
	"net/http"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

type clientRequest struct {
	ID       int64  `json:"id" validate:"required,gt=0"`
	Name     string `json:"name" validate:"required"`
	Location string `json:"location"`
}

func (h *Handler) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	client := &domain.Client{
		ID:       req.ID,
		Name:     req.Name,
		Location: req.Location,
	}

	if err := h.engine.AddClient(r.Context(), client); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateExportCache(r.Context())
	h.successResponse(w, r, "client saved", client)
}

func (h *Handler) GetAllClients(w http.ResponseWriter, r *http.Request) {
	clients, err := h.engine.ListClients(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "clients listed", clients)
}

func (h *Handler) GetClient(w http.ResponseWriter, r *http.Request) {
	client := r.Context().Value(ClientCtx).(*domain.Client)
	h.successResponse(w, r, "client found", client)
}

func (h *Handler) ReplaceClient(w http.ResponseWriter, r *http.Request) {
	existing := r.Context().Value(ClientCtx).(*domain.Client)

	var req clientRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.ID = existing.ID
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	client := &domain.Client{
		ID:       req.ID,
		Name:     req.Name,
		Location: req.Location,
	}

	if err := h.engine.AddClient(r.Context(), client); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateExportCache(r.Context())
	h.successResponse(w, r, "client replaced", client)
}

func (h *Handler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	client := r.Context().Value(ClientCtx).(*domain.Client)

	if err := h.engine.RemoveClient(r.Context(), client.ID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateExportCache(r.Context())
	h.successResponse(w, r, "client deleted", nil)
}
