package handler

import (
	"net/http"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

type credentialRequest struct {
	ProviderID int64 `json:"providerId" validate:"required,gt=0"`
	ClientID   int64 `json:"clientId" validate:"required,gt=0"`
}

func (h *Handler) CreateCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	credential := &domain.Credential{
		ProviderID: req.ProviderID,
		ClientID:   req.ClientID,
	}

	if err := h.engine.AddCredential(r.Context(), credential); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateExportCache(r.Context())
	h.successResponse(w, r, "credential saved", credential)
}

func (h *Handler) GetAllCredentials(w http.ResponseWriter, r *http.Request) {
	credentials, err := h.engine.ListCredentials(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "credentials listed", credentials)
}

// DeleteCredential removes the (provider, client) pair named in the body.
// Shifts created under the credential stay committed.
func (h *Handler) DeleteCredential(w http.ResponseWriter, r *http.Request) {
	var req credentialRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.engine.RemoveCredential(r.Context(), req.ProviderID, req.ClientID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateExportCache(r.Context())
	h.successResponse(w, r, "credential deleted", nil)
}
