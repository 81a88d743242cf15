package handler

import (
	"net/http"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

type providerRequest struct {
	ID                  int64    `json:"id" validate:"required,gt=0"`
	Name                string   `json:"name" validate:"required"`
	Specialty           string   `json:"specialty"`
	PreferredShiftStart string   `json:"preferredShiftStart" validate:"omitempty,datetime=15:04"`
	PreferredShiftEnd   string   `json:"preferredShiftEnd" validate:"omitempty,datetime=15:04"`
	PreferredDays       []string `json:"preferredDays"`
}

func (h *Handler) providerFromRequest(req *providerRequest) (*domain.Provider, error) {
	days := make([]domain.Weekday, 0, len(req.PreferredDays))
	for _, token := range req.PreferredDays {
		day, err := domain.ParseWeekday(token)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}

	return &domain.Provider{
		ID:                  req.ID,
		Name:                req.Name,
		Specialty:           req.Specialty,
		PreferredShiftStart: req.PreferredShiftStart,
		PreferredShiftEnd:   req.PreferredShiftEnd,
		PreferredDays:       days,
	}, nil
}

func (h *Handler) CreateProvider(w http.ResponseWriter, r *http.Request) {
	var req providerRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	provider, err := h.providerFromRequest(&req)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.engine.AddProvider(r.Context(), provider); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateExportCache(r.Context())
	h.successResponse(w, r, "provider saved", provider)
}

func (h *Handler) GetAllProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := h.engine.ListProviders(r.Context())
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "providers listed", providers)
}

func (h *Handler) GetProvider(w http.ResponseWriter, r *http.Request) {
	provider := r.Context().Value(ProviderCtx).(*domain.Provider)
	h.successResponse(w, r, "provider found", provider)
}

// ReplaceProvider is a full-record replacement; there are no partial patches.
func (h *Handler) ReplaceProvider(w http.ResponseWriter, r *http.Request) {
	existing := r.Context().Value(ProviderCtx).(*domain.Provider)

	var req providerRequest
	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.ID = existing.ID
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	provider, err := h.providerFromRequest(&req)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.engine.AddProvider(r.Context(), provider); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateExportCache(r.Context())
	h.successResponse(w, r, "provider replaced", provider)
}

func (h *Handler) DeleteProvider(w http.ResponseWriter, r *http.Request) {
	provider := r.Context().Value(ProviderCtx).(*domain.Provider)

	if err := h.engine.RemoveProvider(r.Context(), provider.ID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateExportCache(r.Context())
	h.successResponse(w, r, "provider deleted", nil)
}
