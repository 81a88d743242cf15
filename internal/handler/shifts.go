package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/staffos-dev/provider-scheduler/backend/internal/store"
)

type shiftRequest struct {
	ID            int64  `json:"id" validate:"required,gt=0"`
	ProviderID    int64  `json:"providerId" validate:"required,gt=0"`
	ClientID      int64  `json:"clientId" validate:"required,gt=0"`
	StartDatetime string `json:"startDatetime" validate:"required,datetime=2006-01-02T15:04"`
	EndDatetime   string `json:"endDatetime" validate:"required,datetime=2006-01-02T15:04"`
	ShiftType     string `json:"shiftType"`
	Notes         string `json:"notes"`
}

func (h *Handler) CreateShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	start, _ := time.Parse(domain.DateTimeLayout, req.StartDatetime)
	end, _ := time.Parse(domain.DateTimeLayout, req.EndDatetime)

	shift := &domain.Shift{
		ID:         req.ID,
		ProviderID: req.ProviderID,
		ClientID:   req.ClientID,
		Start:      start,
		End:        end,
		ShiftType:  req.ShiftType,
		Notes:      req.Notes,
	}

	warnings, err := h.engine.AddShift(r.Context(), shift)
	if err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateExportCache(r.Context())
	h.publishEvent(r.Context(), domain.ScheduleEvent{
		Type:       domain.EventShiftCreated,
		OccurredAt: time.Now(),
		Data: domain.ShiftEventData{
			ShiftID:    shift.ID,
			ProviderID: shift.ProviderID,
			ClientID:   shift.ClientID,
			Start:      shift.Start,
			End:        shift.End,
		},
	})

	h.successResponse(w, r, "shift committed", struct {
		Shift    *domain.Shift `json:"shift"`
		Warnings []string      `json:"warnings,omitempty"`
	}{Shift: shift, Warnings: warnings})
}

func (h *Handler) GetAllShifts(w http.ResponseWriter, r *http.Request) {
	filter := store.ShiftFilter{}
	if param := r.URL.Query().Get("providerId"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "invalid provider id")
			return
		}
		filter.ProviderID = &id
	}
	if param := r.URL.Query().Get("clientId"); param != "" {
		id, err := strconv.ParseInt(param, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "invalid client id")
			return
		}
		filter.ClientID = &id
	}

	shifts, err := h.engine.ListShifts(r.Context(), filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "shifts listed", shifts)
}

func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)
	h.successResponse(w, r, "shift found", shift)
}

// DeleteShift is also the first half of the delete-then-readd edit flow; the
// re-add runs as a separately validated CreateShift against the post-delete
// schedule.
func (h *Handler) DeleteShift(w http.ResponseWriter, r *http.Request) {
	shift := r.Context().Value(ShiftCtx).(*domain.Shift)

	if err := h.engine.RemoveShift(r.Context(), shift.ID); err != nil {
		h.domainError(w, r, err)
		return
	}

	h.invalidateExportCache(r.Context())
	h.publishEvent(r.Context(), domain.ScheduleEvent{
		Type:       domain.EventShiftDeleted,
		OccurredAt: time.Now(),
		Data: domain.ShiftEventData{
			ShiftID:    shift.ID,
			ProviderID: shift.ProviderID,
			ClientID:   shift.ClientID,
			Start:      shift.Start,
			End:        shift.End,
		},
	})

	h.successResponse(w, r, "shift deleted", nil)
}

func (h *Handler) publishEvent(ctx context.Context, event domain.ScheduleEvent) {
	if err := h.publisher.Publish(ctx, event); err != nil {
		slog.Error("failed to publish schedule event", "type", event.Type, "error", err)
	}
}
