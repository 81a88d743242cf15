package handler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/staffos-dev/provider-scheduler/backend/internal/engine"
)

// maxImportSize caps the CSV request body at 10MB.
const maxImportSize = 10 << 20

var exportCacheKeys = []string{
	"export:providers",
	"export:clients",
	"export:credentials",
	"export:shifts",
	"export:qgenda",
}

func (h *Handler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	entity, err := domain.ParseEntityType(chi.URLParam(r, "entity"))
	if err != nil {
		h.errorResponse(w, r, "unknown entity type")
		return
	}

	mode := engine.ImportMode(h.config.Scheduling.DefaultImportMode)
	if param := r.URL.Query().Get("mode"); param != "" {
		mode, err = engine.ParseImportMode(param)
		if err != nil {
			h.errorResponse(w, r, "mode must be best_effort or all_or_nothing")
			return
		}
	}

	report, err := h.engine.ImportCSV(r.Context(), entity, http.MaxBytesReader(w, r.Body, maxImportSize), mode)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	if report.Committed > 0 {
		h.invalidateExportCache(r.Context())
	}
	h.publishEvent(r.Context(), domain.ScheduleEvent{
		Type:       domain.EventImportCompleted,
		OccurredAt: time.Now(),
		Data: domain.ImportEventData{
			BatchID:   report.BatchID,
			Entity:    report.Entity,
			Mode:      string(report.Mode),
			Committed: report.Committed,
			Failed:    report.Failed,
		},
	})

	msg := fmt.Sprintf("import finished: %d committed, %d failed", report.Committed, report.Failed)
	h.successResponse(w, r, msg, report)
}

func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	entity, err := domain.ParseEntityType(chi.URLParam(r, "entity"))
	if err != nil {
		h.errorResponse(w, r, "unknown entity type")
		return
	}

	h.serveExport(w, r, "export:"+string(entity), string(entity)+".csv", func(buf *bytes.Buffer) error {
		return h.engine.ExportCSV(r.Context(), entity, buf)
	})
}

func (h *Handler) ExportQGenda(w http.ResponseWriter, r *http.Request) {
	h.serveExport(w, r, "export:qgenda", "qgenda.csv", func(buf *bytes.Buffer) error {
		return h.engine.ExportQGenda(r.Context(), buf)
	})
}

// serveExport writes the CSV export, going through the Redis cache when one
// is configured. Cache faults fall back to a direct build.
func (h *Handler) serveExport(w http.ResponseWriter, r *http.Request, cacheKey, filename string, build func(*bytes.Buffer) error) {
	if h.redisClient != nil {
		cached, err := h.redisClient.Get(r.Context(), cacheKey).Bytes()
		if err == nil {
			h.writeCSV(w, filename, cached)
			return
		}
		if err != redis.Nil {
			slog.Error("export cache read failed", "key", cacheKey, "error", err)
		}
	}

	var buf bytes.Buffer
	if err := build(&buf); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if h.redisClient != nil {
		ttl := time.Duration(h.config.Export.CacheTTL) * time.Second
		if err := h.redisClient.Set(r.Context(), cacheKey, buf.Bytes(), ttl).Err(); err != nil {
			slog.Error("export cache write failed", "key", cacheKey, "error", err)
		}
	}

	h.writeCSV(w, filename, buf.Bytes())
}

func (h *Handler) writeCSV(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(data)
}

func (h *Handler) invalidateExportCache(ctx context.Context) {
	if h.redisClient == nil {
		return
	}
	if err := h.redisClient.Del(ctx, exportCacheKeys...).Err(); err != nil {
		slog.Error("export cache invalidation failed", "error", err)
	}
}
