// Package seed loads CSV fixtures through the engine's import path, so seeded
// data goes through exactly the same validation as operator input.
package seed

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/staffos-dev/provider-scheduler/backend/internal/engine"
)

// Entity files are loaded in dependency order so credentials and shifts can
// resolve their provider/client references.
var fixtureOrder = []domain.EntityType{
	domain.EntityProviders,
	domain.EntityClients,
	domain.EntityCredentials,
	domain.EntityShifts,
}

// Load imports <entity>.csv files from dir. Missing files are skipped so a
// fixture set can cover a subset of entity types.
func Load(ctx context.Context, eng *engine.Engine, dir string) error {
	for _, entity := range fixtureOrder {
		path := filepath.Join(dir, string(entity)+".csv")

		file, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				slog.Info("fixture file missing, skipped", "path", path)
				continue
			}
			return err
		}

		report, err := eng.ImportCSV(ctx, entity, file, engine.ImportBestEffort)
		file.Close()
		if err != nil {
			return err
		}

		slog.Info("fixtures imported", "entity", entity, "batch", report.BatchID, "committed", report.Committed, "failed", report.Failed)
		for _, row := range report.Rows {
			if row.Err != nil {
				slog.Error("fixture row rejected", "entity", entity, "line", row.Line, "error", row.Error)
			}
		}
	}

	return nil
}
