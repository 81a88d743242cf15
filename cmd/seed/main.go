package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/staffos-dev/provider-scheduler/backend/internal/config"
	"github.com/staffos-dev/provider-scheduler/backend/internal/engine"
	"github.com/staffos-dev/provider-scheduler/backend/internal/repository"
	"github.com/staffos-dev/provider-scheduler/backend/internal/seed"
	"github.com/staffos-dev/provider-scheduler/backend/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var dir string
	flag.StringVar(&dir, "dir", "./internal/seed/data", "directory holding <entity>.csv fixture files")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// open the entity store selected by STORAGE_DRIVER
	var entityStore store.Store

	switch cfg.Storage.Driver {
	case "postgres":
		if cfg.Database.DSN == "" {
			logger.Error("DATABASE_DSN is required with the postgres storage driver")
			return
		}

		dbpool, err := sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			logger.Error("failed to create database pool", "error", err)
			return
		}
		defer dbpool.Close()

		dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
		defer cancel()

		// sql.Open only creates the pool object, so ping explicitly to verify
		// the database is reachable
		if err := dbpool.PingContext(ctx); err != nil {
			logger.Error("failed to connect to database", "error", err)
			return
		}

		repo := repository.NewRepository(cfg, dbpool)
		if err := repo.EnsureSchema(context.Background()); err != nil {
			logger.Error("failed to apply schema", "error", err)
			return
		}

		entityStore = repo
	case "file":
		fileStore, err := store.NewFileStore(cfg.Storage.SnapshotPath)
		if err != nil {
			logger.Error("failed to open snapshot store", "path", cfg.Storage.SnapshotPath, "error", err)
			return
		}
		entityStore = fileStore
	default:
		logger.Error("unknown storage driver", "driver", cfg.Storage.Driver)
		return
	}

	// run the fixtures through the engine's import path
	eng := engine.New(entityStore, engine.Options{
		EnforceCredentials: cfg.Scheduling.EnforceCredentials,
	})

	if err := seed.Load(context.Background(), eng, dir); err != nil {
		logger.Error("failed to load fixtures", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("seeding finished")
}
