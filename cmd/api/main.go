package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/staffos-dev/provider-scheduler/backend/internal/config"
	"github.com/staffos-dev/provider-scheduler/backend/internal/engine"
	"github.com/staffos-dev/provider-scheduler/backend/internal/events"
	"github.com/staffos-dev/provider-scheduler/backend/internal/handler"
	"github.com/staffos-dev/provider-scheduler/backend/internal/repository"
	"github.com/staffos-dev/provider-scheduler/backend/internal/store"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * create logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * load configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return
	}

	/**********************************************
	 * open entity store
	 **********************************************/
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

	/**********************************************
	 * create scheduling engine
	 **********************************************/
	eng := engine.New(entityStore, engine.Options{
		EnforceCredentials: cfg.Scheduling.EnforceCredentials,
	})

	/**********************************************
	 * connect rabbitmq (optional)
	 **********************************************/
	var publisher *events.Publisher

	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		ch, err := conn.Channel()
		if err != nil {
			logger.Error("failed to open channel", "error", err)
			return
		}
		defer ch.Close()

		if err := events.DeclareQueue(ch); err != nil {
			logger.Error("failed to declare event queue", "error", err)
			return
		}

		publisher = events.NewPublisher(ch, time.Duration(cfg.RabbitMQ.PublishTimeout)*time.Second)
	} else {
		logger.Info("RABBITMQ_DSN not set, schedule events disabled")
	}

	/**********************************************
	 * connect redis (optional)
	 **********************************************/
	var rdb *redis.Client

	if cfg.Redis.Host != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       0,
		})
	} else {
		logger.Info("REDIS_HOST not set, export cache disabled")
	}

	/**********************************************
	 * create handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, eng, publisher, rdb)
	if err != nil {
		logger.Error("failed to create handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * start HTTP server
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("starting server...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("failed to start server", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", slog.String("error", err.Error()))
	}
	logger.Info("server stopped")
}
