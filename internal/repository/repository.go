// Package repository implements the entity store on Postgres. Referential
// integrity is enforced by the schema's foreign keys; constraint violations
// are mapped back to the domain error taxonomy.
package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/staffos-dev/provider-scheduler/backend/internal/config"
)

//go:embed schema.sql
var schema string

// Postgres error code for foreign_key_violation.
const fkViolation = "23503"

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// EnsureSchema applies the embedded schema. All statements are idempotent.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, schema)
	return err
}

func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

// fkConstraint returns the violated foreign-key constraint name, or "" when
// err is not a foreign-key violation.
func fkConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == fkViolation {
		return pgErr.ConstraintName
	}
	return ""
}
