package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

func (r *Repository) PutClient(ctx context.Context, c *domain.Client) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO clients (id, name, location)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET name = $2, location = $3
	`

	if _, err := r.dbpool.ExecContext(ctx, query, c.ID, c.Name, c.Location); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT name, location FROM clients WHERE id = $1
	`

	c := &domain.Client{
		ID: id,
	}

	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(&c.Name, &c.Location); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return c, nil
}

func (r *Repository) ListClients(ctx context.Context) ([]*domain.Client, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, name, location FROM clients ORDER BY seq
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]*domain.Client, 0)
	for rows.Next() {
		c := &domain.Client{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Location); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return clients, nil
}

func (r *Repository) DeleteClient(ctx context.Context, id int64) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		DELETE FROM clients WHERE id = $1
	`

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		switch fkConstraint(err) {
		case "shifts_client_id_fkey":
			return &domain.ReferenceError{Entity: domain.EntityClients, ID: id, Dependents: domain.EntityShifts}
		case "credentials_client_id_fkey":
			return &domain.ReferenceError{Entity: domain.EntityClients, ID: id, Dependents: domain.EntityCredentials}
		default:
			return err
		}
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	return nil
}
