package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

func (r *Repository) PutProvider(ctx context.Context, p *domain.Provider) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO providers (id, name, specialty, preferred_shift_start, preferred_shift_end, preferred_days)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = $2, specialty = $3, preferred_shift_start = $4, preferred_shift_end = $5, preferred_days = $6
	`

	args := []any{p.ID, p.Name, p.Specialty, p.PreferredShiftStart, p.PreferredShiftEnd, domain.FormatPreferredDays(p.PreferredDays)}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT name, specialty, preferred_shift_start, preferred_shift_end, preferred_days
		FROM providers WHERE id = $1
	`

	p := &domain.Provider{
		ID: id,
	}

	var days string
	dst := []any{&p.Name, &p.Specialty, &p.PreferredShiftStart, &p.PreferredShiftEnd, &days}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	preferredDays, err := domain.ParsePreferredDays(days)
	if err != nil {
		return nil, err
	}
	p.PreferredDays = preferredDays

	return p, nil
}

func (r *Repository) ListProviders(ctx context.Context) ([]*domain.Provider, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, name, specialty, preferred_shift_start, preferred_shift_end, preferred_days
		FROM providers ORDER BY seq
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	providers := make([]*domain.Provider, 0)
	for rows.Next() {
		p := &domain.Provider{}
		var days string
		dst := []any{&p.ID, &p.Name, &p.Specialty, &p.PreferredShiftStart, &p.PreferredShiftEnd, &days}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		p.PreferredDays, err = domain.ParsePreferredDays(days)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return providers, nil
}

func (r *Repository) DeleteProvider(ctx context.Context, id int64) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		DELETE FROM providers WHERE id = $1
	`

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		switch fkConstraint(err) {
		case "shifts_provider_id_fkey":
			return &domain.ReferenceError{Entity: domain.EntityProviders, ID: id, Dependents: domain.EntityShifts}
		case "credentials_provider_id_fkey":
			return &domain.ReferenceError{Entity: domain.EntityProviders, ID: id, Dependents: domain.EntityCredentials}
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
