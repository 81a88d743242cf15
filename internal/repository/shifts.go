package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/staffos-dev/provider-scheduler/backend/internal/store"
)

func (r *Repository) PutShift(ctx context.Context, sh *domain.Shift) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO shifts (id, provider_id, client_id, start_at, end_at, shift_type, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE
		SET provider_id = $2, client_id = $3, start_at = $4, end_at = $5, shift_type = $6, notes = $7
	`

	args := []any{sh.ID, sh.ProviderID, sh.ClientID, sh.Start, sh.End, sh.ShiftType, sh.Notes}
	if _, err := r.dbpool.ExecContext(ctx, query, args...); err != nil {
		switch fkConstraint(err) {
		case "shifts_provider_id_fkey":
			return &domain.ReferenceError{Entity: domain.EntityProviders, ID: sh.ProviderID}
		case "shifts_client_id_fkey":
			return &domain.ReferenceError{Entity: domain.EntityClients, ID: sh.ClientID}
		default:
			return err
		}
	}

	return nil
}

func (r *Repository) GetShift(ctx context.Context, id int64) (*domain.Shift, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT provider_id, client_id, start_at, end_at, shift_type, notes
		FROM shifts WHERE id = $1
	`

	sh := &domain.Shift{
		ID: id,
	}

	dst := []any{&sh.ProviderID, &sh.ClientID, &sh.Start, &sh.End, &sh.ShiftType, &sh.Notes}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	return sh, nil
}

func (r *Repository) ListShifts(ctx context.Context, filter store.ShiftFilter) ([]*domain.Shift, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT id, provider_id, client_id, start_at, end_at, shift_type, notes
		FROM shifts
		WHERE ($1::BIGINT IS NULL OR provider_id = $1)
		  AND ($2::BIGINT IS NULL OR client_id = $2)
		ORDER BY seq
	`

	rows, err := r.dbpool.QueryContext(ctx, query, filter.ProviderID, filter.ClientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		sh := &domain.Shift{}
		dst := []any{&sh.ID, &sh.ProviderID, &sh.ClientID, &sh.Start, &sh.End, &sh.ShiftType, &sh.Notes}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		shifts = append(shifts, sh)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}

func (r *Repository) DeleteShift(ctx context.Context, id int64) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		DELETE FROM shifts WHERE id = $1
	`

	result, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
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
