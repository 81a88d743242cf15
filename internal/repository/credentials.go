package repository

import (
	"context"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

func (r *Repository) PutCredential(ctx context.Context, c *domain.Credential) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		INSERT INTO credentials (provider_id, client_id)
		VALUES ($1, $2)
		ON CONFLICT (provider_id, client_id) DO NOTHING
	`

	if _, err := r.dbpool.ExecContext(ctx, query, c.ProviderID, c.ClientID); err != nil {
		switch fkConstraint(err) {
		case "credentials_provider_id_fkey":
			return &domain.ReferenceError{Entity: domain.EntityProviders, ID: c.ProviderID}
		case "credentials_client_id_fkey":
			return &domain.ReferenceError{Entity: domain.EntityClients, ID: c.ClientID}
		default:
			return err
		}
	}

	return nil
}

func (r *Repository) HasCredential(ctx context.Context, providerID, clientID int64) (bool, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT EXISTS (SELECT 1 FROM credentials WHERE provider_id = $1 AND client_id = $2)
	`

	exists := false
	if err := r.dbpool.QueryRowContext(ctx, query, providerID, clientID).Scan(&exists); err != nil {
		return false, err
	}

	return exists, nil
}

func (r *Repository) ListCredentials(ctx context.Context) ([]*domain.Credential, error) {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		SELECT provider_id, client_id FROM credentials ORDER BY seq
	`

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	credentials := make([]*domain.Credential, 0)
	for rows.Next() {
		c := &domain.Credential{}
		if err := rows.Scan(&c.ProviderID, &c.ClientID); err != nil {
			return nil, err
		}
		credentials = append(credentials, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return credentials, nil
}

func (r *Repository) DeleteCredential(ctx context.Context, providerID, clientID int64) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	query := `
		DELETE FROM credentials WHERE provider_id = $1 AND client_id = $2
	`

	result, err := r.dbpool.ExecContext(ctx, query, providerID, clientID)
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
