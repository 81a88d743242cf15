package store

import (
	"context"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

// ShiftFilter narrows ListShifts by simple equality predicates. Nil fields
// match everything.
type ShiftFilter struct {
	ProviderID *int64
	ClientID   *int64
}

// Store is the authoritative identifier → record mapping for the four entity
// types. Implementations enforce referential integrity: a Shift or Credential
// put fails with *domain.ReferenceError when the referenced provider or
// client does not exist, and deleting a provider or client still referenced
// by shifts or credentials fails the same way. Put inserts or fully replaces;
// there are no partial updates. Reads return copies, never shared records,
// and lists preserve insertion order. Every successful mutation is durable
// before the call returns.
type Store interface {
	PutProvider(ctx context.Context, p *domain.Provider) error
	GetProvider(ctx context.Context, id int64) (*domain.Provider, error)
	ListProviders(ctx context.Context) ([]*domain.Provider, error)
	DeleteProvider(ctx context.Context, id int64) error

	PutClient(ctx context.Context, c *domain.Client) error
	GetClient(ctx context.Context, id int64) (*domain.Client, error)
	ListClients(ctx context.Context) ([]*domain.Client, error)
	DeleteClient(ctx context.Context, id int64) error

	PutCredential(ctx context.Context, c *domain.Credential) error
	HasCredential(ctx context.Context, providerID, clientID int64) (bool, error)
	ListCredentials(ctx context.Context) ([]*domain.Credential, error)
	DeleteCredential(ctx context.Context, providerID, clientID int64) error

	PutShift(ctx context.Context, s *domain.Shift) error
	GetShift(ctx context.Context, id int64) (*domain.Shift, error)
	ListShifts(ctx context.Context, filter ShiftFilter) ([]*domain.Shift, error)
	DeleteShift(ctx context.Context, id int64) error
}
