// Package engine is the single entry point the presentation layer uses.
// Interactive operations and bulk imports run through the same validate-then-
// commit path. Mutations are serialized by one write lock so there is a
// single logical writer; reads go straight to the store.
package engine

import (
	"context"
	"sync"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/staffos-dev/provider-scheduler/backend/internal/store"
	"github.com/staffos-dev/provider-scheduler/backend/internal/validator"
)

type Options struct {
	// EnforceCredentials blocks uncredentialed shift assignments when true;
	// when false a missing credential only produces a warning.
	EnforceCredentials bool
}

type Engine struct {
	mu        sync.Mutex
	store     store.Store
	validator *validator.Validator
}

func New(st store.Store, opts Options) *Engine {
	return &Engine{
		store:     st,
		validator: validator.New(st, opts.EnforceCredentials),
	}
}

func (e *Engine) AddProvider(ctx context.Context, p *domain.Provider) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.PutProvider(ctx, p)
}

func (e *Engine) AddClient(ctx context.Context, c *domain.Client) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.PutClient(ctx, c)
}

func (e *Engine) AddCredential(ctx context.Context, c *domain.Credential) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.PutCredential(ctx, c)
}

// AddShift validates the candidate and commits it only on success. The
// returned warnings are non-fatal (missing credential with enforcement
// disabled); on error the store is untouched.
func (e *Engine) AddShift(ctx context.Context, sh *domain.Shift) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	warnings, err := e.validator.Validate(ctx, sh)
	if err != nil {
		return nil, err
	}
	if err := e.store.PutShift(ctx, sh); err != nil {
		return nil, err
	}

	return warnings, nil
}

func (e *Engine) RemoveProvider(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.DeleteProvider(ctx, id)
}

func (e *Engine) RemoveClient(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.DeleteClient(ctx, id)
}

func (e *Engine) RemoveCredential(ctx context.Context, providerID, clientID int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.DeleteCredential(ctx, providerID, clientID)
}

func (e *Engine) RemoveShift(ctx context.Context, id int64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.store.DeleteShift(ctx, id)
}

func (e *Engine) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	return e.store.GetProvider(ctx, id)
}

func (e *Engine) GetClient(ctx context.Context, id int64) (*domain.Client, error) {
	return e.store.GetClient(ctx, id)
}

func (e *Engine) GetShift(ctx context.Context, id int64) (*domain.Shift, error) {
	return e.store.GetShift(ctx, id)
}

func (e *Engine) ListProviders(ctx context.Context) ([]*domain.Provider, error) {
	return e.store.ListProviders(ctx)
}

func (e *Engine) ListClients(ctx context.Context) ([]*domain.Client, error) {
	return e.store.ListClients(ctx)
}

func (e *Engine) ListCredentials(ctx context.Context) ([]*domain.Credential, error) {
	return e.store.ListCredentials(ctx)
}

func (e *Engine) ListShifts(ctx context.Context, filter store.ShiftFilter) ([]*domain.Shift, error) {
	return e.store.ListShifts(ctx, filter)
}
