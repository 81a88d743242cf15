package engine

import (
	"context"
	"fmt"
	"io"

	"github.com/staffos-dev/provider-scheduler/backend/internal/csvio"
	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/staffos-dev/provider-scheduler/backend/internal/store"
)

// ExportCSV writes the store's current records for the given entity type in
// the canonical schema, in insertion order.
func (e *Engine) ExportCSV(ctx context.Context, entity domain.EntityType, w io.Writer) error {
	switch entity {
	case domain.EntityProviders:
		providers, err := e.store.ListProviders(ctx)
		if err != nil {
			return err
		}
		return csvio.WriteProviders(w, providers)
	case domain.EntityClients:
		clients, err := e.store.ListClients(ctx)
		if err != nil {
			return err
		}
		return csvio.WriteClients(w, clients)
	case domain.EntityCredentials:
		credentials, err := e.store.ListCredentials(ctx)
		if err != nil {
			return err
		}
		return csvio.WriteCredentials(w, credentials)
	case domain.EntityShifts:
		shifts, err := e.store.ListShifts(ctx, store.ShiftFilter{})
		if err != nil {
			return err
		}
		return csvio.WriteShifts(w, shifts)
	default:
		return fmt.Errorf("unknown entity type %q", entity)
	}
}

// ExportQGenda writes all shifts in the QGenda vendor schema.
func (e *Engine) ExportQGenda(ctx context.Context, w io.Writer) error {
	shifts, err := e.store.ListShifts(ctx, store.ShiftFilter{})
	if err != nil {
		return err
	}
	providers, err := e.store.ListProviders(ctx)
	if err != nil {
		return err
	}
	clients, err := e.store.ListClients(ctx)
	if err != nil {
		return err
	}

	providersByID := make(map[int64]*domain.Provider, len(providers))
	for _, p := range providers {
		providersByID[p.ID] = p
	}
	clientsByID := make(map[int64]*domain.Client, len(clients))
	for _, c := range clients {
		clientsByID[c.ID] = c
	}

	return csvio.WriteQGenda(w, shifts, providersByID, clientsByID)
}
