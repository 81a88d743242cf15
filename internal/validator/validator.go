// Package validator decides whether a candidate shift may be committed.
package validator

import (
	"context"
	"errors"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/staffos-dev/provider-scheduler/backend/internal/store"
)

type Validator struct {
	store              store.Store
	enforceCredentials bool
}

func New(st store.Store, enforceCredentials bool) *Validator {
	return &Validator{
		store:              st,
		enforceCredentials: enforceCredentials,
	}
}

// Validate checks the candidate shift in order: time range, provider and
// client references, credential, overlap against the provider's committed
// shifts. The candidate is never mutated. When credential enforcement is
// disabled a missing credential comes back as a warning instead of an error.
// A committed shift with the candidate's own identifier is excluded from the
// overlap scan, so a full-record replacement never collides with the interval
// it replaces.
func (v *Validator) Validate(ctx context.Context, candidate *domain.Shift) ([]string, error) {
	if !candidate.Start.Before(candidate.End) {
		return nil, &domain.TimeRangeError{Start: candidate.Start, End: candidate.End}
	}

	if _, err := v.store.GetProvider(ctx, candidate.ProviderID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ReferenceError{Entity: domain.EntityProviders, ID: candidate.ProviderID}
		}
		return nil, err
	}
	if _, err := v.store.GetClient(ctx, candidate.ClientID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, &domain.ReferenceError{Entity: domain.EntityClients, ID: candidate.ClientID}
		}
		return nil, err
	}

	var warnings []string
	credentialed, err := v.store.HasCredential(ctx, candidate.ProviderID, candidate.ClientID)
	if err != nil {
		return nil, err
	}
	if !credentialed {
		credErr := &domain.CredentialError{ProviderID: candidate.ProviderID, ClientID: candidate.ClientID}
		if v.enforceCredentials {
			return nil, credErr
		}
		warnings = append(warnings, credErr.Error())
	}

	committed, err := v.store.ListShifts(ctx, store.ShiftFilter{ProviderID: &candidate.ProviderID})
	if err != nil {
		return nil, err
	}
	for _, existing := range committed {
		if existing.ID == candidate.ID {
			continue
		}
		if candidate.Overlaps(existing) {
			return nil, &domain.OverlapError{
				ProviderID:    candidate.ProviderID,
				ShiftID:       candidate.ID,
				ConflictsWith: existing.ID,
			}
		}
	}

	return warnings, nil
}
