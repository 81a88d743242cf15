package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateTimeLayout, value)
	require.NoError(t, err)
	return parsed
}

func seedStore(t *testing.T, s *FileStore) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.PutProvider(ctx, &domain.Provider{ID: 1, Name: "Alice Chen", PreferredDays: []domain.Weekday{domain.Monday}}))
	require.NoError(t, s.PutProvider(ctx, &domain.Provider{ID: 2, Name: "Brian Okafor", PreferredDays: []domain.Weekday{}}))
	require.NoError(t, s.PutClient(ctx, &domain.Client{ID: 1, Name: "St. Mary Regional", Location: "Springfield"}))
	require.NoError(t, s.PutCredential(ctx, &domain.Credential{ProviderID: 1, ClientID: 1}))
	require.NoError(t, s.PutShift(ctx, &domain.Shift{
		ID:         1,
		ProviderID: 1,
		ClientID:   1,
		Start:      mustTime(t, "2024-01-05T09:00"),
		End:        mustTime(t, "2024-01-05T17:00"),
		ShiftType:  "Day",
	}))
}

func TestReadsReturnCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedStore(t, s)

	p, err := s.GetProvider(ctx, 1)
	require.NoError(t, err)
	p.Name = "mutated"
	p.PreferredDays[0] = domain.Friday

	again, err := s.GetProvider(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Alice Chen", again.Name)
	require.Equal(t, []domain.Weekday{domain.Monday}, again.PreferredDays)

	sh, err := s.GetShift(ctx, 1)
	require.NoError(t, err)
	sh.Notes = "mutated"

	again2, err := s.GetShift(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, again2.Notes)

	// the caller's record is also copied on the way in
	stored := &domain.Provider{ID: 3, Name: "Carla Mendes", PreferredDays: []domain.Weekday{}}
	require.NoError(t, s.PutProvider(ctx, stored))
	stored.Name = "mutated"

	got, err := s.GetProvider(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, "Carla Mendes", got.Name)
}

func TestListOrderIsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	for _, p := range []*domain.Provider{
		{ID: 5, Name: "Eve", PreferredDays: []domain.Weekday{}},
		{ID: 1, Name: "Alice", PreferredDays: []domain.Weekday{}},
		{ID: 3, Name: "Carla", PreferredDays: []domain.Weekday{}},
	} {
		require.NoError(t, s.PutProvider(ctx, p))
	}

	// replacing a record keeps its original position
	require.NoError(t, s.PutProvider(ctx, &domain.Provider{ID: 1, Name: "Alice Chen", PreferredDays: []domain.Weekday{}}))

	providers, err := s.ListProviders(ctx)
	require.NoError(t, err)

	ids := make([]int64, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []int64{5, 1, 3}, ids)
	require.Equal(t, "Alice Chen", providers[1].Name)
}

func TestDeleteBlockedByDependents(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedStore(t, s)

	var refErr *domain.ReferenceError
	err := s.DeleteProvider(ctx, 1)
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, domain.EntityProviders, refErr.Entity)
	require.Equal(t, domain.EntityShifts, refErr.Dependents)

	err = s.DeleteClient(ctx, 1)
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, domain.EntityClients, refErr.Entity)

	// provider 2 has no dependents
	require.NoError(t, s.DeleteProvider(ctx, 2))
}

func TestPutRejectsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedStore(t, s)

	var refErr *domain.ReferenceError
	err := s.PutCredential(ctx, &domain.Credential{ProviderID: 42, ClientID: 1})
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, domain.EntityProviders, refErr.Entity)
	require.Equal(t, int64(42), refErr.ID)

	err = s.PutShift(ctx, &domain.Shift{
		ID:         2,
		ProviderID: 1,
		ClientID:   42,
		Start:      mustTime(t, "2024-01-06T09:00"),
		End:        mustTime(t, "2024-01-06T17:00"),
	})
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, domain.EntityClients, refErr.Entity)
}

func TestNotFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, err := s.GetProvider(ctx, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = s.GetShift(ctx, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, s.DeleteClient(ctx, 1), domain.ErrNotFound)
	require.ErrorIs(t, s.DeleteCredential(ctx, 1, 1), domain.ErrNotFound)
	require.ErrorIs(t, s.DeleteShift(ctx, 1), domain.ErrNotFound)
}

func TestListShiftsFilter(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	seedStore(t, s)

	require.NoError(t, s.PutCredential(ctx, &domain.Credential{ProviderID: 2, ClientID: 1}))
	require.NoError(t, s.PutShift(ctx, &domain.Shift{
		ID:         2,
		ProviderID: 2,
		ClientID:   1,
		Start:      mustTime(t, "2024-01-05T09:00"),
		End:        mustTime(t, "2024-01-05T17:00"),
	}))

	providerID := int64(2)
	shifts, err := s.ListShifts(ctx, ShiftFilter{ProviderID: &providerID})
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	require.Equal(t, int64(2), shifts[0].ID)

	shifts, err = s.ListShifts(ctx, ShiftFilter{})
	require.NoError(t, err)
	require.Len(t, shifts, 2)
}

// A mutation whose snapshot write fails must not be visible to later reads.
func TestFailedSnapshotRollsBack(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	seedStore(t, s)

	// a directory squatting on the temp file makes every snapshot write fail
	require.NoError(t, os.Mkdir(path+".tmp", 0o755))

	err = s.PutProvider(ctx, &domain.Provider{ID: 9, Name: "Carla Mendes", PreferredDays: []domain.Weekday{}})
	require.Error(t, err)
	_, err = s.GetProvider(ctx, 9)
	require.ErrorIs(t, err, domain.ErrNotFound)

	// a failed replacement keeps the previous record
	err = s.PutProvider(ctx, &domain.Provider{ID: 1, Name: "Renamed", PreferredDays: []domain.Weekday{}})
	require.Error(t, err)
	p, err := s.GetProvider(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Alice Chen", p.Name)

	// a failed delete keeps the record and its position
	require.Error(t, s.DeleteShift(ctx, 1))
	_, err = s.GetShift(ctx, 1)
	require.NoError(t, err)

	require.Error(t, s.DeleteCredential(ctx, 1, 1))
	ok, err := s.HasCredential(ctx, 1, 1)
	require.NoError(t, err)
	require.True(t, ok)

	providers, err := s.ListProviders(ctx)
	require.NoError(t, err)
	ids := make([]int64, 0, len(providers))
	for _, p := range providers {
		ids = append(ids, p.ID)
	}
	require.Equal(t, []int64{1, 2}, ids)

	// the rolled-back state never reached disk
	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = reloaded.GetProvider(ctx, 9)
	require.ErrorIs(t, err, domain.ErrNotFound)
	p, err = reloaded.GetProvider(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Alice Chen", p.Name)

	// with the obstruction gone mutations persist again
	require.NoError(t, os.Remove(path+".tmp"))
	require.NoError(t, s.PutProvider(ctx, &domain.Provider{ID: 9, Name: "Carla Mendes", PreferredDays: []domain.Weekday{}}))
	reloaded, err = NewFileStore(path)
	require.NoError(t, err)
	_, err = reloaded.GetProvider(ctx, 9)
	require.NoError(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	s, err := NewFileStore(path)
	require.NoError(t, err)
	seedStore(t, s)

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)

	wantProviders, err := s.ListProviders(ctx)
	require.NoError(t, err)
	gotProviders, err := reloaded.ListProviders(ctx)
	require.NoError(t, err)
	require.Equal(t, wantProviders, gotProviders)

	wantShifts, err := s.ListShifts(ctx, ShiftFilter{})
	require.NoError(t, err)
	gotShifts, err := reloaded.ListShifts(ctx, ShiftFilter{})
	require.NoError(t, err)
	require.Equal(t, wantShifts, gotShifts)

	ok, err := reloaded.HasCredential(ctx, 1, 1)
	require.NoError(t, err)
	require.True(t, ok)

	// a mutation on the reloaded store persists too
	require.NoError(t, reloaded.DeleteShift(ctx, 1))
	third, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = third.GetShift(ctx, 1)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
