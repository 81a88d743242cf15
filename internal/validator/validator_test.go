package validator

import (
	"context"
	"testing"
	"time"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/staffos-dev/provider-scheduler/backend/internal/store"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(domain.DateTimeLayout, value)
	require.NoError(t, err)
	return parsed
}

func newShift(t *testing.T, id int64, start, end string) *domain.Shift {
	t.Helper()
	return &domain.Shift{
		ID:         id,
		ProviderID: 1,
		ClientID:   1,
		Start:      mustTime(t, start),
		End:        mustTime(t, end),
	}
}

// seededStore holds provider 1, client 1, and credential (1, 1).
func seededStore(t *testing.T) *store.FileStore {
	t.Helper()
	ctx := context.Background()

	st := store.NewMemoryStore()
	require.NoError(t, st.PutProvider(ctx, &domain.Provider{ID: 1, Name: "Alice Chen", PreferredShiftStart: "09:00", PreferredShiftEnd: "17:00"}))
	require.NoError(t, st.PutClient(ctx, &domain.Client{ID: 1, Name: "St. Mary Regional"}))
	require.NoError(t, st.PutCredential(ctx, &domain.Credential{ProviderID: 1, ClientID: 1}))

	return st
}

func TestValidateTimeRange(t *testing.T) {
	v := New(seededStore(t), true)

	for _, tc := range []struct {
		name       string
		start, end string
	}{
		{name: "start after end", start: "2024-01-05T12:00", end: "2024-01-05T09:00"},
		{name: "zero duration", start: "2024-01-05T09:00", end: "2024-01-05T09:00"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := v.Validate(context.Background(), newShift(t, 1, tc.start, tc.end))
			var rangeErr *domain.TimeRangeError
			require.ErrorAs(t, err, &rangeErr)
		})
	}
}

func TestValidateUnknownReferences(t *testing.T) {
	v := New(seededStore(t), true)

	sh := newShift(t, 1, "2024-01-05T09:00", "2024-01-05T12:00")
	sh.ProviderID = 99
	_, err := v.Validate(context.Background(), sh)
	var refErr *domain.ReferenceError
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, domain.EntityProviders, refErr.Entity)
	require.Equal(t, int64(99), refErr.ID)

	sh = newShift(t, 1, "2024-01-05T09:00", "2024-01-05T12:00")
	sh.ClientID = 99
	_, err = v.Validate(context.Background(), sh)
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, domain.EntityClients, refErr.Entity)
}

func TestValidateCredentialEnforced(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	require.NoError(t, st.PutClient(ctx, &domain.Client{ID: 2, Name: "Lakeside Medical Center"}))

	v := New(st, true)

	sh := newShift(t, 1, "2024-01-05T09:00", "2024-01-05T12:00")
	sh.ClientID = 2 // no credential for (1, 2)
	_, err := v.Validate(ctx, sh)
	var credErr *domain.CredentialError
	require.ErrorAs(t, err, &credErr)
	require.Equal(t, int64(1), credErr.ProviderID)
	require.Equal(t, int64(2), credErr.ClientID)
}

func TestValidateCredentialWarnOnly(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	require.NoError(t, st.PutClient(ctx, &domain.Client{ID: 2, Name: "Lakeside Medical Center"}))

	v := New(st, false)

	sh := newShift(t, 1, "2024-01-05T09:00", "2024-01-05T12:00")
	sh.ClientID = 2
	warnings, err := v.Validate(ctx, sh)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "no credential")
}

func TestValidateOverlap(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	require.NoError(t, st.PutShift(ctx, newShift(t, 1, "2024-01-05T09:00", "2024-01-05T12:00")))

	v := New(st, true)

	// 11:00-13:00 intersects 09:00-12:00
	_, err := v.Validate(ctx, newShift(t, 2, "2024-01-05T11:00", "2024-01-05T13:00"))
	var overlapErr *domain.OverlapError
	require.ErrorAs(t, err, &overlapErr)
	require.Equal(t, int64(1), overlapErr.ConflictsWith)
	require.Equal(t, int64(2), overlapErr.ShiftID)

	// touching endpoints do not overlap
	warnings, err := v.Validate(ctx, newShift(t, 3, "2024-01-05T12:00", "2024-01-05T13:00"))
	require.NoError(t, err)
	require.Empty(t, warnings)

	// a different provider may take the same interval
	require.NoError(t, st.PutProvider(ctx, &domain.Provider{ID: 2, Name: "Brian Okafor"}))
	require.NoError(t, st.PutCredential(ctx, &domain.Credential{ProviderID: 2, ClientID: 1}))
	other := newShift(t, 4, "2024-01-05T09:00", "2024-01-05T12:00")
	other.ProviderID = 2
	_, err = v.Validate(ctx, other)
	require.NoError(t, err)
}

func TestValidateReplacementSkipsOwnInterval(t *testing.T) {
	ctx := context.Background()
	st := seededStore(t)
	require.NoError(t, st.PutShift(ctx, newShift(t, 1, "2024-01-05T09:00", "2024-01-05T12:00")))

	v := New(st, true)

	// a full-record replacement of shift 1 must not conflict with itself
	_, err := v.Validate(ctx, newShift(t, 1, "2024-01-05T10:00", "2024-01-05T13:00"))
	require.NoError(t, err)
}
