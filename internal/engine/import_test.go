package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/staffos-dev/provider-scheduler/backend/internal/store"
	"github.com/stretchr/testify/require"
)

const shiftHeaderLine = "shift_id,provider_id,client_id,start_datetime,end_datetime,shift_type,notes\n"

func TestImportBestEffortCommitsValidRows(t *testing.T) {
	ctx := context.Background()
	eng := seededEngine(t, Options{EnforceCredentials: true})

	input := shiftHeaderLine +
		"1,1,1,2024-01-05T09:00,2024-01-05T12:00,Day,\n" +
		"2,1,1,2024-01-05T11:00,2024-01-05T13:00,Day,overlaps row above\n" +
		"3,1,1,2024-01-05T12:00,2024-01-05T15:00,Day,\n"

	report, err := eng.ImportCSV(ctx, domain.EntityShifts, strings.NewReader(input), ImportBestEffort)
	require.NoError(t, err)
	require.Equal(t, 2, report.Committed)
	require.Equal(t, 1, report.Failed)
	require.NotEmpty(t, report.BatchID)
	require.Len(t, report.Rows, 3)

	require.True(t, report.Rows[0].Committed)
	require.False(t, report.Rows[1].Committed)
	require.Equal(t, 3, report.Rows[1].Line)
	var overlapErr *domain.OverlapError
	require.ErrorAs(t, report.Rows[1].Err, &overlapErr)
	require.Equal(t, int64(1), overlapErr.ConflictsWith)
	require.True(t, report.Rows[2].Committed)

	shifts, err := eng.ListShifts(ctx, store.ShiftFilter{})
	require.NoError(t, err)
	require.Len(t, shifts, 2)
}

func TestImportAllOrNothingCommitsNothingOnFailure(t *testing.T) {
	ctx := context.Background()
	eng := seededEngine(t, Options{EnforceCredentials: true})

	input := shiftHeaderLine +
		"1,1,1,2024-01-05T09:00,2024-01-05T12:00,Day,\n" +
		"2,1,1,2024-01-05T11:00,2024-01-05T13:00,Day,overlaps row above\n" +
		"3,1,1,2024-01-05T14:00,2024-01-05T17:00,Day,\n"

	report, err := eng.ImportCSV(ctx, domain.EntityShifts, strings.NewReader(input), ImportAllOrNothing)
	require.NoError(t, err)
	require.Zero(t, report.Committed)
	require.Equal(t, 1, report.Failed)
	require.Len(t, report.Rows, 3)

	// valid rows report uncommitted without an error of their own
	require.False(t, report.Rows[0].Committed)
	require.Nil(t, report.Rows[0].Err)
	require.NotNil(t, report.Rows[1].Err)
	require.False(t, report.Rows[2].Committed)

	shifts, err := eng.ListShifts(ctx, store.ShiftFilter{})
	require.NoError(t, err)
	require.Empty(t, shifts)
}

func TestImportAllOrNothingCleanBatch(t *testing.T) {
	ctx := context.Background()
	eng := seededEngine(t, Options{EnforceCredentials: true})

	input := shiftHeaderLine +
		"1,1,1,2024-01-05T09:00,2024-01-05T12:00,Day,\n" +
		"2,1,1,2024-01-05T12:00,2024-01-05T15:00,Day,\n"

	report, err := eng.ImportCSV(ctx, domain.EntityShifts, strings.NewReader(input), ImportAllOrNothing)
	require.NoError(t, err)
	require.Equal(t, 2, report.Committed)
	require.Zero(t, report.Failed)

	shifts, err := eng.ListShifts(ctx, store.ShiftFilter{})
	require.NoError(t, err)
	require.Len(t, shifts, 2)
}

// Rows within one all-or-nothing batch validate against each other even though
// nothing has been committed yet.
func TestImportAllOrNothingCatchesIntraBatchOverlap(t *testing.T) {
	ctx := context.Background()
	eng := seededEngine(t, Options{EnforceCredentials: true})

	input := shiftHeaderLine +
		"1,1,1,2024-01-05T09:00,2024-01-05T12:00,Day,\n" +
		"2,1,1,2024-01-05T10:00,2024-01-05T11:00,Day,\n"

	report, err := eng.ImportCSV(ctx, domain.EntityShifts, strings.NewReader(input), ImportAllOrNothing)
	require.NoError(t, err)
	require.Zero(t, report.Committed)
	require.Equal(t, 1, report.Failed)

	var overlapErr *domain.OverlapError
	require.ErrorAs(t, report.Rows[1].Err, &overlapErr)
	require.Equal(t, int64(1), overlapErr.ConflictsWith)
}

func TestImportDuplicateIDWithinBatch(t *testing.T) {
	ctx := context.Background()
	eng := seededEngine(t, Options{EnforceCredentials: true})

	input := "provider_id,provider_name,specialty,preferred_shift_start,preferred_shift_end,preferred_days\n" +
		"1,Alice Chen,Hospitalist,,,\n" +
		"1,Alice Chen Again,Hospitalist,,,\n"

	report, err := eng.ImportCSV(ctx, domain.EntityProviders, strings.NewReader(input), ImportBestEffort)
	require.NoError(t, err)
	require.Equal(t, 1, report.Committed)
	require.Equal(t, 1, report.Failed)

	var rowErr *domain.RowError
	require.ErrorAs(t, report.Rows[1].Err, &rowErr)
	require.Equal(t, 3, rowErr.Line)
	require.Contains(t, rowErr.Reason, "repeated within import batch")

	p, err := eng.GetProvider(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Alice Chen", p.Name)
}

func TestImportCredentialsChecksReferences(t *testing.T) {
	ctx := context.Background()
	eng := seededEngine(t, Options{EnforceCredentials: true})

	input := "provider_id,client_id\n" +
		"1,1\n" +
		"1,42\n" +
		"42,1\n"

	report, err := eng.ImportCSV(ctx, domain.EntityCredentials, strings.NewReader(input), ImportBestEffort)
	require.NoError(t, err)
	require.Equal(t, 1, report.Committed)
	require.Equal(t, 2, report.Failed)

	var refErr *domain.ReferenceError
	require.ErrorAs(t, report.Rows[1].Err, &refErr)
	require.Equal(t, domain.EntityClients, refErr.Entity)
	require.ErrorAs(t, report.Rows[2].Err, &refErr)
	require.Equal(t, domain.EntityProviders, refErr.Entity)
}

func TestImportBestEffortReportsTypedErrors(t *testing.T) {
	ctx := context.Background()
	eng := seededEngine(t, Options{EnforceCredentials: true})

	input := shiftHeaderLine +
		"1,1,1,2024-01-05T12:00,2024-01-05T09:00,Day,end before start\n" +
		"2,42,1,2024-01-05T09:00,2024-01-05T12:00,Day,unknown provider\n" +
		"3,1,1,2024-01-05T09:00,2024-01-05T12:00,Day,\n"

	report, err := eng.ImportCSV(ctx, domain.EntityShifts, strings.NewReader(input), ImportBestEffort)
	require.NoError(t, err)
	require.Equal(t, 1, report.Committed)
	require.Equal(t, 2, report.Failed)

	var rangeErr *domain.TimeRangeError
	require.ErrorAs(t, report.Rows[0].Err, &rangeErr)
	var refErr *domain.ReferenceError
	require.ErrorAs(t, report.Rows[1].Err, &refErr)
	require.True(t, report.Rows[2].Committed)
}

func TestImportHeaderMismatchFailsWhole(t *testing.T) {
	eng := seededEngine(t, Options{EnforceCredentials: true})

	_, err := eng.ImportCSV(context.Background(), domain.EntityShifts, strings.NewReader("id,when\n1,noon\n"), ImportBestEffort)
	require.Error(t, err)
	require.Contains(t, err.Error(), "header mismatch")
}

func TestParseImportMode(t *testing.T) {
	mode, err := ParseImportMode("best_effort")
	require.NoError(t, err)
	require.Equal(t, ImportBestEffort, mode)

	mode, err = ParseImportMode("all_or_nothing")
	require.NoError(t, err)
	require.Equal(t, ImportAllOrNothing, mode)

	_, err = ParseImportMode("dry_run")
	require.Error(t, err)
}
