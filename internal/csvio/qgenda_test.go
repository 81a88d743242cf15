package csvio

import (
	"bytes"
	"testing"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestWriteQGenda(t *testing.T) {
	providers := map[int64]*domain.Provider{
		1: {ID: 1, Name: "Alice Chen"},
	}
	clients := map[int64]*domain.Client{
		1: {ID: 1, Name: "St. Mary Regional", Location: "Springfield"},
	}
	shifts := []*domain.Shift{
		{
			ID:         1,
			ProviderID: 1,
			ClientID:   1,
			Start:      mustTime(t, "2024-01-05T09:00"),
			End:        mustTime(t, "2024-01-05T17:00"),
			ShiftType:  "Day",
			Notes:      "room 4",
		},
		// references that resolve to nothing export with empty names
		{
			ID:         2,
			ProviderID: 9,
			ClientID:   9,
			Start:      mustTime(t, "2024-01-06T09:00"),
			End:        mustTime(t, "2024-01-06T17:00"),
			ShiftType:  "Day",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteQGenda(&buf, shifts, providers, clients))

	want := "StaffId,StaffName,TaskName,Location,Date,StartTime,EndTime,Notes\n" +
		"1,Alice Chen,Day,St. Mary Regional,01/05/2024,09:00,17:00,room 4\n" +
		"9,,Day,,01/06/2024,09:00,17:00,\n"
	require.Equal(t, want, buf.String())
}
