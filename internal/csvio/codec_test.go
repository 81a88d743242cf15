package csvio

import (
	"bytes"
	"strings"
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

func TestProvidersRoundTrip(t *testing.T) {
	providers := []*domain.Provider{
		{
			ID:                  1,
			Name:                "Alice Chen",
			Specialty:           "Hospitalist",
			PreferredShiftStart: "07:00",
			PreferredShiftEnd:   "19:00",
			PreferredDays:       []domain.Weekday{domain.Monday, domain.Wednesday, domain.Friday},
		},
		{
			ID:            2,
			Name:          "Brian Okafor",
			PreferredDays: []domain.Weekday{},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteProviders(&buf, providers))

	rows, err := ParseProviders(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for i, row := range rows {
		require.Nil(t, row.Err)
		require.Equal(t, providers[i], row.Provider)
	}
}

func TestClientsRoundTrip(t *testing.T) {
	clients := []*domain.Client{
		{ID: 1, Name: "St. Mary Regional", Location: "Springfield"},
		{ID: 2, Name: "Lakeside Medical Center", Location: ""},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteClients(&buf, clients))

	rows, err := ParseClients(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for i, row := range rows {
		require.Nil(t, row.Err)
		require.Equal(t, clients[i], row.Client)
	}
}

func TestCredentialsRoundTrip(t *testing.T) {
	credentials := []*domain.Credential{
		{ProviderID: 1, ClientID: 1},
		{ProviderID: 1, ClientID: 2},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCredentials(&buf, credentials))

	rows, err := ParseCredentials(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for i, row := range rows {
		require.Nil(t, row.Err)
		require.Equal(t, credentials[i], row.Credential)
	}
}

// Serializing parsed shifts must reproduce the input byte for byte,
// datetimes included.
func TestShiftsRoundTripByteIdentical(t *testing.T) {
	input := "shift_id,provider_id,client_id,start_datetime,end_datetime,shift_type,notes\n" +
		"1,1,1,2024-01-05T09:00,2024-01-05T12:00,Day,\n" +
		"2,2,1,2024-01-05T19:00,2024-01-06T07:00,Night,\"covers ICU, on call\"\n"

	rows, err := ParseShifts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	shifts := make([]*domain.Shift, 0, len(rows))
	for _, row := range rows {
		require.Nil(t, row.Err)
		shifts = append(shifts, row.Shift)
	}

	var buf bytes.Buffer
	require.NoError(t, WriteShifts(&buf, shifts))
	require.Equal(t, input, buf.String())
}

func TestParseShiftsBadRows(t *testing.T) {
	input := "shift_id,provider_id,client_id,start_datetime,end_datetime,shift_type,notes\n" +
		"1,1,1,2024-01-05T09:00,2024-01-05T12:00,Day,ok\n" +
		"abc,1,1,2024-01-05T09:00,2024-01-05T12:00,Day,bad id\n" +
		"3,1,1,05/01/2024 09:00,2024-01-05T12:00,Day,bad datetime\n" +
		"4,1,1,2024-01-05T09:00\n" +
		"5,1,1,,2024-01-05T12:00,Day,missing start\n"

	rows, err := ParseShifts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 5)

	require.Nil(t, rows[0].Err)
	require.Equal(t, int64(1), rows[0].Shift.ID)

	require.NotNil(t, rows[1].Err)
	require.Equal(t, 3, rows[1].Err.Line)
	require.Equal(t, "shift_id", rows[1].Err.Column)

	require.NotNil(t, rows[2].Err)
	require.Equal(t, "start_datetime", rows[2].Err.Column)

	require.NotNil(t, rows[3].Err)
	require.Equal(t, 5, rows[3].Err.Line)

	require.NotNil(t, rows[4].Err)
	require.Equal(t, "start_datetime", rows[4].Err.Column)
	require.Contains(t, rows[4].Err.Reason, "missing required field")
}

func TestParseProvidersBadRows(t *testing.T) {
	input := "provider_id,provider_name,specialty,preferred_shift_start,preferred_shift_end,preferred_days\n" +
		"1,Alice Chen,Hospitalist,07:00,19:00,Mon;Tue\n" +
		"2,,Hospitalist,07:00,19:00,\n" +
		"3,Carla Mendes,MedSurg,7am,19:00,\n" +
		"4,Dan Wu,ICU,07:00,19:00,Mon;Funday\n"

	rows, err := ParseProviders(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 4)

	require.Nil(t, rows[0].Err)
	require.Equal(t, "provider_name", rows[1].Err.Column)
	require.Equal(t, "preferred_shift_start", rows[2].Err.Column)
	require.Equal(t, "preferred_days", rows[3].Err.Column)
}

// A quoted field spanning physical lines must not skew the line numbers
// reported for later rows.
func TestParseLineNumbersSpanQuotedNewlines(t *testing.T) {
	input := "shift_id,provider_id,client_id,start_datetime,end_datetime,shift_type,notes\n" +
		"1,1,1,2024-01-05T09:00,2024-01-05T12:00,Day,\"first line\nsecond line\"\n" +
		"abc,1,1,2024-01-05T09:00,2024-01-05T12:00,Day,\n"

	rows, err := ParseShifts(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Nil(t, rows[0].Err)
	require.Equal(t, 2, rows[0].Line)

	// the quoted note occupies lines 2-3, so the bad row sits on line 4
	require.NotNil(t, rows[1].Err)
	require.Equal(t, 4, rows[1].Line)
	require.Equal(t, 4, rows[1].Err.Line)
}

func TestParseHeaderMismatch(t *testing.T) {
	_, err := ParseShifts(strings.NewReader("id,provider,client\n1,2,3\n"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "header mismatch")

	_, err = ParseProviders(strings.NewReader(""))
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing header row")
}

func TestParseReportsAllRowsAndErrors(t *testing.T) {
	// one bad row must not abort the file; later valid rows still parse
	input := "client_id,client_name,location\n" +
		"x,Bad Row,Nowhere\n" +
		"2,Lakeside Medical Center,Cedar Falls\n"

	rows, err := ParseClients(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.NotNil(t, rows[0].Err)
	require.Nil(t, rows[1].Err)
}
