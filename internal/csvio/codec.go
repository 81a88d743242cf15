// Package csvio maps the four entity types to and from their canonical CSV
// schemas. Parsing is strict: the header row must match the schema exactly,
// every bad row is reported as a *domain.RowError without aborting the file,
// and datetimes are parsed with a fixed layout so that a parse/serialize
// round trip is byte-identical. The commit decision is left to the caller.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/staffos-dev/provider-scheduler/backend/internal/domain"
)

var (
	providerHeader   = []string{"provider_id", "provider_name", "specialty", "preferred_shift_start", "preferred_shift_end", "preferred_days"}
	clientHeader     = []string{"client_id", "client_name", "location"}
	credentialHeader = []string{"provider_id", "client_id"}
	shiftHeader      = []string{"shift_id", "provider_id", "client_id", "start_datetime", "end_datetime", "shift_type", "notes"}
)

type ProviderRow struct {
	Line     int
	Provider *domain.Provider
	Err      *domain.RowError
}

type ClientRow struct {
	Line   int
	Client *domain.Client
	Err    *domain.RowError
}

type CredentialRow struct {
	Line       int
	Credential *domain.Credential
	Err        *domain.RowError
}

type ShiftRow struct {
	Line  int
	Shift *domain.Shift
	Err   *domain.RowError
}

func newReader(r io.Reader, header []string) (*csv.Reader, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(header)

	got, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header row, want %q", strings.Join(header, ","))
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}
	for i := range header {
		if i >= len(got) || got[i] != header[i] {
			return nil, fmt.Errorf("header mismatch: got %q, want %q", strings.Join(got, ","), strings.Join(header, ","))
		}
	}

	return cr, nil
}

// readRecord reads the next data row and reports the physical line its first
// field starts on, so quoted multi-line fields do not skew later line numbers.
// A row with the wrong column count is reported as a *domain.RowError so
// parsing can continue; io.EOF and unreadable input are returned as-is.
func readRecord(cr *csv.Reader) ([]string, int, *domain.RowError, error) {
	record, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, nil, io.EOF
		}
		if errors.Is(err, csv.ErrFieldCount) {
			line, _ := cr.FieldPos(0)
			return nil, line, &domain.RowError{Line: line, Reason: fmt.Sprintf("expected %d columns, got %d", cr.FieldsPerRecord, len(record))}, nil
		}
		return nil, 0, nil, err
	}
	line, _ := cr.FieldPos(0)
	return record, line, nil, nil
}

func parseID(line int, column, value string) (int64, *domain.RowError) {
	if value == "" {
		return 0, &domain.RowError{Line: line, Column: column, Reason: "missing required field"}
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, &domain.RowError{Line: line, Column: column, Reason: fmt.Sprintf("identifier %q is not numeric", value)}
	}
	return id, nil
}

func parseDateTime(line int, column, value string) (time.Time, *domain.RowError) {
	if value == "" {
		return time.Time{}, &domain.RowError{Line: line, Column: column, Reason: "missing required field"}
	}
	t, err := time.Parse(domain.DateTimeLayout, value)
	if err != nil {
		return time.Time{}, &domain.RowError{Line: line, Column: column, Reason: fmt.Sprintf("datetime %q does not match layout %s", value, domain.DateTimeLayout)}
	}
	return t, nil
}

// parseTimeOfDay validates an optional "15:04" field.
func parseTimeOfDay(line int, column, value string) (string, *domain.RowError) {
	if value == "" {
		return "", nil
	}
	if _, err := time.Parse(domain.TimeOfDayLayout, value); err != nil {
		return "", &domain.RowError{Line: line, Column: column, Reason: fmt.Sprintf("time %q does not match layout %s", value, domain.TimeOfDayLayout)}
	}
	return value, nil
}

func requireField(line int, column, value string) *domain.RowError {
	if value == "" {
		return &domain.RowError{Line: line, Column: column, Reason: "missing required field"}
	}
	return nil
}

// ParseProviders yields one ProviderRow per data row, carrying either a
// record or a RowError. The returned error is non-nil only when the input
// itself is unreadable or the header does not match.
func ParseProviders(r io.Reader) ([]ProviderRow, error) {
	cr, err := newReader(r, providerHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]ProviderRow, 0)
	for {
		record, line, rowErr, err := readRecord(cr)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, err
		}
		if rowErr != nil {
			rows = append(rows, ProviderRow{Line: line, Err: rowErr})
			continue
		}

		p, rowErr := parseProviderRecord(line, record)
		rows = append(rows, ProviderRow{Line: line, Provider: p, Err: rowErr})
	}
}

func parseProviderRecord(line int, record []string) (*domain.Provider, *domain.RowError) {
	id, rowErr := parseID(line, "provider_id", record[0])
	if rowErr != nil {
		return nil, rowErr
	}
	if rowErr := requireField(line, "provider_name", record[1]); rowErr != nil {
		return nil, rowErr
	}
	start, rowErr := parseTimeOfDay(line, "preferred_shift_start", record[3])
	if rowErr != nil {
		return nil, rowErr
	}
	end, rowErr := parseTimeOfDay(line, "preferred_shift_end", record[4])
	if rowErr != nil {
		return nil, rowErr
	}
	days, err := domain.ParsePreferredDays(record[5])
	if err != nil {
		return nil, &domain.RowError{Line: line, Column: "preferred_days", Reason: err.Error()}
	}

	return &domain.Provider{
		ID:                  id,
		Name:                record[1],
		Specialty:           record[2],
		PreferredShiftStart: start,
		PreferredShiftEnd:   end,
		PreferredDays:       days,
	}, nil
}

func ParseClients(r io.Reader) ([]ClientRow, error) {
	cr, err := newReader(r, clientHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]ClientRow, 0)
	for {
		record, line, rowErr, err := readRecord(cr)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, err
		}
		if rowErr != nil {
			rows = append(rows, ClientRow{Line: line, Err: rowErr})
			continue
		}

		id, rowErr := parseID(line, "client_id", record[0])
		if rowErr == nil {
			rowErr = requireField(line, "client_name", record[1])
		}
		if rowErr != nil {
			rows = append(rows, ClientRow{Line: line, Err: rowErr})
			continue
		}

		rows = append(rows, ClientRow{Line: line, Client: &domain.Client{
			ID:       id,
			Name:     record[1],
			Location: record[2],
		}})
	}
}

func ParseCredentials(r io.Reader) ([]CredentialRow, error) {
	cr, err := newReader(r, credentialHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]CredentialRow, 0)
	for {
		record, line, rowErr, err := readRecord(cr)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, err
		}
		if rowErr != nil {
			rows = append(rows, CredentialRow{Line: line, Err: rowErr})
			continue
		}

		providerID, rowErr := parseID(line, "provider_id", record[0])
		if rowErr != nil {
			rows = append(rows, CredentialRow{Line: line, Err: rowErr})
			continue
		}
		clientID, rowErr := parseID(line, "client_id", record[1])
		if rowErr != nil {
			rows = append(rows, CredentialRow{Line: line, Err: rowErr})
			continue
		}

		rows = append(rows, CredentialRow{Line: line, Credential: &domain.Credential{
			ProviderID: providerID,
			ClientID:   clientID,
		}})
	}
}

func ParseShifts(r io.Reader) ([]ShiftRow, error) {
	cr, err := newReader(r, shiftHeader)
	if err != nil {
		return nil, err
	}

	rows := make([]ShiftRow, 0)
	for {
		record, line, rowErr, err := readRecord(cr)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, err
		}
		if rowErr != nil {
			rows = append(rows, ShiftRow{Line: line, Err: rowErr})
			continue
		}

		sh, rowErr := parseShiftRecord(line, record)
		rows = append(rows, ShiftRow{Line: line, Shift: sh, Err: rowErr})
	}
}

func parseShiftRecord(line int, record []string) (*domain.Shift, *domain.RowError) {
	id, rowErr := parseID(line, "shift_id", record[0])
	if rowErr != nil {
		return nil, rowErr
	}
	providerID, rowErr := parseID(line, "provider_id", record[1])
	if rowErr != nil {
		return nil, rowErr
	}
	clientID, rowErr := parseID(line, "client_id", record[2])
	if rowErr != nil {
		return nil, rowErr
	}
	start, rowErr := parseDateTime(line, "start_datetime", record[3])
	if rowErr != nil {
		return nil, rowErr
	}
	end, rowErr := parseDateTime(line, "end_datetime", record[4])
	if rowErr != nil {
		return nil, rowErr
	}

	return &domain.Shift{
		ID:         id,
		ProviderID: providerID,
		ClientID:   clientID,
		Start:      start,
		End:        end,
		ShiftType:  record[5],
		Notes:      record[6],
	}, nil
}

func WriteProviders(w io.Writer, providers []*domain.Provider) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(providerHeader); err != nil {
		return err
	}
	for _, p := range providers {
		record := []string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Specialty,
			p.PreferredShiftStart,
			p.PreferredShiftEnd,
			domain.FormatPreferredDays(p.PreferredDays),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteClients(w io.Writer, clients []*domain.Client) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(clientHeader); err != nil {
		return err
	}
	for _, c := range clients {
		if err := cw.Write([]string{strconv.FormatInt(c.ID, 10), c.Name, c.Location}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteCredentials(w io.Writer, credentials []*domain.Credential) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(credentialHeader); err != nil {
		return err
	}
	for _, c := range credentials {
		record := []string{
			strconv.FormatInt(c.ProviderID, 10),
			strconv.FormatInt(c.ClientID, 10),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteShifts(w io.Writer, shifts []*domain.Shift) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(shiftHeader); err != nil {
		return err
	}
	for _, sh := range shifts {
		record := []string{
			strconv.FormatInt(sh.ID, 10),
			strconv.FormatInt(sh.ProviderID, 10),
			strconv.FormatInt(sh.ClientID, 10),
			sh.Start.Format(domain.DateTimeLayout),
			sh.End.Format(domain.DateTimeLayout),
			sh.ShiftType,
			sh.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
